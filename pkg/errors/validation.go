package errors

// ValidationError represents failures in input validation: a nil
// configuration, an empty index path, a document batch that violates the
// builder's contract. It captures which value failed, what rule was
// violated, and what was actually provided, so callers can report the
// problem precisely instead of echoing a generic message.
type ValidationError struct {
	*baseError
	fieldName string // Name of the parameter or field that failed validation.
	rule      string // The validation rule that was violated (e.g. "required", "non-empty").
	provided  any    // The value that was actually provided by the caller.
}

// NewValidationError creates a new validation-specific error.
func NewValidationError(err error, code ErrorCode, msg string) *ValidationError {
	return &ValidationError{baseError: NewBaseError(err, code, msg)}
}

// WithField records which parameter or field failed validation.
func (ve *ValidationError) WithField(name string) *ValidationError {
	ve.fieldName = name
	return ve
}

// WithRule records the validation rule that was violated.
func (ve *ValidationError) WithRule(rule string) *ValidationError {
	ve.rule = rule
	return ve
}

// WithProvided captures the value the caller actually supplied.
func (ve *ValidationError) WithProvided(value any) *ValidationError {
	ve.provided = value
	return ve
}

// WithDetail adds contextual information while maintaining the ValidationError type.
func (ve *ValidationError) WithDetail(key string, value any) *ValidationError {
	ve.baseError.WithDetail(key, value)
	return ve
}

// FieldName returns the name of the parameter that failed validation.
func (ve *ValidationError) FieldName() string {
	return ve.fieldName
}

// Rule returns the validation rule that was violated.
func (ve *ValidationError) Rule() string {
	return ve.rule
}

// Provided returns the value the caller supplied.
func (ve *ValidationError) Provided() any {
	return ve.provided
}
