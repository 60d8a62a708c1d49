package errors

// IndexError provides specialized error handling for reader-side operations:
// segment discovery, term dictionary opening, and term or position lookups.
// It extends the base error system with index-specific context while
// supporting method chaining through all base error methods.
type IndexError struct {
	*baseError

	// Identifies which field reader was active when the error occurred.
	field string

	// Identifies which segment (by its <uuid>.<offset>.<count> directory
	// name) was involved, if applicable. This correlates reader errors with specific segment
	// directories on disk.
	segment string

	// Describes the operation being performed when the error occurred
	// (e.g. "Reload", "Docs", "Positions").
	operation string

	// The term bytes being resolved, when the failure happened during a
	// lookup. Stored as a string for readable log output.
	term string
}

// NewIndexError creates a new index-specific error with the provided context.
func NewIndexError(err error, code ErrorCode, msg string) *IndexError {
	return &IndexError{baseError: NewBaseError(err, code, msg)}
}

// WithMessage updates the error message while maintaining the IndexError type.
func (ie *IndexError) WithMessage(msg string) *IndexError {
	ie.baseError.WithMessage(msg)
	return ie
}

// WithCode sets the error code while preserving the IndexError type.
func (ie *IndexError) WithCode(code ErrorCode) *IndexError {
	ie.baseError.WithCode(code)
	return ie
}

// WithDetail adds contextual information while maintaining the IndexError type.
func (ie *IndexError) WithDetail(key string, value any) *IndexError {
	ie.baseError.WithDetail(key, value)
	return ie
}

// WithField records which field reader was active when the error occurred.
func (ie *IndexError) WithField(field string) *IndexError {
	ie.field = field
	return ie
}

// WithSegment captures which segment was involved in the error.
func (ie *IndexError) WithSegment(segment string) *IndexError {
	ie.segment = segment
	return ie
}

// WithOperation records what reader operation was being performed.
func (ie *IndexError) WithOperation(operation string) *IndexError {
	ie.operation = operation
	return ie
}

// WithTerm records the term being resolved when the error occurred.
func (ie *IndexError) WithTerm(term string) *IndexError {
	ie.term = term
	return ie
}

// Field returns the field reader that was active when the error occurred.
func (ie *IndexError) Field() string {
	return ie.field
}

// Segment returns the segment identifier associated with the error.
func (ie *IndexError) Segment() string {
	return ie.segment
}

// Operation returns the name of the operation that was being performed.
func (ie *IndexError) Operation() string {
	return ie.operation
}

// Term returns the term that was being resolved.
func (ie *IndexError) Term() string {
	return ie.term
}
