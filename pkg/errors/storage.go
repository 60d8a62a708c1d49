package errors

// StorageError is a specialized error type for segment file operations.
// It embeds baseError to inherit all the standard error functionality, then
// adds storage-specific fields that help pinpoint exactly where in the
// six-file segment layout a problem occurred.
type StorageError struct {
	*baseError
	field    string // Which field's segment was being written or read.
	segment  string // Segment directory name involved in the error.
	fileName string // Segment file basename (fst, docs, dox, pox, posx, posi).
	path     string // Full path of the file or directory that caused the issue.
}

// NewStorageError creates a new storage-specific error.
func NewStorageError(err error, code ErrorCode, msg string) *StorageError {
	return &StorageError{baseError: NewBaseError(err, code, msg)}
}

// WithField sets which index field's segment was involved in the error.
func (se *StorageError) WithField(field string) *StorageError {
	se.field = field
	return se
}

// WithSegment records the segment directory name involved in the error.
func (se *StorageError) WithSegment(segment string) *StorageError {
	se.segment = segment
	return se
}

// WithFileName captures which segment file was being processed when the
// error occurred.
func (se *StorageError) WithFileName(fileName string) *StorageError {
	se.fileName = fileName
	return se
}

// WithPath captures which path was being processed when the error occurred.
func (se *StorageError) WithPath(path string) *StorageError {
	se.path = path
	return se
}

// WithDetail adds contextual information while maintaining the StorageError type.
func (se *StorageError) WithDetail(key string, value any) *StorageError {
	se.baseError.WithDetail(key, value)
	return se
}

// Field returns the index field whose segment was involved.
func (se *StorageError) Field() string {
	return se.field
}

// Segment returns the segment directory name involved in the error.
func (se *StorageError) Segment() string {
	return se.segment
}

// FileName returns the name of the segment file that was being processed.
func (se *StorageError) FileName() string {
	return se.fileName
}

// Path returns the path that was being processed.
func (se *StorageError) Path() string {
	return se.path
}
