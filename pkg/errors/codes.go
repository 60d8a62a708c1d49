package errors

// ErrorCode represents a standardized way to categorize different types of errors.
type ErrorCode string

// Base error codes represent the fundamental categories of failures that can
// occur across any software system. These codes provide the foundation layer
// of error classification.
const (
	// ErrorCodeIO represents failures in input/output operations across any
	// system boundary. This includes file system operations like creating
	// segment directories, writing posting files, renaming a finished
	// segment, or enumerating fields during discovery.
	ErrorCodeIO ErrorCode = "IO_ERROR"

	// ErrorCodeInvalidInput represents client-side errors where the provided
	// data doesn't meet the system's requirements or constraints. This
	// indicates problems with the request itself rather than system failures.
	ErrorCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// ErrorCodeInternal represents unexpected system failures that don't fit
	// into other categories. These indicate bugs, assertion failures, or
	// other programming errors that shouldn't occur during normal operation.
	ErrorCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Storage-specific error codes cover the failure modes of writing and
// reading the six on-disk segment files. They distinguish plain I/O
// failures from data that was read successfully but could not be decoded.
const (
	// ErrorCodeSegmentCorrupted indicates that a segment file's data has
	// been damaged or is in an inconsistent state: a bitmap that fails to
	// deserialize, a posting file shorter than its recorded lengths, or a
	// position offset pointing past the end of the position data.
	ErrorCodeSegmentCorrupted ErrorCode = "SEGMENT_CORRUPTED"

	// ErrorCodeTermOrder indicates that the term dictionary builder was
	// handed keys out of ascending byte order. The FST builder requires
	// strictly increasing keys, so this signals a contract violation in
	// the term map rather than a disk problem.
	ErrorCodeTermOrder ErrorCode = "TERM_ORDER_VIOLATION"

	// ErrorCodePermissionDenied indicates insufficient permissions to access
	// a resource. This is distinct from generic IO errors because it has a
	// specific resolution path: the user needs to adjust file or directory
	// permissions or run with elevated privileges.
	ErrorCodePermissionDenied ErrorCode = "PERMISSION_DENIED"

	// ErrorCodeDiskFull indicates that the storage device has run out of
	// space. This requires specific handling like cleanup operations or
	// alerting administrators.
	ErrorCodeDiskFull ErrorCode = "DISK_FULL"

	// ErrorCodeFilesystemReadonly indicates that the filesystem is mounted
	// read-only. This requires administrative intervention to remount the
	// filesystem with write permissions.
	ErrorCodeFilesystemReadonly ErrorCode = "FILESYSTEM_READONLY"
)

// Index-specific error codes address the reader side: discovering segment
// directories, opening their term dictionaries, and resolving lookups.
const (
	// ErrorCodeIndexClosed indicates an operation was attempted against an
	// index or field reader that has already been shut down.
	ErrorCodeIndexClosed ErrorCode = "INDEX_CLOSED"

	// ErrorCodeDictionaryOpen indicates that a segment's term dictionary
	// could not be memory-mapped or its footer failed validation.
	ErrorCodeDictionaryOpen ErrorCode = "DICTIONARY_OPEN_FAILURE"

	// ErrorCodeDocNotFound indicates a positional lookup referenced a
	// document id that is not present in the term's posting bitmap.
	ErrorCodeDocNotFound ErrorCode = "DOC_NOT_FOUND"
)
