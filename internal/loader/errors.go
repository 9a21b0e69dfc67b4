package loader

import "fmt"

// NotFoundError is returned when an input path does not exist.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("document not found: %s", e.Path)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// EncodingError is returned when a file's content cannot be decoded as text.
// Offset is the byte offset of the first offending byte, or -1 when the
// problem is not tied to a position.
type EncodingError struct {
	Path   string
	Offset int
	Reason string
	Err    error
}

func (e *EncodingError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("cannot decode %s as text: %s at byte %d", e.Path, e.Reason, e.Offset)
	}
	return fmt.Sprintf("cannot decode %s as text: %s", e.Path, e.Reason)
}

func (e *EncodingError) Unwrap() error { return e.Err }
