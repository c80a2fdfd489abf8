package presentation

import "errors"

var (
	// ErrNotFound means the backing document for an item does not exist.
	ErrNotFound = errors.New("repository item not found")

	// ErrInvalidID means an identifier could not be routed or decoded.
	ErrInvalidID = errors.New("invalid item identifier")

	// ErrDegradedImage means an image's dimensions could not be resolved.
	ErrDegradedImage = errors.New("image unavailable")

	// ErrMalformedSource means a structure map is missing an expected node.
	ErrMalformedSource = errors.New("malformed source document")

	// ErrBackendUnavailable means a required backend lookup failed.
	ErrBackendUnavailable = errors.New("repository backend unavailable")
)

// Error records a failed item operation.
type Error struct {
	Op  string // operation, e.g. "Pages"
	Err error  // underlying error, usually one of the sentinels above
	Msg string // optional detail
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Op + ": " + e.Msg + ": " + e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound returns an ErrNotFound error for op.
func NotFound(op, msg string) error {
	return &Error{Op: op, Err: ErrNotFound, Msg: msg}
}
