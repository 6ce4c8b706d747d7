package body

import "errors"

// Failure kinds. None of them is retried for the current request.
var (
	// ErrMissingBody means no body was present where one was expected.
	ErrMissingBody = errors.New("missing body")

	// ErrMapFailed means a file-backed region could not be mapped.
	ErrMapFailed = errors.New("mapping file region failed")

	// ErrAllocFailed means the request arena refused an allocation.
	ErrAllocFailed = errors.New("arena allocation failed")
)

// Error reports a body pipeline failure. Kind is one of ErrMissingBody,
// ErrMapFailed or ErrAllocFailed, so callers can use errors.Is.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	msg := "body: " + e.Op + ": " + e.Kind.Error()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
