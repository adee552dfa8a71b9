package directory

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork means the request could not be sent or the response not received.
	ErrNetwork = errors.New("network failure")
	// ErrDecode means the response body was not in the expected shape.
	ErrDecode = errors.New("decode failure")
)

// Error is returned by every Client operation.
type Error struct {
	Op   string
	Kind error // ErrNetwork or ErrDecode
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func networkErr(op string, err error) error {
	return &Error{Op: op, Kind: ErrNetwork, Err: err}
}

func decodeErr(op string, err error) error {
	return &Error{Op: op, Kind: ErrDecode, Err: err}
}
