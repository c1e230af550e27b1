package actuator

import "errors"

var (
	// ErrNotConfigured means neither a remote endpoint nor a device is set up.
	ErrNotConfigured = errors.New("no actuation strategy configured")
	// ErrUnsupported is returned by strategies that cannot pause or stop.
	ErrUnsupported = errors.New("operation not supported by actuation strategy")
)

// Error is a failed trigger, pause or stop. Error() is the bare message so
// it can be shown to staff as the order status.
type Error struct {
	Op  string
	Msg string
	Err error
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(op string, err error) *Error {
	return &Error{Op: op, Msg: err.Error(), Err: err}
}
