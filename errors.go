package swrcache

import "errors"

// ErrWaitTimeout is reported to observers when Get gives up waiting for
// data after MaxWait.
var ErrWaitTimeout = errors.New("swrcache: timed out waiting for data")

type refreshFailure struct {
	err error
}

func (f refreshFailure) Error() string {
	return "refresh failed: " + f.err.Error()
}

func (f refreshFailure) Unwrap() error {
	return f.err
}
