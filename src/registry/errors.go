package registry

import (
	"errors"
	"fmt"
)

var (
	ErrPush        = errors.New("push failed")
	ErrNoRegistry  = errors.New("no registry configured")
	ErrCredentials = errors.New("invalid credentials")
)

// PushError reports a reference that could not be published.
type PushError struct {
	Ref string
	Err error
}

func (e *PushError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrPush, e.Ref, e.Err)
}

func (e *PushError) Is(target error) bool { return target == ErrPush }

func (e *PushError) Unwrap() error { return e.Err }
