package build

import (
	"errors"
	"fmt"
)

var (
	ErrIncomplete   = errors.New("incomplete build context")
	ErrTemplateInit = errors.New("template initialization failed")
	ErrWrite        = errors.New("writing build inputs failed")
	ErrBuild        = errors.New("nix build failed")
	ErrLockPersist  = errors.New("persisting lock file failed")
	ErrToolNotFound = errors.New("external tool could not be started")
	ErrToolFailed   = errors.New("external tool reported failure")
)

// IncompleteError names a required Builder input that was never set.
type IncompleteError struct {
	Field string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("%s: missing required field %s", ErrIncomplete, e.Field)
}

func (e *IncompleteError) Is(target error) bool { return target == ErrIncomplete }
