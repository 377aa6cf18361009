package config

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("configuration file not found")
	ErrParse    = errors.New("malformed configuration file")
)

// NotFoundError reports a configuration path that does not exist. Callers
// may recover from it by writing the sample configuration to Path.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", ErrNotFound, e.Path)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ParseError reports a configuration file that does not match the schema.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s %s: %v", ErrParse, e.Path, e.Err)
}

func (e *ParseError) Is(target error) bool { return target == ErrParse }

func (e *ParseError) Unwrap() error { return e.Err }
