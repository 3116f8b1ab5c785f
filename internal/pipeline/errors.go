package pipeline

import (
	"errors"
	"fmt"
)

var (
	ErrDirNotFound     = errors.New("the specified path does not exist")
	ErrUnsupportedFile = errors.New("the specified file is not a JPEG or PNG image")
	ErrDirEmpty        = errors.New("the directory is empty")
)

// InputError means the folder or image to analyze cannot be used at all.
// No output files are created when Run returns one.
type InputError struct {
	Path string
	Err  error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}
