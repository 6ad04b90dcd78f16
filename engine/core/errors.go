package core

import (
	"errors"
	"fmt"
)

var (
	ErrFile      = errors.New("file error")
	ErrParse     = errors.New("parse error")
	ErrIntegrity = errors.New("integrity error")
	ErrReference = errors.New("reference error")
	ErrUnknown   = errors.New("unknown")
)

// FileError reports an asset that could not be opened or read.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("cannot read %s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

func (e *FileError) Is(target error) bool { return target == ErrFile }

// ParseError reports a token that did not match what the grammar expected
// at that point, including missing block markers and malformed numbers.
type ParseError struct {
	Path     string
	Line     int
	Expected string
	Found    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: expected %s, found %q", e.Path, e.Line, e.Expected, e.Found)
}

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// IntegrityError reports a declared count that does not match the number of
// records actually present, or two documents that disagree on a shared value.
type IntegrityError struct {
	Path     string
	Section  string
	Declared int
	Actual   int
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%s: %s: declared %d, found %d", e.Path, e.Section, e.Declared, e.Actual)
}

func (e *IntegrityError) Is(target error) bool { return target == ErrIntegrity }

// ReferenceError reports an index that points outside the range it refers into.
type ReferenceError struct {
	Path  string
	Kind  string
	Index int
	Limit int
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s: %s index %d out of range [0, %d)", e.Path, e.Kind, e.Index, e.Limit)
}

func (e *ReferenceError) Is(target error) bool { return target == ErrReference }
