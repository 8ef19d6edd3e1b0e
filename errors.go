package main

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrCourseNotFound    = errors.New("course not found")
	ErrSourceUnavailable = errors.New("course source unavailable")
	ErrMalformedRecord   = errors.New("malformed course record")
)

// NotFoundError is returned by lookups for a CRN that is not stored.
type NotFoundError struct {
	CRN int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("course not found: CRN %d", e.CRN)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrCourseNotFound
}

// MalformedRecordError reports the first line of a bulk load that could
// not be parsed into a course. Line numbers start at 1.
type MalformedRecordError struct {
	Line int
	Text string
	Err  error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("line %d: malformed course record %q: %v", e.Line, e.Text, e.Err)
}

func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}
