package dump

import (
	"errors"
	"fmt"
)

// Failure kinds. Every one of them aborts the run.
var (
	ErrConnectionFailure    = errors.New("connection failure")
	ErrMetadataQueryFailure = errors.New("metadata query failure")
	ErrRowQueryFailure      = errors.New("row query failure")
	ErrRowDecodeFailure     = errors.New("row decode failure")
)

// TableError reports which table and which stage failed.
type TableError struct {
	Table TableRef
	Kind  error
	Err   error
}

func (e *TableError) Error() string {
	return fmt.Sprintf("table %s: %v: %v", e.Table, e.Kind, e.Err)
}

// Unwrap exposes both the failure kind and the underlying cause to errors.Is.
func (e *TableError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}
