// Package repository persists learners and their activity in flat CSV
// tables, one file per entity.
//
// Every exported operation returns its documented safe-failure value
// (an empty slice, false, or a zero id) together with an error, so a
// caller that ignores the error still gets a usable result. Failures
// are also logged where they happen.
package repository

import (
	"errors"
	"fmt"
)

// ErrUserNotFound is returned by a profile update whose email matches
// no row. Handlers should translate this into an HTTP 404 response.
var ErrUserNotFound = errors.New("user not found")

// StorageError describes a failed read or rewrite of one table.
type StorageError struct {
	Op    string // "load", "save", "update"
	Table string // table name, e.g. "roadmaps"
	Err   error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Table, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
