// Package repository contains the data access layer for file records.
// Backends live in subpackages (mongodb, postgres, firestoredb, objectstore, memory).
package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no record matches the requested identifier.
var ErrNotFound = errors.New("file not found")

// StorageError reports a failed operation against the underlying store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// NewStorageError wraps err as a StorageError for op. A nil err stays nil.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
