package repository

import (
	"context"

	"csvapi/internal/model"
)

// FileRepository is the document store adapter for uploaded CSV files.
// Implementations own persistence only: no parsing, formatting or validation happens here.
type FileRepository interface {
	// Insert stores a new record. No uniqueness check is performed; callers generate
	// identifiers that are unique at call time.
	Insert(ctx context.Context, rec *model.FileRecord) error

	// ListAll returns every record in the backend's natural order.
	// An empty store yields an empty, non-nil slice.
	ListAll(ctx context.Context) ([]model.FileRecord, error)

	// FindOne returns the record with the given identifier or ErrNotFound.
	FindOne(ctx context.Context, id string) (*model.FileRecord, error)

	// DeleteOne removes the record with the given identifier.
	// It returns ErrNotFound when nothing was deleted.
	DeleteOne(ctx context.Context, id string) error

	// Ping checks connectivity with the underlying store.
	Ping(ctx context.Context) error
}
