package postgres

import (
	"context"
	"database/sql"
	"errors"

	"csvapi/internal/model"
	"csvapi/internal/repository"
)

// FilePostgres is a PostgreSQL implementation of repository.FileRepository.
// Each record is one row of csv_files; it uses database/sql with parameterized queries.
type FilePostgres struct {
	db *sql.DB
}

// NewFilePostgres creates a new FilePostgres repository.
func NewFilePostgres(db *sql.DB) *FilePostgres {
	return &FilePostgres{db: db}
}

var _ repository.FileRepository = (*FilePostgres)(nil)

// Insert adds a new row. Duplicate ids surface as a storage error from the primary key.
func (r *FilePostgres) Insert(ctx context.Context, rec *model.FileRecord) error {
	const q = `
		INSERT INTO csv_files (file_id, file_name, content)
		VALUES ($1, $2, $3)
	`
	if _, err := r.db.ExecContext(ctx, q, rec.FileID, rec.FileName, rec.Content); err != nil {
		return repository.NewStorageError("insert", err)
	}
	return nil
}

// ListAll returns all rows in insertion order.
func (r *FilePostgres) ListAll(ctx context.Context) ([]model.FileRecord, error) {
	const q = `
		SELECT file_id, file_name, content
		FROM csv_files
		ORDER BY created_at, file_id
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, repository.NewStorageError("list", err)
	}
	defer rows.Close()

	items := make([]model.FileRecord, 0)
	for rows.Next() {
		var rec model.FileRecord
		if err := rows.Scan(&rec.FileID, &rec.FileName, &rec.Content); err != nil {
			return nil, repository.NewStorageError("list", err)
		}
		items = append(items, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, repository.NewStorageError("list", err)
	}
	return items, nil
}

// FindOne fetches a single row by file id.
func (r *FilePostgres) FindOne(ctx context.Context, id string) (*model.FileRecord, error) {
	const q = `
		SELECT file_id, file_name, content
		FROM csv_files
		WHERE file_id = $1
	`
	var rec model.FileRecord
	err := r.db.QueryRowContext(ctx, q, id).Scan(&rec.FileID, &rec.FileName, &rec.Content)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, repository.NewStorageError("find", err)
	}
	return &rec, nil
}

// DeleteOne removes a row by file id and reports ErrNotFound when no row was affected.
func (r *FilePostgres) DeleteOne(ctx context.Context, id string) error {
	const q = `DELETE FROM csv_files WHERE file_id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return repository.NewStorageError("delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return repository.NewStorageError("delete", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *FilePostgres) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
