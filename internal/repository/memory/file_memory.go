package memory

import (
	"context"
	"sync"

	"csvapi/internal/model"
	"csvapi/internal/repository"
)

// FileMemory keeps records in process memory in insertion order.
// It backs local development (STORE_DRIVER=memory) and tests; nothing survives a restart.
type FileMemory struct {
	mu      sync.RWMutex
	order   []string
	records map[string]model.FileRecord
}

// NewFileMemory creates an empty in-memory repository.
func NewFileMemory() *FileMemory {
	return &FileMemory{records: make(map[string]model.FileRecord)}
}

var _ repository.FileRepository = (*FileMemory)(nil)

func (r *FileMemory) Insert(_ context.Context, rec *model.FileRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[rec.FileID]; !ok {
		r.order = append(r.order, rec.FileID)
	}
	r.records[rec.FileID] = *rec
	return nil
}

func (r *FileMemory) ListAll(_ context.Context) ([]model.FileRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.FileRecord, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.records[id])
	}
	return out, nil
}

func (r *FileMemory) FindOne(_ context.Context, id string) (*model.FileRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &rec, nil
}

func (r *FileMemory) DeleteOne(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.records, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *FileMemory) Ping(context.Context) error { return nil }
