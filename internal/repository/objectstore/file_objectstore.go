package objectstore

import (
	"context"
	"errors"
	"io"
	"net/url"
	"path"
	"strings"

	"csvapi/internal/model"
	"csvapi/internal/repository"
	"csvapi/internal/storage"
)

const (
	keyPrefix   = "files/"
	nameMetaKey = "original-filename"
	contentType = "text/csv"
)

// FileObjects stores each record as one object in an S3-compatible bucket.
// The key is files/<file_id>.csv and the display name travels as user metadata.
type FileObjects struct {
	store storage.Storage
}

// NewFileObjects creates a repository over the given object storage client.
func NewFileObjects(store storage.Storage) *FileObjects {
	return &FileObjects{store: store}
}

var _ repository.FileRepository = (*FileObjects)(nil)

func (r *FileObjects) Insert(ctx context.Context, rec *model.FileRecord) error {
	_, err := r.store.Put(ctx, objectKey(rec.FileID), strings.NewReader(rec.Content), storage.PutObjectOptions{
		Size:        int64(len(rec.Content)),
		ContentType: contentType,
		Metadata:    map[string]string{nameMetaKey: url.PathEscape(rec.FileName)},
	})
	return repository.NewStorageError("insert", err)
}

func (r *FileObjects) ListAll(ctx context.Context) ([]model.FileRecord, error) {
	objs, err := r.store.List(ctx, keyPrefix)
	if err != nil {
		return nil, repository.NewStorageError("list", err)
	}

	items := make([]model.FileRecord, 0, len(objs))
	for _, obj := range objs {
		rec, err := r.read(ctx, obj.Key)
		if err != nil {
			// Deleted between List and Get.
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return nil, err
		}
		items = append(items, *rec)
	}
	return items, nil
}

func (r *FileObjects) FindOne(ctx context.Context, id string) (*model.FileRecord, error) {
	return r.read(ctx, objectKey(id))
}

// DeleteOne stats the object first because S3 deletes are idempotent and never report a missing key.
func (r *FileObjects) DeleteOne(ctx context.Context, id string) error {
	key := objectKey(id)
	if _, err := r.store.Stat(ctx, key); err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return repository.ErrNotFound
		}
		return repository.NewStorageError("delete", err)
	}
	return repository.NewStorageError("delete", r.store.Delete(ctx, key))
}

func (r *FileObjects) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}

func (r *FileObjects) read(ctx context.Context, key string) (*model.FileRecord, error) {
	body, info, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, repository.NewStorageError("find", err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, repository.NewStorageError("find", err)
	}
	return &model.FileRecord{
		FileID:   fileID(key),
		FileName: fileName(info.Metadata),
		Content:  string(data),
	}, nil
}

func objectKey(id string) string {
	return keyPrefix + id + ".csv"
}

func fileID(key string) string {
	return strings.TrimSuffix(path.Base(key), ".csv")
}

// fileName decodes the display name. S3 user metadata only carries ASCII, so it is stored percent-encoded.
func fileName(md map[string]string) string {
	v := metaValue(md, nameMetaKey)
	if name, err := url.PathUnescape(v); err == nil {
		return name
	}
	return v
}

// metaValue looks a user metadata key up case-insensitively; S3 backends canonicalize header names.
func metaValue(md map[string]string, key string) string {
	for k, v := range md {
		if strings.EqualFold(k, key) || strings.EqualFold(k, "X-Amz-Meta-"+key) {
			return v
		}
	}
	return ""
}
