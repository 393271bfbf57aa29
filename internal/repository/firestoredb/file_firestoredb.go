package firestoredb

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"csvapi/internal/model"
	"csvapi/internal/repository"
)

type fileDocument struct {
	FileID   string `firestore:"file_id"`
	FileName string `firestore:"file_name"`
	Content  string `firestore:"content"`
}

// FileFirestore is a Firestore implementation of repository.FileRepository.
// The file id doubles as the Firestore document id.
type FileFirestore struct {
	client     *firestore.Client
	collection string
}

// New opens a Firestore client for the given project and database.
func New(ctx context.Context, projectID, databaseID, collection string) (*FileFirestore, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, repository.NewStorageError("connect", err)
	}
	return NewFileFirestore(client, collection), nil
}

// NewFileFirestore wraps an existing client.
func NewFileFirestore(client *firestore.Client, collection string) *FileFirestore {
	return &FileFirestore{client: client, collection: collection}
}

var _ repository.FileRepository = (*FileFirestore)(nil)

func (r *FileFirestore) Insert(ctx context.Context, rec *model.FileRecord) error {
	doc := fileDocument{FileID: rec.FileID, FileName: rec.FileName, Content: rec.Content}
	if _, err := r.client.Collection(r.collection).Doc(rec.FileID).Create(ctx, doc); err != nil {
		return repository.NewStorageError("insert", err)
	}
	return nil
}

func (r *FileFirestore) ListAll(ctx context.Context) ([]model.FileRecord, error) {
	snaps, err := r.client.Collection(r.collection).Documents(ctx).GetAll()
	if err != nil {
		return nil, repository.NewStorageError("list", err)
	}

	items := make([]model.FileRecord, 0, len(snaps))
	for _, snap := range snaps {
		var doc fileDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, repository.NewStorageError("list", err)
		}
		items = append(items, toRecord(doc))
	}
	return items, nil
}

func (r *FileFirestore) FindOne(ctx context.Context, id string) (*model.FileRecord, error) {
	snap, err := r.client.Collection(r.collection).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, repository.ErrNotFound
		}
		return nil, repository.NewStorageError("find", err)
	}
	var doc fileDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, repository.NewStorageError("find", err)
	}
	rec := toRecord(doc)
	return &rec, nil
}

// DeleteOne uses an Exists precondition so a missing document is reported instead of ignored.
func (r *FileFirestore) DeleteOne(ctx context.Context, id string) error {
	_, err := r.client.Collection(r.collection).Doc(id).Delete(ctx, firestore.Exists)
	if err != nil {
		if isNotFound(err) {
			return repository.ErrNotFound
		}
		return repository.NewStorageError("delete", err)
	}
	return nil
}

func (r *FileFirestore) Ping(ctx context.Context) error {
	_, err := r.client.Collection(r.collection).Limit(1).Documents(ctx).GetAll()
	return err
}

// Close releases the underlying client.
func (r *FileFirestore) Close() error {
	return r.client.Close()
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

func toRecord(d fileDocument) model.FileRecord {
	return model.FileRecord{FileID: d.FileID, FileName: d.FileName, Content: d.Content}
}
