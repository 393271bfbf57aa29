package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"csvapi/internal/model"
	"csvapi/internal/repository"
)

// fileDocument is the persisted shape: {file_id, file_name, content}.
type fileDocument struct {
	FileID   string `bson:"file_id"`
	FileName string `bson:"file_name"`
	Content  string `bson:"content"`
}

// FileMongo is a MongoDB implementation of repository.FileRepository.
// One document per file in a single collection, looked up by file_id.
type FileMongo struct {
	coll *mongo.Collection
}

// NewFileMongo creates a repository over the given collection.
func NewFileMongo(coll *mongo.Collection) *FileMongo {
	return &FileMongo{coll: coll}
}

var _ repository.FileRepository = (*FileMongo)(nil)

// EnsureIndexes creates the unique file_id index used by every lookup.
func (r *FileMongo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "file_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("file_id_unique"),
	})
	if err != nil {
		return repository.NewStorageError("create index", err)
	}
	return nil
}

func (r *FileMongo) Insert(ctx context.Context, rec *model.FileRecord) error {
	doc := fileDocument{FileID: rec.FileID, FileName: rec.FileName, Content: rec.Content}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return repository.NewStorageError("insert", err)
	}
	return nil
}

func (r *FileMongo) ListAll(ctx context.Context) ([]model.FileRecord, error) {
	opts := options.Find().SetProjection(bson.D{
		{Key: "_id", Value: 0},
		{Key: "file_id", Value: 1},
		{Key: "file_name", Value: 1},
		{Key: "content", Value: 1},
	})
	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, repository.NewStorageError("list", err)
	}
	var docs []fileDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, repository.NewStorageError("list", err)
	}

	items := make([]model.FileRecord, 0, len(docs))
	for _, d := range docs {
		items = append(items, toRecord(d))
	}
	return items, nil
}

func (r *FileMongo) FindOne(ctx context.Context, id string) (*model.FileRecord, error) {
	var doc fileDocument
	err := r.coll.FindOne(ctx, byID(id)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, repository.NewStorageError("find", err)
	}
	rec := toRecord(doc)
	return &rec, nil
}

func (r *FileMongo) DeleteOne(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, byID(id))
	if err != nil {
		return repository.NewStorageError("delete", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *FileMongo) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, readpref.Primary())
}

func byID(id string) bson.D {
	return bson.D{{Key: "file_id", Value: id}}
}

func toRecord(d fileDocument) model.FileRecord {
	return model.FileRecord{FileID: d.FileID, FileName: d.FileName, Content: d.Content}
}
