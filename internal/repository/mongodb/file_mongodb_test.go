package mongodb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"csvapi/internal/model"
	"csvapi/internal/repository"
)

func TestFileMongo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("insert", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewFileMongo(mt.Coll)

		err := repo.Insert(ctx, &model.FileRecord{FileID: "id-1", FileName: "name.csv", Content: "a,b\n1,2"})
		assert.NoError(mt, err)
	})

	mt.Run("insert write error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))
		repo := NewFileMongo(mt.Coll)

		err := repo.Insert(ctx, &model.FileRecord{FileID: "id-1"})

		var se *repository.StorageError
		require.ErrorAs(mt, err, &se)
		assert.Equal(mt, "insert", se.Op)
	})

	mt.Run("list all", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		first := mtest.CreateCursorResponse(1, ns, mtest.FirstBatch,
			bson.D{{Key: "file_id", Value: "id-1"}, {Key: "file_name", Value: "one.csv"}, {Key: "content", Value: "a\n1"}},
		)
		second := mtest.CreateCursorResponse(0, ns, mtest.NextBatch,
			bson.D{{Key: "file_id", Value: "id-2"}, {Key: "file_name", Value: "two.csv"}, {Key: "content", Value: "b\n2"}},
		)
		mt.AddMockResponses(first, second)
		repo := NewFileMongo(mt.Coll)

		recs, err := repo.ListAll(ctx)

		require.NoError(mt, err)
		require.Len(mt, recs, 2)
		assert.Equal(mt, model.FileRecord{FileID: "id-1", FileName: "one.csv", Content: "a\n1"}, recs[0])
		assert.Equal(mt, "two.csv", recs[1].FileName)
	})

	mt.Run("list empty", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		repo := NewFileMongo(mt.Coll)

		recs, err := repo.ListAll(ctx)

		require.NoError(mt, err)
		assert.NotNil(mt, recs)
		assert.Empty(mt, recs)
	})

	mt.Run("find one", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "file_id", Value: "id-1"}, {Key: "file_name", Value: "one.csv"}, {Key: "content", Value: "a\n1"}},
		))
		repo := NewFileMongo(mt.Coll)

		rec, err := repo.FindOne(ctx, "id-1")

		require.NoError(mt, err)
		assert.Equal(mt, "a\n1", rec.Content)
	})

	mt.Run("find one missing", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		repo := NewFileMongo(mt.Coll)

		_, err := repo.FindOne(ctx, "missing")

		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})

	mt.Run("delete one", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		repo := NewFileMongo(mt.Coll)

		assert.NoError(mt, repo.DeleteOne(ctx, "id-1"))
	})

	mt.Run("delete one missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))
		repo := NewFileMongo(mt.Coll)

		assert.ErrorIs(mt, repo.DeleteOne(ctx, "missing"), repository.ErrNotFound)
	})

	mt.Run("delete command error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Message: "bad value",
			Name:    "BadValue",
		}))
		repo := NewFileMongo(mt.Coll)

		err := repo.DeleteOne(ctx, "id-1")

		var se *repository.StorageError
		assert.ErrorAs(mt, err, &se)
	})
}
