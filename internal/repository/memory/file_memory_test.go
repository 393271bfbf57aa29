package memory

import (
	"context"
	"testing"

	"csvapi/internal/model"
	"csvapi/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileMemory(t *testing.T) {
	ctx := context.Background()
	repo := NewFileMemory()

	t.Run("empty list", func(t *testing.T) {
		recs, err := repo.ListAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, recs)
		assert.Empty(t, recs)
	})

	t.Run("insert keeps order", func(t *testing.T) {
		require.NoError(t, repo.Insert(ctx, &model.FileRecord{FileID: "1", FileName: "a.csv", Content: "a\n1"}))
		require.NoError(t, repo.Insert(ctx, &model.FileRecord{FileID: "2", FileName: "b.csv", Content: "b\n2"}))

		recs, err := repo.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, recs, 2)
		assert.Equal(t, "a.csv", recs[0].FileName)
		assert.Equal(t, "b.csv", recs[1].FileName)
	})

	t.Run("find", func(t *testing.T) {
		rec, err := repo.FindOne(ctx, "2")
		require.NoError(t, err)
		assert.Equal(t, "b\n2", rec.Content)

		_, err = repo.FindOne(ctx, "missing")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.DeleteOne(ctx, "1"))
		assert.ErrorIs(t, repo.DeleteOne(ctx, "1"), repository.ErrNotFound)

		recs, err := repo.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, "2", recs[0].FileID)
	})
}
