package service

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	llmMocks "csvapi/internal/llm/mocks"
	"csvapi/internal/model"
	"csvapi/internal/repository"
	"csvapi/internal/repository/memory"
	repoMocks "csvapi/internal/repository/mocks"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestFileService_Upload(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		fileName   string
		reader     io.Reader
		setupMocks func(mRepo *repoMocks.MockFileRepository)
		wantErr    error
		wantErrMsg string
	}{
		{
			name:     "happy path",
			fileName: "name.csv",
			reader:   strings.NewReader("a,b\n1,2\n3,4"),
			setupMocks: func(mRepo *repoMocks.MockFileRepository) {
				mRepo.On("Insert", mock.Anything, mock.MatchedBy(func(rec *model.FileRecord) bool {
					return rec.FileID != "" && rec.FileName == "name.csv" && rec.Content == "a,b\n1,2\n3,4"
				})).Return(nil)
			},
		},
		{
			name:       "invalid extension",
			fileName:   "name.txt",
			reader:     strings.NewReader("x"),
			setupMocks: func(mRepo *repoMocks.MockFileRepository) {},
			wantErr:    ErrInvalidExtension,
		},
		{
			name:       "extension is case sensitive",
			fileName:   "NAME.CSV",
			reader:     strings.NewReader("x"),
			setupMocks: func(mRepo *repoMocks.MockFileRepository) {},
			wantErr:    ErrInvalidExtension,
		},
		{
			name:       "nil reader",
			fileName:   "name.csv",
			setupMocks: func(mRepo *repoMocks.MockFileRepository) {},
			wantErr:    ErrReaderNil,
		},
		{
			name:       "read failure",
			fileName:   "name.csv",
			reader:     failingReader{},
			setupMocks: func(mRepo *repoMocks.MockFileRepository) {},
			wantErrMsg: "stage upload: connection reset",
		},
		{
			name:     "storage error",
			fileName: "name.csv",
			reader:   strings.NewReader("a\n1"),
			setupMocks: func(mRepo *repoMocks.MockFileRepository) {
				mRepo.On("Insert", mock.Anything, mock.Anything).
					Return(repository.NewStorageError("insert", errors.New("db down")))
			},
			wantErrMsg: "storage insert: db down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			mRepo := new(repoMocks.MockFileRepository)
			tt.setupMocks(mRepo)
			svc := NewFileService(mRepo, nil, WithTempDir(dir))

			id, err := svc.Upload(ctx, tt.reader, tt.fileName)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantErrMsg != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
			default:
				require.NoError(t, err)
				assert.Len(t, id, 36)
			}

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Empty(t, entries, "staged upload must be removed")
			mRepo.AssertExpectations(t)
		})
	}
}

func TestFileService_StoreFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "staged.csv")
	require.NoError(t, os.WriteFile(path, []byte("x,y\n1,2\n"), 0o600))

	repo := memory.NewFileMemory()
	svc := NewFileService(repo, nil)

	require.NoError(t, svc.StoreFromPath(context.Background(), path, "id-1", "data.csv"))
	rec, err := repo.FindOne(context.Background(), "id-1")
	require.NoError(t, err)
	assert.Equal(t, model.FileRecord{FileID: "id-1", FileName: "data.csv", Content: "x,y\n1,2\n"}, *rec)

	err = svc.StoreFromPath(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), "id-2", "x.csv")
	assert.ErrorContains(t, err, "read staged file")
}

func TestFileService_Content(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewFileMemory()
	require.NoError(t, repo.Insert(ctx, &model.FileRecord{FileID: "csv", FileName: "a.csv", Content: "a,b\n1,2\n3,4"}))
	require.NoError(t, repo.Insert(ctx, &model.FileRecord{FileID: "junk", FileName: "j.csv", Content: "just some \"text"}))
	svc := NewFileService(repo, nil)

	got, err := svc.Content(ctx, "csv")
	require.NoError(t, err)
	assert.Equal(t, "a  b\n1  2\n3  4", got)

	got, err = svc.Content(ctx, "junk")
	require.NoError(t, err)
	assert.Equal(t, "just some \"text", got)

	_, err = svc.Content(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = svc.Content(ctx, "")
	assert.ErrorIs(t, err, ErrIDRequired)
}

func TestFileService_Query(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewFileMemory()
	require.NoError(t, repo.Insert(ctx, &model.FileRecord{FileID: "csv", FileName: "a.csv", Content: "a,b\n1,2\n3,4"}))
	require.NoError(t, repo.Insert(ctx, &model.FileRecord{FileID: "bad", FileName: "b.csv", Content: "a,b\n1,2,3"}))
	svc := NewFileService(repo, nil)

	tests := []struct {
		name       string
		id         string
		expr       string
		want       *TextResult
		wantPrefix string
		wantErr    error
	}{
		{name: "match", id: "csv", expr: "a > 2", want: &TextResult{Text: "   a  b\n1  3  4"}},
		{name: "no match", id: "csv", expr: "a > 9", want: &TextResult{Text: "Empty DataFrame\nColumns: [a, b]\nIndex: []"}},
		{name: "syntax error", id: "csv", expr: "(a > 2", wantPrefix: "Query error: "},
		{name: "unknown column", id: "csv", expr: "c == 1", want: &TextResult{Text: "Query error: name 'c' is not defined", Failed: true}},
		{name: "not found", id: "missing", expr: "a > 2", wantErr: repository.ErrNotFound},
		{name: "malformed content", id: "bad", expr: "a > 2", wantErr: ErrMalformedContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.Query(ctx, tt.id, tt.expr)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, res)
				return
			}
			require.NoError(t, err)
			if tt.wantPrefix != "" {
				assert.True(t, res.Failed)
				assert.True(t, strings.HasPrefix(res.Text, tt.wantPrefix), res.Text)
				return
			}
			assert.Equal(t, tt.want, res)
		})
	}
}

func TestFileService_Ask(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewFileMemory()
	require.NoError(t, repo.Insert(ctx, &model.FileRecord{FileID: "csv", FileName: "a.csv", Content: "a,b\n1,2\n3,4"}))

	t.Run("answer", func(t *testing.T) {
		mLLM := new(llmMocks.MockTextCompletion)
		mLLM.On("Complete", mock.Anything, mock.MatchedBy(func(prompt string) bool {
			return strings.Contains(prompt, "a  b\n1  2\n3  4") &&
				strings.Contains(prompt, "answer the following question:\nwhat is the sum of a?")
		})).Return("The sum of a is 4.", nil)

		res, err := NewFileService(repo, mLLM).Ask(ctx, "csv", "what is the sum of a?")
		require.NoError(t, err)
		assert.Equal(t, &TextResult{Text: "The sum of a is 4."}, res)
		mLLM.AssertExpectations(t)
	})

	t.Run("provider failure becomes payload", func(t *testing.T) {
		mLLM := new(llmMocks.MockTextCompletion)
		mLLM.On("Complete", mock.Anything, mock.Anything).Return("", errors.New("deadline exceeded"))

		res, err := NewFileService(repo, mLLM).Ask(ctx, "csv", "q")
		require.NoError(t, err)
		assert.Equal(t, &TextResult{Text: "Error generating response: deadline exceeded", Failed: true}, res)
	})

	t.Run("not found", func(t *testing.T) {
		mLLM := new(llmMocks.MockTextCompletion)
		_, err := NewFileService(repo, mLLM).Ask(ctx, "missing", "q")
		assert.ErrorIs(t, err, repository.ErrNotFound)
		mLLM.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
	})
}

func TestFileService_Delete(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewFileMemory()
	require.NoError(t, repo.Insert(ctx, &model.FileRecord{FileID: "x", FileName: "x.csv", Content: "a\n1"}))
	svc := NewFileService(repo, nil)

	require.NoError(t, svc.Delete(ctx, "x"))
	assert.ErrorIs(t, svc.Delete(ctx, "x"), repository.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, ""), ErrIDRequired)

	_, err := svc.Content(ctx, "x")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	files, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestFileService_ListPropagatesErrors(t *testing.T) {
	mRepo := new(repoMocks.MockFileRepository)
	mRepo.On("ListAll", mock.Anything).Return(nil, repository.NewStorageError("list", errors.New("timeout")))

	_, err := NewFileService(mRepo, nil).List(context.Background())
	var serr *repository.StorageError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "list", serr.Op)
}

func TestBuildPrompt(t *testing.T) {
	got := buildPrompt("a\n1", "what about {csv_content}?")
	assert.Contains(t, got, "Below is the content of a CSV file:\n\na\n1\n\n")
	assert.Contains(t, got, "what about {csv_content}?")
}
