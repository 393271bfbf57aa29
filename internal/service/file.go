package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"csvapi/internal/llm"
	"csvapi/internal/model"
	"csvapi/internal/repository"
	"csvapi/internal/tabular"
)

var (
	ErrIDRequired       = errors.New("file id is required")
	ErrReaderNil        = errors.New("reader is nil")
	ErrInvalidExtension = errors.New("only CSV files are allowed")
	ErrMalformedContent = errors.New("stored content is not valid CSV")
)

// TextResult is the outcome of a query or a question. When Failed is set, Text is a
// displayable error message rather than an answer.
type TextResult struct {
	Text   string
	Failed bool
}

// FileService defines the use cases for uploaded CSV files.
type FileService interface {
	// Upload stages r in a temporary file and stores it under a new identifier.
	// fileName must end in ".csv"; it is kept as the record's display name.
	Upload(ctx context.Context, r io.Reader, fileName string) (string, error)

	// StoreFromPath reads the file at path and inserts it as a record.
	StoreFromPath(ctx context.Context, path, id, name string) error

	// List returns every stored record, content included.
	List(ctx context.Context) ([]model.FileRecord, error)

	// Content returns the record's content rendered as a table, or the raw text when it is not CSV.
	Content(ctx context.Context, id string) (string, error)

	// Query filters the record's rows with a pandas-style expression.
	Query(ctx context.Context, id, expr string) (*TextResult, error)

	// Ask answers a free-text question about the record with the language model.
	Ask(ctx context.Context, id, question string) (*TextResult, error)

	// Delete removes the record.
	Delete(ctx context.Context, id string) error
}

type Option func(*fileService)

// WithTempDir sets the directory uploads are staged in. Empty means os.TempDir.
func WithTempDir(dir string) Option {
	return func(s *fileService) { s.tmpDir = dir }
}

type fileService struct {
	repo   repository.FileRepository
	llm    llm.TextCompletion
	tmpDir string
	tracer trace.Tracer
}

// NewFileService constructs a new FileService.
func NewFileService(repo repository.FileRepository, completion llm.TextCompletion, opts ...Option) FileService {
	s := &fileService{
		repo:   repo,
		llm:    completion,
		tracer: otel.Tracer("csvapi/internal/service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *fileService) start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "FileService."+name, trace.WithAttributes(attrs...))
}

func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (s *fileService) Upload(ctx context.Context, r io.Reader, fileName string) (id string, err error) {
	ctx, span := s.start(ctx, "Upload", attribute.String("file.name", fileName))
	defer func() { finish(span, err) }()

	if r == nil {
		return "", ErrReaderNil
	}
	if !strings.HasSuffix(fileName, ".csv") {
		return "", ErrInvalidExtension
	}

	id = uuid.New().String()
	tmp, err := os.CreateTemp(s.tmpDir, "upload-*.csv")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", fmt.Errorf("stage upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("stage upload: %w", err)
	}

	if err := s.StoreFromPath(ctx, tmp.Name(), id, fileName); err != nil {
		return "", err
	}
	span.SetAttributes(attribute.String("file.id", id))
	return id, nil
}

func (s *fileService) StoreFromPath(ctx context.Context, path, id, name string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read staged file: %w", err)
	}
	return s.repo.Insert(ctx, &model.FileRecord{FileID: id, FileName: name, Content: string(data)})
}

func (s *fileService) List(ctx context.Context) (files []model.FileRecord, err error) {
	ctx, span := s.start(ctx, "List")
	defer func() { finish(span, err) }()

	return s.repo.ListAll(ctx)
}

func (s *fileService) find(ctx context.Context, id string) (*model.FileRecord, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	return s.repo.FindOne(ctx, id)
}

func (s *fileService) Content(ctx context.Context, id string) (text string, err error) {
	ctx, span := s.start(ctx, "Content", attribute.String("file.id", id))
	defer func() { finish(span, err) }()

	rec, err := s.find(ctx, id)
	if err != nil {
		return "", err
	}
	return tabular.Format(rec.Content), nil
}

func (s *fileService) Query(ctx context.Context, id, expr string) (res *TextResult, err error) {
	ctx, span := s.start(ctx, "Query", attribute.String("file.id", id))
	defer func() { finish(span, err) }()

	rec, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	table, err := tabular.Parse(rec.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedContent, err)
	}

	out, qerr := table.Query(expr)
	if qerr != nil {
		span.SetAttributes(attribute.Bool("query.failed", true))
		return &TextResult{Text: "Query error: " + qerr.Error(), Failed: true}, nil
	}
	return &TextResult{Text: out.String()}, nil
}

func (s *fileService) Ask(ctx context.Context, id, question string) (res *TextResult, err error) {
	ctx, span := s.start(ctx, "Ask", attribute.String("file.id", id))
	defer func() { finish(span, err) }()

	content, err := s.Content(ctx, id)
	if err != nil {
		return nil, err
	}

	answer, aerr := s.llm.Complete(ctx, buildPrompt(content, question))
	if aerr != nil {
		span.SetAttributes(attribute.Bool("ask.failed", true))
		return &TextResult{Text: "Error generating response: " + aerr.Error(), Failed: true}, nil
	}
	return &TextResult{Text: answer}, nil
}

func (s *fileService) Delete(ctx context.Context, id string) (err error) {
	ctx, span := s.start(ctx, "Delete", attribute.String("file.id", id))
	defer func() { finish(span, err) }()

	if id == "" {
		return ErrIDRequired
	}
	return s.repo.DeleteOne(ctx, id)
}
