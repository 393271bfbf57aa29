package mocks

import (
	"context"
	"io"

	"csvapi/internal/model"
	"csvapi/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockFileService struct {
	mock.Mock
}

func (m *MockFileService) Upload(ctx context.Context, r io.Reader, fileName string) (string, error) {
	args := m.Called(ctx, r, fileName)
	return args.String(0), args.Error(1)
}

func (m *MockFileService) StoreFromPath(ctx context.Context, path, id, name string) error {
	args := m.Called(ctx, path, id, name)
	return args.Error(0)
}

func (m *MockFileService) List(ctx context.Context) ([]model.FileRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.FileRecord), args.Error(1)
}

func (m *MockFileService) Content(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MockFileService) Query(ctx context.Context, id, expr string) (*service.TextResult, error) {
	args := m.Called(ctx, id, expr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TextResult), args.Error(1)
}

func (m *MockFileService) Ask(ctx context.Context, id, question string) (*service.TextResult, error) {
	args := m.Called(ctx, id, question)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TextResult), args.Error(1)
}

func (m *MockFileService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
