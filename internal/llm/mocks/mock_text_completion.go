package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockTextCompletion struct {
	mock.Mock
}

func (m *MockTextCompletion) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}
