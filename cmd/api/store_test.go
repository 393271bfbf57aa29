package main

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csvapi/internal/config"
	"csvapi/internal/llm"
	"csvapi/internal/repository/memory"
)

func TestOpenStore(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))

	t.Run("memory", func(t *testing.T) {
		repo, closeStore, err := openStore(context.Background(), &config.AppConfig{StoreDriver: config.DriverMemory}, logger)
		require.NoError(t, err)
		assert.IsType(t, &memory.FileMemory{}, repo)
		assert.NoError(t, closeStore(context.Background()))
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, _, err := openStore(context.Background(), &config.AppConfig{StoreDriver: "cassandra"}, logger)
		assert.EqualError(t, err, `unknown store driver "cassandra"`)
	})

	t.Run("mongo without uri", func(t *testing.T) {
		_, _, err := openStore(context.Background(), &config.AppConfig{StoreDriver: config.DriverMongo}, logger)
		assert.Error(t, err)
	})

	t.Run("objectstore without endpoint", func(t *testing.T) {
		_, _, err := openStore(context.Background(), &config.AppConfig{StoreDriver: config.DriverObjectStore}, logger)
		assert.ErrorContains(t, err, "minio endpoint is required")
	})
}

func TestNewCompletion(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	completion, err := newCompletion(context.Background(), config.LLMConfig{}, logger)
	require.NoError(t, err)
	assert.IsType(t, llm.Unconfigured{}, completion)
	assert.Contains(t, buf.String(), "GEMINI_API_KEY is not set")

	completion, err = newCompletion(context.Background(), config.LLMConfig{APIKey: "test-key", Model: "gemini-2.5-flash"}, logger)
	require.NoError(t, err)
	gemini, ok := completion.(*llm.Gemini)
	require.True(t, ok)
	assert.Equal(t, "gemini-2.5-flash", gemini.Model())
}
