package main

import (
	"context"
	"fmt"
	"log/slog"

	"csvapi/internal/config"
	"csvapi/internal/database"
	"csvapi/internal/database/migration"
	"csvapi/internal/llm"
	"csvapi/internal/repository"
	"csvapi/internal/repository/firestoredb"
	"csvapi/internal/repository/memory"
	"csvapi/internal/repository/mongodb"
	"csvapi/internal/repository/objectstore"
	"csvapi/internal/repository/postgres"
	"csvapi/internal/storage"
)

type closeFunc func(context.Context) error

func closeNothing(context.Context) error { return nil }

// openStore builds the file repository selected by STORE_DRIVER together with the
// function that releases its connections.
func openStore(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (repository.FileRepository, closeFunc, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, err := database.NewMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, nil, err
		}
		repo := mongodb.NewFileMongo(client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection))
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, fmt.Errorf("ensure mongo indexes: %w", err)
		}
		return repo, client.Disconnect, nil

	case config.DriverPostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		if err := migration.EnsureMigrated(ctx, db, logger, cfg.Database.Host); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return postgres.NewFilePostgres(db), func(context.Context) error { return db.Close() }, nil

	case config.DriverFirestore:
		repo, err := firestoredb.New(ctx, cfg.Firestore.ProjectID, cfg.Firestore.DatabaseID, cfg.Firestore.Collection)
		if err != nil {
			return nil, nil, err
		}
		return repo, func(context.Context) error { return repo.Close() }, nil

	case config.DriverObjectStore:
		objects, err := storage.NewMinIO(cfg.MinIO)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize object storage: %w", err)
		}
		return objectstore.NewFileObjects(objects), closeNothing, nil

	case config.DriverMemory:
		logger.Warn("using in-memory store, files are lost on restart")
		return memory.NewFileMemory(), closeNothing, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

// newCompletion returns the Gemini client, or a provider that reports every call as
// unconfigured when no API key is set so the rest of the API keeps working.
func newCompletion(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (llm.TextCompletion, error) {
	if cfg.APIKey == "" {
		logger.Warn("GEMINI_API_KEY is not set, /ask will return error payloads")
		return llm.Unconfigured{}, nil
	}
	return llm.NewGemini(ctx, cfg.APIKey, llm.WithModel(cfg.Model))
}
