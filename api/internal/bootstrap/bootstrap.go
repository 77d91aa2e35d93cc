// Package bootstrap wires the collaborators and the store from config for both entrypoints.
package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"nutrition-tracker/api/internal/config"
	"nutrition-tracker/api/internal/llm"
	"nutrition-tracker/api/internal/llm/gemini"
	"nutrition-tracker/api/internal/llm/openai"
	"nutrition-tracker/api/internal/store"
)

// Registry enables every provider that has an API key; LLM_PROVIDER picks the default.
func Registry(cfg *config.Config, log *zap.Logger) (*llm.Registry, error) {
	var clients []llm.Client
	if cfg.OpenAIAPIKey != "" {
		clients = append(clients, openai.New(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIVisionModel,
			openai.WithBaseURL(cfg.OpenAIBaseURL),
			openai.WithTimeout(cfg.LLMTimeout),
			openai.WithTemperature(cfg.LLMTemperature),
			openai.WithLogger(log.Named("openai")),
		))
	}
	if cfg.GeminiAPIKey != "" {
		clients = append(clients, gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.LLMTemperature, log.Named("gemini")))
	}
	return llm.NewRegistry(cfg.LLMProvider, clients...)
}

// Store opens the configured repository. The returned close func is never nil.
func Store(ctx context.Context, cfg *config.Config, log *zap.Logger) (store.Repository, func() error, error) {
	noop := func() error { return nil }
	switch cfg.DBDriver {
	case "memory":
		log.Warn("using in-memory store; records are lost on restart")
		return store.NewMemoryRepo(), noop, nil
	case "sqlite":
		db, err := store.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		repo, err := store.NewGormRepo(db)
		if err != nil {
			return nil, noop, err
		}
		log.Info("db connected", zap.String("driver", "sqlite"), zap.String("path", cfg.SQLitePath))
		return repo, repo.Close, nil
	case "postgres":
		db, err := store.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		repo, err := store.NewGormRepo(db)
		if err != nil {
			return nil, noop, err
		}
		log.Info("db connected", zap.String("driver", "postgres"), zap.String("dsn", config.SafeDSNSummary(cfg.DatabaseURL)))
		return repo, repo.Close, nil
	}
	return nil, noop, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
}
