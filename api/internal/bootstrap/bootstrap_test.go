package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"nutrition-tracker/api/internal/config"
	"nutrition-tracker/api/internal/nutrition"
)

func TestRegistry(t *testing.T) {
	cfg := &config.Config{
		LLMProvider:       "gemini",
		OpenAIAPIKey:      "sk-1",
		OpenAIModel:       "gpt-3.5-turbo",
		OpenAIVisionModel: "gpt-4o-mini",
		GeminiAPIKey:      "g-1",
		GeminiModel:       "gemini-2.5-flash",
	}
	reg, err := Registry(cfg, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if reg.Default().Name() != "gemini" {
		t.Errorf("default = %s", reg.Default().Name())
	}
	if len(reg.Names()) != 2 {
		t.Errorf("names = %v", reg.Names())
	}

	cfg.GeminiAPIKey = ""
	if _, err := Registry(cfg, zap.NewNop()); err == nil {
		t.Error("expected error: default provider has no key")
	}
}

func TestStoreDrivers(t *testing.T) {
	ctx := context.Background()
	for _, driver := range []string{"memory", "sqlite"} {
		t.Run(driver, func(t *testing.T) {
			cfg := &config.Config{DBDriver: driver, SQLitePath: filepath.Join(t.TempDir(), "n.db")}
			repo, closeFn, err := Store(ctx, cfg, zap.NewNop())
			if err != nil {
				t.Fatal(err)
			}
			defer closeFn()
			rec, err := repo.Create(ctx, nutrition.Record{Description: "tea"})
			if err != nil {
				t.Fatal(err)
			}
			if _, err := repo.Get(ctx, rec.ID); err != nil {
				t.Errorf("Get: %v", err)
			}
		})
	}

	if _, closeFn, err := Store(ctx, &config.Config{DBDriver: "oracle"}, zap.NewNop()); err == nil || closeFn == nil {
		t.Error("expected error and non-nil close func")
	}
}
