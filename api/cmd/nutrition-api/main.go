package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nutrition-tracker/api/internal/analyzer"
	"nutrition-tracker/api/internal/bootstrap"
	"nutrition-tracker/api/internal/config"
	"nutrition-tracker/api/internal/handle"
	"nutrition-tracker/api/internal/httpserver"
	"nutrition-tracker/api/internal/logger"
)

func main() {
	cfg := config.Load()

	lg, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg, err := bootstrap.Registry(cfg, lg)
	if err != nil {
		lg.Fatal("llm registry", zap.Error(err))
	}
	lg.Info("llm engines ready",
		zap.Strings("engines", reg.Names()),
		zap.String("default", reg.Default().Name()),
		zap.String("model", reg.Default().GetModel()),
	)

	repo, closeRepo, err := bootstrap.Store(ctx, cfg, lg)
	if err != nil {
		lg.Fatal("store", zap.Error(err))
	}
	defer func() { _ = closeRepo() }()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	svc := analyzer.New(reg.Default(), analyzer.LoadPrompts(cfg.PromptDir), lg.Named("analyzer"))
	h := handle.New(svc, repo, lg.Named("http"), handle.Options{
		ParseErrorStatus: cfg.ParseErrorStatus,
		MaxImageBytes:    cfg.MaxImageBytes,
		// the image path makes two model calls
		Timeout: 3 * cfg.LLMTimeout,
	})
	router := h.NewRouter(handle.RouterConfig{Prefix: cfg.APIPrefix, CORSOrigins: cfg.CORSOrigins})

	lg.Info("nutrition api listening", zap.String("addr", cfg.Addr()), zap.String("prefix", cfg.APIPrefix))
	if err := httpserver.Run(ctx, cfg.Addr(), router, 10*time.Second, lg); err != nil {
		lg.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}
