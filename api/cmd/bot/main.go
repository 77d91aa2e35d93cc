package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"nutrition-tracker/api/internal/analyzer"
	"nutrition-tracker/api/internal/bootstrap"
	"nutrition-tracker/api/internal/config"
	"nutrition-tracker/api/internal/httpserver"
	"nutrition-tracker/api/internal/llm"
	"nutrition-tracker/api/internal/logger"
	"nutrition-tracker/api/internal/store"
	"nutrition-tracker/api/internal/telegram"
)

func main() {
	cfg := config.Load()
	if strings.TrimSpace(cfg.TelegramBotToken) == "" {
		log.Fatal("missing required env TELEGRAM_BOT_TOKEN")
	}

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
	repo, closeRepo, err := bootstrap.Store(ctx, cfg, lg)
	if err != nil {
		lg.Fatal("store", zap.Error(err))
	}
	defer func() { _ = closeRepo() }()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		lg.Fatal("telegram", zap.Error(err))
	}
	bot.Debug = false
	lg.Info("telegram bot authorized", zap.String("username", bot.Self.UserName))

	r := &telegram.Router{
		Bot:           bot,
		EngManager:    llm.NewManager(reg),
		Analyzer:      analyzer.New(reg.Default(), analyzer.LoadPrompts(cfg.PromptDir), lg.Named("analyzer")),
		Repo:          repo,
		Log:           lg.Named("telegram"),
		MaxImageBytes: cfg.MaxImageBytes,
		Timeout:       3 * cfg.LLMTimeout,
	}

	// ListenForWebhook registers on DefaultServeMux, so healthz goes there too.
	http.HandleFunc("/healthz", healthz(repo))

	addr := "0.0.0.0:" + cfg.Port
	if webhookURL := strings.TrimSpace(cfg.WebhookURL); webhookURL != "" {
		err = startWebhookMode(ctx, addr, bot, r, webhookURL, lg)
	} else {
		err = startPollingMode(ctx, addr, bot, r, lg)
	}
	if err != nil {
		lg.Error("bot stopped", zap.Error(err))
		os.Exit(1)
	}
}

func healthz(repo store.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := repo.Ping(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("db: not ok\n" + err.Error()))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}

func startWebhookMode(ctx context.Context, addr string, bot *tgbotapi.BotAPI, r *telegram.Router, baseURL string, lg *zap.Logger) error {
	path := "/webhook/" + shortHash(bot.Token)
	public := strings.TrimRight(baseURL, "/") + path

	wh, err := tgbotapi.NewWebhook(public)
	if err != nil {
		return err
	}
	wh.DropPendingUpdates = true
	if _, err := bot.Request(wh); err != nil {
		return err
	}

	updates := bot.ListenForWebhook(path)
	go func() {
		for upd := range updates {
			r.HandleUpdate(ctx, upd)
		}
		lg.Info("webhook updates channel closed")
	}()

	lg.Info("webhook listening", zap.String("addr", addr), zap.String("path", path))
	return httpserver.Run(ctx, addr, http.DefaultServeMux, 10*time.Second, lg)
}

func startPollingMode(ctx context.Context, addr string, bot *tgbotapi.BotAPI, r *telegram.Router, lg *zap.Logger) error {
	errc := make(chan error, 1)
	go func() {
		errc <- httpserver.Run(ctx, addr, http.DefaultServeMux, 5*time.Second, lg)
	}()

	runPolling(ctx, bot, lg, func(upd tgbotapi.Update) {
		r.HandleUpdate(ctx, upd)
	})
	return <-errc
}

// shortHash is a stable FNV-1a hex of the token, used as the secret webhook path.
func shortHash(s string) string {
	h := uint64(1469598103934665603)
	const prime = 1099511628211
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime
	}
	const hexdigits = "0123456789abcdef"
	out := make([]byte, 16)
	for i := 15; i >= 0; i-- {
		out[i] = hexdigits[h&0xF]
		h >>= 4
	}
	return string(out)
}
