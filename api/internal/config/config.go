package config

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env  string
	Port string

	LLMProvider    string
	LLMTemperature float64
	LLMTimeout     time.Duration
	PromptDir      string

	OpenAIAPIKey      string
	OpenAIModel       string
	OpenAIVisionModel string
	OpenAIBaseURL     string
	GeminiAPIKey      string
	GeminiModel       string

	DBDriver    string
	DatabaseURL string
	SQLitePath  string

	APIPrefix        string
	CORSOrigins      []string
	ParseErrorStatus int
	MaxImageBytes    int64
	LogLevel         string

	TelegramBotToken string
	WebhookURL       string
}

func mustEnv(k string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		log.Fatalf("missing required env %s", k)
	}
	return v
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

// Load reads the environment, after a best-effort .env load outside production.
// Only the key of the selected LLM provider is required; the other provider is
// enabled when its key is present.
func Load() *Config {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}
	cfg, err := FromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	switch cfg.LLMProvider {
	case "openai":
		cfg.OpenAIAPIKey = mustEnv("OPENAI_API_KEY")
	case "gemini":
		cfg.GeminiAPIKey = mustEnv("GEMINI_API_KEY")
	}
	return cfg
}

// FromEnv builds the config without exiting, for callers that handle errors themselves.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Env:  getEnv("APP_ENV", "development"),
		Port: getEnv("PORT", "8000"),

		LLMProvider: strings.ToLower(getEnv("LLM_PROVIDER", "openai")),
		PromptDir:   getEnv("PROMPT_DIR", ""),

		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:       getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
		OpenAIVisionModel: getEnv("OPENAI_VISION_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		DBDriver:    strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DatabaseURL: resolveDSN(),
		SQLitePath:  getEnv("SQLITE_PATH", "nutrition.db"),

		APIPrefix:   strings.TrimRight(getEnv("API_PREFIX", ""), "/"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		WebhookURL:       getEnv("WEBHOOK_URL", ""),
	}

	var err error
	if cfg.LLMTemperature, err = strconv.ParseFloat(getEnv("LLM_TEMPERATURE", "0.7"), 64); err != nil {
		return nil, fmt.Errorf("LLM_TEMPERATURE: %w", err)
	}
	if cfg.LLMTimeout, err = time.ParseDuration(getEnv("LLM_TIMEOUT", "60s")); err != nil {
		return nil, fmt.Errorf("LLM_TIMEOUT: %w", err)
	}
	if cfg.ParseErrorStatus, err = strconv.Atoi(getEnv("PARSE_ERROR_STATUS", "400")); err != nil {
		return nil, fmt.Errorf("PARSE_ERROR_STATUS: %w", err)
	}
	if cfg.MaxImageBytes, err = strconv.ParseInt(getEnv("MAX_IMAGE_BYTES", "10485760"), 10, 64); err != nil {
		return nil, fmt.Errorf("MAX_IMAGE_BYTES: %w", err)
	}

	switch cfg.LLMProvider {
	case "openai", "gemini":
	default:
		return nil, fmt.Errorf("LLM_PROVIDER must be openai or gemini, got %q", cfg.LLMProvider)
	}
	switch cfg.DBDriver {
	case "postgres", "sqlite", "memory":
	default:
		return nil, fmt.Errorf("DB_DRIVER must be postgres, sqlite or memory, got %q", cfg.DBDriver)
	}
	switch cfg.ParseErrorStatus {
	case http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusInternalServerError, http.StatusBadGateway:
	default:
		return nil, fmt.Errorf("PARSE_ERROR_STATUS must be 400, 422, 500 or 502, got %d", cfg.ParseErrorStatus)
	}
	if cfg.MaxImageBytes <= 0 {
		return nil, fmt.Errorf("MAX_IMAGE_BYTES must be positive")
	}
	return cfg, nil
}

func (c *Config) Addr() string { return ":" + c.Port }

// resolveDSN prefers DATABASE_URL and otherwise builds one from POSTGRES_*/PG* vars.
func resolveDSN() string {
	if v := strings.TrimSpace(os.Getenv("DATABASE_URL")); v != "" {
		return v
	}
	user := getEnv("POSTGRES_USER", "nutrition")
	pass := os.Getenv("POSTGRES_PASSWORD")
	host := getEnv("PGHOST", "localhost")
	port := getEnv("PGPORT", "5432")
	db := getEnv("POSTGRES_DB", "nutrition")

	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, pass),
		Host:     net.JoinHostPort(host, port),
		Path:     "/" + db,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// SafeDSNSummary renders a DSN without its password, for logs.
func SafeDSNSummary(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return "dsn: parse error"
	}
	user := u.User.Username()
	host := u.Host
	port := ""
	if h, p, err := net.SplitHostPort(u.Host); err == nil {
		host, port = h, p
	}
	db := strings.TrimPrefix(u.Path, "/")
	if port == "" {
		return fmt.Sprintf("host=%s db=%s user=%s", host, db, user)
	}
	return fmt.Sprintf("host=%s port=%s db=%s user=%s", host, port, db, user)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
