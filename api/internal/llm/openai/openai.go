package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"nutrition-tracker/api/internal/llm"
)

const DefaultBaseURL = "https://api.openai.com/v1"

type Engine struct {
	APIKey      string
	Model       string
	VisionModel string
	BaseURL     string
	Temperature float64
	httpc       *http.Client
	log         *zap.Logger
}

type Option func(*Engine)

func WithBaseURL(u string) Option {
	return func(e *Engine) {
		if u = strings.TrimSpace(u); u != "" {
			e.BaseURL = strings.TrimRight(u, "/")
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.httpc.Timeout = d
		}
	}
}

func WithTemperature(t float64) Option {
	return func(e *Engine) { e.Temperature = t }
}

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.log = l }
}

func New(key, model, visionModel string, opts ...Option) *Engine {
	e := &Engine{
		APIKey:      key,
		Model:       model,
		VisionModel: visionModel,
		BaseURL:     DefaultBaseURL,
		Temperature: 0.7,
		httpc:       &http.Client{Timeout: 60 * time.Second},
		log:         zap.NewNop(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

func (e *Engine) Name() string { return "openai" }

func (e *Engine) GetModel() string { return e.Model }

// Complete sends one chat/completions call. Requests with an image go to the
// vision model unless the request names a model itself.
func (e *Engine) Complete(ctx context.Context, in llm.Request) (string, error) {
	if e.APIKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY is empty")
	}
	model := e.Model
	if in.HasImage() && strings.TrimSpace(e.VisionModel) != "" {
		model = e.VisionModel
	}
	if strings.TrimSpace(in.Model) != "" {
		model = in.Model
	}

	body := map[string]any{
		"model":       model,
		"messages":    toMessages(in.Messages),
		"temperature": e.Temperature,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.APIKey)

	start := time.Now()
	resp, err := e.httpc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		x, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("openai %d: %s", resp.StatusCode, strings.TrimSpace(string(x)))
	}

	var raw struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return "", fmt.Errorf("openai: decode response: %w", err)
	}
	if len(raw.Choices) == 0 {
		return "", fmt.Errorf("openai: empty response")
	}
	out := strings.TrimSpace(raw.Choices[0].Message.Content)
	e.log.Debug("openai completion",
		zap.String("model", model),
		zap.Duration("latency", time.Since(start)),
		zap.Int("answer_len", len(out)),
	)
	return out, nil
}

// toMessages renders the chat/completions message list. A text-only message
// uses the plain string content form.
func toMessages(msgs []llm.Message) []any {
	out := make([]any, 0, len(msgs))
	for _, m := range msgs {
		if len(m.Parts) == 1 && m.Parts[0].Kind == llm.PartText {
			out = append(out, map[string]any{"role": string(m.Role), "content": m.Parts[0].Text})
			continue
		}
		content := make([]any, 0, len(m.Parts))
		for _, p := range m.Parts {
			switch p.Kind {
			case llm.PartText:
				content = append(content, map[string]any{"type": "text", "text": p.Text})
			case llm.PartImage:
				content = append(content, map[string]any{
					"type":      "image_url",
					"image_url": map[string]any{"url": p.ImageURL},
				})
			}
		}
		out = append(out, map[string]any{"role": string(m.Role), "content": content})
	}
	return out
}
