package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"nutrition-tracker/api/internal/llm"
	"nutrition-tracker/api/internal/util"
)

type Engine struct {
	APIKey      string
	Model       string
	Temperature float32
	log         *zap.Logger
}

func New(apiKey, model string, temperature float64, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		APIKey:      strings.TrimSpace(apiKey),
		Model:       strings.TrimSpace(model),
		Temperature: float32(temperature),
		log:         log,
	}
}

func (e *Engine) Name() string     { return "gemini" }
func (e *Engine) GetModel() string { return e.Model }

// Complete performs one GenerateContent call. System messages become the
// system instruction, user parts are sent in order with images as inline blobs.
func (e *Engine) Complete(ctx context.Context, in llm.Request) (string, error) {
	if e.APIKey == "" {
		return "", errors.New("GEMINI_API_KEY is empty")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(e.APIKey))
	if err != nil {
		return "", err
	}
	defer cl.Close()

	model := e.Model
	if strings.TrimSpace(in.Model) != "" {
		model = strings.TrimSpace(in.Model)
	}
	m := cl.GenerativeModel(model)
	if m == nil {
		return "", fmt.Errorf("gemini: model is nil")
	}
	m.GenerationConfig = genai.GenerationConfig{
		Temperature: ptrFloat32(e.Temperature),
	}
	if sys := in.SystemText(); sys != "" {
		m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(sys)}}
	}

	parts, err := toParts(in.Messages)
	if err != nil {
		return "", err
	}
	if len(parts) == 0 {
		return "", errors.New("gemini: request has no user content")
	}

	start := time.Now()
	resp, err := m.GenerateContent(ctx, parts...)
	if err != nil {
		return "", err
	}
	txt := strings.TrimSpace(firstText(resp))
	if txt == "" {
		return "", fmt.Errorf("gemini: empty response")
	}
	e.log.Debug("gemini completion",
		zap.String("model", model),
		zap.Duration("latency", time.Since(start)),
		zap.Int("answer_len", len(txt)),
	)
	return txt, nil
}

// toParts flattens the non-system messages into genai parts.
func toParts(msgs []llm.Message) ([]genai.Part, error) {
	var parts []genai.Part
	for _, msg := range msgs {
		if msg.Role == llm.RoleSystem {
			continue
		}
		for _, p := range msg.Parts {
			switch p.Kind {
			case llm.PartText:
				parts = append(parts, genai.Text(p.Text))
			case llm.PartImage:
				data, hint, err := util.DecodeBase64MaybeDataURL(p.ImageURL)
				if err != nil {
					return nil, fmt.Errorf("gemini: bad image data URL: %w", err)
				}
				parts = append(parts, genai.Blob{MIMEType: util.PickMIME("", hint, data), Data: data})
			}
		}
	}
	return parts, nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		var b strings.Builder
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
		if b.Len() > 0 {
			return b.String()
		}
	}
	return ""
}

func ptrFloat32(v float32) *float32 { return &v }
