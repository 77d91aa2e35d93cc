// Package analyzer builds the model requests for a food description or photo
// and turns the answers into nutrition records.
package analyzer

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"

	"go.uber.org/zap"

	"nutrition-tracker/api/internal/llm"
	"nutrition-tracker/api/internal/nutrition"
	"nutrition-tracker/api/internal/util"
)

// Service runs both orchestrators against one collaborator. It holds no
// per-request state and is safe for concurrent use.
type Service struct {
	llm     llm.Client
	prompts Prompts
	log     *zap.Logger
}

func New(c llm.Client, prompts Prompts, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{llm: c, prompts: prompts, log: log}
}

// With returns a Service using another collaborator with the same prompts.
func (s *Service) With(c llm.Client) *Service {
	return &Service{llm: c, prompts: s.prompts, log: s.log}
}

func (s *Service) Provider() string { return s.llm.Name() }

// AnalyzeFood makes exactly one model call for description and normalizes the answer.
func (s *Service) AnalyzeFood(ctx context.Context, description string) (nutrition.Record, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nutrition.Record{}, ErrEmptyDescription
	}
	log := s.log.With(zap.String("provider", s.llm.Name()), zap.String("model", s.llm.GetModel()))
	log.Info("analyzing food description", zap.String("description", description))

	prompt := s.prompts.foodMessage(description)
	log.Debug("generated prompt", zap.String("prompt", prompt))

	answer, err := s.llm.Complete(ctx, llm.Request{Messages: []llm.Message{
		{Role: llm.RoleUser, Parts: []llm.Part{llm.Text(prompt)}},
	}})
	if err != nil {
		log.Error("model call failed", zap.Error(err))
		return nutrition.Record{}, &UpstreamError{Provider: s.llm.Name(), Stage: "text analysis", Err: err}
	}
	log.Debug("raw model answer", zap.String("answer", answer))

	raw, err := llm.ParseStructured(answer)
	var perr *nutrition.AnalysisParseError
	if errors.As(err, &perr) {
		log.Warn("answer failed normalization", zap.Error(err))
		return nutrition.Record{}, err
	}
	if err != nil {
		log.Error("structured output unreadable", zap.Error(err))
		return nutrition.Record{}, &UpstreamError{Provider: s.llm.Name(), Stage: "structured output", Err: err}
	}
	log.Debug("parsed answer",
		zap.Any("description", raw.Description),
		zap.Any("calories", raw.Calories),
		zap.Any("macronutrients", raw.Macronutrients),
		zap.Any("micronutrients", raw.Micronutrients),
	)

	rec, err := nutrition.Normalize(raw)
	if err != nil {
		log.Warn("answer failed normalization", zap.Error(err))
		return nutrition.Record{}, err
	}
	log.Info("food analysis complete", zap.Float64("calories", rec.Calories))
	log.Debug("cleaned result", zap.Any("record", rec))
	return rec, nil
}

// AnalyzeImage asks the vision model for a prose description of the photo
// and feeds that description through AnalyzeFood, so the structured-output
// contract lives in one place.
func (s *Service) AnalyzeImage(ctx context.Context, img []byte) (nutrition.Record, error) {
	if len(img) == 0 {
		return nutrition.Record{}, ErrEmptyImage
	}
	mime := util.SniffMimeHTTP(img)
	if !util.IsImageMIME(mime) {
		return nutrition.Record{}, ErrUnsupportedImage
	}
	log := s.log.With(zap.String("provider", s.llm.Name()), zap.String("model", s.llm.GetModel()))
	log.Info("analyzing food image", zap.Int("bytes", len(img)), zap.String("mime", mime))

	dataURL := util.MakeDataURL(mime, EncodeImage(img))
	answer, err := s.llm.Complete(ctx, llm.Request{Messages: []llm.Message{
		{Role: llm.RoleSystem, Parts: []llm.Part{llm.Text(s.prompts.Vision)}},
		{Role: llm.RoleUser, Parts: []llm.Part{llm.Text(visionUserText), llm.Image(dataURL)}},
	}})
	if err != nil {
		log.Error("vision call failed", zap.Error(err))
		return nutrition.Record{}, &UpstreamError{Provider: s.llm.Name(), Stage: "image analysis", Err: err}
	}
	answer = util.StripCodeFences(answer)
	log.Debug("vision description", zap.String("answer", answer))
	if answer == "" {
		return nutrition.Record{}, &UpstreamError{Provider: s.llm.Name(), Stage: "image analysis", Err: ErrEmptyDescription}
	}

	return s.AnalyzeFood(ctx, answer)
}

func EncodeImage(img []byte) string {
	return base64.StdEncoding.EncodeToString(img)
}
