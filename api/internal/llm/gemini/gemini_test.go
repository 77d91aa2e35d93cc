package gemini

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"

	"nutrition-tracker/api/internal/llm"
)

func TestToParts(t *testing.T) {
	parts, err := toParts([]llm.Message{
		{Role: llm.RoleSystem, Parts: []llm.Part{llm.Text("system text")}},
		{Role: llm.RoleUser, Parts: []llm.Part{
			llm.Text("Describe this food"),
			llm.Image("data:image/png;base64,iVBORw0KGgo="),
		}},
	})
	if err != nil {
		t.Fatalf("toParts: %v", err)
	}
	if len(parts) != 2 {
		t.Fatalf("len(parts) = %d, want 2 (system excluded)", len(parts))
	}
	if txt, ok := parts[0].(genai.Text); !ok || string(txt) != "Describe this food" {
		t.Errorf("parts[0] = %#v", parts[0])
	}
	blob, ok := parts[1].(genai.Blob)
	if !ok {
		t.Fatalf("parts[1] = %#v, want genai.Blob", parts[1])
	}
	if blob.MIMEType != "image/png" || len(blob.Data) != 8 {
		t.Errorf("blob = %s, %d bytes", blob.MIMEType, len(blob.Data))
	}
}

func TestToPartsBadImage(t *testing.T) {
	_, err := toParts([]llm.Message{{Role: llm.RoleUser, Parts: []llm.Part{llm.Image("data:image/png;base64,%%%")}}})
	if err == nil {
		t.Error("expected error for invalid base64")
	}
}

func TestFirstText(t *testing.T) {
	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
		{Content: nil},
		{Content: &genai.Content{Parts: []genai.Part{genai.Text("Grilled "), genai.Text("salmon")}}},
	}}
	if got := firstText(resp); got != "Grilled salmon" {
		t.Errorf("firstText = %q", got)
	}
	if got := firstText(nil); got != "" {
		t.Errorf("firstText(nil) = %q", got)
	}
}

func TestCompleteWithoutKey(t *testing.T) {
	if _, err := New("", "gemini-2.5-flash", 0.7, nil).Complete(context.Background(), llm.Request{}); err == nil {
		t.Error("expected error for empty API key")
	}
}
