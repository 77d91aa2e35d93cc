package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"nutrition-tracker/api/internal/llm"
)

func TestCompleteVisionRequest(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk-test" {
			t.Errorf("authorization = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  A bowl of ramen.  "}}]}`))
	}))
	defer srv.Close()

	e := New("sk-test", "gpt-3.5-turbo", "gpt-4o-mini", WithBaseURL(srv.URL+"/"), WithTemperature(0.2))
	out, err := e.Complete(context.Background(), llm.Request{Messages: []llm.Message{
		{Role: llm.RoleSystem, Parts: []llm.Part{llm.Text("You are a nutritionist.")}},
		{Role: llm.RoleUser, Parts: []llm.Part{llm.Text("Describe this food"), llm.Image("data:image/jpeg;base64,AA==")}},
	}})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != "A bowl of ramen." {
		t.Errorf("out = %q", out)
	}
	if got["model"] != "gpt-4o-mini" {
		t.Errorf("model = %v, want vision model", got["model"])
	}
	if got["temperature"] != 0.2 {
		t.Errorf("temperature = %v", got["temperature"])
	}
	msgs := got["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("messages = %v", msgs)
	}
	if sys := msgs[0].(map[string]any); sys["content"] != "You are a nutritionist." {
		t.Errorf("system content = %v", sys["content"])
	}
	user := msgs[1].(map[string]any)["content"].([]any)
	img := user[1].(map[string]any)
	if img["type"] != "image_url" {
		t.Errorf("part type = %v", img["type"])
	}
	if url := img["image_url"].(map[string]any)["url"]; url != "data:image/jpeg;base64,AA==" {
		t.Errorf("image url = %v", url)
	}
}

func TestCompleteTextUsesTextModel(t *testing.T) {
	var model string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Model string `json:"model"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		model = body.Model
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	e := New("k", "gpt-3.5-turbo", "gpt-4o-mini", WithBaseURL(srv.URL))
	if _, err := e.Complete(context.Background(), llm.Request{Messages: []llm.Message{
		{Role: llm.RoleUser, Parts: []llm.Part{llm.Text("apple")}},
	}}); err != nil {
		t.Fatal(err)
	}
	if model != "gpt-3.5-turbo" {
		t.Errorf("model = %q", model)
	}
}

func TestCompleteErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	e := New("k", "m", "", WithBaseURL(srv.URL))
	_, err := e.Complete(context.Background(), llm.Request{Messages: []llm.Message{{Role: llm.RoleUser, Parts: []llm.Part{llm.Text("x")}}}})
	if err == nil || !strings.Contains(err.Error(), "429") {
		t.Errorf("err = %v, want status 429", err)
	}

	if _, err := New("", "m", "").Complete(context.Background(), llm.Request{}); err == nil {
		t.Error("expected error for empty API key")
	}
}
