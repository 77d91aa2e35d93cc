package util

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
)

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{`  {"a":1}  `, `{"a":1}`},
	}
	for _, tt := range tests {
		if got := StripCodeFences(tt.in); got != tt.want {
			t.Errorf("StripCodeFences(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   string
		wantOK bool
	}{
		{
			name:   "fenced with prose",
			in:     "Here you go:\n```json\n{\"calories\": \"165\"}\n```\nEnjoy!",
			want:   `{"calories": "165"}`,
			wantOK: true,
		},
		{
			name:   "bare object in prose",
			in:     `Sure. {"a": {"b": 1}} done`,
			want:   `{"a": {"b": 1}}`,
			wantOK: true,
		},
		{
			name:   "no object",
			in:     "I cannot estimate that.",
			wantOK: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSONObject(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSniffMimeHTTP(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0}, "image/jpeg"},
		{"png", []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, "image/png"},
		{"webp", []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), "image/webp"},
		{"gif", []byte("GIF89a...."), "image/gif"},
		{"text", []byte("hello"), "application/octet-stream"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SniffMimeHTTP(tt.in); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeBase64MaybeDataURL(t *testing.T) {
	raw := []byte{0xFF, 0xD8, 0x01}
	b64 := base64.StdEncoding.EncodeToString(raw)

	got, mime, err := DecodeBase64MaybeDataURL(MakeDataURL("image/jpeg", b64))
	if err != nil {
		t.Fatal(err)
	}
	if mime != "image/jpeg" || string(got) != string(raw) {
		t.Errorf("got (%v, %q)", got, mime)
	}

	got, mime, err = DecodeBase64MaybeDataURL(b64)
	if err != nil {
		t.Fatal(err)
	}
	if mime != "" || string(got) != string(raw) {
		t.Errorf("got (%v, %q)", got, mime)
	}

	if _, _, err := DecodeBase64MaybeDataURL("%%%"); err == nil {
		t.Error("expected error for invalid base64")
	}
}

func TestPickMIME(t *testing.T) {
	if got := PickMIME("image/png", "image/jpeg", nil); got != "image/png" {
		t.Errorf("explicit: got %q", got)
	}
	if got := PickMIME("", "image/webp", nil); got != "image/webp" {
		t.Errorf("hint: got %q", got)
	}
	if got := PickMIME("", "", []byte{0xFF, 0xD8}); got != "image/jpeg" {
		t.Errorf("sniffed: got %q", got)
	}
	if got := PickMIME("", "", nil); got != "image/jpeg" {
		t.Errorf("default: got %q", got)
	}
}

func TestLoadPrompt(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "food.system.txt"), []byte("  custom prompt \n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := LoadPrompt(dir, "food.system", "default"); got != "custom prompt" {
		t.Errorf("override: got %q", got)
	}
	if got := LoadPrompt(dir, "missing", "default"); got != "default" {
		t.Errorf("missing: got %q", got)
	}
	if got := LoadPrompt("", "food.system", "default"); got != "default" {
		t.Errorf("no dir: got %q", got)
	}
}

func TestCutUTF8(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 3, "hel"},
		{"caf\u00e9", 4, "caf"},
		{"caf\u00e9", 5, "caf\u00e9"},
		{"\U0001F34E apple", 2, ""},
		{"\U0001F34E apple", 4, "\U0001F34E"},
	}
	for _, tt := range tests {
		if got := CutUTF8(tt.in, tt.n); got != tt.want {
			t.Errorf("CutUTF8(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
	if got := Truncate("\u00e9\u00e9", 3); got != "\u00e9..." {
		t.Errorf("Truncate = %q", got)
	}
}
