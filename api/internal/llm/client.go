// Package llm is the contract with the external language-model providers.
package llm

import (
	"context"
	"strings"
)

type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

type PartKind string

const (
	PartText  PartKind = "text"
	PartImage PartKind = "image"
)

// Part is one piece of message content. Images travel as data URLs
// ("data:image/jpeg;base64,...").
type Part struct {
	Kind     PartKind
	Text     string
	ImageURL string
}

func Text(s string) Part    { return Part{Kind: PartText, Text: s} }
func Image(url string) Part { return Part{Kind: PartImage, ImageURL: url} }

type Message struct {
	Role  Role
	Parts []Part
}

// Request is a single completion call. Model overrides the client default when set.
type Request struct {
	Model    string
	Messages []Message
}

// HasImage reports whether any message carries an image part.
func (r Request) HasImage() bool {
	for _, m := range r.Messages {
		for _, p := range m.Parts {
			if p.Kind == PartImage {
				return true
			}
		}
	}
	return false
}

// Client is a language-model provider. Complete performs exactly one call and
// returns the model's text answer.
type Client interface {
	Name() string
	GetModel() string
	Complete(ctx context.Context, req Request) (string, error)
}

// SystemText joins the text parts of all system messages.
func (r Request) SystemText() string {
	var b strings.Builder
	for _, m := range r.Messages {
		if m.Role != RoleSystem {
			continue
		}
		for _, p := range m.Parts {
			if p.Kind != PartText {
				continue
			}
			if b.Len() > 0 {
				b.WriteString("\n\n")
			}
			b.WriteString(p.Text)
		}
	}
	return b.String()
}
