// Package provider abstracts the LLM backends used for content
// generation and routes requests across them with retry and fallback.
package provider

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
)

// GenerateRequest carries one content-generation call: the prompt version
// body as the system instruction, the subject fields as structured context
// and an optional operator note.
type GenerateRequest struct {
	Prompt           string            `json:"prompt"`
	AdditionalPrompt string            `json:"additional_prompt,omitempty"`
	Context          map[string]string `json:"context,omitempty"`
	Model            string            `json:"model,omitempty"`
}

// GenerateResponse holds the provider output. Data is always a valid JSON
// document: structured provider replies pass through, free-text replies are
// wrapped under a "text" key.
type GenerateResponse struct {
	Data  json.RawMessage `json:"data"`
	Raw   string          `json:"raw"`
	Model string          `json:"model"`
}

// Provider is a single LLM backend.
type Provider interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
	Name() string
}

// Gateway routes generation calls across configured providers.
type Gateway interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
	Provider(name string) (Provider, error)
}

// userMessage renders the context fields and operator note into the user
// turn of the conversation. Keys are emitted in sorted order so the same
// request always produces the same message.
func userMessage(req GenerateRequest) string {
	var b strings.Builder

	keys := make([]string, 0, len(req.Context))
	for k := range req.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(req.Context[k])
		b.WriteString("\n")
	}

	if req.AdditionalPrompt != "" {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(req.AdditionalPrompt)
	}

	if b.Len() == 0 {
		return "Generate the requested content."
	}
	return strings.TrimRight(b.String(), "\n")
}

// normalizeData turns raw provider text into a JSON document. Providers are
// asked for JSON but do not always honor that, so anything unparseable is
// preserved verbatim under a "text" key.
func normalizeData(raw string) json.RawMessage {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		if json.Valid([]byte(trimmed)) {
			return json.RawMessage(trimmed)
		}
	}
	wrapped, _ := json.Marshal(map[string]string{"text": raw})
	return wrapped
}
