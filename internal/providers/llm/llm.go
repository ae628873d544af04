// Package llm defines the contract between the extraction pipeline and the
// hosted generative model that performs OCR and structured extraction.
package llm

import (
	"context"
	"strings"
)

// Generator sends one prompt (with optional media) to a model and returns
// the text of the first candidate. Implementations return "" with a nil error
// when the model answered without any text.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, req Request) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// Request describes a single model invocation.
type Request struct {
	Model       string
	System      string
	Prompt      string
	Media       []Media
	Schema      *Schema
	Temperature *float64
}

// Media is an inline attachment such as a receipt screenshot or PDF.
type Media struct {
	MIMEType string
	Data     []byte
}

// Schema types, spelled the way the Gemini API expects them.
const (
	TypeObject  = "OBJECT"
	TypeString  = "STRING"
	TypeNumber  = "NUMBER"
	TypeBoolean = "BOOLEAN"
)

// Schema is the subset of OpenAPI schema used for structured output.
type Schema struct {
	Type             string             `json:"type"`
	Description      string             `json:"description,omitempty"`
	Nullable         bool               `json:"nullable,omitempty"`
	Properties       map[string]*Schema `json:"properties,omitempty"`
	Required         []string           `json:"required,omitempty"`
	PropertyOrdering []string           `json:"propertyOrdering,omitempty"`
}

// Float returns a pointer to v for Request.Temperature.
func Float(v float64) *float64 {
	return &v
}

// NormalizeModel strips plugin prefixes such as "googleai/" from a model id.
func NormalizeModel(model string) string {
	model = strings.TrimSpace(model)
	if idx := strings.LastIndex(model, "/"); idx >= 0 && !strings.HasPrefix(model, "models/") {
		return model[idx+1:]
	}
	return strings.TrimPrefix(model, "models/")
}

// JSONFragment returns the JSON object embedded in a model answer, tolerating
// markdown code fences and chatter around it. It returns "" when no object is
// present.
func JSONFragment(raw string) string {
	text := trimCodeFence(strings.TrimSpace(raw))
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return ""
	}
	return strings.TrimSpace(text[start : end+1])
}

func trimCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```JSON")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}
