// Package genaisdk implements llm.Generator on the official Google Gen AI SDK.
package genaisdk

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/infra"
	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/providers/llm"
)

// Options configures the SDK-backed generator.
type Options struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Client wraps a genai.Client.
type Client struct {
	client *genai.Client
	logger *infra.Logger
}

// NewClient creates a Gemini API backed SDK client.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, errors.New("genai: api key is required")
	}
	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
	}
	if base := baseURL(opts.BaseURL); base != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: base}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &Client{client: client, logger: infra.LoggerOrDiscard(opts.Logger)}, nil
}

// Generate implements llm.Generator.
func (c *Client) Generate(ctx context.Context, req llm.Request) (string, error) {
	model := llm.NormalizeModel(req.Model)
	if model == "" {
		return "", errors.New("genai: model is required")
	}

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, model, contents(req), generateConfig(req))
	if err != nil {
		return "", fmt.Errorf("genai generate content: %w", err)
	}
	text := resp.Text()
	c.logger.Debug().
		Str("model", model).
		Int("media", len(req.Media)).
		Int("chars", len(text)).
		Dur("took", time.Since(start)).
		Msg("genai: generate content")
	return text, nil
}

func contents(req llm.Request) []*genai.Content {
	parts := make([]*genai.Part, 0, len(req.Media)+1)
	for _, m := range req.Media {
		parts = append(parts, genai.NewPartFromBytes(m.Data, m.MIMEType))
	}
	parts = append(parts, genai.NewPartFromText(req.Prompt))
	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
}

func generateConfig(req llm.Request) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{CandidateCount: 1}
	if strings.TrimSpace(req.System) != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.Temperature != nil {
		temp := float32(*req.Temperature)
		cfg.Temperature = &temp
	}
	if req.Schema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = toSchema(req.Schema)
	}
	return cfg
}

func toSchema(s *llm.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:             genai.Type(s.Type),
		Description:      s.Description,
		Required:         s.Required,
		PropertyOrdering: s.PropertyOrdering,
	}
	if s.Nullable {
		nullable := true
		out.Nullable = &nullable
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toSchema(prop)
		}
	}
	return out
}

// baseURL strips the API version suffix the REST client carries; the SDK
// appends its own.
func baseURL(raw string) string {
	raw = strings.TrimRight(strings.TrimSpace(raw), "/")
	for _, suffix := range []string{"/v1beta", "/v1"} {
		if strings.HasSuffix(raw, suffix) {
			raw = strings.TrimSuffix(raw, suffix)
			break
		}
	}
	if raw == "https://generativelanguage.googleapis.com" {
		return ""
	}
	return raw
}

var _ llm.Generator = (*Client)(nil)
