// Package openai implements llm.Generator over an OpenAI-compatible chat
// completions endpoint.
package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/infra"
	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/providers/llm"
)

// ErrUnsupportedMedia is returned for attachments the chat API cannot take
// inline, such as PDFs.
var ErrUnsupportedMedia = errors.New("openai: unsupported media type")

const defaultTimeout = 90 * time.Second

type Options struct {
	APIKey       string
	BaseURL      string
	Organization string
	HTTPClient   *http.Client
	Logger       *infra.Logger
}

type Client struct {
	apiKey       string
	baseURL      string
	organization string
	client       *http.Client
	logger       *infra.Logger
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    *float64        `json:"temperature,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("openai api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		apiKey:       strings.TrimSpace(opts.APIKey),
		baseURL:      baseURL,
		organization: strings.TrimSpace(opts.Organization),
		client:       client,
		logger:       infra.LoggerOrDiscard(opts.Logger),
	}, nil
}

// Generate implements llm.Generator. Images travel as data URLs; a schema
// switches the response format to json_object.
func (c *Client) Generate(ctx context.Context, req llm.Request) (string, error) {
	model := llm.NormalizeModel(req.Model)
	if model == "" {
		return "", errors.New("openai: model is required")
	}

	parts := []contentPart{{Type: "text", Text: req.Prompt}}
	for _, m := range req.Media {
		if !strings.HasPrefix(m.MIMEType, "image/") {
			return "", fmt.Errorf("%w: %s", ErrUnsupportedMedia, m.MIMEType)
		}
		parts = append(parts, contentPart{
			Type:     "image_url",
			ImageURL: &imageURL{URL: "data:" + m.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(m.Data)},
		})
	}

	payload := chatRequest{
		Model:       model,
		Temperature: req.Temperature,
	}
	if strings.TrimSpace(req.System) != "" {
		payload.Messages = append(payload.Messages, chatMessage{
			Role:    "system",
			Content: []contentPart{{Type: "text", Text: req.System}},
		})
	}
	payload.Messages = append(payload.Messages, chatMessage{Role: "user", Content: parts})
	if req.Schema != nil {
		payload.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", &buf)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	if c.organization != "" {
		httpReq.Header.Set("OpenAI-Organization", c.organization)
	}

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("invoke openai: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		var apiErr errorResponse
		if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Error.Message != "" {
			return "", fmt.Errorf("openai status %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		return "", fmt.Errorf("openai status %d", resp.StatusCode)
	}
	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode openai response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", nil
	}
	text := out.Choices[0].Message.Content
	c.logger.Debug().
		Str("model", model).
		Int("media", len(req.Media)).
		Int("chars", len(text)).
		Dur("took", time.Since(start)).
		Msg("openai: chat completion")
	return text, nil
}

var _ llm.Generator = (*Client)(nil)
