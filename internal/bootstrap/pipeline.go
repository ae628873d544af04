// Package bootstrap assembles the extraction pipeline from configuration for
// the api, worker and receiptscan binaries.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/extraction"
	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/infra"
	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/providers/gemini"
	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/providers/genaisdk"
	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/providers/llm"
	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/providers/openai"
	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/providers/tesseract"
)

// NewGenerator returns the model client selected by cfg.AIProvider.
func NewGenerator(ctx context.Context, cfg *infra.Config, apiKey string, logger *infra.Logger) (llm.Generator, error) {
	httpClient := &http.Client{Timeout: cfg.AIRequestTimeout}
	switch cfg.AIProvider {
	case infra.ProviderGemini:
		client, err := gemini.NewClient(gemini.Options{
			APIKey:     apiKey,
			BaseURL:    cfg.GeminiBaseURL,
			HTTPClient: httpClient,
			Logger:     logger,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	case infra.ProviderGenAI:
		client, err := genaisdk.NewClient(ctx, genaisdk.Options{
			APIKey:     apiKey,
			BaseURL:    cfg.GeminiBaseURL,
			HTTPClient: httpClient,
			Logger:     logger,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	case infra.ProviderOpenAI:
		client, err := openai.NewClient(openai.Options{
			APIKey:       apiKey,
			BaseURL:      cfg.OpenAIBaseURL,
			Organization: cfg.OpenAIOrg,
			HTTPClient:   httpClient,
			Logger:       logger,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported AI_PROVIDER %q", cfg.AIProvider)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewRecognizer returns the OCR engine selected by cfg.OCREngine. The closer
// releases engine resources.
func NewRecognizer(cfg *infra.Config, generator llm.Generator) (extraction.Recognizer, io.Closer, error) {
	switch cfg.OCREngine {
	case infra.OCREngineTesseract:
		client, err := tesseract.New(cfg.OCRLanguage)
		if err != nil {
			return nil, nil, err
		}
		return client, client, nil
	case infra.OCREngineModel, "":
		return extraction.ModelRecognizer{
			Generator:  generator,
			ImageModel: cfg.OCRImageModel,
			PDFModel:   cfg.OCRPDFModel,
		}, nopCloser{}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported OCR_ENGINE %q", cfg.OCREngine)
	}
}

// NewPipeline wires generator, recognizer and both extraction steps.
func NewPipeline(ctx context.Context, cfg *infra.Config, apiKey string, logger *infra.Logger) (*extraction.Pipeline, io.Closer, error) {
	generator, err := NewGenerator(ctx, cfg, apiKey, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("configure %s provider: %w", cfg.AIProvider, err)
	}
	return NewPipelineWithGenerator(cfg, generator, logger)
}

// NewPipelineWithGenerator is NewPipeline for an already constructed model
// client.
func NewPipelineWithGenerator(cfg *infra.Config, generator llm.Generator, logger *infra.Logger) (*extraction.Pipeline, io.Closer, error) {
	recognizer, closer, err := NewRecognizer(cfg, generator)
	if err != nil {
		return nil, nil, fmt.Errorf("configure %s ocr engine: %w", cfg.OCREngine, err)
	}
	text := extraction.NewTextExtractor(recognizer, extraction.TextOptions{
		Concurrency: cfg.OCRConcurrency,
		Logger:      logger,
	})
	fields, err := extraction.NewFieldExtractor(generator, extraction.FieldOptions{
		Model:  cfg.ExtractionModel,
		Logger: logger,
	})
	if err != nil {
		_ = closer.Close()
		return nil, nil, err
	}
	return extraction.NewPipeline(text, fields, logger), closer, nil
}
