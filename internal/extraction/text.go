package extraction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/domain"
	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/infra"
	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/providers/llm"
)

// DocumentSeparator joins the text of consecutive documents.
const DocumentSeparator = "\n---\n"

// Recognizer turns one document into its verbatim text.
type Recognizer interface {
	Recognize(ctx context.Context, doc domain.Document) (string, error)
}

// RecognizerFunc adapts a function to the Recognizer interface.
type RecognizerFunc func(ctx context.Context, doc domain.Document) (string, error)

func (f RecognizerFunc) Recognize(ctx context.Context, doc domain.Document) (string, error) {
	return f(ctx, doc)
}

// ModelRecognizer performs OCR with a vision capable model. PDFs go to the
// PDF model and images to the faster image model.
type ModelRecognizer struct {
	Generator  llm.Generator
	ImageModel string
	PDFModel   string
}

// ModelFor returns the model used for doc.
func (m ModelRecognizer) ModelFor(doc domain.Document) string {
	if doc.IsPDF() {
		return m.PDFModel
	}
	return m.ImageModel
}

func (m ModelRecognizer) Recognize(ctx context.Context, doc domain.Document) (string, error) {
	text, err := m.Generator.Generate(ctx, llm.Request{
		Model:       m.ModelFor(doc),
		Prompt:      ocrPrompt,
		Media:       []llm.Media{{MIMEType: doc.MIMEType, Data: doc.Data}},
		Temperature: llm.Float(0),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrProviderFailure, err)
	}
	return text, nil
}

// TextOptions configures a TextExtractor.
type TextOptions struct {
	// Concurrency bounds parallel recognitions. Values below 2 recognise
	// documents one at a time.
	Concurrency int
	Logger      *infra.Logger
}

// TextExtractor is the OCR step of the pipeline.
type TextExtractor struct {
	recognizer  Recognizer
	concurrency int
	logger      *infra.Logger
}

func NewTextExtractor(recognizer Recognizer, opts TextOptions) *TextExtractor {
	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &TextExtractor{
		recognizer:  recognizer,
		concurrency: concurrency,
		logger:      infra.LoggerOrDiscard(opts.Logger),
	}
}

// ExtractRawText recognises every document and joins the texts in input
// order, separated by a single --- line. It fails with
// domain.ErrNoTextExtracted when there are no documents or any document
// yields no text.
func (e *TextExtractor) ExtractRawText(ctx context.Context, docs []domain.Document) (string, error) {
	if len(docs) == 0 {
		return "", domain.ErrNoTextExtracted
	}
	for i, doc := range docs {
		if len(doc.Data) == 0 {
			return "", fmt.Errorf("document %d: %w", i+1, invalidDocument("empty payload"))
		}
		if !doc.IsPDF() && !doc.IsImage() {
			return "", fmt.Errorf("document %d: %w", i+1, invalidDocument(fmt.Sprintf("unsupported content type %q", doc.MIMEType)))
		}
	}

	start := time.Now()
	texts := make([]string, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, doc := range docs {
		g.Go(func() error {
			text, err := e.recognizer.Recognize(gctx, doc)
			if err != nil {
				return fmt.Errorf("document %d: %w", i+1, err)
			}
			text = strings.TrimSpace(text)
			if text == "" {
				return fmt.Errorf("document %d: %w", i+1, domain.ErrNoTextExtracted)
			}
			texts[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		e.logger.Warn().Err(err).Int("documents", len(docs)).Msg("text extraction failed")
		return "", err
	}

	raw := strings.Join(texts, DocumentSeparator)
	e.logger.Info().
		Int("documents", len(docs)).
		Int("chars", len(raw)).
		Dur("took", time.Since(start)).
		Msg("text extracted")
	return raw, nil
}
