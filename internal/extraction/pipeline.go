package extraction

import (
	"context"
	"time"

	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/domain"
	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/infra"
)

// Pipeline runs the text step and then the field step.
type Pipeline struct {
	text   *TextExtractor
	fields *FieldExtractor
	logger *infra.Logger
}

func NewPipeline(text *TextExtractor, fields *FieldExtractor, logger *infra.Logger) *Pipeline {
	return &Pipeline{text: text, fields: fields, logger: infra.LoggerOrDiscard(logger)}
}

// ExtractRawText runs only the text step.
func (p *Pipeline) ExtractRawText(ctx context.Context, docs []domain.Document) (string, error) {
	return p.text.ExtractRawText(ctx, docs)
}

// ExtractDetails runs only the field step.
func (p *Pipeline) ExtractDetails(ctx context.Context, rawText string) (*domain.DonationDetails, error) {
	return p.fields.ExtractDetails(ctx, rawText)
}

// ExtractDonation extracts the text of docs, then the donation fields, and
// returns both. A failure in either step fails the whole call.
func (p *Pipeline) ExtractDonation(ctx context.Context, docs []domain.Document) (*domain.ExtractionResult, error) {
	start := time.Now()
	rawText, err := p.text.ExtractRawText(ctx, docs)
	if err != nil {
		return nil, err
	}
	details, err := p.fields.ExtractDetails(ctx, rawText)
	if err != nil {
		return nil, err
	}
	p.logger.Debug().
		Int("documents", len(docs)).
		Dur("took", time.Since(start)).
		Msg("donation extracted")
	return &domain.ExtractionResult{DonationDetails: *details, RawText: rawText}, nil
}
