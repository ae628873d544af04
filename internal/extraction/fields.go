package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/domain"
	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/infra"
	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/providers/llm"
)

// FieldOptions configures a FieldExtractor.
type FieldOptions struct {
	Model  string
	Rules  *Rules
	Logger *infra.Logger
}

// FieldExtractor is the structured extraction step of the pipeline.
type FieldExtractor struct {
	generator llm.Generator
	model     string
	rules     *Rules
	logger    *infra.Logger
}

func NewFieldExtractor(generator llm.Generator, opts FieldOptions) (*FieldExtractor, error) {
	if strings.TrimSpace(opts.Model) == "" {
		return nil, fmt.Errorf("extraction model is required")
	}
	rules := opts.Rules
	if rules == nil {
		var err error
		if rules, err = DefaultRules(); err != nil {
			return nil, err
		}
	}
	return &FieldExtractor{
		generator: generator,
		model:     opts.Model,
		rules:     rules,
		logger:    infra.LoggerOrDiscard(opts.Logger),
	}, nil
}

// ExtractDetails asks the model for the donation fields found in rawText and
// reconciles the answer against the text. Fields the model does not report
// are left nil.
func (e *FieldExtractor) ExtractDetails(ctx context.Context, rawText string) (*domain.DonationDetails, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, domain.ErrNoTextExtracted
	}

	start := time.Now()
	out, err := e.generator.Generate(ctx, llm.Request{
		Model:       e.model,
		System:      fieldSystemPrompt,
		Prompt:      buildFieldPrompt(e.rules, rawText),
		Schema:      DonationSchema(),
		Temperature: llm.Float(0),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrProviderFailure, err)
	}
	fragment := llm.JSONFragment(out)
	if fragment == "" {
		e.logger.Warn().Int("chars", len(out)).Msg("model returned no json object")
		return nil, domain.ErrNoStructuredOutput
	}
	details, err := decodeDetails([]byte(fragment))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNoStructuredOutput, err)
	}

	reconcile(details, rawText, e.rules)
	e.logger.Info().
		Str("model", e.model).
		Str("payment_app", domain.Deref(details.PaymentApp)).
		Bool("has_amount", details.Amount != nil).
		Bool("has_utr", details.UTRNumber != nil).
		Dur("took", time.Since(start)).
		Msg("details extracted")
	return details, nil
}

// decodeDetails maps a model JSON object onto DonationDetails. Unknown keys
// are ignored and placeholder values are treated as absent.
func decodeDetails(data []byte) (*domain.DonationDetails, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode model output: %w", err)
	}
	details := &domain.DonationDetails{}
	for key, value := range raw {
		if key == "amount" {
			details.Amount = decodeAmount(value)
			continue
		}
		if field := stringField(details, key); field != nil {
			*field = decodeString(value)
		}
	}
	return details, nil
}

var placeholders = map[string]struct{}{
	"null":      {},
	"none":      {},
	"n/a":       {},
	"na":        {},
	"nil":       {},
	"unknown":   {},
	"not found": {},
	"-":         {},
}

func decodeString(value json.RawMessage) *string {
	value = bytes.TrimSpace(value)
	if len(value) == 0 || bytes.Equal(value, []byte("null")) {
		return nil
	}
	var s string
	switch value[0] {
	case '"':
		if err := json.Unmarshal(value, &s); err != nil {
			return nil
		}
	case '{', '[':
		return nil
	default:
		// numbers and booleans keep their literal spelling
		s = string(value)
	}
	if _, ok := placeholders[strings.ToLower(strings.TrimSpace(s))]; ok {
		return nil
	}
	return domain.StringPtr(s)
}

// decodeAmount accepts 1500, 1500.5, "1500" or "₹1,500.00".
func decodeAmount(value json.RawMessage) *float64 {
	s := decodeString(value)
	if s == nil {
		return nil
	}
	amount, ok := ParseAmount(*s)
	if !ok {
		return nil
	}
	return &amount
}

// ParseAmount parses a printed currency amount.
func ParseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	for _, prefix := range []string{"₹", "INR", "Rs.", "Rs", "rs.", "rs"} {
		s = strings.TrimSpace(strings.TrimPrefix(s, prefix))
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
