package credentials

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/infra"
	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/sqlinline"
)

const (
	ProviderGemini = infra.ProviderGemini
	ProviderOpenAI = infra.ProviderOpenAI
)

// Store reads and writes AI provider API keys kept in the integration_tokens
// table, used when the key is not supplied through the environment.
type Store struct {
	sql infra.SQLExecutor
}

func NewStore(sql infra.SQLExecutor) *Store {
	return &Store{sql: sql}
}

// KeyFor maps an AI provider name to the credential it authenticates with.
// The genai SDK provider shares the Gemini key.
func KeyFor(aiProvider string) string {
	if aiProvider == infra.ProviderOpenAI {
		return ProviderOpenAI
	}
	return ProviderGemini
}

// Token returns the stored token for provider, or "" when none is stored.
func (s *Store) Token(ctx context.Context, provider string) (string, error) {
	row := s.sql.QueryRow(ctx, sqlinline.QSelectIntegrationToken, provider)
	var token string
	if err := row.Scan(&token); err != nil {
		if infra.IsNoRows(err) {
			return "", nil
		}
		return "", fmt.Errorf("load %s token: %w", provider, err)
	}
	return strings.TrimSpace(token), nil
}

// SetToken upserts the token for provider.
func (s *Store) SetToken(ctx context.Context, provider, token string) error {
	provider = strings.TrimSpace(strings.ToLower(provider))
	switch provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("unsupported provider %q", provider)
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("%s api key is required", provider)
	}
	raw, err := json.Marshal(map[string]any{"source": "aikey"})
	if err != nil {
		return err
	}
	_, err = s.sql.Exec(ctx, sqlinline.QUpsertIntegrationToken, provider, token, raw)
	return err
}

// ResolveAPIKey prefers the configured key and falls back to the stored one.
func (s *Store) ResolveAPIKey(ctx context.Context, cfg *infra.Config) (string, error) {
	if key := cfg.APIKey(); key != "" {
		return key, nil
	}
	return s.Token(ctx, KeyFor(cfg.AIProvider))
}
