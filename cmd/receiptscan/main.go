// Command receiptscan runs the receipt extraction pipeline against local
// files without a database.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/bootstrap"
	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/domain"
	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/infra"
)

type extractor interface {
	ExtractRawText(ctx context.Context, docs []domain.Document) (string, error)
	ExtractDetails(ctx context.Context, rawText string) (*domain.DonationDetails, error)
	ExtractDonation(ctx context.Context, docs []domain.Document) (*domain.ExtractionResult, error)
}

type extractorFactory func(ctx context.Context) (extractor, io.Closer, error)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(pipelineFromEnv, os.Stdin, os.Stdout)
	if err := root.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func pipelineFromEnv(ctx context.Context) (extractor, io.Closer, error) {
	cfg, err := infra.LoadPipelineConfig()
	if err != nil {
		return nil, nil, err
	}
	logger := infra.NewLogger("cli").With().Str("cmd", "receiptscan").Logger()
	pipeline, closer, err := bootstrap.NewPipeline(ctx, cfg, cfg.APIKey(), &logger)
	if err != nil {
		return nil, nil, err
	}
	return pipeline, closer, nil
}
