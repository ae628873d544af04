package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/adapter/repo"
	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/bootstrap"
	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/domain"
	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/infra"
	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/infra/credentials"
	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/storage"
)

type donationExtractor interface {
	ExtractDonation(ctx context.Context, docs []domain.Document) (*domain.ExtractionResult, error)
}

type blobReader interface {
	Read(ctx context.Context, key string) ([]byte, error)
}

type jobWorker struct {
	ctx          context.Context
	scans        domain.ScanRepository
	blobs        blobReader
	extractor    donationExtractor
	logger       infra.Logger
	model        string
	pollInterval time.Duration
	jobTimeout   time.Duration
}

var errNoJobAvailable = errors.New("no job available")

// statusWriteTimeout bounds the final status update, which still runs after
// shutdown has cancelled the worker context.
const statusWriteTimeout = 10 * time.Second

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: db connection failed")
	}
	defer pool.Close()

	runner := infra.NewSQLRunner(pool, logger)

	fileStore, err := storage.NewFileStore(cfg.StoragePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to configure storage")
	}

	apiKey, err := credentials.NewStore(runner).ResolveAPIKey(ctx, cfg)
	if err != nil {
		logger.Warn().Err(err).Str("provider", cfg.AIProvider).Msg("worker: failed to load api key from store")
	}

	pipeline, closer, err := bootstrap.NewPipeline(ctx, cfg, apiKey, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to configure extraction pipeline")
	}
	defer closer.Close()

	worker := &jobWorker{
		ctx:          ctx,
		scans:        repo.NewScanRepository(runner),
		blobs:        fileStore,
		extractor:    pipeline,
		logger:       logger,
		model:        cfg.ExtractionModel,
		pollInterval: cfg.WorkerPollInterval,
		// OCR and field extraction each get one model timeout.
		jobTimeout: 2 * cfg.AIRequestTimeout,
	}

	if err := worker.Run(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("worker: stopped with error")
	}
	logger.Info().Msg("worker: stopped")
}

func (w *jobWorker) Run() error {
	w.logger.Info().Dur("poll_interval", w.pollInterval).Msg("worker: started")
	for {
		select {
		case <-w.ctx.Done():
			return w.ctx.Err()
		default:
		}

		j, err := w.claimJob()
		if err != nil {
			if !errors.Is(err, errNoJobAvailable) {
				w.logger.Error().Err(err).Msg("worker: failed to claim job")
			}
			if err := w.sleep(); err != nil {
				return err
			}
			continue
		}

		w.handleJob(j)
	}
}

func (w *jobWorker) sleep() error {
	interval := w.pollInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	timer := time.NewTimer(interval)
	defer timer.Stop()
	select {
	case <-w.ctx.Done():
		return w.ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (w *jobWorker) claimJob() (*domain.ScanJob, error) {
	j, err := w.scans.ClaimNext(w.ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errNoJobAvailable
		}
		return nil, err
	}
	return j, nil
}

func (w *jobWorker) handleJob(j *domain.ScanJob) {
	log := w.logger.With().Str("job_id", j.ID).Int("documents", len(j.Documents)).Logger()
	log.Info().Msg("worker: picked job")

	started := time.Now()
	result, err := w.process(j)
	if err != nil {
		if w.ctx.Err() != nil {
			// Interrupted by shutdown, not a property of the receipt.
			if err := w.writeStatus(func(ctx context.Context) error { return w.scans.Requeue(ctx, j.ID) }); err != nil {
				log.Error().Err(err).Msg("worker: requeue failed")
				return
			}
			log.Warn().Msg("worker: job requeued on shutdown")
			return
		}
		log.Error().Err(err).Msg("worker: job failed")
		w.markFailed(log, j.ID, err)
		return
	}

	payload, err := json.Marshal(result.DonationDetails)
	if err != nil {
		log.Error().Err(err).Msg("worker: encode result failed")
		w.markFailed(log, j.ID, err)
		return
	}
	if err := w.writeStatus(func(ctx context.Context) error {
		return w.scans.MarkSucceeded(ctx, j.ID, result.RawText, w.model, payload)
	}); err != nil {
		log.Error().Err(err).Msg("worker: update status failed")
		return
	}
	log.Info().Dur("took", time.Since(started)).Msg("worker: job succeeded")
}

func (w *jobWorker) markFailed(log zerolog.Logger, id string, cause error) {
	if err := w.writeStatus(func(ctx context.Context) error { return w.scans.MarkFailed(ctx, id, cause.Error()) }); err != nil {
		log.Error().Err(err).Msg("worker: update status failed")
	}
}

// writeStatus runs a terminal status update detached from worker
// cancellation so a job claimed before shutdown never stays RUNNING.
func (w *jobWorker) writeStatus(write func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(w.ctx), statusWriteTimeout)
	defer cancel()
	return write(ctx)
}

func (w *jobWorker) process(j *domain.ScanJob) (*domain.ExtractionResult, error) {
	ctx := w.ctx
	if w.jobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.jobTimeout)
		defer cancel()
	}

	docs, err := w.loadDocuments(ctx, j.Documents)
	if err != nil {
		return nil, err
	}
	return w.extractor.ExtractDonation(ctx, docs)
}

func (w *jobWorker) loadDocuments(ctx context.Context, refs []domain.ScanDocument) ([]domain.Document, error) {
	docs := make([]domain.Document, 0, len(refs))
	for _, ref := range refs {
		data, err := w.blobs.Read(ctx, ref.StorageKey)
		if err != nil {
			return nil, fmt.Errorf("read document %q: %w", ref.StorageKey, err)
		}
		docs = append(docs, domain.Document{Name: ref.Name, MIMEType: ref.MIMEType, Data: data})
	}
	return docs, nil
}
