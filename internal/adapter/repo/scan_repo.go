package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/domain"
	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/infra"
	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/sqlinline"
)

// ScanRepositoryPG implements domain.ScanRepository on PostgreSQL.
type ScanRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewScanRepository creates a scan job repository over the given executor.
func NewScanRepository(sql infra.SQLExecutor) *ScanRepositoryPG {
	return &ScanRepositoryPG{sql: sql}
}

// Create inserts a queued job. An empty ID is replaced by a fresh UUID.
func (r *ScanRepositoryPG) Create(ctx context.Context, job *domain.ScanJob) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	docs, err := json.Marshal(job.Documents)
	if err != nil {
		return fmt.Errorf("encode documents: %w", err)
	}
	country := domain.Deref(job.ClientCountry)
	row := r.sql.QueryRow(ctx, sqlinline.QInsertScanJob, job.ID, docs, country)
	if err := row.Scan(&job.CreatedAt, &job.UpdatedAt); err != nil {
		return fmt.Errorf("insert scan job: %w", err)
	}
	job.Status = domain.ScanStatusQueued
	return nil
}

// GetByID returns the job or domain.ErrNotFound.
func (r *ScanRepositoryPG) GetByID(ctx context.Context, id string) (*domain.ScanJob, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	job, err := scanJob(r.sql.QueryRow(ctx, sqlinline.QSelectScanJob, id))
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("select scan job: %w", err)
	}
	return job, nil
}

// ClaimNext moves the oldest queued job to RUNNING and returns it, or
// domain.ErrNotFound when the queue is empty.
func (r *ScanRepositoryPG) ClaimNext(ctx context.Context) (*domain.ScanJob, error) {
	job, err := scanJob(r.sql.QueryRow(ctx, sqlinline.QClaimScanJob))
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("claim scan job: %w", err)
	}
	return job, nil
}

func (r *ScanRepositoryPG) MarkSucceeded(ctx context.Context, id string, rawText string, model string, result []byte) error {
	_, err := r.sql.Exec(ctx, sqlinline.QMarkScanSucceeded, id, rawText, model, result)
	return err
}

func (r *ScanRepositoryPG) MarkFailed(ctx context.Context, id string, message string) error {
	_, err := r.sql.Exec(ctx, sqlinline.QMarkScanFailed, id, message)
	return err
}

// Requeue hands a RUNNING job back to the queue, used when the worker stops
// mid-job.
func (r *ScanRepositoryPG) Requeue(ctx context.Context, id string) error {
	_, err := r.sql.Exec(ctx, sqlinline.QRequeueScanJob, id)
	return err
}

func scanJob(row pgx.Row) (*domain.ScanJob, error) {
	var (
		job    domain.ScanJob
		status string
		docs   []byte
		result []byte
	)
	if err := row.Scan(
		&job.ID,
		&status,
		&docs,
		&job.RawText,
		&result,
		&job.Model,
		&job.ErrorMessage,
		&job.ClientCountry,
		&job.CreatedAt,
		&job.UpdatedAt,
		&job.FinishedAt,
	); err != nil {
		return nil, err
	}
	job.Status = domain.ScanStatus(status)
	if len(docs) > 0 {
		if err := json.Unmarshal(docs, &job.Documents); err != nil {
			return nil, fmt.Errorf("decode documents: %w", err)
		}
	}
	if len(result) > 0 {
		job.Result = json.RawMessage(result)
	}
	return &job, nil
}

var _ domain.ScanRepository = (*ScanRepositoryPG)(nil)
