package domain

import "context"

// ScanRepository persists asynchronous scan jobs.
type ScanRepository interface {
	Create(ctx context.Context, job *ScanJob) error
	GetByID(ctx context.Context, id string) (*ScanJob, error)
	ClaimNext(ctx context.Context) (*ScanJob, error)
	MarkSucceeded(ctx context.Context, id string, rawText string, model string, result []byte) error
	MarkFailed(ctx context.Context, id string, message string) error
	Requeue(ctx context.Context, id string) error
}
