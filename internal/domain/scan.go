package domain

import (
	"encoding/json"
	"time"
)

// ScanStatus enumerates scan job lifecycle states.
type ScanStatus string

const (
	ScanStatusQueued    ScanStatus = "QUEUED"
	ScanStatusRunning   ScanStatus = "RUNNING"
	ScanStatusSucceeded ScanStatus = "SUCCEEDED"
	ScanStatusFailed    ScanStatus = "FAILED"
)

// ScanDocument references a receipt blob persisted in the file store.
type ScanDocument struct {
	StorageKey string `json:"storage_key"`
	MIMEType   string `json:"mime_type"`
	Name       string `json:"name,omitempty"`
}

// ScanJob is an asynchronous receipt extraction request and its outcome.
type ScanJob struct {
	ID            string
	Status        ScanStatus
	Documents     []ScanDocument
	RawText       *string
	Result        json.RawMessage
	Model         *string
	ErrorMessage  *string
	ClientCountry *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	FinishedAt    *time.Time
}

// Finished reports whether the job reached a terminal state.
func (j ScanJob) Finished() bool {
	return j.Status == ScanStatusSucceeded || j.Status == ScanStatusFailed
}
