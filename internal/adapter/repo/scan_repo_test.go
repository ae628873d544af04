package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/domain"
	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/sqlinline"
)

type stubRow struct {
	scan func(dest ...any) error
}

func (r stubRow) Scan(dest ...any) error {
	if r.scan == nil {
		return pgx.ErrNoRows
	}
	return r.scan(dest...)
}

type stubSQL struct {
	queries []string
	args    [][]any
	row     stubRow
}

func (s *stubSQL) Exec(_ context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	s.queries = append(s.queries, query)
	s.args = append(s.args, args)
	return pgconn.CommandTag{}, nil
}

func (s *stubSQL) QueryRow(_ context.Context, query string, args ...any) pgx.Row {
	s.queries = append(s.queries, query)
	s.args = append(s.args, args)
	return s.row
}

func (s *stubSQL) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func jobRow(id, status string, docs []byte, rawText *string) stubRow {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return stubRow{scan: func(dest ...any) error {
		if len(dest) != 11 {
			return fmt.Errorf("unexpected scan args: %d", len(dest))
		}
		*dest[0].(*string) = id
		*dest[1].(*string) = status
		*dest[2].(*[]byte) = docs
		*dest[3].(**string) = rawText
		*dest[4].(*[]byte) = nil
		*dest[5].(**string) = nil
		*dest[6].(**string) = nil
		*dest[7].(**string) = nil
		*dest[8].(*time.Time) = created
		*dest[9].(*time.Time) = created
		*dest[10].(**time.Time) = nil
		return nil
	}}
}

func TestScanRepositoryCreateAssignsID(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	sql := &stubSQL{row: stubRow{scan: func(dest ...any) error {
		*dest[0].(*time.Time) = now
		*dest[1].(*time.Time) = now
		return nil
	}}}
	repo := NewScanRepository(sql)
	country := "IN"
	job := &domain.ScanJob{
		Documents:     []domain.ScanDocument{{StorageKey: "scans/a/01.png", MIMEType: "image/png"}},
		ClientCountry: &country,
	}
	if err := repo.Create(context.Background(), job); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if job.ID == "" {
		t.Fatal("expected generated ID")
	}
	if job.Status != domain.ScanStatusQueued {
		t.Fatalf("status = %q, want QUEUED", job.Status)
	}
	if !job.CreatedAt.Equal(now) {
		t.Fatalf("CreatedAt = %v, want %v", job.CreatedAt, now)
	}
	if sql.queries[0] != sqlinline.QInsertScanJob {
		t.Fatal("unexpected query")
	}
	var docs []domain.ScanDocument
	if err := json.Unmarshal(sql.args[0][1].([]byte), &docs); err != nil {
		t.Fatalf("documents arg is not JSON: %v", err)
	}
	if len(docs) != 1 || docs[0].StorageKey != "scans/a/01.png" {
		t.Fatalf("unexpected documents arg: %#v", docs)
	}
	if sql.args[0][2] != "IN" {
		t.Fatalf("country arg = %#v, want IN", sql.args[0][2])
	}
}

func TestScanRepositoryGetByID(t *testing.T) {
	id := "6f1c2a34-9d8e-4b7a-a1c2-3d4e5f607182"
	raw := "UTR: 123456789012"
	sql := &stubSQL{row: jobRow(id, "SUCCEEDED", []byte(`[{"storage_key":"k","mime_type":"image/png"}]`), &raw)}
	repo := NewScanRepository(sql)

	job, err := repo.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if job.Status != domain.ScanStatusSucceeded || !job.Finished() {
		t.Fatalf("unexpected status %q", job.Status)
	}
	if len(job.Documents) != 1 || job.Documents[0].StorageKey != "k" {
		t.Fatalf("unexpected documents %#v", job.Documents)
	}
	if domain.Deref(job.RawText) != raw {
		t.Fatalf("RawText = %q, want %q", domain.Deref(job.RawText), raw)
	}
}

func TestScanRepositoryNotFound(t *testing.T) {
	repo := NewScanRepository(&stubSQL{})

	if _, err := repo.GetByID(context.Background(), "not-a-uuid"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for malformed id, got %v", err)
	}
	if _, err := repo.GetByID(context.Background(), "6f1c2a34-9d8e-4b7a-a1c2-3d4e5f607182"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing row, got %v", err)
	}
	if _, err := repo.ClaimNext(context.Background()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty queue, got %v", err)
	}
}

func TestScanRepositoryRequeue(t *testing.T) {
	sql := &stubSQL{}
	repo := NewScanRepository(sql)
	if err := repo.Requeue(context.Background(), "id-2"); err != nil {
		t.Fatalf("Requeue returned error: %v", err)
	}
	if sql.queries[0] != sqlinline.QRequeueScanJob {
		t.Fatal("unexpected query")
	}
	if sql.args[0][0] != "id-2" {
		t.Fatalf("unexpected id arg %#v", sql.args[0][0])
	}
}

func TestScanRepositoryMarkFailed(t *testing.T) {
	sql := &stubSQL{}
	repo := NewScanRepository(sql)
	if err := repo.MarkFailed(context.Background(), "id-1", "no text extracted from document"); err != nil {
		t.Fatalf("MarkFailed returned error: %v", err)
	}
	if sql.queries[0] != sqlinline.QMarkScanFailed {
		t.Fatal("unexpected query")
	}
	if sql.args[0][1] != "no text extracted from document" {
		t.Fatalf("unexpected message arg %#v", sql.args[0][1])
	}
}
