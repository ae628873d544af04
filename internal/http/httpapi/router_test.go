package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/domain"
	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/http/handlers"
)

const pngURI = "data:image/png;base64,aGVsbG8="

type fakeExtractor struct {
	rawText  func(ctx context.Context, docs []domain.Document) (string, error)
	details  func(ctx context.Context, text string) (*domain.DonationDetails, error)
	donation func(ctx context.Context, docs []domain.Document) (*domain.ExtractionResult, error)
}

func (f fakeExtractor) ExtractRawText(ctx context.Context, docs []domain.Document) (string, error) {
	if f.rawText == nil {
		return "", errors.New("not implemented")
	}
	return f.rawText(ctx, docs)
}

func (f fakeExtractor) ExtractDetails(ctx context.Context, text string) (*domain.DonationDetails, error) {
	if f.details == nil {
		return nil, errors.New("not implemented")
	}
	return f.details(ctx, text)
}

func (f fakeExtractor) ExtractDonation(ctx context.Context, docs []domain.Document) (*domain.ExtractionResult, error) {
	if f.donation == nil {
		return nil, errors.New("not implemented")
	}
	return f.donation(ctx, docs)
}

type memoryScans struct {
	mu        sync.Mutex
	jobs      map[string]*domain.ScanJob
	createErr error
}

func (m *memoryScans) Create(ctx context.Context, job *domain.ScanJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if m.jobs == nil {
		m.jobs = map[string]*domain.ScanJob{}
	}
	job.CreatedAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	job.UpdatedAt = job.CreatedAt
	copied := *job
	m.jobs[job.ID] = &copied
	return nil
}

func (m *memoryScans) GetByID(ctx context.Context, id string) (*domain.ScanJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return job, nil
}

func (m *memoryScans) ClaimNext(ctx context.Context) (*domain.ScanJob, error) {
	return nil, domain.ErrNotFound
}

func (m *memoryScans) MarkSucceeded(ctx context.Context, id, rawText, model string, result []byte) error {
	return nil
}

func (m *memoryScans) MarkFailed(ctx context.Context, id, message string) error {
	return nil
}

func (m *memoryScans) Requeue(ctx context.Context, id string) error {
	return nil
}

type memoryBlobs struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func (m *memoryBlobs) Write(ctx context.Context, key string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.blobs == nil {
		m.blobs = map[string][]byte{}
	}
	m.blobs[key] = data
	return key, nil
}

func (m *memoryBlobs) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, key)
	return nil
}

type fixedCountry string

func (f fixedCountry) CountryCode(ip string) (string, error) {
	return string(f), nil
}

func newTestRouter(app *handlers.App) http.Handler {
	if app.MaxDocuments == 0 {
		app.MaxDocuments = 3
	}
	return NewRouter(app, Options{Logger: zerolog.Nop(), RateLimitPerMin: 100, MaxBodyBytes: 1 << 20})
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "49.36.10.20:5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return body.Error.Code
}

func TestHealthz(t *testing.T) {
	rec := do(t, newTestRouter(&handlers.App{}), http.MethodGet, "/v1/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected X-Request-ID header")
	}
}

func TestExtractTextReturnsRawText(t *testing.T) {
	app := &handlers.App{Extractor: fakeExtractor{
		rawText: func(ctx context.Context, docs []domain.Document) (string, error) {
			if len(docs) != 2 || string(docs[0].Data) != "hello" {
				t.Errorf("unexpected docs: %#v", docs)
			}
			return "one\n---\ntwo", nil
		},
	}}
	rec := do(t, newTestRouter(app), http.MethodPost, "/v1/extract/text", `{"documents":["`+pngURI+`","`+pngURI+`"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["rawText"] != "one\n---\ntwo" {
		t.Fatalf("rawText = %q", body["rawText"])
	}
}

func TestExtractErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		path       string
		body       string
		extractor  fakeExtractor
		wantStatus int
		wantCode   string
	}{
		{
			name:       "bad_json",
			path:       "/v1/extract/text",
			body:       `{"documents":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "bad_request",
		},
		{
			name:       "malformed_document",
			path:       "/v1/extract/text",
			body:       `{"documents":["not-a-data-uri"]}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "no_text",
		},
		{
			name:       "no_documents",
			path:       "/v1/extract/donation",
			body:       `{"documents":[]}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "no_text",
		},
		{
			name:       "too_many_documents",
			path:       "/v1/extract/text",
			body:       `{"documents":["` + pngURI + `","` + pngURI + `","` + pngURI + `","` + pngURI + `"]}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "too_many_documents",
		},
		{
			name: "blank_text",
			path: "/v1/extract/details",
			body: `{"text":"  "}`,
			extractor: fakeExtractor{details: func(ctx context.Context, text string) (*domain.DonationDetails, error) {
				return nil, domain.ErrNoTextExtracted
			}},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "no_text",
		},
		{
			name: "no_structured_output",
			path: "/v1/extract/details",
			body: `{"text":"UTR: 123456789012"}`,
			extractor: fakeExtractor{details: func(ctx context.Context, text string) (*domain.DonationDetails, error) {
				return nil, domain.ErrNoStructuredOutput
			}},
			wantStatus: http.StatusBadGateway,
			wantCode:   "no_structured_output",
		},
		{
			name: "provider_failure",
			path: "/v1/extract/donation",
			body: `{"documents":["` + pngURI + `"]}`,
			extractor: fakeExtractor{donation: func(ctx context.Context, docs []domain.Document) (*domain.ExtractionResult, error) {
				return nil, errors.Join(domain.ErrProviderFailure, errors.New("gemini status 503: overloaded"))
			}},
			wantStatus: http.StatusBadGateway,
			wantCode:   "provider_failure",
		},
		{
			name: "timeout",
			path: "/v1/extract/donation",
			body: `{"documents":["` + pngURI + `"]}`,
			extractor: fakeExtractor{donation: func(ctx context.Context, docs []domain.Document) (*domain.ExtractionResult, error) {
				return nil, context.DeadlineExceeded
			}},
			wantStatus: http.StatusGatewayTimeout,
			wantCode:   "timeout",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, newTestRouter(&handlers.App{Extractor: tc.extractor}), http.MethodPost, tc.path, tc.body)
			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d (body=%s)", rec.Code, tc.wantStatus, rec.Body.String())
			}
			if got := errorCode(t, rec); got != tc.wantCode {
				t.Fatalf("code = %q, want %q", got, tc.wantCode)
			}
		})
	}
}

func TestExtractDonationOmitsAbsentFields(t *testing.T) {
	amount := 751.0
	app := &handlers.App{Extractor: fakeExtractor{
		donation: func(ctx context.Context, docs []domain.Document) (*domain.ExtractionResult, error) {
			return &domain.ExtractionResult{
				DonationDetails: domain.DonationDetails{Amount: &amount, UTRNumber: domain.StringPtr("123456789012")},
				RawText:         "UTR: 123456789012",
			}, nil
		},
	}}
	rec := do(t, newTestRouter(app), http.MethodPost, "/v1/extract/donation", `{"documents":["`+pngURI+`"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["utrNumber"] != "123456789012" || body["amount"] != 751.0 || body["rawText"] != "UTR: 123456789012" {
		t.Fatalf("unexpected body: %v", body)
	}
	if _, ok := body["transactionId"]; ok {
		t.Fatalf("transactionId should be absent: %v", body)
	}
}

func TestScanLifecycle(t *testing.T) {
	scans := &memoryScans{}
	blobs := &memoryBlobs{}
	router := newTestRouter(&handlers.App{Scans: scans, Blobs: blobs, Geo: fixedCountry("IN")})

	rec := do(t, router, http.MethodPost, "/v1/scans", `{"documents":["`+pngURI+`"]}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("create status = %d body=%s", rec.Code, rec.Body.String())
	}
	var created struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == "" || created.Status != string(domain.ScanStatusQueued) {
		t.Fatalf("unexpected create response: %+v", created)
	}
	if len(blobs.blobs) != 1 {
		t.Fatalf("stored blobs = %d, want 1", len(blobs.blobs))
	}
	if string(blobs.blobs["scans/"+created.ID+"/01.png"]) != "hello" {
		t.Fatalf("unexpected blob keys: %v", blobs.blobs)
	}

	rec = do(t, router, http.MethodGet, "/v1/scans/"+created.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d body=%s", rec.Code, rec.Body.String())
	}
	var view map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view["status"] != "QUEUED" || view["documents"] != 1.0 || view["clientCountry"] != "IN" {
		t.Fatalf("unexpected view: %v", view)
	}

	rec = do(t, router, http.MethodGet, "/v1/scans/does-not-exist", "")
	if rec.Code != http.StatusNotFound || errorCode(t, rec) != "not_found" {
		t.Fatalf("missing scan status = %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestCreateScanDiscardsDocumentsWhenQueueFails(t *testing.T) {
	scans := &memoryScans{createErr: errors.New("db down")}
	blobs := &memoryBlobs{}
	router := newTestRouter(&handlers.App{Scans: scans, Blobs: blobs})

	rec := do(t, router, http.MethodPost, "/v1/scans", `{"documents":["`+pngURI+`","`+pngURI+`"]}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	if len(blobs.blobs) != 0 {
		t.Fatalf("documents left behind after failed queue: %v", blobs.blobs)
	}
}

func TestScansUnavailableWithoutRepository(t *testing.T) {
	rec := do(t, newTestRouter(&handlers.App{}), http.MethodPost, "/v1/scans", `{"documents":["`+pngURI+`"]}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}
