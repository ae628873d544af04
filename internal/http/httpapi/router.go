package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/http/handlers"
	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/infra"
	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/middleware"
)

// Options configures the router middleware stack.
type Options struct {
	Logger          infra.Logger
	AllowedOrigins  []string
	RateLimitPerMin int
	MaxBodyBytes    int64
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(opts.Logger),
		middleware.CORS(opts.AllowedOrigins),
	)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/healthz", app.Health)

		r.Group(func(r chi.Router) {
			r.Use(
				middleware.RateLimit(opts.RateLimitPerMin, time.Minute),
				middleware.BodyLimit(opts.MaxBodyBytes),
			)
			r.Route("/extract", func(r chi.Router) {
				r.Post("/text", app.ExtractText)
				r.Post("/details", app.ExtractDetails)
				r.Post("/donation", app.ExtractDonation)
			})
			r.Route("/scans", func(r chi.Router) {
				r.Post("/", app.CreateScan)
				r.Get("/{id}", app.GetScan)
			})
		})
	})

	return r
}
