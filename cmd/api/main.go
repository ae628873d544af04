package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/adapter/repo"
	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/bootstrap"
	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/http/handlers"
	httpapi "github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/http/httpapi"
	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/infra"
	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/infra/credentials"
	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/infra/geoip"
	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/storage"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	runner := infra.NewSQLRunner(dbpool, logger)

	apiKey, err := credentials.NewStore(runner).ResolveAPIKey(ctx, cfg)
	if err != nil {
		logger.Warn().Err(err).Str("provider", cfg.AIProvider).Msg("failed to load api key from store")
	}

	pipeline, closer, err := bootstrap.NewPipeline(ctx, cfg, apiKey, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure extraction pipeline")
	}
	defer closer.Close()

	fileStore, err := storage.NewFileStore(cfg.StoragePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure storage")
	}

	geo, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Str("path", cfg.GeoIPDBPath).Msg("geoip disabled")
	}
	defer geo.Close()

	app := &handlers.App{
		Extractor:      pipeline,
		Scans:          repo.NewScanRepository(runner),
		Blobs:          fileStore,
		DB:             dbpool,
		Logger:         &logger,
		MaxDocuments:   cfg.MaxDocuments,
		RequestTimeout: cfg.AIRequestTimeout,
	}
	if geo != nil {
		app.Geo = geo
	}

	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:          logger,
		AllowedOrigins:  cfg.AllowedOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
		MaxBodyBytes:    maxBodyBytes(cfg),
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().
			Str("provider", cfg.AIProvider).
			Str("ocr_engine", cfg.OCREngine).
			Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

// maxBodyBytes sizes the request body cap for MaxDocuments base64 data URIs of
// at most MaxUploadBytes each, plus JSON framing.
func maxBodyBytes(cfg *infra.Config) int64 {
	perDocument := cfg.MaxUploadBytes*4/3 + 256
	return perDocument*int64(cfg.MaxDocuments) + 4<<10
}
