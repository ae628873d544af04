package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ProviderGemini = "gemini"
	ProviderGenAI  = "genai"
	ProviderOpenAI = "openai"

	OCREngineModel     = "model"
	OCREngineTesseract = "tesseract"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv         string
	Port           string
	DatabaseURL    string
	StoragePath    string
	GeoIPDBPath    string
	AllowedOrigins []string

	AIProvider    string
	GeminiAPIKey  string
	GeminiBaseURL string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIOrg     string

	OCREngine        string
	OCRLanguage      string
	OCRImageModel    string
	OCRPDFModel      string
	ExtractionModel  string
	OCRConcurrency   int
	AIRequestTimeout time.Duration

	MaxUploadBytes     int64
	MaxDocuments       int
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
	RateLimitPerMin    int
	WorkerPollInterval time.Duration
}

// LoadConfig loads configuration for the database-backed binaries (api and
// worker) and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg, err := LoadPipelineConfig()
	if err != nil {
		return nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	return cfg, nil
}

// LoadPipelineConfig loads the subset of configuration needed to run the
// extraction pipeline. It does not require a database.
func LoadPipelineConfig() (*Config, error) {
	provider := strings.ToLower(getEnv("AI_PROVIDER", ProviderGemini))
	imageModel, pdfModel, extractionModel := defaultModels(provider)

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		StoragePath:    getEnv("STORAGE_PATH", "./storage"),
		GeoIPDBPath:    os.Getenv("GEOIP_DB_PATH"),
		AllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),

		AIProvider:    provider,
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiBaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIOrg:     os.Getenv("OPENAI_ORG"),

		OCREngine:        strings.ToLower(getEnv("OCR_ENGINE", OCREngineModel)),
		OCRLanguage:      getEnv("OCR_LANGUAGE", "eng"),
		OCRImageModel:    getEnv("OCR_IMAGE_MODEL", imageModel),
		OCRPDFModel:      getEnv("OCR_PDF_MODEL", pdfModel),
		ExtractionModel:  getEnv("EXTRACTION_MODEL", extractionModel),
		OCRConcurrency:   getEnvInt("OCR_CONCURRENCY", 1),
		AIRequestTimeout: time.Second * time.Duration(getEnvInt("AI_REQUEST_TIMEOUT_SECONDS", 90)),

		MaxUploadBytes:     int64(getEnvInt("MAX_UPLOAD_BYTES", 20<<20)),
		MaxDocuments:       getEnvInt("MAX_DOCUMENTS", 5),
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 30)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 180)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:    getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		WorkerPollInterval: time.Second * time.Duration(getEnvInt("WORKER_POLL_INTERVAL_SECONDS", 2)),
	}

	switch cfg.AIProvider {
	case ProviderGemini, ProviderGenAI, ProviderOpenAI:
	default:
		return nil, fmt.Errorf("unsupported AI_PROVIDER %q", cfg.AIProvider)
	}
	switch cfg.OCREngine {
	case OCREngineModel, OCREngineTesseract:
	default:
		return nil, fmt.Errorf("unsupported OCR_ENGINE %q", cfg.OCREngine)
	}
	if cfg.OCRConcurrency <= 0 {
		cfg.OCRConcurrency = 1
	}
	if cfg.MaxDocuments <= 0 {
		cfg.MaxDocuments = 5
	}

	return cfg, nil
}

// APIKey returns the configured key for the active AI provider.
func (c *Config) APIKey() string {
	if c.AIProvider == ProviderOpenAI {
		return strings.TrimSpace(c.OpenAIAPIKey)
	}
	return strings.TrimSpace(c.GeminiAPIKey)
}

func defaultModels(provider string) (image, pdf, extraction string) {
	if provider == ProviderOpenAI {
		return "gpt-4o-mini", "gpt-4o", "gpt-4o-mini"
	}
	return "gemini-2.5-flash", "gemini-2.5-pro", "gemini-2.5-flash"
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
