// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes server timeouts,
// logging, database paths, rate limiting, the manual-generation workflow
// knobs, and observability settings.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// DocsConfig groups the settings for the user-manual generation workflow:
// where rendered manuals and module fragments live, how long signed download
// links stay valid, and the worker/poller budgets.
type DocsConfig struct {
	StorageDir    string        // DOC_STORAGE_DIR: local object-store root
	SigningSecret string        // DOC_SIGNING_SECRET: HMAC key for signed URLs
	SignedURLTTL  time.Duration // DOC_SIGNED_URL_TTL
	TemplatePath  string        // DOC_TEMPLATE_PATH: DOCX template (optional)
	ModuleDir     string        // DOC_MODULE_DIR: product module fragments
	WorkerCount   int           // DOC_WORKERS: generation goroutines
	WorkerTimeout time.Duration // DOC_WORKER_TIMEOUT: per-job execution cap
	QueueSize     int           // DOC_QUEUE_SIZE: pending job buffer

	PollInterval    time.Duration // DOC_POLL_INTERVAL: client poll cadence
	MaxPollAttempts int           // DOC_POLL_ATTEMPTS: client poll budget
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
	GinMode           string // debug|release|test

	// Logging / Docs UI
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool
	SwaggerEnabled bool
	APIBasePath    string

	// App
	DBPath string // SQLite path

	// Rate limiting
	RateRPS   float64
	RateBurst int

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Idempotency
	IdempotencyKeyMaxLen int // max accepted Idempotency-Key header length

	// Manual generation
	Docs DocsConfig

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables, applies defaults,
// normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs UI
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),

		// App
		DBPath: getenv("DB_PATH", "board.db"),

		// Rate limiting
		RateRPS:   getfloat("RATE_RPS", 5.0),
		RateBurst: getint("RATE_BURST", 10),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Idempotency
		IdempotencyKeyMaxLen: getint("IDEMPOTENCY_KEY_MAX_LEN", 200),

		// Manual generation
		Docs: DocsConfig{
			StorageDir:    getenv("DOC_STORAGE_DIR", "data/manuals"),
			SigningSecret: getenv("DOC_SIGNING_SECRET", "dev-signing-secret"),
			SignedURLTTL:  getdur("DOC_SIGNED_URL_TTL", time.Hour),
			TemplatePath:  getenv("DOC_TEMPLATE_PATH", ""),
			ModuleDir:     getenv("DOC_MODULE_DIR", "docs/modules"),
			WorkerCount:   getint("DOC_WORKERS", 2),
			WorkerTimeout: getdur("DOC_WORKER_TIMEOUT", 60*time.Second),
			QueueSize:     getint("DOC_QUEUE_SIZE", 64),

			PollInterval:    getdur("DOC_POLL_INTERVAL", 2*time.Second),
			MaxPollAttempts: getint("DOC_POLL_ATTEMPTS", 30),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "go-board-backend"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.IdempotencyKeyMaxLen < 1 {
		return cfg, errors.New("IDEMPOTENCY_KEY_MAX_LEN must be >= 1")
	}
	if strings.TrimSpace(cfg.Docs.StorageDir) == "" {
		return cfg, errors.New("DOC_STORAGE_DIR must not be empty")
	}
	if strings.TrimSpace(cfg.Docs.SigningSecret) == "" {
		return cfg, errors.New("DOC_SIGNING_SECRET must not be empty")
	}
	if cfg.Docs.SignedURLTTL <= 0 {
		return cfg, errors.New("DOC_SIGNED_URL_TTL must be > 0")
	}
	if cfg.Docs.WorkerCount < 1 {
		return cfg, errors.New("DOC_WORKERS must be >= 1")
	}
	if cfg.Docs.WorkerTimeout <= 0 {
		return cfg, errors.New("DOC_WORKER_TIMEOUT must be > 0")
	}
	if cfg.Docs.QueueSize < 1 {
		return cfg, errors.New("DOC_QUEUE_SIZE must be >= 1")
	}
	if cfg.Docs.PollInterval <= 0 {
		return cfg, errors.New("DOC_POLL_INTERVAL must be > 0")
	}
	if cfg.Docs.MaxPollAttempts < 1 {
		return cfg, errors.New("DOC_POLL_ATTEMPTS must be >= 1")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
