// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as server timeouts, logging, storage, the generation backend, the hot
// cache, rate limiting, and observability.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
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
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "go-survey-backend")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// DBConfig selects and tunes the durable survey store.
type DBConfig struct {
	Driver      string // DB_DRIVER: sqlite|postgres
	Path        string // DB_PATH (sqlite)
	DSN         string // DATABASE_URL (postgres)
	MaxOpen     int    // DB_MAX_OPEN_CONNS
	MaxIdle     int    // DB_MAX_IDLE_CONNS
	LogSQL      bool   // DB_LOG_SQL
	AutoMigrate bool   // DB_AUTO_MIGRATE
}

// LLMConfig configures the generation backend.
type LLMConfig struct {
	Provider    string        // LLM_PROVIDER: openai|http|static
	APIKey      string        // OPENAI_API_KEY (alias LLM_API_KEY)
	BaseURL     string        // OPENAI_BASE_URL (optional for openai, required for http)
	Model       string        // LLM_MODEL
	Temperature float64       // LLM_TEMPERATURE in [0,2]
	MaxTokens   int           // LLM_MAX_TOKENS
	Timeout     time.Duration // LLM_TIMEOUT
}

// Configured reports whether the backend has what it needs to be called.
func (c LLMConfig) Configured() bool {
	switch c.Provider {
	case "static":
		return true
	case "http":
		return strings.TrimSpace(c.BaseURL) != ""
	default:
		return strings.TrimSpace(c.APIKey) != ""
	}
}

// CacheConfig configures the optional hot cache in front of the store.
type CacheConfig struct {
	Backend  string        // CACHE_BACKEND: none|memory|redis
	TTL      time.Duration // CACHE_TTL: lifetime of one entry
	RedisURL string        // REDIS_URL
	Prefix   string        // CACHE_PREFIX

	// SweepInterval is how often the memory backend drops expired
	// entries (CACHE_SWEEP_INTERVAL). Redis expires keys itself.
	SweepInterval time.Duration
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Host              string        // API_HOST
	Port              string        // API_PORT (PORT accepted)
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // must exceed LLM_TIMEOUT
	IdleTimeout       time.Duration // e.g. 60s
	ShutdownTimeout   time.Duration // graceful drain window
	MaxHeaderBytes    int           // bytes
	MaxBodyBytes      int64         // request body cap
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for API routes

	// Generation
	StrictPersistence   bool // surface store failures instead of degrading
	MaxTitleRunes       int
	MaxDescriptionRunes int

	DB    DBConfig
	LLM   LLMConfig
	Cache CacheConfig

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Observability
	OTEL OTELConfig
}

// Addr returns the listen address host:port.
func (c Config) Addr() string {
	return c.Host + ":" + c.Port
}

// LoadDotEnv loads variables from the given .env files (default ".env")
// without overriding variables already present in the environment. Missing
// files are ignored.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		_ = godotenv.Load(f)
	}
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Host:              getenv("API_HOST", "0.0.0.0"),
		Port:              getenv("API_PORT", getenv("PORT", "8000")),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 60*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout:   getdur("SHUTDOWN_TIMEOUT", 10*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		MaxBodyBytes:      int64(getint("MAX_BODY_BYTES", 64<<10)),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/api")),

		// Generation
		StrictPersistence:   getbool("STRICT_PERSISTENCE", false),
		MaxTitleRunes:       getint("MAX_TITLE_RUNES", 500),
		MaxDescriptionRunes: getint("MAX_DESCRIPTION_RUNES", 5000),

		DB: DBConfig{
			Driver:      strings.ToLower(getenv("DB_DRIVER", "sqlite")),
			Path:        getenv("DB_PATH", "surveys.db"),
			DSN:         getenv("DATABASE_URL", ""),
			MaxOpen:     getint("DB_MAX_OPEN_CONNS", 10),
			MaxIdle:     getint("DB_MAX_IDLE_CONNS", 10),
			LogSQL:      getbool("DB_LOG_SQL", false),
			AutoMigrate: getbool("DB_AUTO_MIGRATE", true),
		},
		LLM: LLMConfig{
			Provider:    strings.ToLower(getenv("LLM_PROVIDER", "openai")),
			APIKey:      getenv("OPENAI_API_KEY", getenv("LLM_API_KEY", "")),
			BaseURL:     getenv("OPENAI_BASE_URL", ""),
			Model:       getenv("LLM_MODEL", "gpt-3.5-turbo"),
			Temperature: getfloat("LLM_TEMPERATURE", 0.7),
			MaxTokens:   getint("LLM_MAX_TOKENS", 1500),
			Timeout:     getdur("LLM_TIMEOUT", 30*time.Second),
		},
		Cache: CacheConfig{
			Backend:  strings.ToLower(getenv("CACHE_BACKEND", "none")),
			TTL:      getdur("CACHE_TTL", time.Hour),
			RedisURL: getenv("REDIS_URL", "redis://localhost:6379/0"),
			Prefix:   getenv("CACHE_PREFIX", "v1"),

			SweepInterval: getdur("CACHE_SWEEP_INTERVAL", 5*time.Minute),
		},

		// Rate limiting
		RateRPS:   getfloat("RATE_RPS", 1.0),
		RateBurst: getint("RATE_BURST", 5),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "go-survey-backend"),
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
	if cfg.DB.Driver == "postgresql" || cfg.DB.Driver == "pg" {
		cfg.DB.Driver = "postgres"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("API_PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.ShutdownTimeout <= 0 {
		return cfg, errors.New("SHUTDOWN_TIMEOUT must be > 0")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if cfg.MaxBodyBytes <= 0 {
		return cfg, errors.New("MAX_BODY_BYTES must be > 0")
	}
	if cfg.MaxTitleRunes <= 0 || cfg.MaxDescriptionRunes <= 0 {
		return cfg, errors.New("MAX_TITLE_RUNES and MAX_DESCRIPTION_RUNES must be > 0")
	}

	switch cfg.DB.Driver {
	case "sqlite":
		if strings.TrimSpace(cfg.DB.Path) == "" {
			return cfg, errors.New("DB_PATH must not be empty")
		}
	case "postgres":
		if strings.TrimSpace(cfg.DB.DSN) == "" {
			return cfg, errors.New("DATABASE_URL is required when DB_DRIVER=postgres")
		}
	default:
		return cfg, errors.New("DB_DRIVER must be one of: sqlite, postgres")
	}
	if cfg.DB.MaxOpen < 1 || cfg.DB.MaxIdle < 0 {
		return cfg, errors.New("DB_MAX_OPEN_CONNS must be >= 1 and DB_MAX_IDLE_CONNS >= 0")
	}

	switch cfg.LLM.Provider {
	case "openai", "static":
	case "http":
		if strings.TrimSpace(cfg.LLM.BaseURL) == "" {
			return cfg, errors.New("OPENAI_BASE_URL is required when LLM_PROVIDER=http")
		}
	default:
		return cfg, errors.New("LLM_PROVIDER must be one of: openai, http, static")
	}
	if strings.TrimSpace(cfg.LLM.Model) == "" {
		return cfg, errors.New("LLM_MODEL must not be empty")
	}
	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		return cfg, errors.New("LLM_TEMPERATURE must be between 0 and 2")
	}
	if cfg.LLM.MaxTokens < 1 {
		return cfg, errors.New("LLM_MAX_TOKENS must be >= 1")
	}
	if cfg.LLM.Timeout <= 0 {
		return cfg, errors.New("LLM_TIMEOUT must be > 0")
	}

	switch cfg.Cache.Backend {
	case "none", "memory":
	case "redis":
		if strings.TrimSpace(cfg.Cache.RedisURL) == "" {
			return cfg, errors.New("REDIS_URL is required when CACHE_BACKEND=redis")
		}
	default:
		return cfg, errors.New("CACHE_BACKEND must be one of: none, memory, redis")
	}
	if cfg.Cache.TTL <= 0 {
		return cfg, errors.New("CACHE_TTL must be > 0")
	}
	if cfg.Cache.SweepInterval <= 0 {
		return cfg, errors.New("CACHE_SWEEP_INTERVAL must be > 0")
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
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers ----

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
