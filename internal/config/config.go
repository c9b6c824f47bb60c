// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as server timeouts, logging, storage selection, protocol numbering,
// backups, rate limiting, and observability.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // DEFAULT_TIMEZONE must resolve on hosts without zoneinfo
)

// Storage backends.
const (
	BackendSQL   = "sql"
	BackendLocal = "local"
)

// StorageConfig selects and tunes the persistence backend.
type StorageConfig struct {
	Backend        string        // STORAGE_BACKEND: sql|local
	DBDriver       string        // DB_DRIVER: sqlite|postgres
	DBPath         string        // DB_PATH (SQLite file)
	DBDSN          string        // DB_DSN (Postgres)
	LocalStorePath string        // LOCAL_STORE_PATH
	CacheTTL       time.Duration // CACHE_TTL for the local store read cache
	CacheSize      int           // CACHE_SIZE entries
	StoreTimeout   time.Duration // STORE_TIMEOUT per store round trip
}

// ProtocolConfig holds numbering and listing settings.
type ProtocolConfig struct {
	Prefix           string         // PROTOCOL_PREFIX
	AllocMaxAttempts int            // ALLOC_MAX_ATTEMPTS
	ListMaxRecords   int            // LIST_MAX_RECORDS
	DefaultPageSize  int            // DEFAULT_PAGE_SIZE
	Timezone         string         // DEFAULT_TIMEZONE (IANA name)
	Location         *time.Location // resolved Timezone
	ActivityLogMax   int            // ACTIVITY_LOG_MAX; 0 keeps everything
}

// BackupConfig selects where export backups are written.
type BackupConfig struct {
	Driver      string // BACKUP_DRIVER: none|fs|s3
	Dir         string // BACKUP_DIR
	S3Bucket    string // BACKUP_S3_BUCKET
	S3Region    string // BACKUP_S3_REGION
	S3Endpoint  string // BACKUP_S3_ENDPOINT (MinIO and friends)
	S3PathStyle bool   // BACKUP_S3_PATH_STYLE
}

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
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "go-protocol-backend")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for API routes

	// App
	Storage  StorageConfig
	Protocol ProtocolConfig
	Backup   BackupConfig

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Idempotency
	IdempotencyTTL time.Duration // how long a given Idempotency-Key is valid

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

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
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

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),

		// App
		Storage: StorageConfig{
			Backend:        strings.ToLower(getenv("STORAGE_BACKEND", BackendSQL)),
			DBDriver:       strings.ToLower(getenv("DB_DRIVER", "sqlite")),
			DBPath:         getenv("DB_PATH", "app.db"),
			DBDSN:          getenv("DB_DSN", ""),
			LocalStorePath: getenv("LOCAL_STORE_PATH", "local.db"),
			CacheTTL:       getdur("CACHE_TTL", 30*time.Second),
			CacheSize:      getint("CACHE_SIZE", 16),
			StoreTimeout:   getdur("STORE_TIMEOUT", 5*time.Second),
		},
		Protocol: ProtocolConfig{
			Prefix:           strings.ToUpper(strings.TrimSpace(getenv("PROTOCOL_PREFIX", "GLESP"))),
			AllocMaxAttempts: getint("ALLOC_MAX_ATTEMPTS", 5),
			ListMaxRecords:   getint("LIST_MAX_RECORDS", 5000),
			DefaultPageSize:  getint("DEFAULT_PAGE_SIZE", 20),
			Timezone:         getenv("DEFAULT_TIMEZONE", "America/Sao_Paulo"),
			ActivityLogMax:   getint("ACTIVITY_LOG_MAX", 1000),
		},
		Backup: BackupConfig{
			Driver:      strings.ToLower(getenv("BACKUP_DRIVER", "none")),
			Dir:         getenv("BACKUP_DIR", "backups"),
			S3Bucket:    getenv("BACKUP_S3_BUCKET", ""),
			S3Region:    getenv("BACKUP_S3_REGION", "us-east-1"),
			S3Endpoint:  getenv("BACKUP_S3_ENDPOINT", ""),
			S3PathStyle: getbool("BACKUP_S3_PATH_STYLE", false),
		},

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
		IdempotencyTTL: getdur("IDEMPOTENCY_TTL", 24*time.Hour),

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "go-protocol-backend"),
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
	if err := validateStorage(cfg.Storage); err != nil {
		return cfg, err
	}
	if err := validateProtocol(&cfg.Protocol); err != nil {
		return cfg, err
	}
	if err := validateBackup(cfg.Backup); err != nil {
		return cfg, err
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
	if cfg.IdempotencyTTL <= 0 {
		return cfg, errors.New("IDEMPOTENCY_TTL must be > 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

func validateStorage(c StorageConfig) error {
	switch c.Backend {
	case BackendSQL, BackendLocal:
	default:
		return errors.New("STORAGE_BACKEND must be one of: sql, local")
	}
	switch c.DBDriver {
	case "sqlite":
		if strings.TrimSpace(c.DBPath) == "" {
			return errors.New("DB_PATH must not be empty")
		}
	case "postgres":
		if strings.TrimSpace(c.DBDSN) == "" {
			return errors.New("DB_DSN must be set when DB_DRIVER=postgres")
		}
	default:
		return errors.New("DB_DRIVER must be one of: sqlite, postgres")
	}
	if c.Backend == BackendLocal && strings.TrimSpace(c.LocalStorePath) == "" {
		return errors.New("LOCAL_STORE_PATH must not be empty")
	}
	if c.CacheTTL <= 0 {
		return errors.New("CACHE_TTL must be > 0")
	}
	if c.CacheSize < 1 {
		return errors.New("CACHE_SIZE must be >= 1")
	}
	if c.StoreTimeout <= 0 {
		return errors.New("STORE_TIMEOUT must be > 0")
	}
	return nil
}

func validateProtocol(c *ProtocolConfig) error {
	if c.Prefix == "" || strings.Contains(c.Prefix, "-") {
		return errors.New("PROTOCOL_PREFIX must be non-empty and must not contain '-'")
	}
	if c.AllocMaxAttempts < 1 {
		return errors.New("ALLOC_MAX_ATTEMPTS must be >= 1")
	}
	if c.ListMaxRecords < 1 {
		return errors.New("LIST_MAX_RECORDS must be >= 1")
	}
	if c.DefaultPageSize < 1 || c.DefaultPageSize > 100 {
		return errors.New("DEFAULT_PAGE_SIZE must be between 1 and 100")
	}
	if c.ActivityLogMax < 0 {
		return errors.New("ACTIVITY_LOG_MAX must be >= 0")
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("DEFAULT_TIMEZONE: %w", err)
	}
	c.Location = loc
	return nil
}

func validateBackup(c BackupConfig) error {
	switch c.Driver {
	case "none":
	case "fs":
		if strings.TrimSpace(c.Dir) == "" {
			return errors.New("BACKUP_DIR must be set when BACKUP_DRIVER=fs")
		}
	case "s3":
		if strings.TrimSpace(c.S3Bucket) == "" {
			return errors.New("BACKUP_S3_BUCKET must be set when BACKUP_DRIVER=s3")
		}
	default:
		return errors.New("BACKUP_DRIVER must be one of: none, fs, s3")
	}
	return nil
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
