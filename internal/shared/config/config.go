package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"cvai-core/internal/shared/telemetry"
)

const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendS3       = "s3"

	ScorerBaseline = "baseline"
	ScorerKeyword  = "keyword"
	ScorerLLM      = "llm"
)

// Config holds application configuration.
type Config struct {
	Env             string
	Port            string
	BindAddr        string
	CORSAllowOrigin []string

	StorageBackend string
	StorageDir     string
	StoragePrefix  string
	SQLitePath     string
	DatabaseURL    string
	AWSRegion      string
	S3Bucket       string
	S3Prefix       string

	Scorer           string
	LLMModel         string
	OpenAIAPIKey     string
	LLMRetryAttempts int

	ReviewLatency   time.Duration
	MatchLatency    time.Duration
	LetterLatency   time.Duration
	AnalysisTimeout time.Duration
	WorkflowKeyTTL  time.Duration
}

// Load reads configuration from environment variables with sensible
// defaults. Local .env files are loaded first and never override variables
// that are already set.
func Load() Config {
	loadEnvFiles(".env", "cmd/.env")

	return Config{
		Env:             normalizeEnv(getEnv("ENV", "dev")),
		Port:            getEnv("PORT", "8080"),
		BindAddr:        getEnv("BIND_ADDR", "127.0.0.1"),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),

		StorageBackend: NormalizeBackend(getEnv("STORAGE_BACKEND", BackendSQLite)),
		StorageDir:     getEnv("STORAGE_DIR", "./data"),
		StoragePrefix:  getEnv("STORAGE_PREFIX", ""),
		SQLitePath:     getEnv("SQLITE_PATH", "./data/cvai.db"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		S3Bucket:       getEnv("S3_BUCKET", ""),
		S3Prefix:       getEnv("S3_PREFIX", ""),

		Scorer:           NormalizeScorer(getEnv("SCORER", ScorerBaseline)),
		LLMModel:         getEnv("LLM_MODEL", "gpt-5-mini"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		LLMRetryAttempts: getInt("LLM_RETRY_ATTEMPTS", 1),

		ReviewLatency:   getDuration("REVIEW_LATENCY", 3*time.Second),
		MatchLatency:    getDuration("MATCH_LATENCY", 3*time.Second),
		LetterLatency:   getDuration("LETTER_LATENCY", 2*time.Second),
		AnalysisTimeout: getDuration("ANALYSIS_TIMEOUT", 2*time.Minute),
		WorkflowKeyTTL:  getDuration("WORKFLOW_KEY_TTL", 15*time.Minute),
	}
}

func getEnv(key, def string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return def
}

func getInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		telemetry.Warn("config.env_invalid", map[string]any{"key": key, "value": raw})
		return def
	}
	return v
}

func getDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v < 0 {
		telemetry.Warn("config.env_invalid", map[string]any{"key": key, "value": raw})
		return def
	}
	return v
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "test":
		return "test"
	default:
		return "dev"
	}
}

// NormalizeBackend maps aliases onto a Backend* constant; unknown values fall
// back to sqlite.
func NormalizeBackend(raw string) string {
	switch v := strings.ToLower(strings.TrimSpace(raw)); v {
	case BackendMemory, BackendFile, BackendSQLite, BackendPostgres, BackendS3:
		return v
	case "pg", "postgresql":
		return BackendPostgres
	default:
		telemetry.Warn("config.unknown_backend", map[string]any{"value": raw})
		return BackendSQLite
	}
}

// NormalizeScorer maps raw onto a Scorer* constant, defaulting to baseline.
func NormalizeScorer(raw string) string {
	switch v := strings.ToLower(strings.TrimSpace(raw)); v {
	case ScorerBaseline, ScorerKeyword, ScorerLLM:
		return v
	default:
		telemetry.Warn("config.unknown_scorer", map[string]any{"value": raw})
		return ScorerBaseline
	}
}
