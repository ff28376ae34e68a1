package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// UID schemes accepted by UID_SCHEME.
const (
	UIDSchemeRandom     = "random"
	UIDSchemeSequential = "sequential"
)

type Config struct {
	Port string

	// Semantic-extraction capability
	GoogleAPIKey string
	GeminiModel  string

	// Upload limits
	MaxUploadBytes int64
	MaxConnections int

	// PDF
	PDFTextExtraction    bool
	PDFFallbackPdftotext bool

	// Skip the capability call when the source document failed structural parsing.
	ShortCircuitParseFailures bool

	UIDScheme string

	CORSAllowedOrigins []string

	// Rolling window for capability latency stats.
	LLMStatsWindow time.Duration

	LogLevel string
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8000"),

		GoogleAPIKey: os.Getenv("GOOGLE_API_KEY"),
		GeminiModel:  envOr("GEMINI_MODEL", "gemini-2.5-flash"),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB
		MaxConnections: envInt("MAX_CONNECTIONS", 256),

		PDFTextExtraction:    envBool("PDF_TEXT_EXTRACTION", true),
		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),

		ShortCircuitParseFailures: envBool("SHORT_CIRCUIT_PARSE_FAILURES", false),

		UIDScheme: strings.ToLower(envOr("UID_SCHEME", UIDSchemeRandom)),

		CORSAllowedOrigins: envList("CORS_ALLOWED_ORIGINS", []string{"*"}),

		LLMStatsWindow: envDuration("LLM_STATS_WINDOW", 1*time.Hour),

		LogLevel: strings.ToLower(envOr("LOG_LEVEL", "info")),
	}

	if cfg.LLMStatsWindow <= 0 {
		cfg.LLMStatsWindow = 1 * time.Hour
	}

	return cfg
}

// Validate rejects settings the service cannot run with. A missing
// GOOGLE_API_KEY is not an error: the service starts and extraction
// requests degrade to the diagnostic atom.
func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes)
	}
	if c.MaxConnections <= 0 {
		return fmt.Errorf("MAX_CONNECTIONS must be positive, got %d", c.MaxConnections)
	}
	switch c.UIDScheme {
	case UIDSchemeRandom, UIDSchemeSequential:
	default:
		return fmt.Errorf("UID_SCHEME must be %q or %q, got %q", UIDSchemeRandom, UIDSchemeSequential, c.UIDScheme)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// HasCredential reports whether a capability credential was supplied.
func (c Config) HasCredential() bool {
	return c.GoogleAPIKey != ""
}

// ParseLevel maps LOG_LEVEL values onto slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("LOG_LEVEL must be debug, info, warn or error, got %q", s)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
