// Package config defines configuration parsing and helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration parsed from environment variables.
type Config struct {
	AppEnv      string `env:"APP_ENV" envDefault:"dev"`
	Port        int    `env:"PORT" envDefault:"8080"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"interview-coach"`

	// Chat model provider (Mistral-style chat completions API).
	ChatAPIKey      string        `env:"CHAT_API_KEY"`
	ChatBaseURL     string        `env:"CHAT_BASE_URL" envDefault:"https://api.mistral.ai/v1"`
	ChatModel       string        `env:"CHAT_MODEL" envDefault:"mistral-small-latest"`
	ChatMaxTokens   int           `env:"CHAT_MAX_TOKENS" envDefault:"350"`
	ChatTemperature float64       `env:"CHAT_TEMPERATURE" envDefault:"0.8"`
	ChatTimeout     time.Duration `env:"CHAT_TIMEOUT" envDefault:"60s"`

	// Embeddings provider (OpenAI-compatible embeddings API).
	EmbeddingsAPIKey  string        `env:"EMBEDDINGS_API_KEY"`
	EmbeddingsBaseURL string        `env:"EMBEDDINGS_BASE_URL" envDefault:"https://api.openai.com/v1"`
	EmbeddingsModel   string        `env:"EMBEDDINGS_MODEL" envDefault:"text-embedding-3-small"`
	EmbeddingsTimeout time.Duration `env:"EMBEDDINGS_TIMEOUT" envDefault:"30s"`

	// Zero-shot classifier (HuggingFace inference API).
	ClassifierAPIKey  string `env:"CLASSIFIER_API_KEY"`
	ClassifierBaseURL string `env:"CLASSIFIER_BASE_URL" envDefault:"https://api-inference.huggingface.co"`
	ClassifierModel   string `env:"CLASSIFIER_MODEL" envDefault:"facebook/bart-large-mnli"`

	// Optional Qdrant knowledge store; empty URL keeps knowledge bases in memory.
	QdrantURL    string `env:"QDRANT_URL"`
	QdrantAPIKey string `env:"QDRANT_API_KEY"`

	// Matching thresholds.
	FuzzyCutoff       int     `env:"FUZZY_CUTOFF" envDefault:"90"`
	SemanticThreshold float64 `env:"SEMANTIC_THRESHOLD" envDefault:"0.72"`

	// Retrieval defaults.
	RetrievalTopK      int     `env:"RETRIEVAL_TOP_K" envDefault:"3"`
	RetrievalThreshold float64 `env:"RETRIEVAL_THRESHOLD" envDefault:"0.1"`

	// Data files.
	CatalogPath    string `env:"CATALOG_PATH" envDefault:"configs/catalog.yaml"`
	SkillRefsDir   string `env:"SKILL_REFS_DIR" envDefault:"configs/skills"`
	PromptTokenCap int    `env:"PROMPT_TOKEN_CAP" envDefault:"2000"`

	// AI retry policy: only 429 responses are retried; MaxAttempts bounds the
	// total number of tries.
	AIRetryMaxAttempts     int           `env:"AI_RETRY_MAX_ATTEMPTS" envDefault:"3"`
	AIRetryInitialInterval time.Duration `env:"AI_RETRY_INITIAL_INTERVAL" envDefault:"1s"`
	AIRetryMultiplier      float64       `env:"AI_RETRY_MULTIPLIER" envDefault:"2.0"`

	// HTTP server.
	MaxUploadMB           int64         `env:"MAX_UPLOAD_MB" envDefault:"10"`
	CORSAllowOrigins      string        `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`
	RateLimitPerMin       int           `env:"RATE_LIMIT_PER_MIN" envDefault:"30"`
	ServerShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	HTTPReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	HTTPWriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"120s"`
	HTTPIdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
}

// Load parses environment variables into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("op=config.Load: %w", err)
	}
	return cfg, nil
}

// IsDev reports whether the app is running in development mode.
func (c Config) IsDev() bool { return strings.ToLower(c.AppEnv) == "dev" }

// IsProd reports whether the app is running in production mode.
func (c Config) IsProd() bool { return strings.ToLower(c.AppEnv) == "prod" }

// IsTest reports whether the app is running in test mode.
func (c Config) IsTest() bool { return strings.ToLower(c.AppEnv) == "test" }

// AIRetryPolicy returns the retry knobs appropriate for the current
// environment. Test mode shrinks the intervals so retry paths run fast.
func (c Config) AIRetryPolicy() (maxAttempts int, initialInterval time.Duration, multiplier float64) {
	if c.IsTest() {
		return c.AIRetryMaxAttempts, 10 * time.Millisecond, 2.0
	}
	return c.AIRetryMaxAttempts, c.AIRetryInitialInterval, c.AIRetryMultiplier
}

// ChatEnabled reports whether a real chat provider is configured.
func (c Config) ChatEnabled() bool { return c.ChatAPIKey != "" }

// EmbeddingsEnabled reports whether a real embeddings provider is configured.
func (c Config) EmbeddingsEnabled() bool { return c.EmbeddingsAPIKey != "" }

// ClassifierEnabled reports whether a real zero-shot classifier is configured.
func (c Config) ClassifierEnabled() bool { return c.ClassifierAPIKey != "" }

// QdrantEnabled reports whether knowledge bases should be persisted to Qdrant.
func (c Config) QdrantEnabled() bool { return c.QdrantURL != "" }
