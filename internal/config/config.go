package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	pkgRetry "github.com/futig/pdfchat-backend/internal/pkg/retry"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr         string   `env:"SERVER_ADDR" envDefault:":8000"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`

	// External service configurations
	LLMConnectorCfg       LLMConnectorConfig       `envPrefix:"LLM_"`
	EmbeddingConnectorCfg EmbeddingConnectorConfig `envPrefix:"EMBEDDING_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// File upload configuration
	FileUploadCfg FileUploadConfig `envPrefix:"FILE_UPLOAD_"`

	// Pipeline configuration
	IngestCfg    IngestConfig    `envPrefix:"INGEST_"`
	RetrievalCfg RetrievalConfig `envPrefix:"RETRIEVAL_"`
	HistoryCfg   HistoryConfig   `envPrefix:"HISTORY_"`
	SearchCfg    SearchConfig    `envPrefix:"SEARCH_"`
	DocumentCfg  DocumentConfig  `envPrefix:"DOCUMENT_"`

	// Export configuration, docx export stays disabled without a unioffice key
	UniofficeLicenseKey string `env:"UNIOFFICE_LICENSE_KEY"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Environment (set from flag, not from env var)
	Environment string
}

type LLMConnectorConfig struct {
	HTTPClientConfig
	ChatEndpoint  string               `env:"CHAT_ENDPOINT" envDefault:"/chat/completions"`
	Model         string               `env:"MODEL" envDefault:"gpt-4o-mini"`
	Temperature   float64              `env:"TEMPERATURE" envDefault:"0.3"`
	AnswerTimeout time.Duration        `env:"ANSWER_TIMEOUT" envDefault:"60s"`
	Retry         pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type EmbeddingConnectorConfig struct {
	HTTPClientConfig
	Endpoint    string               `env:"ENDPOINT" envDefault:"/embeddings"`
	Model       string               `env:"MODEL" envDefault:"text-embedding-3-small"`
	BatchSize   int                  `env:"BATCH_SIZE" envDefault:"32"`
	Concurrency int                  `env:"CONCURRENCY" envDefault:"4"`
	Retry       pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"60s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"60s"`
	TLSHandshakeTimeout   time.Duration `env:"TLS_HANDSHAKE_TIMEOUT" envDefault:"10s"`
	MaxIdleConns          int           `env:"MAX_IDLE_CONNS" envDefault:"100"`
	MaxIdleConnsPerHost   int           `env:"MAX_IDLE_CONNS_PER_HOST" envDefault:"10"`
	InsecureSkipVerify    bool          `env:"INSECURE_SKIP_VERIFY" envDefault:"false"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL" envDefault:"https://api.openai.com/v1"`
}

// FileUploadConfig holds file upload limits
type FileUploadConfig struct {
	MaxFileSize   int64 `env:"MAX_FILE_SIZE" envDefault:"20971520"`   // 20 MiB
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE" envDefault:"33554432"` // 32 MiB
}

type IngestConfig struct {
	ChunkSize    int `env:"CHUNK_SIZE" envDefault:"1000"`
	ChunkOverlap int `env:"CHUNK_OVERLAP" envDefault:"200"`
}

type RetrievalConfig struct {
	TopK int `env:"TOP_K" envDefault:"4"`
}

type HistoryConfig struct {
	// MaxTurns caps the stored conversation, 0 keeps every turn.
	MaxTurns int `env:"MAX_TURNS" envDefault:"20"`
}

type SearchConfig struct {
	MaxOccurrences int `env:"MAX_OCCURRENCES" envDefault:"20"`
	ContextRadius  int `env:"CONTEXT_RADIUS" envDefault:"50"`
}

type IDStrategy string

const (
	IDStrategyUUID    IDStrategy = "uuid"
	IDStrategyContent IDStrategy = "content"
)

type DocumentConfig struct {
	// TTL evicts documents after the given duration, 0 keeps them for the process lifetime.
	TTL             time.Duration `env:"TTL" envDefault:"0s"`
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" envDefault:"10m"`
	IDStrategy      IDStrategy    `env:"ID_STRATEGY" envDefault:"uuid"`
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg, err := Parse()
	if err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag

	return cfg, nil
}

// Parse reads the configuration from the process environment and validates it.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errors []string

	if cfg.IngestCfg.ChunkSize < 1 {
		errors = append(errors, fmt.Sprintf("INGEST_CHUNK_SIZE must be positive, got %d", cfg.IngestCfg.ChunkSize))
	}

	if cfg.IngestCfg.ChunkOverlap < 0 || cfg.IngestCfg.ChunkOverlap >= cfg.IngestCfg.ChunkSize {
		errors = append(errors, fmt.Sprintf("INGEST_CHUNK_OVERLAP must be between 0 and INGEST_CHUNK_SIZE(%d), got %d",
			cfg.IngestCfg.ChunkSize, cfg.IngestCfg.ChunkOverlap))
	}

	if cfg.RetrievalCfg.TopK < 1 || cfg.RetrievalCfg.TopK > 50 {
		errors = append(errors, fmt.Sprintf("RETRIEVAL_TOP_K must be between 1 and 50, got %d", cfg.RetrievalCfg.TopK))
	}

	if cfg.HistoryCfg.MaxTurns < 0 {
		errors = append(errors, fmt.Sprintf("HISTORY_MAX_TURNS must not be negative, got %d", cfg.HistoryCfg.MaxTurns))
	}

	if cfg.SearchCfg.MaxOccurrences < 1 {
		errors = append(errors, fmt.Sprintf("SEARCH_MAX_OCCURRENCES must be positive, got %d", cfg.SearchCfg.MaxOccurrences))
	}

	if cfg.SearchCfg.ContextRadius < 0 {
		errors = append(errors, fmt.Sprintf("SEARCH_CONTEXT_RADIUS must not be negative, got %d", cfg.SearchCfg.ContextRadius))
	}

	if cfg.EmbeddingConnectorCfg.BatchSize < 1 || cfg.EmbeddingConnectorCfg.BatchSize > 2048 {
		errors = append(errors, fmt.Sprintf("EMBEDDING_BATCH_SIZE must be between 1 and 2048, got %d", cfg.EmbeddingConnectorCfg.BatchSize))
	}

	if cfg.EmbeddingConnectorCfg.Concurrency < 1 || cfg.EmbeddingConnectorCfg.Concurrency > 64 {
		errors = append(errors, fmt.Sprintf("EMBEDDING_CONCURRENCY must be between 1 and 64, got %d", cfg.EmbeddingConnectorCfg.Concurrency))
	}

	if cfg.EmbeddingConnectorCfg.Retry.Attempts < 1 || cfg.LLMConnectorCfg.Retry.Attempts < 1 {
		errors = append(errors, "EMBEDDING_RETRY_ATTEMPTS and LLM_RETRY_ATTEMPTS must be at least 1")
	}

	if cfg.LLMConnectorCfg.AnswerTimeout <= 0 {
		errors = append(errors, "LLM_ANSWER_TIMEOUT must be positive")
	}

	switch cfg.DocumentCfg.IDStrategy {
	case IDStrategyUUID, IDStrategyContent:
	default:
		errors = append(errors, fmt.Sprintf("DOCUMENT_ID_STRATEGY must be uuid or content, got %q", cfg.DocumentCfg.IDStrategy))
	}

	if cfg.FileUploadCfg.MaxFileSize < 1 || cfg.FileUploadCfg.MaxFileSize > cfg.FileUploadCfg.MaxUploadSize {
		errors = append(errors, fmt.Sprintf("FILE_UPLOAD_MAX_FILE_SIZE must be between 1 and FILE_UPLOAD_MAX_UPLOAD_SIZE(%d), got %d",
			cfg.FileUploadCfg.MaxUploadSize, cfg.FileUploadCfg.MaxFileSize))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
