package builder

import (
	"fmt"
	"net/http"
	"time"

	"github.com/futig/pdfchat-backend/internal/api"
	chatapi "github.com/futig/pdfchat-backend/internal/api/chat"
	documentapi "github.com/futig/pdfchat-backend/internal/api/document"
	"github.com/futig/pdfchat-backend/internal/config"
	"github.com/futig/pdfchat-backend/internal/integration/embedding"
	"github.com/futig/pdfchat-backend/internal/integration/llm"
	"github.com/futig/pdfchat-backend/internal/pkg/chunker"
	"github.com/futig/pdfchat-backend/internal/pkg/formatter"
	"github.com/futig/pdfchat-backend/internal/pkg/keylock"
	pkglogger "github.com/futig/pdfchat-backend/internal/pkg/logger"
	"github.com/futig/pdfchat-backend/internal/pkg/pdftext"
	"github.com/futig/pdfchat-backend/internal/pkg/validator"
	"github.com/futig/pdfchat-backend/internal/repository"
	"github.com/futig/pdfchat-backend/internal/usecase/chat"
	"github.com/futig/pdfchat-backend/internal/usecase/document"
	"go.uber.org/zap"
)

func Build() (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := pkglogger.New(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	router, err := BuildRouter(cfg, logger)
	if err != nil {
		return nil, err
	}

	// Create HTTP server
	server := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      6 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		logger: logger,
	}, nil
}

// BuildRouter wires storage, connectors, use cases and handlers into the HTTP router
func BuildRouter(cfg *config.Config, logger *zap.Logger) (http.Handler, error) {
	// Initialize storage
	documentRepo := repository.NewDocumentMemory(cfg.DocumentCfg.TTL, cfg.DocumentCfg.CleanupInterval)
	locks := keylock.New()
	logger.Info("Document store initialized", zap.Duration("ttl", cfg.DocumentCfg.TTL))

	// Initialize external service connectors (with mock support)
	var embeddingConnector document.EmbeddingConnector
	var llmConnector chat.LLMConnector

	if cfg.EnableMocks {
		logger.Info("Using mock connectors for external services")
		embeddingConnector = embedding.NewMockConnector(logger)
		llmConnector = llm.NewMockConnector(logger)
	} else {
		logger.Info("Using real connectors for external services")
		embeddingConnector = embedding.NewConnector(cfg.EmbeddingConnectorCfg, logger)
		llmConnector = llm.NewConnector(cfg.LLMConnectorCfg, logger)
	}

	// Initialize pipeline components
	fileValidator := validator.NewFileValidator(cfg.FileUploadCfg)
	extractor := pdftext.NewExtractor(logger)
	textChunker, err := chunker.New(
		chunker.WithChunkSize(cfg.IngestCfg.ChunkSize),
		chunker.WithOverlap(cfg.IngestCfg.ChunkOverlap),
	)
	if err != nil {
		return nil, fmt.Errorf("setup chunker: %w", err)
	}

	formatterFactory := newFormatterFactory(cfg, logger)

	// Initialize use cases
	documentUC := document.NewUsecase(
		documentRepo,
		locks,
		fileValidator,
		extractor,
		textChunker,
		embeddingConnector,
		document.Config{
			IDStrategy:       cfg.DocumentCfg.IDStrategy,
			EmbedBatchSize:   cfg.EmbeddingConnectorCfg.BatchSize,
			EmbedConcurrency: cfg.EmbeddingConnectorCfg.Concurrency,
			HistoryMaxTurns:  cfg.HistoryCfg.MaxTurns,
			MaxOccurrences:   cfg.SearchCfg.MaxOccurrences,
			ContextRadius:    cfg.SearchCfg.ContextRadius,
		},
		logger,
	)

	chatUC := chat.NewUsecase(
		documentRepo,
		locks,
		fileValidator,
		embeddingConnector,
		llmConnector,
		formatterFactory,
		chat.Config{
			TopK:          cfg.RetrievalCfg.TopK,
			AnswerTimeout: cfg.LLMConnectorCfg.AnswerTimeout,
		},
		logger,
	)
	logger.Info("Use cases initialized")

	// Setup API handlers
	documentHandler := documentapi.NewHandler(documentUC, cfg.FileUploadCfg)
	chatHandler := chatapi.NewHandler(chatUC)

	// Setup router
	router := api.SetupRouter(documentHandler, chatHandler, cfg.CORSAllowedOrigins, logger)
	logger.Info("HTTP router configured")

	return router, nil
}

func newFormatterFactory(cfg *config.Config, logger *zap.Logger) *formatter.Factory {
	if cfg.UniofficeLicenseKey == "" {
		logger.Warn("UNIOFFICE_LICENSE_KEY is not set, docx export disabled")
		return formatter.NewFactory()
	}

	if err := formatter.SetDOCXLicense(cfg.UniofficeLicenseKey); err != nil {
		logger.Error("Failed to register unioffice license, docx export disabled", zap.Error(err))
		return formatter.NewFactory()
	}

	logger.Info("DOCX export enabled")
	return formatter.NewFactory(formatter.WithDOCX())
}
