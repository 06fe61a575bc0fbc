package document

import (
	"context"
	"fmt"
	"time"

	"github.com/futig/pdfchat-backend/internal/config"
	"github.com/futig/pdfchat-backend/internal/entity"
	"github.com/futig/pdfchat-backend/internal/pkg/keylock"
	"github.com/futig/pdfchat-backend/internal/pkg/logger"
	"github.com/futig/pdfchat-backend/internal/pkg/validator"
	"github.com/futig/pdfchat-backend/internal/pkg/vectorindex"
	"github.com/futig/pdfchat-backend/internal/repository"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Config holds the ingestion and search settings of the document use case
type Config struct {
	IDStrategy       config.IDStrategy
	EmbedBatchSize   int
	EmbedConcurrency int
	HistoryMaxTurns  int
	MaxOccurrences   int
	ContextRadius    int
}

// DocumentUsecase implements document ingestion, lookup and text search
type DocumentUsecase struct {
	documentRepo       repository.DocumentRepository
	locks              *keylock.KeyLock
	validator          *validator.Validator
	extractor          Extractor
	chunker            Chunker
	embeddingConnector EmbeddingConnector
	cfg                Config
	logger             *zap.Logger
}

// NewUsecase creates a new document use case
func NewUsecase(
	documentRepo repository.DocumentRepository,
	locks *keylock.KeyLock,
	validator *validator.Validator,
	extractor Extractor,
	chunker Chunker,
	embeddingConnector EmbeddingConnector,
	cfg Config,
	logger *zap.Logger,
) *DocumentUsecase {
	return &DocumentUsecase{
		documentRepo:       documentRepo,
		locks:              locks,
		validator:          validator,
		extractor:          extractor,
		chunker:            chunker,
		embeddingConnector: embeddingConnector,
		cfg:                cfg,
		logger:             logger,
	}
}

// Upload ingests a PDF: extracts its text, builds the chunk index and an empty
// conversation, then publishes the document. On failure nothing is left under the id.
func (uc *DocumentUsecase) Upload(ctx context.Context, req *entity.UploadRequest) (*entity.UploadResult, error) {
	if err := uc.validator.ValidateUpload(req); err != nil {
		return nil, err
	}

	id := uc.newDocumentID(req.Content)
	ctx = logger.WithDocument(ctx, id)

	unlock := uc.locks.Lock(id)
	defer unlock()

	doc, err := uc.ingest(ctx, id, req)
	if err != nil {
		uc.rollback(ctx, id)
		return nil, err
	}

	if err := uc.documentRepo.Save(ctx, doc); err != nil {
		uc.rollback(ctx, id)
		return nil, entity.Processing(entity.ErrIndexing, fmt.Errorf("save document: %w", err))
	}

	ctxzap.Info(ctx, "document uploaded",
		zap.String("filename", doc.Filename),
		zap.Int("num_pages", doc.NumPages()),
		zap.Int("char_count", doc.CharCount),
		zap.Bool("chat_enabled", doc.ChatEnabled()),
	)

	return &entity.UploadResult{
		ID:          doc.ID,
		Filename:    doc.Filename,
		NumPages:    doc.NumPages(),
		CharCount:   doc.CharCount,
		ChatEnabled: doc.ChatEnabled(),
	}, nil
}

// ingest builds the complete document record without touching the store
func (uc *DocumentUsecase) ingest(ctx context.Context, id string, req *entity.UploadRequest) (*entity.Document, error) {
	extracted, err := uc.extractor.Extract(req.Content)
	if err != nil {
		ctxzap.Error(ctx, "failed to extract text", zap.Error(err))
		return nil, entity.Processing(entity.ErrExtraction, err)
	}

	text := extracted.Text()
	doc := &entity.Document{
		ID:        id,
		Filename:  validator.SanitizeFilename(req.Filename),
		Content:   req.Content,
		Text:      text,
		Pages:     extracted.Pages,
		CharCount: entity.CountChars(text),
		CreatedAt: time.Now().UTC(),
	}

	ctxzap.Debug(ctx, "text extracted",
		zap.Int("num_pages", doc.NumPages()),
		zap.Int("char_count", doc.CharCount),
	)

	chunks := uc.chunker.Split(text)
	if len(chunks) == 0 {
		ctxzap.Warn(ctx, "no extractable text, chat disabled for document")
		return doc, nil
	}

	vectors, err := uc.embedChunks(ctx, chunks)
	if err != nil {
		ctxzap.Error(ctx, "failed to embed chunks", zap.Error(err))
		return nil, entity.Processing(entity.ErrIndexing, err)
	}

	index, err := vectorindex.New(chunks, vectors)
	if err != nil {
		ctxzap.Error(ctx, "failed to build index", zap.Error(err))
		return nil, entity.Processing(entity.ErrIndexing, err)
	}

	doc.Index = index
	doc.Conversation = entity.NewConversation(uc.cfg.HistoryMaxTurns)

	ctxzap.Debug(ctx, "index built", zap.Int("chunk_count", index.Len()))

	return doc, nil
}

// Get returns the document with the given id
func (uc *DocumentUsecase) Get(ctx context.Context, id string) (*entity.Document, error) {
	return uc.documentRepo.Get(ctx, id)
}

// GetRaw returns the original PDF bytes
func (uc *DocumentUsecase) GetRaw(ctx context.Context, id string) ([]byte, error) {
	doc, err := uc.documentRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return doc.Content, nil
}

// GetPage returns the extracted text of the 1-based page number
func (uc *DocumentUsecase) GetPage(ctx context.Context, id string, pageNum int) (string, error) {
	doc, err := uc.documentRepo.Get(ctx, id)
	if err != nil {
		return "", err
	}

	if pageNum < 1 || pageNum > doc.NumPages() {
		return "", fmt.Errorf("%w: page %d of %d", entity.ErrPageNotFound, pageNum, doc.NumPages())
	}

	return doc.Pages[pageNum-1], nil
}

// List returns all stored documents, oldest first
func (uc *DocumentUsecase) List(ctx context.Context) ([]*entity.Document, error) {
	return uc.documentRepo.List(ctx)
}

// Delete removes the document and all of its derived state
func (uc *DocumentUsecase) Delete(ctx context.Context, id string) error {
	unlock := uc.locks.Lock(id)
	defer unlock()

	if err := uc.documentRepo.Delete(ctx, id); err != nil {
		return err
	}

	ctxzap.Info(logger.WithDocument(ctx, id), "document deleted")
	return nil
}

// Search finds case-insensitive occurrences of query in the document text
func (uc *DocumentUsecase) Search(ctx context.Context, id, query string) ([]entity.Occurrence, error) {
	doc, err := uc.documentRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if query == "" {
		return nil, fmt.Errorf("%w: query", entity.ErrMissingField)
	}

	occurrences := findOccurrences(doc.Text, query, uc.cfg.MaxOccurrences, uc.cfg.ContextRadius)

	ctxzap.Debug(logger.WithDocument(ctx, id), "text searched",
		zap.Int("occurrence_count", len(occurrences)),
	)

	return occurrences, nil
}
