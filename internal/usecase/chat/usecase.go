package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/futig/pdfchat-backend/internal/entity"
	"github.com/futig/pdfchat-backend/internal/pkg/formatter"
	"github.com/futig/pdfchat-backend/internal/pkg/keylock"
	"github.com/futig/pdfchat-backend/internal/pkg/logger"
	"github.com/futig/pdfchat-backend/internal/pkg/validator"
	"github.com/futig/pdfchat-backend/internal/repository"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Config struct {
	TopK          int
	AnswerTimeout time.Duration
}

// ChatUsecase implements question answering over an uploaded document
type ChatUsecase struct {
	documentRepo       repository.DocumentRepository
	locks              *keylock.KeyLock
	validator          *validator.Validator
	embeddingConnector EmbeddingConnector
	llmConnector       LLMConnector
	formatterFactory   *formatter.Factory
	cfg                Config
	logger             *zap.Logger
}

// NewUsecase creates a new chat use case
func NewUsecase(
	documentRepo repository.DocumentRepository,
	locks *keylock.KeyLock,
	validator *validator.Validator,
	embeddingConnector EmbeddingConnector,
	llmConnector LLMConnector,
	formatterFactory *formatter.Factory,
	cfg Config,
	logger *zap.Logger,
) *ChatUsecase {
	return &ChatUsecase{
		documentRepo:       documentRepo,
		locks:              locks,
		validator:          validator,
		embeddingConnector: embeddingConnector,
		llmConnector:       llmConnector,
		formatterFactory:   formatterFactory,
		cfg:                cfg,
		logger:             logger,
	}
}

// Ask answers a question about the document and records the turn.
// Turns of one document are serialized, a failed turn leaves the history untouched.
func (uc *ChatUsecase) Ask(ctx context.Context, req *entity.ChatRequest) (string, error) {
	if err := uc.validator.ValidateChat(req); err != nil {
		return "", err
	}

	ctx = logger.WithDocument(ctx, req.PDFID)

	unlock := uc.locks.Lock(req.PDFID)
	defer unlock()

	doc, err := uc.chatDocument(ctx, req.PDFID)
	if err != nil {
		return "", err
	}

	chunks, err := uc.retrieve(ctx, doc, req.Query)
	if err != nil {
		ctxzap.Error(ctx, "failed to retrieve context", zap.Error(err))
		return "", entity.Processing(entity.ErrAnswer, err)
	}

	answerCtx, cancel := context.WithTimeout(ctx, uc.cfg.AnswerTimeout)
	defer cancel()

	answer, err := uc.llmConnector.Answer(answerCtx, &entity.LLMAnswerRequest{
		Question: req.Query,
		Context:  chunks,
		History:  doc.Conversation.Turns,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			ctxzap.Error(ctx, "answer generation timed out", zap.Duration("timeout", uc.cfg.AnswerTimeout))
		} else {
			ctxzap.Error(ctx, "failed to generate answer", zap.Error(err))
		}
		return "", entity.Processing(entity.ErrAnswer, err)
	}

	conv := doc.Conversation.Append(entity.Turn{
		Question:  req.Query,
		Answer:    answer,
		CreatedAt: time.Now().UTC(),
	})

	if err := uc.documentRepo.Save(ctx, doc.WithConversation(conv)); err != nil {
		return "", entity.Processing(entity.ErrAnswer, fmt.Errorf("save conversation: %w", err))
	}

	ctxzap.Info(ctx, "question answered",
		zap.Int("context_chunks", len(chunks)),
		zap.Int("history_turns", conv.Len()),
	)

	return answer, nil
}

// History returns the recorded turns of the document conversation
func (uc *ChatUsecase) History(ctx context.Context, id string) ([]entity.Turn, error) {
	doc, err := uc.chatDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	return doc.Conversation.Turns, nil
}

// ExportHistory renders the conversation as a downloadable file in the given format
func (uc *ChatUsecase) ExportHistory(ctx context.Context, id string, format entity.ResultFormat) (*entity.ExportedFile, error) {
	f, err := uc.formatterFactory.Create(format)
	if err != nil {
		return nil, err
	}

	doc, err := uc.chatDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	data, err := f.Format(&formatter.Transcript{
		DocumentName: doc.Filename,
		Turns:        doc.Conversation.Turns,
	})
	if err != nil {
		ctxzap.Error(logger.WithDocument(ctx, id), "failed to format history", zap.Error(err))
		return nil, entity.Processing(entity.ErrProcessing, fmt.Errorf("format history: %w", err))
	}

	return &entity.ExportedFile{
		Filename:    exportFilename(doc.Filename, f.FileExtension()),
		ContentType: f.ContentType(),
		Data:        data,
	}, nil
}

// ClearHistory resets the conversation, the index is kept
func (uc *ChatUsecase) ClearHistory(ctx context.Context, id string) error {
	unlock := uc.locks.Lock(id)
	defer unlock()

	doc, err := uc.chatDocument(ctx, id)
	if err != nil {
		return err
	}

	conv := entity.NewConversation(doc.Conversation.MaxTurns)
	if err := uc.documentRepo.Save(ctx, doc.WithConversation(conv)); err != nil {
		return fmt.Errorf("save conversation: %w", err)
	}

	ctxzap.Info(logger.WithDocument(ctx, id), "chat history cleared")
	return nil
}
