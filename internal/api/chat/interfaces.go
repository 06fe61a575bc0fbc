package chat

import (
	"context"

	"github.com/futig/pdfchat-backend/internal/entity"
)

type ChatUsecase interface {
	Ask(ctx context.Context, req *entity.ChatRequest) (string, error)
	History(ctx context.Context, id string) ([]entity.Turn, error)
	ExportHistory(ctx context.Context, id string, format entity.ResultFormat) (*entity.ExportedFile, error)
	ClearHistory(ctx context.Context, id string) error
}
