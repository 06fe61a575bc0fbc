package chat

import (
	"context"

	"github.com/futig/pdfchat-backend/internal/entity"
)

type EmbeddingConnector interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

type LLMConnector interface {
	Answer(ctx context.Context, req *entity.LLMAnswerRequest) (string, error)
}
