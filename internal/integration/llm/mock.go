package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/futig/pdfchat-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const mockExcerptLen = 200

// MockConnector answers with an excerpt of the best matching chunk instead of calling a model
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Answer(ctx context.Context, req *entity.LLMAnswerRequest) (string, error) {
	ctxzap.Info(ctx, "[MOCK] generating answer via LLM",
		zap.Int("context_chunks", len(req.Context)),
		zap.Int("history_turns", len(req.History)),
	)

	excerpt := "(no matching excerpts)"
	if len(req.Context) > 0 {
		excerpt = strings.TrimSpace(req.Context[0].Chunk.Text)
		if r := []rune(excerpt); len(r) > mockExcerptLen {
			excerpt = string(r[:mockExcerptLen]) + "..."
		}
	}

	answer := fmt.Sprintf("[MOCK] Answer to %q based on the document: %s", req.Question, excerpt)

	ctxzap.Info(ctx, "[MOCK] answer generated", zap.Int("answer_length", len(answer)))
	return answer, nil
}
