package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/futig/pdfchat-backend/internal/config"
	"github.com/futig/pdfchat-backend/internal/entity"
	"github.com/futig/pdfchat-backend/internal/integration/common"
	pkgRetry "github.com/futig/pdfchat-backend/internal/pkg/retry"
	pkghttp "github.com/futig/pdfchat-backend/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

var ErrEmptyAnswer = errors.New("empty or missing answer in LLM response")

type Connector struct {
	config    config.LLMConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.LLMConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// Answer asks the model a question about a document using the retrieved excerpts and prior turns
func (c *Connector) Answer(ctx context.Context, req *entity.LLMAnswerRequest) (string, error) {
	return c.Chat(ctx, BuildMessages(req.Context, req.History, req.Question))
}

// Chat sends the conversation to the chat completions endpoint and returns the first answer.
func (c *Connector) Chat(ctx context.Context, messages []entity.LLMMessage) (string, error) {
	ctxzap.Info(ctx, "generating answer via LLM service", zap.Int("message_count", len(messages)))

	req := &entity.LLMChatRequest{
		Model:       c.config.Model,
		Messages:    messages,
		Temperature: c.config.Temperature,
	}

	var resp entity.LLMChatResponse
	err := pkgRetry.Do(ctx, &c.config.Retry, pkghttp.IsRetryable, func() error {
		resp = entity.LLMChatResponse{}
		return c.connector.DoRequest(ctx, http.MethodPost, c.config.ChatEndpoint, req, &resp, common.RequestOpts(ctx)...)
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyAnswer
	}

	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	if answer == "" {
		return "", ErrEmptyAnswer
	}

	ctxzap.Info(ctx, "answer generated successfully",
		zap.Int("answer_length", len(answer)),
		zap.String("finish_reason", resp.Choices[0].FinishReason),
	)

	return answer, nil
}
