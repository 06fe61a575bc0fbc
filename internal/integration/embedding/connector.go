package embedding

import (
	"context"
	"fmt"
	"net/http"

	"github.com/futig/pdfchat-backend/internal/config"
	"github.com/futig/pdfchat-backend/internal/entity"
	"github.com/futig/pdfchat-backend/internal/integration/common"
	pkgRetry "github.com/futig/pdfchat-backend/internal/pkg/retry"
	pkghttp "github.com/futig/pdfchat-backend/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Connector struct {
	config    config.EmbeddingConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.EmbeddingConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// Embed returns one vector per input text, in input order.
// POST {endpoint} with an OpenAI-compatible embeddings request
func (c *Connector) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	ctxzap.Debug(ctx, "requesting embeddings", zap.Int("input_count", len(texts)))

	req := &entity.EmbeddingRequest{
		Model: c.config.Model,
		Input: texts,
	}

	var resp entity.EmbeddingResponse
	err := pkgRetry.Do(ctx, &c.config.Retry, pkghttp.IsRetryable, func() error {
		resp = entity.EmbeddingResponse{}
		return c.connector.DoRequest(ctx, http.MethodPost, c.config.Endpoint, req, &resp, common.RequestOpts(ctx)...)
	})
	if err != nil {
		ctxzap.Error(ctx, "failed to get embeddings", zap.Error(err))
		return nil, fmt.Errorf("embeddings request failed: %w", err)
	}

	vectors, err := orderVectors(resp.Data, len(texts))
	if err != nil {
		return nil, fmt.Errorf("invalid embeddings response: %w", err)
	}

	return vectors, nil
}

func orderVectors(data []entity.EmbeddingData, want int) ([][]float32, error) {
	if len(data) != want {
		return nil, fmt.Errorf("got %d embeddings for %d inputs", len(data), want)
	}

	vectors := make([][]float32, want)
	for _, d := range data {
		if d.Index < 0 || d.Index >= want {
			return nil, fmt.Errorf("embedding index %d out of range", d.Index)
		}
		if vectors[d.Index] != nil {
			return nil, fmt.Errorf("duplicate embedding index %d", d.Index)
		}
		if len(d.Embedding) == 0 {
			return nil, fmt.Errorf("empty embedding at index %d", d.Index)
		}
		vectors[d.Index] = d.Embedding
	}

	return vectors, nil
}
