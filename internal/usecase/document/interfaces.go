package document

import (
	"context"

	"github.com/futig/pdfchat-backend/internal/entity"
	"github.com/futig/pdfchat-backend/internal/pkg/pdftext"
)

type Extractor interface {
	Extract(content []byte) (*pdftext.Result, error)
}

type Chunker interface {
	Split(text string) []entity.Chunk
}

type EmbeddingConnector interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}
