package chat

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/futig/pdfchat-backend/internal/entity"
)

// chatDocument loads a document that has an index and a conversation
func (uc *ChatUsecase) chatDocument(ctx context.Context, id string) (*entity.Document, error) {
	doc, err := uc.documentRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !doc.ChatEnabled() {
		return nil, entity.ErrChatDisabled
	}

	return doc, nil
}

// retrieve embeds the question and returns the most similar chunks
func (uc *ChatUsecase) retrieve(ctx context.Context, doc *entity.Document, question string) ([]entity.ScoredChunk, error) {
	vectors, err := uc.embeddingConnector.Embed(ctx, []string{question})
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}
	if len(vectors) != 1 {
		return nil, errors.New("embed question: unexpected number of vectors")
	}

	chunks, err := doc.Index.Search(vectors[0], uc.cfg.TopK)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	return chunks, nil
}

func exportFilename(documentName, ext string) string {
	base := strings.TrimSuffix(documentName, filepath.Ext(documentName))
	if base == "" {
		base = "conversation"
	}
	return base + "_chat" + ext
}
