package document

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"unicode"

	"github.com/futig/pdfchat-backend/internal/config"
	"github.com/futig/pdfchat-backend/internal/entity"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// newDocumentID returns a random id, or a content hash so that re-uploading
// the same file replaces the previous document
func (uc *DocumentUsecase) newDocumentID(content []byte) string {
	if uc.cfg.IDStrategy == config.IDStrategyContent {
		sum := sha256.Sum256(content)
		return hex.EncodeToString(sum[:])
	}
	return uuid.New().String()
}

// embedChunks embeds chunk texts in batches, running at most EmbedConcurrency requests at once
func (uc *DocumentUsecase) embedChunks(ctx context.Context, chunks []entity.Chunk) ([][]float32, error) {
	batchSize := max(uc.cfg.EmbedBatchSize, 1)

	vectors := make([][]float32, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(uc.cfg.EmbedConcurrency, 1))

	for start := 0; start < len(chunks); start += batchSize {
		end := min(start+batchSize, len(chunks))

		texts := make([]string, 0, end-start)
		for _, ch := range chunks[start:end] {
			texts = append(texts, ch.Text)
		}

		g.Go(func() error {
			batch, err := uc.embeddingConnector.Embed(gctx, texts)
			if err != nil {
				return fmt.Errorf("embed chunks %d-%d: %w", start, end-1, err)
			}
			if len(batch) != len(texts) {
				return fmt.Errorf("embed chunks %d-%d: got %d vectors", start, end-1, len(batch))
			}
			copy(vectors[start:end], batch)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	ctxzap.Debug(ctx, "chunks embedded", zap.Int("chunk_count", len(chunks)))

	return vectors, nil
}

// rollback removes whatever is stored under id
func (uc *DocumentUsecase) rollback(ctx context.Context, id string) {
	err := uc.documentRepo.Delete(ctx, id)
	if err != nil && !errors.Is(err, entity.ErrDocumentNotFound) {
		ctxzap.Warn(ctx, "failed to remove document during rollback", zap.Error(err))
		return
	}
	if err == nil {
		ctxzap.Info(ctx, "previous document state removed during rollback")
	}
}

// findOccurrences returns non-overlapping case-insensitive matches of query in text.
// Indices and context bounds are in characters.
func findOccurrences(text, query string, limit, radius int) []entity.Occurrence {
	occurrences := make([]entity.Occurrence, 0)

	haystack := []rune(text)
	needle := foldRunes([]rune(query))
	if len(needle) == 0 || len(needle) > len(haystack) {
		return occurrences
	}

	folded := foldRunes(haystack)

	for i := 0; i+len(needle) <= len(folded) && len(occurrences) < limit; {
		if !hasPrefixAt(folded, needle, i) {
			i++
			continue
		}

		start := max(i-radius, 0)
		end := min(i+len(needle)+radius, len(haystack))
		occurrences = append(occurrences, entity.Occurrence{
			Index:   i,
			Context: string(haystack[start:end]),
		})
		i += len(needle)
	}

	return occurrences
}

func foldRunes(rs []rune) []rune {
	out := make([]rune, len(rs))
	for i, r := range rs {
		out[i] = unicode.ToLower(r)
	}
	return out
}

func hasPrefixAt(s, prefix []rune, at int) bool {
	for j, r := range prefix {
		if s[at+j] != r {
			return false
		}
	}
	return true
}
