// Package chunker splits extracted document text into overlapping fixed-size windows.
package chunker

import (
	"errors"

	"github.com/futig/pdfchat-backend/internal/entity"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of characters shared by neighbouring chunks.
const DefaultChunkOverlap = 200

// Chunker splits text into windows of at most chunkSize characters, each starting
// chunkSize-overlap characters after the previous one.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		c.chunkSize = size
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		c.overlap = overlap
	}
}

// New creates a chunker. Overlap must be non-negative and smaller than the chunk size.
func New(opts ...Option) (*Chunker, error) {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.chunkSize <= 0 {
		return nil, errors.New("chunk size must be > 0")
	}
	if c.overlap < 0 || c.overlap >= c.chunkSize {
		return nil, errors.New("overlap must be >= 0 and < chunk size")
	}

	return c, nil
}

// Split returns the chunks of text. Offsets are in characters, not bytes.
// Empty text yields no chunks.
func (c *Chunker) Split(text string) []entity.Chunk {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	step := c.chunkSize - c.overlap
	chunks := make([]entity.Chunk, 0, len(runes)/step+1)

	for start := 0; start < len(runes); start += step {
		end := start + c.chunkSize
		if end > len(runes) {
			end = len(runes)
		}

		chunks = append(chunks, entity.Chunk{
			Index: len(chunks),
			Text:  string(runes[start:end]),
			Start: start,
			End:   end,
		})

		if end == len(runes) {
			break
		}
	}

	return chunks
}
