// Package vectorindex is an in-memory cosine similarity index over chunk embeddings.
package vectorindex

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/futig/pdfchat-backend/internal/entity"
)

var (
	ErrEmptyIndex        = errors.New("index has no vectors")
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	ErrZeroVector        = errors.New("zero vector")
)

// Index is immutable after construction and safe for concurrent reads.
type Index struct {
	chunks  []entity.Chunk
	vectors [][]float32
	dim     int
}

// New builds an index from chunks and their embeddings, aligned by position.
// Vectors are copied and normalised.
func New(chunks []entity.Chunk, vectors [][]float32) (*Index, error) {
	if len(chunks) != len(vectors) {
		return nil, fmt.Errorf("got %d chunks and %d vectors", len(chunks), len(vectors))
	}
	if len(vectors) == 0 {
		return nil, ErrEmptyIndex
	}

	dim := len(vectors[0])
	if dim == 0 {
		return nil, fmt.Errorf("%w: empty embedding", ErrDimensionMismatch)
	}

	normalized := make([][]float32, len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: vector %d has %d dimensions, want %d", ErrDimensionMismatch, i, len(v), dim)
		}
		n, err := normalize(v)
		if err != nil {
			return nil, fmt.Errorf("vector %d: %w", i, err)
		}
		normalized[i] = n
	}

	stored := make([]entity.Chunk, len(chunks))
	copy(stored, chunks)

	return &Index{
		chunks:  stored,
		vectors: normalized,
		dim:     dim,
	}, nil
}

// Search returns up to topK chunks ordered by descending cosine similarity.
// Ties keep chunk order.
func (idx *Index) Search(vector []float32, topK int) ([]entity.ScoredChunk, error) {
	if len(vector) != idx.dim {
		return nil, fmt.Errorf("%w: query has %d dimensions, want %d", ErrDimensionMismatch, len(vector), idx.dim)
	}
	if topK <= 0 {
		return nil, nil
	}

	query, err := normalize(vector)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	results := make([]entity.ScoredChunk, len(idx.vectors))
	for i, v := range idx.vectors {
		results[i] = entity.ScoredChunk{
			Chunk: idx.chunks[i],
			Score: dot(query, v),
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if topK < len(results) {
		results = results[:topK]
	}

	return results, nil
}

func (idx *Index) Len() int {
	return len(idx.chunks)
}

func (idx *Index) Dim() int {
	return idx.dim
}

func normalize(v []float32) ([]float32, error) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return nil, ErrZeroVector
	}

	norm := float32(math.Sqrt(sum))
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out, nil
}

func dot(a, b []float32) float32 {
	var s float32
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}
