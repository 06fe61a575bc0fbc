package repository

import (
	"context"
	"sort"
	"time"

	"github.com/futig/pdfchat-backend/internal/entity"
	"github.com/patrickmn/go-cache"
)

// DocumentRepository defines the interface for document storage
type DocumentRepository interface {
	Save(ctx context.Context, doc *entity.Document) error
	Get(ctx context.Context, id string) (*entity.Document, error)
	List(ctx context.Context) ([]*entity.Document, error)
	Delete(ctx context.Context, id string) error
}

var _ DocumentRepository = &DocumentMemory{}

// DocumentMemory implements DocumentRepository on top of go-cache.
// Records are replaced as a whole, callers never mutate a stored record.
type DocumentMemory struct {
	cache *cache.Cache
}

// NewDocumentMemory creates the store. A zero ttl keeps documents until they are deleted.
func NewDocumentMemory(ttl, cleanupInterval time.Duration) *DocumentMemory {
	expiration := ttl
	if ttl <= 0 {
		expiration = cache.NoExpiration
	}

	return &DocumentMemory{
		cache: cache.New(expiration, cleanupInterval),
	}
}

func (r *DocumentMemory) Save(_ context.Context, doc *entity.Document) error {
	r.cache.Set(doc.ID, doc, cache.DefaultExpiration)
	return nil
}

func (r *DocumentMemory) Get(_ context.Context, id string) (*entity.Document, error) {
	v, ok := r.cache.Get(id)
	if !ok {
		return nil, entity.ErrDocumentNotFound
	}

	return v.(*entity.Document), nil
}

// List returns all live documents, oldest first.
func (r *DocumentMemory) List(_ context.Context) ([]*entity.Document, error) {
	items := r.cache.Items()

	docs := make([]*entity.Document, 0, len(items))
	for _, item := range items {
		docs = append(docs, item.Object.(*entity.Document))
	}

	sort.Slice(docs, func(i, j int) bool {
		if docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].ID < docs[j].ID
		}
		return docs[i].CreatedAt.Before(docs[j].CreatedAt)
	})

	return docs, nil
}

func (r *DocumentMemory) Delete(_ context.Context, id string) error {
	if _, ok := r.cache.Get(id); !ok {
		return entity.ErrDocumentNotFound
	}

	r.cache.Delete(id)
	return nil
}

func (r *DocumentMemory) Count() int {
	return r.cache.ItemCount()
}
