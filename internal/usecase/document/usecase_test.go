package document

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/futig/pdfchat-backend/internal/config"
	"github.com/futig/pdfchat-backend/internal/entity"
	"github.com/futig/pdfchat-backend/internal/pkg/chunker"
	"github.com/futig/pdfchat-backend/internal/pkg/keylock"
	"github.com/futig/pdfchat-backend/internal/pkg/pdftext"
	"github.com/futig/pdfchat-backend/internal/pkg/validator"
	"github.com/futig/pdfchat-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeExtractor struct {
	pages []string
	err   error
	calls int32
}

func (f *fakeExtractor) Extract(content []byte) (*pdftext.Result, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return nil, f.err
	}
	return &pdftext.Result{Pages: f.pages}, nil
}

type fakeEmbedder struct {
	err error

	mu        sync.Mutex
	calls     int
	batches   [][]string
	active    int32
	maxActive int32
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	n := atomic.AddInt32(&f.active, 1)
	defer atomic.AddInt32(&f.active, -1)

	f.mu.Lock()
	f.calls++
	f.batches = append(f.batches, texts)
	if n > f.maxActive {
		f.maxActive = n
	}
	f.mu.Unlock()

	time.Sleep(5 * time.Millisecond)

	if f.err != nil {
		return nil, f.err
	}

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = []float32{1, float32(len(text))}
	}
	return vectors, nil
}

type testEnv struct {
	uc        *DocumentUsecase
	repo      *repository.DocumentMemory
	extractor *fakeExtractor
	embedder  *fakeEmbedder
}

func newTestEnv(t *testing.T, cfg Config, chunkOpts ...chunker.Option) *testEnv {
	t.Helper()

	ch, err := chunker.New(chunkOpts...)
	require.NoError(t, err)

	env := &testEnv{
		repo:      repository.NewDocumentMemory(0, time.Minute),
		extractor: &fakeExtractor{pages: []string{"Hello world. ", "Foo bar."}},
		embedder:  &fakeEmbedder{},
	}

	env.uc = NewUsecase(
		env.repo,
		keylock.New(),
		validator.NewFileValidator(config.FileUploadConfig{MaxFileSize: 1024, MaxUploadSize: 2048}),
		env.extractor,
		ch,
		env.embedder,
		cfg,
		zap.NewNop(),
	)
	return env
}

func defaultConfig() Config {
	return Config{
		IDStrategy:       config.IDStrategyUUID,
		EmbedBatchSize:   32,
		EmbedConcurrency: 4,
		HistoryMaxTurns:  20,
		MaxOccurrences:   20,
		ContextRadius:    50,
	}
}

func pdfUpload(content string) *entity.UploadRequest {
	return &entity.UploadRequest{
		Filename:    "report.pdf",
		ContentType: "application/pdf",
		Content:     []byte(content),
	}
}

func TestUpload_Success(t *testing.T) {
	env := newTestEnv(t, defaultConfig())
	ctx := context.Background()

	res, err := env.uc.Upload(ctx, pdfUpload("%PDF-1.4 data"))
	require.NoError(t, err)

	assert.NotEmpty(t, res.ID)
	assert.Equal(t, "report.pdf", res.Filename)
	assert.Equal(t, 2, res.NumPages)
	assert.Equal(t, 21, res.CharCount)
	assert.True(t, res.ChatEnabled)

	doc, err := env.repo.Get(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello world. Foo bar.", doc.Text)
	assert.Equal(t, []byte("%PDF-1.4 data"), doc.Content)
	require.NotNil(t, doc.Index)
	assert.Equal(t, 1, doc.Index.Len())
	require.NotNil(t, doc.Conversation)
	assert.Equal(t, 0, doc.Conversation.Len())
	assert.Equal(t, 20, doc.Conversation.MaxTurns)
}

func TestUpload_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		req  *entity.UploadRequest
	}{
		{name: "empty content", req: &entity.UploadRequest{Filename: "a.pdf", ContentType: "application/pdf"}},
		{name: "missing filename", req: &entity.UploadRequest{ContentType: "application/pdf", Content: []byte("x")}},
		{name: "not a pdf", req: &entity.UploadRequest{Filename: "a.txt", ContentType: "text/plain", Content: []byte("x")}},
		{name: "too large", req: &entity.UploadRequest{Filename: "a.pdf", ContentType: "application/pdf", Content: make([]byte, 1025)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, defaultConfig())

			_, err := env.uc.Upload(context.Background(), tt.req)
			assert.ErrorIs(t, err, entity.ErrInvalidInput)
			assert.Equal(t, int32(0), env.extractor.calls)
			assert.Equal(t, 0, env.repo.Count())
		})
	}
}

func TestUpload_ExtractionFailure(t *testing.T) {
	env := newTestEnv(t, defaultConfig())
	env.extractor.err = pdftext.ErrUnreadable

	_, err := env.uc.Upload(context.Background(), pdfUpload("corrupt"))
	assert.ErrorIs(t, err, entity.ErrProcessing)
	assert.ErrorIs(t, err, entity.ErrExtraction)
	assert.ErrorIs(t, err, pdftext.ErrUnreadable)
	assert.Equal(t, 0, env.repo.Count())
}

func TestUpload_IndexingFailureLeavesNothing(t *testing.T) {
	env := newTestEnv(t, defaultConfig())
	env.embedder.err = errors.New("quota exceeded")

	_, err := env.uc.Upload(context.Background(), pdfUpload("%PDF"))
	assert.ErrorIs(t, err, entity.ErrProcessing)
	assert.ErrorIs(t, err, entity.ErrIndexing)
	assert.Equal(t, 0, env.repo.Count())
}

func TestUpload_EmptyTextDisablesChat(t *testing.T) {
	env := newTestEnv(t, defaultConfig())
	env.extractor.pages = []string{"", ""}

	res, err := env.uc.Upload(context.Background(), pdfUpload("%PDF scanned"))
	require.NoError(t, err)
	assert.Equal(t, 2, res.NumPages)
	assert.Equal(t, 0, res.CharCount)
	assert.False(t, res.ChatEnabled)
	assert.Equal(t, 0, env.embedder.calls)

	doc, err := env.repo.Get(context.Background(), res.ID)
	require.NoError(t, err)
	assert.False(t, doc.ChatEnabled())
}

func TestUpload_ContentIDReplacesAndRollsBack(t *testing.T) {
	cfg := defaultConfig()
	cfg.IDStrategy = config.IDStrategyContent
	env := newTestEnv(t, cfg)
	ctx := context.Background()

	first, err := env.uc.Upload(ctx, pdfUpload("%PDF same"))
	require.NoError(t, err)

	sum := sha256.Sum256([]byte("%PDF same"))
	assert.Equal(t, hex.EncodeToString(sum[:]), first.ID)
	assert.Len(t, first.ID, 64)

	second, err := env.uc.Upload(ctx, pdfUpload("%PDF same"))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, env.repo.Count())

	other, err := env.uc.Upload(ctx, pdfUpload("%PDF other"))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)

	env.embedder.err = errors.New("service down")
	_, err = env.uc.Upload(ctx, pdfUpload("%PDF same"))
	require.ErrorIs(t, err, entity.ErrProcessing)

	_, err = env.repo.Get(ctx, first.ID)
	assert.ErrorIs(t, err, entity.ErrDocumentNotFound)
	_, err = env.repo.Get(ctx, other.ID)
	assert.NoError(t, err)
}

func TestUpload_EmbedsInBoundedBatches(t *testing.T) {
	cfg := defaultConfig()
	cfg.EmbedBatchSize = 3
	cfg.EmbedConcurrency = 2
	env := newTestEnv(t, cfg, chunker.WithChunkSize(10), chunker.WithOverlap(0))
	env.extractor.pages = []string{strings.Repeat("abcdefghij", 10)}

	res, err := env.uc.Upload(context.Background(), pdfUpload("%PDF"))
	require.NoError(t, err)
	assert.True(t, res.ChatEnabled)

	assert.Equal(t, 4, env.embedder.calls)
	assert.LessOrEqual(t, env.embedder.maxActive, int32(2))

	total := 0
	for _, b := range env.embedder.batches {
		assert.LessOrEqual(t, len(b), 3)
		total += len(b)
	}
	assert.Equal(t, 10, total)

	doc, err := env.repo.Get(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, doc.Index.Len())
}

func TestUpload_DifferentDocumentsInParallel(t *testing.T) {
	env := newTestEnv(t, defaultConfig())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.uc.Upload(context.Background(), pdfUpload(fmt.Sprintf("%%PDF %d", i)))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 8, env.repo.Count())
}

func TestGetPage(t *testing.T) {
	env := newTestEnv(t, defaultConfig())
	ctx := context.Background()

	res, err := env.uc.Upload(ctx, pdfUpload("%PDF"))
	require.NoError(t, err)

	page, err := env.uc.GetPage(ctx, res.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, "Foo bar.", page)

	_, err = env.uc.GetPage(ctx, res.ID, 0)
	assert.ErrorIs(t, err, entity.ErrPageNotFound)
	_, err = env.uc.GetPage(ctx, res.ID, 3)
	assert.ErrorIs(t, err, entity.ErrNotFound)

	_, err = env.uc.GetPage(ctx, "unknown", 1)
	assert.ErrorIs(t, err, entity.ErrDocumentNotFound)
}

func TestGetRawListDelete(t *testing.T) {
	env := newTestEnv(t, defaultConfig())
	ctx := context.Background()

	res, err := env.uc.Upload(ctx, pdfUpload("%PDF raw"))
	require.NoError(t, err)

	raw, err := env.uc.GetRaw(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF raw"), raw)

	docs, err := env.uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, res.ID, docs[0].ID)

	require.NoError(t, env.uc.Delete(ctx, res.ID))
	assert.ErrorIs(t, env.uc.Delete(ctx, res.ID), entity.ErrDocumentNotFound)

	_, err = env.uc.GetRaw(ctx, res.ID)
	assert.ErrorIs(t, err, entity.ErrDocumentNotFound)
	_, err = env.uc.Search(ctx, res.ID, "hello")
	assert.ErrorIs(t, err, entity.ErrDocumentNotFound)
}

func TestSearch(t *testing.T) {
	env := newTestEnv(t, defaultConfig())
	env.extractor.pages = []string{"Hello world"}
	ctx := context.Background()

	res, err := env.uc.Upload(ctx, pdfUpload("%PDF"))
	require.NoError(t, err)

	occ, err := env.uc.Search(ctx, res.ID, "world")
	require.NoError(t, err)
	require.Len(t, occ, 1)
	assert.Equal(t, 6, occ[0].Index)
	assert.Equal(t, "Hello world", occ[0].Context)

	occ, err = env.uc.Search(ctx, res.ID, "WORLD")
	require.NoError(t, err)
	require.Len(t, occ, 1)
	assert.Equal(t, 6, occ[0].Index)

	occ, err = env.uc.Search(ctx, res.ID, "absent")
	require.NoError(t, err)
	assert.NotNil(t, occ)
	assert.Empty(t, occ)

	_, err = env.uc.Search(ctx, res.ID, "")
	assert.ErrorIs(t, err, entity.ErrMissingField)

	occ, err = env.uc.Search(ctx, res.ID, " ")
	require.NoError(t, err)
	require.Len(t, occ, 1)
	assert.Equal(t, 5, occ[0].Index)

	_, err = env.uc.Search(ctx, "unknown", "world")
	assert.ErrorIs(t, err, entity.ErrNotFound)

	_, err = env.uc.Search(ctx, "unknown", "")
	assert.ErrorIs(t, err, entity.ErrDocumentNotFound)
}

func TestFindOccurrences(t *testing.T) {
	t.Run("non-overlapping", func(t *testing.T) {
		occ := findOccurrences("aaaa", "aa", 20, 0)
		require.Len(t, occ, 2)
		assert.Equal(t, 0, occ[0].Index)
		assert.Equal(t, 2, occ[1].Index)
	})

	t.Run("character offsets", func(t *testing.T) {
		occ := findOccurrences("Привет Мир", "мир", 20, 2)
		require.Len(t, occ, 1)
		assert.Equal(t, 7, occ[0].Index)
		assert.Equal(t, "т Мир", occ[0].Context)
	})

	t.Run("context window is clipped", func(t *testing.T) {
		text := strings.Repeat("x", 100) + "needle" + strings.Repeat("y", 100)
		occ := findOccurrences(text, "NEEDLE", 20, 50)
		require.Len(t, occ, 1)
		assert.Equal(t, 100, occ[0].Index)
		assert.Equal(t, strings.Repeat("x", 50)+"needle"+strings.Repeat("y", 50), occ[0].Context)
	})

	t.Run("limit", func(t *testing.T) {
		occ := findOccurrences(strings.Repeat("ab ", 50), "ab", 20, 1)
		assert.Len(t, occ, 20)
	})

	t.Run("query longer than text", func(t *testing.T) {
		assert.Empty(t, findOccurrences("ab", "abc", 20, 50))
	})
}
