package entity

import (
	"time"
	"unicode/utf8"
)

// Chunk is a contiguous window of a document's text used for embedding and retrieval.
// Start and End are character offsets into the document text.
type Chunk struct {
	Index int
	Text  string
	Start int
	End   int
}

// ScoredChunk is a chunk returned by similarity search.
type ScoredChunk struct {
	Chunk Chunk
	Score float32
}

// ChunkIndex is a per-document similarity index over chunk embeddings.
type ChunkIndex interface {
	Search(vector []float32, topK int) ([]ScoredChunk, error)
	Len() int
}

// Turn is one question/answer exchange of a conversation.
type Turn struct {
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}

// Conversation is the ordered history of a document's chat turns.
// When MaxTurns is positive only the most recent MaxTurns turns are kept.
type Conversation struct {
	MaxTurns int
	Turns    []Turn
}

func NewConversation(maxTurns int) *Conversation {
	return &Conversation{
		MaxTurns: maxTurns,
		Turns:    make([]Turn, 0),
	}
}

// Append returns a copy of the conversation with t appended and the window applied.
// The receiver is left untouched so that readers holding it never observe a partial update.
func (c *Conversation) Append(t Turn) *Conversation {
	turns := make([]Turn, 0, len(c.Turns)+1)
	turns = append(turns, c.Turns...)
	turns = append(turns, t)

	if c.MaxTurns > 0 && len(turns) > c.MaxTurns {
		turns = turns[len(turns)-c.MaxTurns:]
	}

	return &Conversation{MaxTurns: c.MaxTurns, Turns: turns}
}

func (c *Conversation) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Turns)
}

// Document holds all per-document state: raw bytes, extracted text, index and history.
type Document struct {
	ID           string
	Filename     string
	Content      []byte
	Text         string
	Pages        []string
	CharCount    int
	Index        ChunkIndex
	Conversation *Conversation
	CreatedAt    time.Time
}

func (d *Document) NumPages() int {
	return len(d.Pages)
}

// ChatEnabled reports whether both the index and the conversation were created.
func (d *Document) ChatEnabled() bool {
	return d.Index != nil && d.Conversation != nil
}

// WithConversation returns a shallow copy of the document with conv as its history.
func (d *Document) WithConversation(conv *Conversation) *Document {
	clone := *d
	clone.Conversation = conv
	return &clone
}

// CountChars returns the number of characters (not bytes) of s.
func CountChars(s string) int {
	return utf8.RuneCountInString(s)
}
