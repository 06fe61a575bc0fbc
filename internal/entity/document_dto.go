package entity

import "time"

type ResultFormat string

const (
	FormatJSON     ResultFormat = "json"
	FormatMarkdown ResultFormat = "markdown"
	FormatDOCX     ResultFormat = "docx"
	FormatPDF      ResultFormat = "pdf"
)

func (f ResultFormat) IsValid() bool {
	switch f {
	case FormatJSON, FormatMarkdown, FormatDOCX, FormatPDF:
		return true
	default:
		return false
	}
}

type UploadRequest struct {
	Filename    string
	ContentType string
	Content     []byte
}

type UploadResult struct {
	ID          string
	Filename    string
	NumPages    int
	CharCount   int
	ChatEnabled bool
}

type UploadResponse struct {
	Message           string `json:"message"`
	PDFID             string `json:"pdf_id"`
	Filename          string `json:"filename"`
	NumPages          int    `json:"num_pages"`
	CharCount         int    `json:"char_count"`
	AIFeaturesEnabled bool   `json:"ai_features_enabled"`
}

type DocumentDTO struct {
	PDFID             string    `json:"pdf_id"`
	Filename          string    `json:"filename"`
	SizeBytes         int       `json:"size_bytes"`
	NumPages          int       `json:"num_pages"`
	CharCount         int       `json:"char_count"`
	AIFeaturesEnabled bool      `json:"ai_features_enabled"`
	ChatTurns         int       `json:"chat_turns"`
	CreatedAt         time.Time `json:"created_at"`
}

type ListDocumentsResponse struct {
	Documents []*DocumentDTO `json:"documents"`
}

type PageResponse struct {
	PDFID   string `json:"pdf_id"`
	PageNum int    `json:"page_num"`
	Content string `json:"content"`
}

// Occurrence is a single search match. Index is a character offset into the document text.
type Occurrence struct {
	Index   int    `json:"index"`
	Context string `json:"context"`
}

type SearchResponse struct {
	PDFID       string       `json:"pdf_id"`
	Query       string       `json:"query"`
	Occurrences []Occurrence `json:"occurrences"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
