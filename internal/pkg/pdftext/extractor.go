// Package pdftext extracts plain text from PDF documents page by page.
package pdftext

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

var ErrUnreadable = errors.New("pdf structure could not be read")

// Result holds the per-page text of a document. Unreadable pages are empty strings.
type Result struct {
	Pages []string
}

// Text returns the page texts concatenated in order.
func (r *Result) Text() string {
	return strings.Join(r.Pages, "")
}

// Extractor turns PDF bytes into page text.
type Extractor interface {
	Extract(content []byte) (*Result, error)
}

type LedongthucExtractor struct {
	logger *zap.Logger
}

func NewExtractor(logger *zap.Logger) *LedongthucExtractor {
	return &LedongthucExtractor{logger: logger}
}

// Extract fails only when the document itself cannot be opened. A page that
// cannot be decoded contributes an empty string.
func (e *LedongthucExtractor) Extract(content []byte) (res *Result, err error) {
	// the parser panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("%w: %v", ErrUnreadable, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}

	numPages := reader.NumPage()
	pages := make([]string, numPages)

	for i := 1; i <= numPages; i++ {
		pages[i-1] = e.pageText(reader, i)
	}

	return &Result{Pages: pages}, nil
}

func (e *LedongthucExtractor) pageText(reader *pdf.Reader, num int) (text string) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("Page extraction panicked", zap.Int("page", num), zap.Any("panic", r))
			text = ""
		}
	}()

	page := reader.Page(num)
	if page.V.IsNull() {
		return ""
	}

	text, err := page.GetPlainText(nil)
	if err != nil {
		e.logger.Warn("Failed to extract page text", zap.Int("page", num), zap.Error(err))
		return ""
	}

	return text
}
