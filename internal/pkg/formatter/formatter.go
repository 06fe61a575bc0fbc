package formatter

import (
	"fmt"

	"github.com/futig/pdfchat-backend/internal/entity"
)

const baseTitle = "Conversation"

// Transcript is a conversation rendered for export.
type Transcript struct {
	DocumentName string
	Turns        []entity.Turn
}

func (t *Transcript) title() string {
	if t.DocumentName == "" {
		return baseTitle
	}
	return fmt.Sprintf("%s: %s", baseTitle, t.DocumentName)
}

type Formatter interface {
	Format(transcript *Transcript) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct {
	docxEnabled bool
}

type FactoryOption func(*Factory)

// WithDOCX enables docx export. unioffice must be licensed beforehand, see SetDOCXLicense.
func WithDOCX() FactoryOption {
	return func(f *Factory) {
		f.docxEnabled = true
	}
}

func NewFactory(opts ...FactoryOption) *Factory {
	f := &Factory{}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Factory) Create(format entity.ResultFormat) (Formatter, error) {
	switch format {
	case entity.FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatDOCX:
		if !f.docxEnabled {
			return nil, fmt.Errorf("%w: docx export is not configured on this server", entity.ErrInvalidFormat)
		}
		return NewDOCXFormatter(), nil
	case entity.FormatPDF:
		return NewPDFFormatter(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported format: %s", entity.ErrInvalidFormat, format)
	}
}
