package validator

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/futig/pdfchat-backend/internal/config"
	"github.com/futig/pdfchat-backend/internal/entity"
)

const pdfContentType = "application/pdf"

// Validator validates incoming requests against upload limits
type Validator struct {
	cfg config.FileUploadConfig
}

func NewFileValidator(cfg config.FileUploadConfig) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateUpload checks that the upload carries a non-empty file declared as PDF.
func (v *Validator) ValidateUpload(req *entity.UploadRequest) error {
	if req.Filename == "" {
		return fmt.Errorf("%w: file", entity.ErrMissingField)
	}

	if len(req.Content) == 0 {
		return fmt.Errorf("%w: '%s'", entity.ErrEmptyFile, req.Filename)
	}

	if !IsPDFContentType(req.ContentType) {
		return fmt.Errorf("%w: content type '%s' (expected %s)", entity.ErrInvalidFileType, req.ContentType, pdfContentType)
	}

	if int64(len(req.Content)) > v.cfg.MaxFileSize {
		return fmt.Errorf("%w: file '%s' is %d bytes (max %d)", entity.ErrFileTooLarge, req.Filename, len(req.Content), v.cfg.MaxFileSize)
	}

	return nil
}

// ValidateChat validates a chat request
func (v *Validator) ValidateChat(req *entity.ChatRequest) error {
	if strings.TrimSpace(req.PDFID) == "" {
		return fmt.Errorf("%w: pdf_id", entity.ErrMissingField)
	}
	if strings.TrimSpace(req.Query) == "" {
		return fmt.Errorf("%w: query", entity.ErrMissingField)
	}

	return nil
}

// IsPDFContentType reports whether the declared media type is application/pdf.
func IsPDFContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return strings.EqualFold(mediaType, pdfContentType)
}

// SanitizeFilename sanitizes a filename for safe storage
func SanitizeFilename(filename string) string {
	filename = filepath.Base(filepath.Clean("/" + filename))
	replacer := strings.NewReplacer(
		" ", "_",
		"(", "",
		")", "",
		"[", "",
		"]", "",
		"{", "",
		"}", "",
	)
	return replacer.Replace(filename)
}
