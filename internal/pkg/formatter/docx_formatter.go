package formatter

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/unidoc/unioffice/common/license"
	"github.com/unidoc/unioffice/document"
)

const (
	docxContentType   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	docxFileExtension = ".docx"
)

var ErrMissingLicenseKey = errors.New("unioffice license key is empty")

// SetDOCXLicense registers the metered unioffice key, without it document.New refuses to work.
func SetDOCXLicense(key string) error {
	if key == "" {
		return ErrMissingLicenseKey
	}
	if err := license.SetMeteredKey(key); err != nil {
		return fmt.Errorf("set unioffice metered key: %w", err)
	}
	return nil
}

type DOCXFormatter struct{}

func NewDOCXFormatter() *DOCXFormatter {
	return &DOCXFormatter{}
}

func (mf *DOCXFormatter) Format(transcript *Transcript) ([]byte, error) {
	doc := document.New()
	defer doc.Close()

	titlePar := doc.AddParagraph()
	titlePar.SetStyle("Heading1")
	titlePar.AddRun().AddText(transcript.title())

	for i, turn := range transcript.Turns {
		questionPar := doc.AddParagraph()
		questionPar.SetStyle("Heading2")
		questionPar.AddRun().AddText(fmt.Sprintf("Question %d", i+1))

		doc.AddParagraph().AddRun().AddText(turn.Question)

		answerRun := doc.AddParagraph().AddRun()
		answerRun.Properties().SetBold(true)
		answerRun.AddText("Answer:")

		doc.AddParagraph().AddRun().AddText(turn.Answer)
	}

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (mf *DOCXFormatter) ContentType() string {
	return docxContentType
}

func (mf *DOCXFormatter) FileExtension() string {
	return docxFileExtension
}
