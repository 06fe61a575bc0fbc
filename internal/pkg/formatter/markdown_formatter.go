package formatter

import (
	"bytes"
	"fmt"
)

const (
	markdownContentType   = "text/markdown; charset=utf-8"
	markdownFileExtension = ".md"
)

type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

func (mf *MarkdownFormatter) Format(transcript *Transcript) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n", transcript.title())

	if len(transcript.Turns) == 0 {
		buf.WriteString("\n_No questions yet._\n")
		return buf.Bytes(), nil
	}

	for i, turn := range transcript.Turns {
		fmt.Fprintf(&buf, "\n## Question %d\n\n%s\n\n**Answer:**\n\n%s\n", i+1, turn.Question, turn.Answer)
	}
	return buf.Bytes(), nil
}

func (mf *MarkdownFormatter) ContentType() string {
	return markdownContentType
}

func (mf *MarkdownFormatter) FileExtension() string {
	return markdownFileExtension
}
