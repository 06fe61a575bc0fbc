package llm

import (
	"fmt"
	"strings"

	"github.com/futig/pdfchat-backend/internal/entity"
)

const contextMarker = "## Document excerpts"

const systemPrompt = `You are an assistant answering questions about a single PDF document.

## Rules
1. Answer only from the document excerpts below and the previous conversation
2. If the excerpts do not contain the answer, say that the document does not cover it
3. Keep answers accurate and concise`

// BuildMessages composes the chat request: instructions with the retrieved
// excerpts, then prior turns, then the new question.
func BuildMessages(chunks []entity.ScoredChunk, history []entity.Turn, question string) []entity.LLMMessage {
	var sb strings.Builder
	sb.WriteString(systemPrompt)
	sb.WriteString("\n\n")
	sb.WriteString(contextMarker)
	sb.WriteString("\n")

	if len(chunks) == 0 {
		sb.WriteString("(no excerpts)\n")
	}
	for i, ch := range chunks {
		fmt.Fprintf(&sb, "\n[%d]\n%s\n", i+1, strings.TrimSpace(ch.Chunk.Text))
	}

	messages := make([]entity.LLMMessage, 0, 2+2*len(history))
	messages = append(messages, entity.LLMMessage{Role: entity.LLMRoleSystem, Content: sb.String()})

	for _, turn := range history {
		messages = append(messages,
			entity.LLMMessage{Role: entity.LLMRoleUser, Content: turn.Question},
			entity.LLMMessage{Role: entity.LLMRoleAssistant, Content: turn.Answer},
		)
	}

	messages = append(messages, entity.LLMMessage{Role: entity.LLMRoleUser, Content: question})

	return messages
}
