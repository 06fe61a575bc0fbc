package entity

type LLMRole string

const (
	LLMRoleSystem    LLMRole = "system"
	LLMRoleUser      LLMRole = "user"
	LLMRoleAssistant LLMRole = "assistant"
)

type LLMMessage struct {
	Role    LLMRole `json:"role"`
	Content string  `json:"content"`
}

type LLMChatRequest struct {
	Model       string       `json:"model"`
	Messages    []LLMMessage `json:"messages"`
	Temperature float64      `json:"temperature"`
}

type LLMChoice struct {
	Index        int        `json:"index"`
	Message      LLMMessage `json:"message"`
	FinishReason string     `json:"finish_reason"`
}

type LLMChatResponse struct {
	Choices []LLMChoice `json:"choices"`
}

// LLMAnswerRequest is a question about a document with its retrieved context and prior turns
type LLMAnswerRequest struct {
	Question string
	Context  []ScoredChunk
	History  []Turn
}
