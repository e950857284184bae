// Package wannatypes defines the types shared between wanna's packages.
// This file contains the conversation types exchanged with language model providers.
package wannatypes

// Message roles understood by every provider client.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single message in a conversation transcript.
// The order of messages in a transcript is meaningful: system messages prime
// behavior while user and assistant messages alternate as the logical exchange.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SystemMessage creates a message with the system role.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// UserMessage creates a message with the user role.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantMessage creates a message with the assistant role.
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}
