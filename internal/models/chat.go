package models

import "time"

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is a single entry in a ticket's conversation history.
// StepIndex is set when the message was sent with a checklist step in focus.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	StepIndex *int      `json:"step_index,omitempty"`
}
