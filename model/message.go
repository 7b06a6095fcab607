package model

import "time"

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of the transcript replayed to the model every turn.
type Message struct {
	Role      Role
	Content   string
	Timestamp time.Time
}

func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content, Timestamp: time.Now()}
}

func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content, Timestamp: time.Now()}
}
