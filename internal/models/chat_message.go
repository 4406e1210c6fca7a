package models

import "time"

// ChatMessage is a single turn in the conversation log.
// Messages are append-only; ordering is creation order and the store is the
// source of truth for it.
type ChatMessage struct {
	ID        int64     `json:"id"`
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"ts"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// AppendMessageRequest is the request body for POST /chat
type AppendMessageRequest struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
