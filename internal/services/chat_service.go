package services

import (
	"fmt"
	"strings"
	"time"

	"mira/internal/database"
	"mira/internal/models"
)

// ChatService handles conversation history persistence
type ChatService struct {
	db *database.DB
}

// NewChatService creates a new chat service
func NewChatService(db *database.DB) *ChatService {
	return &ChatService{db: db}
}

// AppendMessage stores one turn message and returns it with its assigned ID.
func (s *ChatService) AppendMessage(role, content string) (*models.ChatMessage, error) {
	role = strings.TrimSpace(role)
	if role != models.RoleUser && role != models.RoleAssistant {
		return nil, fmt.Errorf("invalid role: %q", role)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("message content is empty")
	}

	now := time.Now().UTC()
	result, err := s.db.Exec(
		"INSERT INTO chat_messages (role, content, ts) VALUES (?, ?, ?)",
		role, content, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get message id: %w", err)
	}

	return &models.ChatMessage{
		ID:        id,
		Role:      role,
		Content:   content,
		Timestamp: now,
	}, nil
}

// ListRecent returns the most recent messages in chronological order.
// This is the conversational memory window handed to the language model.
func (s *ChatService) ListRecent(limit int) ([]models.ChatMessage, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(`
		SELECT id, role, content, ts FROM (
			SELECT id, role, content, ts
			FROM chat_messages
			ORDER BY ts DESC, id DESC
			LIMIT ?
		) ORDER BY ts ASC, id ASC
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.Role, &m.Content, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}
