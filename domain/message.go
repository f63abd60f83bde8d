// Package domain contains core concepts of the chat system.
// This file defines Message events and related rules.
// Messages are immutable once stored and are only removed with their chat.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxAttachments bounds the attachments of a single message.
const MaxAttachments = 5

// Message represents an immutable chat event.
type Message struct {
	ID          uuid.UUID // unique identifier
	ChatID      ChatID
	SenderID    string
	Content     string
	Attachments []Attachment
	CreatedAt   time.Time
}

// Validate checks a message before it is stored.
func (m Message) Validate() error {
	if m.Content == "" && len(m.Attachments) == 0 {
		return ErrEmptyMessage
	}
	if len(m.Attachments) > MaxAttachments {
		return ErrTooManyFiles
	}
	return nil
}

// Sender is the display projection of the author carried by live events.
type Sender struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// LiveMessage is the real-time shape of a message.
// The sender name is denormalized for the event only, never stored.
type LiveMessage struct {
	ID          uuid.UUID    `json:"_id"`
	ChatID      ChatID       `json:"chat"`
	Sender      Sender       `json:"sender"`
	Content     string       `json:"content"`
	Attachments []Attachment `json:"attachments"`
	CreatedAt   time.Time    `json:"createdAt"`
}

func (m Message) Live(sender User) LiveMessage {
	attachments := m.Attachments
	if attachments == nil {
		attachments = []Attachment{}
	}
	return LiveMessage{
		ID:          m.ID,
		ChatID:      m.ChatID,
		Sender:      Sender{ID: sender.ID, Name: sender.Name},
		Content:     m.Content,
		Attachments: attachments,
		CreatedAt:   m.CreatedAt,
	}
}
