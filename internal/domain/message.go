package domain

import (
	"errors"
	"time"
)

var (
	// ErrMessageNotFound indicates that the message is not found.
	ErrMessageNotFound = errors.New("message not found")
	// ErrNotProjectParticipant indicates that the user has no access to the project feed.
	ErrNotProjectParticipant = errors.New("user is not a project participant")
)

// Message is an append-only per-project feed entry. Only the read flag
// mutates after creation.
type Message struct {
	ID         int64     `json:"id"`
	ProjectID  int64     `json:"project_id"`
	Sender     string    `json:"sender"`
	SenderName string    `json:"sender_name"`
	Text       string    `json:"text"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateMessageParams is the input data to append a message.
type CreateMessageParams struct {
	ProjectID  int64  `json:"project_id"`
	Sender     string `json:"sender"`
	SenderName string `json:"sender_name"`
	Text       string `json:"text"`
}
