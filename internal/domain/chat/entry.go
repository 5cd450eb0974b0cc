package chat

import (
	"context"
	"time"
)

// Entry is one user/assistant exchange in the append-only chat log.
// Corresponds to the 'chat_history' table.
type Entry struct {
	ID          int64
	UserMessage string
	BotResponse string
	Timestamp   time.Time
}

// Repository defines the operations for the chat history log.
type Repository interface {
	Append(ctx context.Context, e *Entry) error
	ListRecent(ctx context.Context, limit int) ([]*Entry, error)
}
