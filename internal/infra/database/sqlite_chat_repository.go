package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"donation_assistant_bot/internal/domain/chat"
	"donation_assistant_bot/internal/domain/donation"
)

type SQLiteChatRepository struct {
	db *sql.DB
}

func NewSQLiteChatRepository(db *sql.DB) *SQLiteChatRepository {
	return &SQLiteChatRepository{db: db}
}

func (r *SQLiteChatRepository) Append(ctx context.Context, e *chat.Entry) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	query := `INSERT INTO chat_history (user_message, bot_response, timestamp)
               VALUES (?, ?, ?)
               RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		e.UserMessage, e.BotResponse, e.Timestamp.Format(donation.DateLayout),
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("error appending chat entry: %w", err)
	}
	return nil
}

func (r *SQLiteChatRepository) ListRecent(ctx context.Context, limit int) ([]*chat.Entry, error) {
	query := `SELECT id, user_message, bot_response, timestamp
               FROM chat_history ORDER BY id DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing chat history: %w", err)
	}
	defer rows.Close()

	entries := make([]*chat.Entry, 0)
	for rows.Next() {
		e := &chat.Entry{}
		var ts string
		if err := rows.Scan(&e.ID, &e.UserMessage, &e.BotResponse, &ts); err != nil {
			return nil, fmt.Errorf("error scanning chat entry: %w", err)
		}
		parsed, err := time.ParseInLocation(donation.DateLayout, ts, time.Local)
		if err != nil {
			return nil, fmt.Errorf("error parsing chat timestamp %q: %w", ts, err)
		}
		e.Timestamp = parsed
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chat entries: %w", err)
	}
	return entries, nil
}
