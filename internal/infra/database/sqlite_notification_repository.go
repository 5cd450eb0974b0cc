package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"donation_assistant_bot/internal/domain/donation"
	"donation_assistant_bot/internal/domain/notification"
)

var ErrNotificationNotFound = fmt.Errorf("notification not found")

type SQLiteNotificationRepository struct {
	db executor
}

func NewSQLiteNotificationRepository(db *sql.DB) *SQLiteNotificationRepository {
	return &SQLiteNotificationRepository{db: db}
}

// WithTx returns a copy of the repository that runs inside the transaction.
func (r *SQLiteNotificationRepository) WithTx(tx *sql.Tx) notification.Repository {
	return &SQLiteNotificationRepository{db: tx}
}

func (r *SQLiteNotificationRepository) Enqueue(ctx context.Context, n *notification.Notification) error {
	if n.Status == "" {
		n.Status = notification.StatusPending
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	query := `INSERT INTO email_notifications (donor_id, type, message, status, created_at)
               VALUES (?, ?, ?, ?, ?)
               RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		n.DonorID, n.Type, n.Message, n.Status, n.CreatedAt.Format(donation.DateLayout),
	).Scan(&n.ID)
	if err != nil {
		return fmt.Errorf("error enqueueing notification: %w", err)
	}
	return nil
}

const notificationColumns = `id, donor_id, type, message, status, created_at, sent_at`

func (r *SQLiteNotificationRepository) ListPending(ctx context.Context) ([]*notification.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM email_notifications
               WHERE status = ? ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, notification.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("error listing pending notifications: %w", err)
	}
	defer rows.Close()
	return scanNotifications(rows)
}

func (r *SQLiteNotificationRepository) ListByType(ctx context.Context, t notification.Type) ([]*notification.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM email_notifications
               WHERE type = ? ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, t)
	if err != nil {
		return nil, fmt.Errorf("error listing notifications by type: %w", err)
	}
	defer rows.Close()
	return scanNotifications(rows)
}

func scanNotifications(rows *sql.Rows) ([]*notification.Notification, error) {
	notifications := make([]*notification.Notification, 0)
	for rows.Next() {
		n := &notification.Notification{}
		var createdAt string
		var sentAt sql.NullString
		if err := rows.Scan(&n.ID, &n.DonorID, &n.Type, &n.Message, &n.Status, &createdAt, &sentAt); err != nil {
			return nil, fmt.Errorf("error scanning notification row: %w", err)
		}
		parsed, err := time.ParseInLocation(donation.DateLayout, createdAt, time.Local)
		if err != nil {
			return nil, fmt.Errorf("error parsing notification created_at %q: %w", createdAt, err)
		}
		n.CreatedAt = parsed
		if sentAt.Valid {
			sent, err := time.ParseInLocation(donation.DateLayout, sentAt.String, time.Local)
			if err != nil {
				return nil, fmt.Errorf("error parsing notification sent_at %q: %w", sentAt.String, err)
			}
			n.SentAt = sql.NullTime{Time: sent, Valid: true}
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notification rows: %w", err)
	}
	return notifications, nil
}

func (r *SQLiteNotificationRepository) MarkSent(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE email_notifications SET status = ?, sent_at = ? WHERE id = ?`,
		notification.StatusSent, time.Now().Format(donation.DateLayout), id)
	if err != nil {
		return fmt.Errorf("error marking notification sent: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking updated rows: %w", err)
	}
	if affected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
