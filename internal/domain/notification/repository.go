package notification

import (
	"context"
	"database/sql"
)

// Repository defines operations for the email notification queue.
type Repository interface {
	Enqueue(ctx context.Context, n *Notification) error
	ListPending(ctx context.Context) ([]*Notification, error)
	ListByType(ctx context.Context, t Type) ([]*Notification, error)
	MarkSent(ctx context.Context, id int64) error
	// WithTx returns a repository bound to the transaction.
	WithTx(tx *sql.Tx) Repository
}
