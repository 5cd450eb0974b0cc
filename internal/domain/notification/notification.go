package notification

import (
	"database/sql"
	"time"
)

// Type identifies why a notification row was enqueued.
type Type string

const (
	TypeLargeDonation Type = "large_donation"
	TypeRecurringDue  Type = "recurring_due"
)

// Status represents the delivery state of a notification row.
type Status string

const (
	StatusPending Status = "pending"
	StatusSent    Status = "sent"
)

// LargeDonationThreshold is the amount at or above which a donation
// enqueues a large_donation notification.
const LargeDonationThreshold = 1000.0

// Notification is one queued email notification. Rows are produced by the
// record store; delivery is an external consumer that reads pending rows
// and marks them sent. Corresponds to the 'email_notifications' table.
type Notification struct {
	ID        int64
	DonorID   sql.NullInt64 // References donor_profiles.id
	Type      Type
	Message   string
	Status    Status
	CreatedAt time.Time
	SentAt    sql.NullTime
}
