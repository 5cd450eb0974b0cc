package goal

import (
	"context"
	"database/sql"
)

// Status values for a donation goal.
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Goal represents a fundraising target for a category.
// Corresponds to the 'donation_goals' table. The store does not derive
// CurrentAmount from donations; it is plain stored state.
type Goal struct {
	ID            int64
	Category      string
	TargetAmount  float64
	CurrentAmount float64
	StartDate     string // donation.DateLayout format
	EndDate       sql.NullString
	Status        string
}

// Repository defines the storage operations for donation goals.
type Repository interface {
	Create(ctx context.Context, g *Goal) error
	GetByID(ctx context.Context, id int64) (*Goal, error)
	ListByStatus(ctx context.Context, status string) ([]*Goal, error)
	SetStatus(ctx context.Context, id int64, status string) error
}
