package donation

import (
	"context"
	"database/sql"
	"time"
)

// DonorTotal is one row of the top-donor ranking.
type DonorTotal struct {
	Name          string
	DonationCount int
	TotalAmount   float64
}

// Statistics aggregates the donor-level view of the donations table.
type Statistics struct {
	TotalDonors     int
	AverageDonation float64
	TopDonors       []DonorTotal // Up to 5, by total amount descending
}

// UpdateFields carries the optional fields of a partial donation update.
// Nil pointers mean "leave unchanged".
type UpdateFields struct {
	Amount   *float64
	Category *string
	Notes    *string
}

// Empty reports whether no field is supplied.
func (f UpdateFields) Empty() bool {
	return f.Amount == nil && f.Category == nil && f.Notes == nil
}

// Repository defines the operations for persisting and querying donations.
type Repository interface {
	Create(ctx context.Context, d *Donation) error
	GetByID(ctx context.Context, id int64) (*Donation, error)
	ListRecent(ctx context.Context, limit int) ([]*Donation, error)
	Total(ctx context.Context) (float64, error)
	TotalByCategory(ctx context.Context, category string) (float64, error)
	CategoryBreakdown(ctx context.Context) (map[string]float64, error)
	DonorStatistics(ctx context.Context) (*Statistics, error)
	DonorNames(ctx context.Context) ([]string, error)
	TotalByDonor(ctx context.Context, donorName string) (float64, error)
	Update(ctx context.Context, id int64, fields UpdateFields) error
	DeleteByID(ctx context.Context, id int64) error
	// DeleteByDate removes every donation whose stored date matches exactly.
	// Compatibility shim for stores maintained by the legacy tool; deleting
	// by ID is the preferred path. Returns the number of rows removed.
	DeleteByDate(ctx context.Context, dateText string) (int64, error)
	// ListRecurringDue returns recurring donations whose next donation date
	// is at or before the given moment.
	ListRecurringDue(ctx context.Context, due time.Time) ([]*Donation, error)
	// WithTx returns a repository bound to the transaction so a donation
	// write can commit atomically with its side effects.
	WithTx(tx *sql.Tx) Repository
}
