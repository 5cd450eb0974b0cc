package donor

import (
	"context"
	"database/sql"
)

// Repository defines the operations for persisting and retrieving donor profiles.
type Repository interface {
	Create(ctx context.Context, p *Profile) error
	GetByName(ctx context.Context, name string) (*Profile, error)
	// Upsert creates the profile on first donation and merges fields on
	// subsequent ones per the UpsertFields policy. Returns the profile ID.
	Upsert(ctx context.Context, name string, fields UpsertFields) (int64, error)
	Update(ctx context.Context, name string, fields UpdateFields) error
	DeleteByName(ctx context.Context, name string) error
	List(ctx context.Context) ([]*Profile, error)
	// WithTx returns a repository bound to the transaction.
	WithTx(tx *sql.Tx) Repository
}
