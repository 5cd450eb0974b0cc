package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"donation_assistant_bot/internal/domain/donor"
)

// Custom errors
var ErrDonorNotFound = fmt.Errorf("donor not found")
var ErrDuplicateDonorName = fmt.Errorf("donor with this name already exists")

type SQLiteDonorRepository struct {
	db executor
}

func NewSQLiteDonorRepository(db *sql.DB) *SQLiteDonorRepository {
	return &SQLiteDonorRepository{db: db}
}

// WithTx returns a copy of the repository that runs inside the transaction.
func (r *SQLiteDonorRepository) WithTx(tx *sql.Tx) donor.Repository {
	return &SQLiteDonorRepository{db: tx}
}

const donorColumns = `id, name, email, phone, address, preferred_category, total_donations, last_donation_date, notification_preferences`

func (r *SQLiteDonorRepository) Create(ctx context.Context, p *donor.Profile) error {
	query := `INSERT INTO donor_profiles (name, email, phone, address, preferred_category, notification_preferences)
               VALUES (?, ?, ?, ?, ?, ?)
               RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		p.Name, p.Email, p.Phone, p.Address, p.PreferredCategory, p.NotificationPreferences,
	).Scan(&p.ID)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrDuplicateDonorName
		}
		return fmt.Errorf("error creating donor profile: %w", err)
	}
	return nil
}

func (r *SQLiteDonorRepository) GetByName(ctx context.Context, name string) (*donor.Profile, error) {
	query := `SELECT ` + donorColumns + ` FROM donor_profiles WHERE name = ?`
	p := &donor.Profile{}
	err := r.db.QueryRowContext(ctx, query, name).Scan(
		&p.ID, &p.Name, &p.Email, &p.Phone, &p.Address,
		&p.PreferredCategory, &p.TotalDonations, &p.LastDonationDate, &p.NotificationPreferences,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrDonorNotFound
		}
		return nil, fmt.Errorf("error getting donor by name: %w", err)
	}
	return p, nil
}

// Upsert creates the profile on first donation and merges on subsequent
// ones. Blank contact fields leave stored values untouched (COALESCE with
// NULLIF keeps the old value when the incoming one is empty); the preferred
// category and last donation date are always refreshed.
func (r *SQLiteDonorRepository) Upsert(ctx context.Context, name string, fields donor.UpsertFields) (int64, error) {
	query := `INSERT INTO donor_profiles (name, email, phone, address, preferred_category, last_donation_date)
               VALUES (?, NULLIF(?, ''), NULLIF(?, ''), NULLIF(?, ''), ?, ?)
               ON CONFLICT(name) DO UPDATE SET
                 email = COALESCE(NULLIF(excluded.email, ''), donor_profiles.email),
                 phone = COALESCE(NULLIF(excluded.phone, ''), donor_profiles.phone),
                 address = COALESCE(NULLIF(excluded.address, ''), donor_profiles.address),
                 preferred_category = excluded.preferred_category,
                 last_donation_date = excluded.last_donation_date
               RETURNING id`
	var id int64
	err := r.db.QueryRowContext(ctx, query,
		name, fields.Email, fields.Phone, fields.Address,
		fields.PreferredCategory, fields.LastDonationDate,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error upserting donor profile: %w", err)
	}
	return id, nil
}

func (r *SQLiteDonorRepository) Update(ctx context.Context, name string, fields donor.UpdateFields) error {
	if fields.Empty() {
		return ErrNoFieldsToUpdate
	}

	setClauses := make([]string, 0, 5)
	args := make([]any, 0, 6)
	appendField := func(column string, value *string) {
		if value != nil {
			setClauses = append(setClauses, column+" = ?")
			args = append(args, *value)
		}
	}
	appendField("email", fields.Email)
	appendField("phone", fields.Phone)
	appendField("address", fields.Address)
	appendField("preferred_category", fields.PreferredCategory)
	appendField("notification_preferences", fields.NotificationPreferences)
	args = append(args, name)

	query := fmt.Sprintf("UPDATE donor_profiles SET %s WHERE name = ?", strings.Join(setClauses, ", "))
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error updating donor profile: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking updated rows: %w", err)
	}
	if affected == 0 {
		return ErrDonorNotFound
	}
	return nil
}

func (r *SQLiteDonorRepository) DeleteByName(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM donor_profiles WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("error deleting donor profile: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking deleted rows: %w", err)
	}
	if affected == 0 {
		return ErrDonorNotFound
	}
	return nil
}

func (r *SQLiteDonorRepository) List(ctx context.Context) ([]*donor.Profile, error) {
	query := `SELECT ` + donorColumns + ` FROM donor_profiles ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing donor profiles: %w", err)
	}
	defer rows.Close()

	profiles := make([]*donor.Profile, 0)
	for rows.Next() {
		p := &donor.Profile{}
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Email, &p.Phone, &p.Address,
			&p.PreferredCategory, &p.TotalDonations, &p.LastDonationDate, &p.NotificationPreferences,
		); err != nil {
			return nil, fmt.Errorf("error scanning donor profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating donor profiles: %w", err)
	}
	return profiles, nil
}
