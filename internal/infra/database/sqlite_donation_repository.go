package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"donation_assistant_bot/internal/domain/donation"
)

// Custom errors
var ErrDonationNotFound = fmt.Errorf("donation not found")
var ErrNoFieldsToUpdate = fmt.Errorf("no fields to update")

type SQLiteDonationRepository struct {
	db executor
}

func NewSQLiteDonationRepository(db *sql.DB) *SQLiteDonationRepository {
	return &SQLiteDonationRepository{db: db}
}

// WithTx returns a copy of the repository that runs inside the transaction.
func (r *SQLiteDonationRepository) WithTx(tx *sql.Tx) donation.Repository {
	return &SQLiteDonationRepository{db: tx}
}

const donationColumns = `id, donor_name, amount, category, date, notes, is_recurring, recurring_interval, next_donation_date`

func (r *SQLiteDonationRepository) Create(ctx context.Context, d *donation.Donation) error {
	query := `INSERT INTO donations (donor_name, amount, category, date, notes, is_recurring, recurring_interval, next_donation_date)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?)
               RETURNING id`

	var next sql.NullString
	if d.NextDonationDate.Valid {
		next = sql.NullString{String: d.NextDonationDate.Time.Format(donation.DateLayout), Valid: true}
	}

	err := r.db.QueryRowContext(ctx, query,
		d.DonorName, d.Amount, d.Category, d.Date.Format(donation.DateLayout),
		d.Notes, d.IsRecurring, d.RecurringInterval, next,
	).Scan(&d.ID)
	if err != nil {
		return fmt.Errorf("error creating donation: %w", err)
	}
	return nil
}

func scanDonation(row interface{ Scan(...any) error }) (*donation.Donation, error) {
	d := &donation.Donation{}
	var dateText string
	var nextText sql.NullString
	if err := row.Scan(
		&d.ID, &d.DonorName, &d.Amount, &d.Category, &dateText,
		&d.Notes, &d.IsRecurring, &d.RecurringInterval, &nextText,
	); err != nil {
		return nil, err
	}

	date, err := time.ParseInLocation(donation.DateLayout, dateText, time.Local)
	if err != nil {
		return nil, fmt.Errorf("error parsing donation date %q: %w", dateText, err)
	}
	d.Date = date

	if nextText.Valid {
		next, err := time.ParseInLocation(donation.DateLayout, nextText.String, time.Local)
		if err != nil {
			return nil, fmt.Errorf("error parsing next donation date %q: %w", nextText.String, err)
		}
		d.NextDonationDate = sql.NullTime{Time: next, Valid: true}
	}
	return d, nil
}

func (r *SQLiteDonationRepository) GetByID(ctx context.Context, id int64) (*donation.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations WHERE id = ?`
	d, err := scanDonation(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrDonationNotFound
		}
		return nil, fmt.Errorf("error getting donation by ID: %w", err)
	}
	return d, nil
}

func (r *SQLiteDonationRepository) ListRecent(ctx context.Context, limit int) ([]*donation.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations ORDER BY date DESC, id DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing recent donations: %w", err)
	}
	defer rows.Close()
	return scanDonations(rows)
}

func scanDonations(rows *sql.Rows) ([]*donation.Donation, error) {
	donations := make([]*donation.Donation, 0)
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning donation row: %w", err)
		}
		donations = append(donations, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating donation rows: %w", err)
	}
	return donations, nil
}

func (r *SQLiteDonationRepository) Total(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.QueryRowContext(ctx,
		`SELECT ROUND(COALESCE(SUM(amount), 0), 2) FROM donations`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("error getting total donations: %w", err)
	}
	return total, nil
}

func (r *SQLiteDonationRepository) TotalByCategory(ctx context.Context, categoryName string) (float64, error) {
	var total float64
	err := r.db.QueryRowContext(ctx,
		`SELECT ROUND(COALESCE(SUM(amount), 0), 2) FROM donations WHERE category = ?`,
		categoryName).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("error getting total donations for category: %w", err)
	}
	return total, nil
}

func (r *SQLiteDonationRepository) CategoryBreakdown(ctx context.Context) (map[string]float64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category, ROUND(SUM(amount), 2) FROM donations GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("error getting category breakdown: %w", err)
	}
	defer rows.Close()

	breakdown := make(map[string]float64)
	for rows.Next() {
		var name string
		var amount float64
		if err := rows.Scan(&name, &amount); err != nil {
			return nil, fmt.Errorf("error scanning breakdown row: %w", err)
		}
		breakdown[name] = amount
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating breakdown rows: %w", err)
	}
	return breakdown, nil
}

func (r *SQLiteDonationRepository) DonorStatistics(ctx context.Context) (*donation.Statistics, error) {
	stats := &donation.Statistics{TopDonors: make([]donation.DonorTotal, 0)}

	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT donor_name), ROUND(COALESCE(AVG(amount), 0), 2) FROM donations`).
		Scan(&stats.TotalDonors, &stats.AverageDonation)
	if err != nil {
		return nil, fmt.Errorf("error getting donor counts: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT donor_name, COUNT(*) AS donation_count, ROUND(SUM(amount), 2) AS total_amount
           FROM donations
           GROUP BY donor_name
           ORDER BY total_amount DESC
           LIMIT 5`)
	if err != nil {
		return nil, fmt.Errorf("error getting top donors: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t donation.DonorTotal
		if err := rows.Scan(&t.Name, &t.DonationCount, &t.TotalAmount); err != nil {
			return nil, fmt.Errorf("error scanning top donor row: %w", err)
		}
		stats.TopDonors = append(stats.TopDonors, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating top donor rows: %w", err)
	}
	return stats, nil
}

func (r *SQLiteDonationRepository) DonorNames(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT donor_name FROM donations ORDER BY donor_name`)
	if err != nil {
		return nil, fmt.Errorf("error listing donor names: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("error scanning donor name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating donor names: %w", err)
	}
	return names, nil
}

func (r *SQLiteDonationRepository) TotalByDonor(ctx context.Context, donorName string) (float64, error) {
	var total float64
	err := r.db.QueryRowContext(ctx,
		`SELECT ROUND(COALESCE(SUM(amount), 0), 2) FROM donations WHERE donor_name = ?`,
		donorName).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("error getting total for donor: %w", err)
	}
	return total, nil
}

func (r *SQLiteDonationRepository) Update(ctx context.Context, id int64, fields donation.UpdateFields) error {
	if fields.Empty() {
		return ErrNoFieldsToUpdate
	}

	setClauses := make([]string, 0, 3)
	args := make([]any, 0, 4)
	if fields.Amount != nil {
		setClauses = append(setClauses, "amount = ?")
		args = append(args, *fields.Amount)
	}
	if fields.Category != nil {
		setClauses = append(setClauses, "category = ?")
		args = append(args, *fields.Category)
	}
	if fields.Notes != nil {
		setClauses = append(setClauses, "notes = ?")
		args = append(args, *fields.Notes)
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE donations SET %s WHERE id = ?", strings.Join(setClauses, ", "))
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error updating donation: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking updated rows: %w", err)
	}
	if affected == 0 {
		return ErrDonationNotFound
	}
	return nil
}

func (r *SQLiteDonationRepository) DeleteByID(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM donations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("error deleting donation: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking deleted rows: %w", err)
	}
	if affected == 0 {
		return ErrDonationNotFound
	}
	return nil
}

func (r *SQLiteDonationRepository) DeleteByDate(ctx context.Context, dateText string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM donations WHERE date = ?`, dateText)
	if err != nil {
		return 0, fmt.Errorf("error deleting donations by date: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error checking deleted rows: %w", err)
	}
	if affected == 0 {
		return 0, ErrDonationNotFound
	}
	return affected, nil
}

func (r *SQLiteDonationRepository) ListRecurringDue(ctx context.Context, due time.Time) ([]*donation.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations
               WHERE is_recurring = 1 AND next_donation_date IS NOT NULL AND next_donation_date <= ?
               ORDER BY next_donation_date ASC`
	rows, err := r.db.QueryContext(ctx, query, due.Format(donation.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("error listing due recurring donations: %w", err)
	}
	defer rows.Close()
	return scanDonations(rows)
}
