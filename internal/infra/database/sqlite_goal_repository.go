package database

import (
	"context"
	"database/sql"
	"fmt"

	"donation_assistant_bot/internal/domain/goal"
)

var ErrGoalNotFound = fmt.Errorf("donation goal not found")

type SQLiteGoalRepository struct {
	db *sql.DB
}

func NewSQLiteGoalRepository(db *sql.DB) *SQLiteGoalRepository {
	return &SQLiteGoalRepository{db: db}
}

const goalColumns = `id, category, target_amount, current_amount, start_date, end_date, status`

func (r *SQLiteGoalRepository) Create(ctx context.Context, g *goal.Goal) error {
	if g.Status == "" {
		g.Status = goal.StatusActive
	}
	query := `INSERT INTO donation_goals (category, target_amount, current_amount, start_date, end_date, status)
               VALUES (?, ?, ?, ?, ?, ?)
               RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		g.Category, g.TargetAmount, g.CurrentAmount, g.StartDate, g.EndDate, g.Status,
	).Scan(&g.ID)
	if err != nil {
		return fmt.Errorf("error creating donation goal: %w", err)
	}
	return nil
}

func (r *SQLiteGoalRepository) GetByID(ctx context.Context, id int64) (*goal.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM donation_goals WHERE id = ?`
	g := &goal.Goal{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&g.ID, &g.Category, &g.TargetAmount, &g.CurrentAmount, &g.StartDate, &g.EndDate, &g.Status,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrGoalNotFound
		}
		return nil, fmt.Errorf("error getting donation goal by ID: %w", err)
	}
	return g, nil
}

func (r *SQLiteGoalRepository) ListByStatus(ctx context.Context, status string) ([]*goal.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM donation_goals WHERE status = ? ORDER BY start_date`
	rows, err := r.db.QueryContext(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("error listing donation goals: %w", err)
	}
	defer rows.Close()

	goals := make([]*goal.Goal, 0)
	for rows.Next() {
		g := &goal.Goal{}
		if err := rows.Scan(
			&g.ID, &g.Category, &g.TargetAmount, &g.CurrentAmount, &g.StartDate, &g.EndDate, &g.Status,
		); err != nil {
			return nil, fmt.Errorf("error scanning donation goal: %w", err)
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating donation goals: %w", err)
	}
	return goals, nil
}

func (r *SQLiteGoalRepository) SetStatus(ctx context.Context, id int64, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE donation_goals SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("error updating goal status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking updated rows: %w", err)
	}
	if affected == 0 {
		return ErrGoalNotFound
	}
	return nil
}
