package database

import (
	"context"
	"database/sql"
	"fmt"

	"donation_assistant_bot/internal/domain/category"
)

// Table and column names below are the de facto interchange format for any
// tooling that inspects the store directly; they must not be renamed.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS donations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		donor_name TEXT NOT NULL,
		amount REAL NOT NULL,
		category TEXT NOT NULL,
		date TEXT NOT NULL,
		notes TEXT,
		is_recurring BOOLEAN DEFAULT 0,
		recurring_interval TEXT,
		next_donation_date TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS donor_profiles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		email TEXT,
		phone TEXT,
		address TEXT,
		preferred_category TEXT,
		total_donations REAL DEFAULT 0,
		last_donation_date TEXT,
		notification_preferences TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT UNIQUE NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS donation_goals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		category TEXT NOT NULL,
		target_amount REAL NOT NULL,
		current_amount REAL DEFAULT 0,
		start_date TEXT NOT NULL,
		end_date TEXT,
		status TEXT DEFAULT 'active'
	)`,
	`CREATE TABLE IF NOT EXISTS chat_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_message TEXT NOT NULL,
		bot_response TEXT NOT NULL,
		timestamp TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS email_notifications (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		donor_id INTEGER,
		type TEXT NOT NULL,
		message TEXT NOT NULL,
		status TEXT DEFAULT 'pending',
		created_at TEXT NOT NULL,
		sent_at TEXT,
		FOREIGN KEY (donor_id) REFERENCES donor_profiles(id)
	)`,
}

// Migrate creates the schema if it does not exist and seeds the default
// category set. Safe to run on every startup.
func Migrate(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration transaction: %w", err)
	}
	defer tx.Rollback() // Rollback if not committed

	for _, stmt := range schemaStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("error creating schema: %w", err)
		}
	}

	for _, name := range category.Defaults {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO categories (name) VALUES (?)`, name); err != nil {
			return fmt.Errorf("error seeding category %q: %w", name, err)
		}
	}

	return tx.Commit()
}
