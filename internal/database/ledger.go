package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"frontdesk/internal/models"
)

// AddCashEntry appends one line to the petty-cash ledger. The ledger is
// append-only; there is deliberately no update or delete.
func (db *DB) AddCashEntry(ctx context.Context, entry *models.CashEntry) error {
	now := time.Now()
	query := `INSERT INTO cash_entries (kind, amount, description, staff_name, created_at)
              VALUES (?, ?, ?, ?, ?)`
	result, err := db.ExecContext(ctx, query,
		entry.Kind, entry.Amount, entry.Description, entry.StaffName, now)
	if err != nil {
		return fmt.Errorf("failed to add cash entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	entry.ID = id
	entry.CreatedAt = now
	return nil
}

func (db *DB) ListCashEntries(ctx context.Context, start, end time.Time) ([]models.CashEntry, error) {
	query := `SELECT id, kind, amount, description, staff_name, created_at
              FROM cash_entries
              WHERE created_at >= ? AND created_at < ?
              ORDER BY created_at DESC`
	rows, err := db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list cash entries: %w", err)
	}
	defer rows.Close()

	var entries []models.CashEntry
	for rows.Next() {
		var entry models.CashEntry
		var description, staffName sql.NullString
		if err := rows.Scan(&entry.ID, &entry.Kind, &entry.Amount, &description, &staffName, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cash entry: %w", err)
		}
		entry.Description = description.String
		entry.StaffName = staffName.String
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// CashBalance returns the running total: IN entries add, OUT entries
// subtract.
func (db *DB) CashBalance(ctx context.Context) (float64, error) {
	query := `SELECT COALESCE(SUM(CASE WHEN kind = ? THEN amount ELSE -amount END), 0)
              FROM cash_entries`
	var balance float64
	if err := db.QueryRowContext(ctx, query, models.CashIn).Scan(&balance); err != nil {
		return 0, fmt.Errorf("failed to compute cash balance: %w", err)
	}
	return balance, nil
}
