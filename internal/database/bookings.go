package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"frontdesk/internal/models"
)

const bookingColumns = `id, room_id, room_number, guest_id, guest_name, start_at, end_at,
	type, status, source, sale_price, created_at, updated_at, version`

// CreateBooking inserts a booking row without any overlap guard. Used by
// the forced-save path, where the caller has already acknowledged the
// conflict.
func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	now := time.Now()
	query := `INSERT INTO bookings (
                room_id, room_number, guest_id, guest_name, start_at, end_at,
                type, status, source, sale_price, created_at, updated_at, version
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := db.ExecContext(ctx, query,
		booking.RoomID, booking.RoomNumber, booking.GuestID, booking.GuestName,
		booking.StartAt, booking.EndAt, booking.Type, booking.Status,
		booking.Source, booking.SalePrice, now, now, 1,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	booking.ID = id
	booking.CreatedAt = now
	booking.UpdatedAt = now
	booking.Version = 1
	return nil
}

// CreateBookingWithGuard inserts a booking only if no active booking for
// the room overlaps the interval. The check runs inside the insert
// transaction so two concurrent saves cannot both pass it.
func (db *DB) CreateBookingWithGuard(ctx context.Context, booking *models.Booking) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var overlapping int
	queryCount := `SELECT COUNT(*) FROM bookings
                   WHERE room_id = ? AND status != ?
                   AND start_at < ? AND ? < end_at`
	err = tx.QueryRowContext(ctx, queryCount,
		booking.RoomID, models.BookingCancelled, booking.EndAt, booking.StartAt).Scan(&overlapping)
	if err != nil {
		return fmt.Errorf("failed to check overlap in tx: %w", err)
	}
	if overlapping > 0 {
		return ErrSlotTaken
	}

	now := time.Now()
	queryInsert := `INSERT INTO bookings (
                room_id, room_number, guest_id, guest_name, start_at, end_at,
                type, status, source, sale_price, created_at, updated_at, version
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, queryInsert,
		booking.RoomID, booking.RoomNumber, booking.GuestID, booking.GuestName,
		booking.StartAt, booking.EndAt, booking.Type, booking.Status,
		booking.Source, booking.SalePrice, now, now, 1,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking in tx: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit booking: %w", err)
	}

	booking.ID = id
	booking.CreatedAt = now
	booking.UpdatedAt = now
	booking.Version = 1
	return nil
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	booking, err := scanBooking(db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

// GetActiveBookingsForRoom returns every non-cancelled booking for the
// room, the commitment set for the authoritative conflict path.
func (db *DB) GetActiveBookingsForRoom(ctx context.Context, roomID int64) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
              WHERE room_id = ? AND status != ?
              ORDER BY start_at`
	return db.queryBookings(ctx, query, roomID, models.BookingCancelled)
}

func (db *DB) GetBookingsByDateRange(ctx context.Context, start, end time.Time) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
              WHERE start_at < ? AND end_at > ?
              ORDER BY start_at, created_at`
	return db.queryBookings(ctx, query, end, start)
}

func (db *DB) UpdateBookingStatusWithVersion(ctx context.Context, id int64, version int64, status string) error {
	query := `UPDATE bookings SET status = ?, updated_at = ?, version = version + 1
              WHERE id = ? AND version = ?`
	result, err := db.ExecContext(ctx, query, status, time.Now(), id, version)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		if _, getErr := db.GetBooking(ctx, id); getErr != nil {
			return getErr
		}
		return ErrVersionMismatch
	}
	return nil
}

func (db *DB) queryBookings(ctx context.Context, query string, args ...any) ([]models.Booking, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, *booking)
	}
	return bookings, rows.Err()
}

func scanBooking(row roomScanner) (*models.Booking, error) {
	var booking models.Booking
	var guestID sql.NullInt64
	var source sql.NullString

	err := row.Scan(
		&booking.ID, &booking.RoomID, &booking.RoomNumber, &guestID, &booking.GuestName,
		&booking.StartAt, &booking.EndAt, &booking.Type, &booking.Status,
		&source, &booking.SalePrice, &booking.CreatedAt, &booking.UpdatedAt, &booking.Version,
	)
	if err != nil {
		return nil, err
	}

	booking.GuestID = guestID.Int64
	booking.Source = source.String
	return &booking, nil
}
