package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"frontdesk/internal/models"
)

const roomColumns = `id, number, type, floor, status, guest_name, guest_id, id_scanned,
	check_in_date, check_in_time, check_out_date, check_out_time, hourly, sale_price,
	booking_source, maintenance_issue, upcoming_reservation, history,
	created_at, updated_at, version`

// SeedRooms inserts rooms from the config seed list that do not exist yet.
// Existing rooms are left untouched so restarts never reset live state.
func (db *DB) SeedRooms(ctx context.Context, rooms []models.Room) error {
	for _, room := range rooms {
		status := room.Status
		if status == "" {
			status = models.StatusAvailable
		}
		query := `INSERT INTO rooms (number, type, floor, status)
                  VALUES (?, ?, ?, ?)
                  ON CONFLICT(number) DO NOTHING`
		if _, err := db.ExecContext(ctx, query, room.Number, room.Type, room.Floor, status); err != nil {
			return fmt.Errorf("failed to seed room %s: %w", room.Number, err)
		}
	}
	return nil
}

func (db *DB) GetRoom(ctx context.Context, id int64) (*models.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE id = ?`
	return db.queryRoom(ctx, query, id)
}

func (db *DB) GetRoomByNumber(ctx context.Context, number string) (*models.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE number = ?`
	return db.queryRoom(ctx, query, number)
}

func (db *DB) ListRooms(ctx context.Context) ([]*models.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms ORDER BY floor, number`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	defer rows.Close()

	var rooms []*models.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

// UpdateRoomWithVersion persists a room snapshot guarded by optimistic
// versioning. The stored version must match room.Version; on success the
// room's version is bumped in place.
func (db *DB) UpdateRoomWithVersion(ctx context.Context, room *models.Room) error {
	reservationJSON, historyJSON, err := encodeRoomBlobs(room)
	if err != nil {
		return err
	}

	now := time.Now()
	query := `UPDATE rooms SET
                number = ?, type = ?, floor = ?, status = ?,
                guest_name = ?, guest_id = ?, id_scanned = ?,
                check_in_date = ?, check_in_time = ?, check_out_date = ?, check_out_time = ?,
                hourly = ?, sale_price = ?, booking_source = ?, maintenance_issue = ?,
                upcoming_reservation = ?, history = ?,
                updated_at = ?, version = version + 1
              WHERE id = ? AND version = ?`
	result, err := db.ExecContext(ctx, query,
		room.Number, room.Type, room.Floor, room.Status,
		room.GuestName, room.GuestID, room.IDScanned,
		room.CheckInDate, room.CheckInTime, room.CheckOutDate, room.CheckOutTime,
		room.Hourly, room.SalePrice, room.BookingSource, room.MaintenanceIssue,
		reservationJSON, historyJSON,
		now, room.ID, room.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update room: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		// either the room is gone or someone updated it first
		if _, getErr := db.GetRoom(ctx, room.ID); getErr != nil {
			return getErr
		}
		return ErrVersionMismatch
	}

	room.UpdatedAt = now
	room.Version++
	return nil
}

func (db *DB) CreateRoom(ctx context.Context, room *models.Room) error {
	reservationJSON, historyJSON, err := encodeRoomBlobs(room)
	if err != nil {
		return err
	}

	status := room.Status
	if status == "" {
		status = models.StatusAvailable
	}

	now := time.Now()
	query := `INSERT INTO rooms (
                number, type, floor, status, guest_name, guest_id, id_scanned,
                check_in_date, check_in_time, check_out_date, check_out_time,
                hourly, sale_price, booking_source, maintenance_issue,
                upcoming_reservation, history, created_at, updated_at, version
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := db.ExecContext(ctx, query,
		room.Number, room.Type, room.Floor, status,
		room.GuestName, room.GuestID, room.IDScanned,
		room.CheckInDate, room.CheckInTime, room.CheckOutDate, room.CheckOutTime,
		room.Hourly, room.SalePrice, room.BookingSource, room.MaintenanceIssue,
		reservationJSON, historyJSON, now, now, 1,
	)
	if err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	room.ID = id
	room.Status = status
	room.CreatedAt = now
	room.UpdatedAt = now
	room.Version = 1
	return nil
}

type roomScanner interface {
	Scan(dest ...any) error
}

func (db *DB) queryRoom(ctx context.Context, query string, args ...any) (*models.Room, error) {
	room, err := scanRoom(db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query room: %w", err)
	}
	return room, nil
}

func scanRoom(row roomScanner) (*models.Room, error) {
	var room models.Room
	var roomType, guestName, checkInDate, checkInTime, checkOutDate, checkOutTime sql.NullString
	var bookingSource, maintenanceIssue, reservationJSON, historyJSON sql.NullString
	var guestID sql.NullInt64

	err := row.Scan(
		&room.ID, &room.Number, &roomType, &room.Floor, &room.Status,
		&guestName, &guestID, &room.IDScanned,
		&checkInDate, &checkInTime, &checkOutDate, &checkOutTime,
		&room.Hourly, &room.SalePrice, &bookingSource, &maintenanceIssue,
		&reservationJSON, &historyJSON,
		&room.CreatedAt, &room.UpdatedAt, &room.Version,
	)
	if err != nil {
		return nil, err
	}

	room.Type = roomType.String
	room.GuestName = guestName.String
	room.GuestID = guestID.Int64
	room.CheckInDate = checkInDate.String
	room.CheckInTime = checkInTime.String
	room.CheckOutDate = checkOutDate.String
	room.CheckOutTime = checkOutTime.String
	room.BookingSource = bookingSource.String
	room.MaintenanceIssue = maintenanceIssue.String

	if reservationJSON.Valid && reservationJSON.String != "" {
		var res models.Reservation
		if err := json.Unmarshal([]byte(reservationJSON.String), &res); err != nil {
			return nil, fmt.Errorf("failed to decode upcoming reservation: %w", err)
		}
		room.UpcomingReservation = &res
	}

	if historyJSON.Valid && historyJSON.String != "" {
		if err := json.Unmarshal([]byte(historyJSON.String), &room.History); err != nil {
			return nil, fmt.Errorf("failed to decode history: %w", err)
		}
	}

	return &room, nil
}

func encodeRoomBlobs(room *models.Room) (reservation string, history string, err error) {
	if room.UpcomingReservation != nil {
		raw, err := json.Marshal(room.UpcomingReservation)
		if err != nil {
			return "", "", fmt.Errorf("failed to encode upcoming reservation: %w", err)
		}
		reservation = string(raw)
	}
	if len(room.History) > 0 {
		raw, err := json.Marshal(room.History)
		if err != nil {
			return "", "", fmt.Errorf("failed to encode history: %w", err)
		}
		history = string(raw)
	}
	return reservation, history, nil
}
