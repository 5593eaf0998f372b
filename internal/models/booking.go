package models

import "time"

type Booking struct {
	ID        int64     `json:"id"`
	RoomID    int64     `json:"room_id"`
	RoomNumber string   `json:"room_number"`
	GuestID   int64     `json:"guest_id"`
	GuestName string    `json:"guest_name"`
	StartAt   time.Time `json:"start_at"`
	EndAt     time.Time `json:"end_at"`
	Type      string    `json:"type"`   // STANDARD, HOURLY
	Status    string    `json:"status"` // CHECKED_IN, COMPLETED, CANCELLED, NO_SHOW
	Source    string    `json:"source,omitempty"`
	SalePrice float64   `json:"sale_price,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int64     `json:"version"`
}

// Active reports whether the booking still claims its interval.
// Cancelled rows are ignored by conflict checks.
func (b *Booking) Active() bool {
	return b.Status != BookingCancelled
}
