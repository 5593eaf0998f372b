package models

import "time"

// Room is the single mutable aggregate of the front desk. Current-stay
// fields, the cached upcoming reservation and the history log are embedded
// and owned by the room; confirmed bookings live in the bookings table and
// are only read against a room.
type Room struct {
	ID           int64  `json:"id"`
	Number       string `json:"number"`
	Type         string `json:"type"`
	Floor        int    `json:"floor"`
	Status       string `json:"status"`
	GuestName    string `json:"guest_name,omitempty"`
	GuestID      int64  `json:"guest_id,omitempty"`
	IDScanned    bool   `json:"id_scanned,omitempty"`
	CheckInDate  string `json:"check_in_date,omitempty"`  // YYYY-MM-DD
	CheckInTime  string `json:"check_in_time,omitempty"`  // HH:MM
	CheckOutDate string `json:"check_out_date,omitempty"` // YYYY-MM-DD
	CheckOutTime string `json:"check_out_time,omitempty"` // HH:MM
	Hourly       bool   `json:"hourly,omitempty"`
	SalePrice    float64 `json:"sale_price,omitempty"`
	BookingSource    string `json:"booking_source,omitempty"`
	MaintenanceIssue string `json:"maintenance_issue,omitempty"`

	// UpcomingReservation is a denormalized pointer to at most one future
	// reservation, kept on the room so the offline conflict path works
	// without the bookings table.
	UpcomingReservation *Reservation `json:"upcoming_reservation,omitempty"`

	History []HistoryEntry `json:"history,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int64     `json:"version"`
}

// Reservation is the cached upcoming claim on a room.
type Reservation struct {
	GuestName    string `json:"guest_name"`
	CheckInDate  string `json:"check_in_date"`
	CheckOutDate string `json:"check_out_date"`
	Source       string `json:"source,omitempty"`
}

// HasCurrentStay reports whether both current-stay bounds are set.
func (r *Room) HasCurrentStay() bool {
	return r.CheckInDate != "" && r.CheckOutDate != ""
}

// Clone returns a deep copy of the room. Workflow transitions operate on
// copies so a caller-held snapshot is never mutated.
func (r Room) Clone() Room {
	out := r
	if r.UpcomingReservation != nil {
		res := *r.UpcomingReservation
		out.UpcomingReservation = &res
	}
	if r.History != nil {
		out.History = make([]HistoryEntry, len(r.History))
		copy(out.History, r.History)
	}
	return out
}
