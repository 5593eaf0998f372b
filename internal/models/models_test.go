package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRoomClone(t *testing.T) {
	room := Room{
		ID:        1,
		Number:    "101",
		Status:    StatusOccupied,
		GuestName: "Jane Doe",
		UpcomingReservation: &Reservation{
			GuestName:    "Sam",
			CheckInDate:  "2024-02-01",
			CheckOutDate: "2024-02-03",
		},
		History: []HistoryEntry{
			{ID: "h1", Kind: HistoryCheckIn, Description: "Check-in: Jane Doe"},
		},
	}

	clone := room.Clone()
	clone.GuestName = "Other"
	clone.UpcomingReservation.GuestName = "Changed"
	clone.History[0].Description = "mutated"

	assert.Equal(t, "Jane Doe", room.GuestName)
	assert.Equal(t, "Sam", room.UpcomingReservation.GuestName)
	assert.Equal(t, "Check-in: Jane Doe", room.History[0].Description)
}

func TestHasCurrentStay(t *testing.T) {
	room := Room{}
	assert.False(t, room.HasCurrentStay())

	room.CheckInDate = "2024-01-01"
	assert.False(t, room.HasCurrentStay())

	room.CheckOutDate = "2024-01-05"
	assert.True(t, room.HasCurrentStay())
}

func TestPrependHistory(t *testing.T) {
	history := []HistoryEntry{
		{ID: "old", Timestamp: time.Now().Add(-time.Hour)},
	}

	updated := PrependHistory(history, HistoryEntry{ID: "new", Timestamp: time.Now()})

	assert.Len(t, updated, 2)
	assert.Equal(t, "new", updated[0].ID)
	assert.Equal(t, "old", updated[1].ID)
	// исходный срез не изменился
	assert.Len(t, history, 1)
	assert.Equal(t, "old", history[0].ID)
}

func TestBookingActive(t *testing.T) {
	b := Booking{Status: BookingCheckedIn}
	assert.True(t, b.Active())

	b.Status = BookingCancelled
	assert.False(t, b.Active())

	b.Status = BookingCompleted
	assert.True(t, b.Active())
}
