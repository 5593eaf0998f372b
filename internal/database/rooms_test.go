package database

import (
	"context"
	"testing"
	"time"

	"frontdesk/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedRooms(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	seed := []models.Room{
		{Number: "101", Type: "single", Floor: 1},
		{Number: "102", Type: "double", Floor: 1, Status: models.StatusMaintenance},
	}
	require.NoError(t, db.SeedRooms(ctx, seed))

	rooms, err := db.ListRooms(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, models.StatusAvailable, rooms[0].Status)
	assert.Equal(t, models.StatusMaintenance, rooms[1].Status)

	// seeding again must not duplicate or reset anything
	room := rooms[0]
	room.Status = models.StatusOccupied
	room.GuestName = "Jane"
	require.NoError(t, db.UpdateRoomWithVersion(ctx, room))

	require.NoError(t, db.SeedRooms(ctx, seed))
	rooms, err = db.ListRooms(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, models.StatusOccupied, rooms[0].Status)
}

func TestRoomRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	room := &models.Room{
		Number:       "204",
		Type:         "suite",
		Floor:        2,
		Status:       models.StatusOccupied,
		GuestName:    "Jane Doe",
		GuestID:      5,
		IDScanned:    true,
		CheckInDate:  "2024-01-01",
		CheckInTime:  "15:00",
		CheckOutDate: "2024-01-05",
		Hourly:       true,
		SalePrice:    99.5,
		UpcomingReservation: &models.Reservation{
			GuestName:    "Sam",
			CheckInDate:  "2024-02-01",
			CheckOutDate: "2024-02-03",
		},
		History: []models.HistoryEntry{
			{ID: "h1", Timestamp: time.Now(), Kind: models.HistoryCheckIn, Description: "Check-in: Jane Doe (hourly)"},
		},
	}
	require.NoError(t, db.CreateRoom(ctx, room))
	require.NotZero(t, room.ID)

	got, err := db.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, "204", got.Number)
	assert.Equal(t, "Jane Doe", got.GuestName)
	assert.True(t, got.IDScanned)
	assert.Equal(t, "15:00", got.CheckInTime)
	require.NotNil(t, got.UpcomingReservation)
	assert.Equal(t, "Sam", got.UpcomingReservation.GuestName)
	require.Len(t, got.History, 1)
	assert.Equal(t, models.HistoryCheckIn, got.History[0].Kind)
	assert.Equal(t, int64(1), got.Version)

	byNumber, err := db.GetRoomByNumber(ctx, "204")
	require.NoError(t, err)
	assert.Equal(t, got.ID, byNumber.ID)
}

func TestGetRoomNotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.GetRoom(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateRoomWithVersion(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	room := &models.Room{Number: "301", Status: models.StatusAvailable}
	require.NoError(t, db.CreateRoom(ctx, room))

	room.Status = models.StatusDirty
	require.NoError(t, db.UpdateRoomWithVersion(ctx, room))
	assert.Equal(t, int64(2), room.Version)

	// stale snapshot loses the race
	stale := *room
	stale.Version = 1
	err := db.UpdateRoomWithVersion(ctx, &stale)
	assert.ErrorIs(t, err, ErrVersionMismatch)

	got, err := db.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDirty, got.Status)
	assert.Equal(t, int64(2), got.Version)
}

func TestUpdateRoomClearsOptionalFields(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	room := &models.Room{
		Number:       "305",
		Status:       models.StatusOccupied,
		GuestName:    "Jane",
		CheckInDate:  "2024-01-01",
		CheckOutDate: "2024-01-05",
	}
	require.NoError(t, db.CreateRoom(ctx, room))

	room.Status = models.StatusDirty
	room.GuestName = ""
	room.CheckInDate = ""
	room.CheckOutDate = ""
	require.NoError(t, db.UpdateRoomWithVersion(ctx, room))

	got, err := db.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Empty(t, got.GuestName)
	assert.Empty(t, got.CheckInDate)
	assert.False(t, got.HasCurrentStay())
}
