package repository

import (
	"context"
	"testing"
	"time"

	"frontdesk/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisRoomCache(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})
	defer client.Close()

	cache := NewRedisRoomCache(client, time.Hour)
	ctx := context.Background()

	t.Run("SetAndGetRoom", func(t *testing.T) {
		room := &models.Room{
			ID:          5,
			Number:      "101",
			Status:      models.StatusOccupied,
			GuestName:   "Jane Doe",
			CheckInDate: "2024-01-10",
			History: []models.HistoryEntry{
				{ID: "h1", Kind: models.HistoryCheckIn, Description: "Check-in: Jane Doe (standard)"},
			},
		}

		err := cache.SetRoom(ctx, room)
		require.NoError(t, err)

		got, err := cache.GetRoom(ctx, 5)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, room.Number, got.Number)
		assert.Equal(t, room.GuestName, got.GuestName)
		require.Len(t, got.History, 1)
		assert.Equal(t, models.HistoryCheckIn, got.History[0].Kind)
	})

	t.Run("GetMiss", func(t *testing.T) {
		got, err := cache.GetRoom(ctx, 999)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("Invalidate", func(t *testing.T) {
		room := &models.Room{ID: 7, Number: "202"}
		require.NoError(t, cache.SetRoom(ctx, room))

		err := cache.Invalidate(ctx, 7)
		require.NoError(t, err)

		got, _ := cache.GetRoom(ctx, 7)
		assert.Nil(t, got)
	})

	t.Run("TTLExpiry", func(t *testing.T) {
		room := &models.Room{ID: 9, Number: "303"}
		require.NoError(t, cache.SetRoom(ctx, room))

		s.FastForward(2 * time.Hour)

		got, err := cache.GetRoom(ctx, 9)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("RateLimit", func(t *testing.T) {
		key := "api:test-key"
		limit := 2
		window := time.Second

		allowed, err := cache.CheckRateLimit(ctx, key, limit, window)
		require.NoError(t, err)
		assert.True(t, allowed)

		allowed, err = cache.CheckRateLimit(ctx, key, limit, window)
		require.NoError(t, err)
		assert.True(t, allowed)

		allowed, err = cache.CheckRateLimit(ctx, key, limit, window)
		require.NoError(t, err)
		assert.False(t, allowed)

		s.FastForward(2 * time.Second)

		allowed, err = cache.CheckRateLimit(ctx, key, limit, window)
		require.NoError(t, err)
		assert.True(t, allowed)
	})
}

func TestRedisRoomCacheNilClient(t *testing.T) {
	cache := NewRedisRoomCache(nil, time.Hour)
	ctx := context.Background()

	_, err := cache.GetRoom(ctx, 1)
	assert.Error(t, err)

	err = cache.SetRoom(ctx, &models.Room{ID: 1})
	assert.Error(t, err)
}
