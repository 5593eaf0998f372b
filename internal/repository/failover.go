package repository

import (
	"context"
	"sync/atomic"
	"time"

	"frontdesk/internal/domain"
	"frontdesk/internal/models"

	"github.com/rs/zerolog"
)

// FailoverRoomCache serves from the primary cache while it is healthy
// and switches to the fallback on the first error. The primary is
// re-probed at most once a minute.
type FailoverRoomCache struct {
	primary   domain.RoomCache
	fallback  domain.RoomCache
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck time.Time
}

func NewFailoverRoomCache(primary, fallback domain.RoomCache, logger *zerolog.Logger) *FailoverRoomCache {
	return &FailoverRoomCache{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverRoomCache) markDown(err error) {
	r.logger.Error().Err(err).Msg("Primary room cache failed, falling back to memory")
	r.isDown.Store(true)
	r.lastCheck = time.Now()
}

func (r *FailoverRoomCache) GetRoom(ctx context.Context, id int64) (*models.Room, error) {
	if !r.isDown.Load() {
		room, err := r.primary.GetRoom(ctx, id)
		if err == nil {
			return room, nil
		}
		r.markDown(err)
	}

	// Try to recover after 1 minute
	if r.isDown.Load() && time.Since(r.lastCheck) > time.Minute {
		room, err := r.primary.GetRoom(ctx, id)
		if err == nil {
			r.isDown.Store(false)
			return room, nil
		}
		r.lastCheck = time.Now()
	}

	return r.fallback.GetRoom(ctx, id)
}

func (r *FailoverRoomCache) SetRoom(ctx context.Context, room *models.Room) error {
	if !r.isDown.Load() {
		err := r.primary.SetRoom(ctx, room)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.SetRoom(ctx, room)
}

func (r *FailoverRoomCache) Invalidate(ctx context.Context, id int64) error {
	if !r.isDown.Load() {
		err := r.primary.Invalidate(ctx, id)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.Invalidate(ctx, id)
}

func (r *FailoverRoomCache) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if !r.isDown.Load() {
		allowed, err := r.primary.CheckRateLimit(ctx, key, limit, window)
		if err == nil {
			return allowed, nil
		}
		r.markDown(err)
	}

	return r.fallback.CheckRateLimit(ctx, key, limit, window)
}
