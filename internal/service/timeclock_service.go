package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"frontdesk/internal/database"
	"frontdesk/internal/domain"
	"frontdesk/internal/models"

	"github.com/rs/zerolog"
)

var ErrEmptyStaffName = errors.New("staff name is required")

type TimeclockService struct {
	store  domain.Store
	logger *zerolog.Logger
}

func NewTimeclockService(store domain.Store, logger *zerolog.Logger) *TimeclockService {
	return &TimeclockService{store: store, logger: logger}
}

func (s *TimeclockService) ClockIn(ctx context.Context, staffName string) (*models.TimeEntry, error) {
	staffName = strings.TrimSpace(staffName)
	if staffName == "" {
		return nil, ErrEmptyStaffName
	}

	entry, err := s.store.ClockIn(ctx, staffName, time.Now())
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("staff", staffName).Msg("clocked in")
	return entry, nil
}

func (s *TimeclockService) ClockOut(ctx context.Context, staffName string) (*models.TimeEntry, error) {
	staffName = strings.TrimSpace(staffName)
	if staffName == "" {
		return nil, ErrEmptyStaffName
	}

	entry, err := s.store.ClockOut(ctx, staffName, time.Now())
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("staff", staffName).Msg("clocked out")
	return entry, nil
}

// Status reports the open shift for the staff member, nil when off the
// clock.
func (s *TimeclockService) Status(ctx context.Context, staffName string) (*models.TimeEntry, error) {
	entry, err := s.store.GetOpenTimeEntry(ctx, staffName)
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *TimeclockService) ListEntries(ctx context.Context, start, end time.Time) ([]models.TimeEntry, error) {
	return s.store.ListTimeEntries(ctx, start, end)
}
