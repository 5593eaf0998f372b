package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"frontdesk/internal/domain"
	"frontdesk/internal/models"

	"github.com/rs/zerolog"
)

var (
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrInvalidCashKind = errors.New("kind must be IN or OUT")
)

// CashService wraps the petty-cash ledger. Entries are append-only; a
// mistake is corrected by a compensating entry, never by editing.
type CashService struct {
	store  domain.Store
	worker domain.ExportWorker
	logger *zerolog.Logger
}

func NewCashService(store domain.Store, worker domain.ExportWorker, logger *zerolog.Logger) *CashService {
	return &CashService{
		store:  store,
		worker: worker,
		logger: logger,
	}
}

func (s *CashService) AddEntry(ctx context.Context, entry *models.CashEntry) error {
	if entry.Amount <= 0 {
		return ErrInvalidAmount
	}
	if entry.Kind != models.CashIn && entry.Kind != models.CashOut {
		return ErrInvalidCashKind
	}
	entry.Description = strings.TrimSpace(entry.Description)

	if err := s.store.AddCashEntry(ctx, entry); err != nil {
		return err
	}

	s.logger.Info().
		Str("kind", entry.Kind).
		Float64("amount", entry.Amount).
		Str("staff", entry.StaffName).
		Msg("cash entry recorded")
	return nil
}

func (s *CashService) ListEntries(ctx context.Context, start, end time.Time) ([]models.CashEntry, error) {
	return s.store.ListCashEntries(ctx, start, end)
}

func (s *CashService) Balance(ctx context.Context) (float64, error) {
	return s.store.CashBalance(ctx)
}

// RequestLedgerExport queues an xlsx build of the ledger for the range.
func (s *CashService) RequestLedgerExport(ctx context.Context, start, end time.Time) error {
	if s.worker == nil {
		return errors.New("exports are not configured")
	}
	return s.worker.EnqueueLedgerExport(ctx, start, end)
}
