package service

import (
	"context"
	"io"
	"testing"
	"time"

	"frontdesk/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCashAddEntry(t *testing.T) {
	logger := zerolog.New(io.Discard)
	store := new(mockStore)
	svc := NewCashService(store, nil, &logger)
	ctx := context.Background()

	t.Run("valid entry", func(t *testing.T) {
		store.On("AddCashEntry", ctx, mock.MatchedBy(func(e *models.CashEntry) bool {
			return e.Description == "room 101 cash payment"
		})).Return(nil).Once()

		err := svc.AddEntry(ctx, &models.CashEntry{
			Kind:        models.CashIn,
			Amount:      150,
			Description: "  room 101 cash payment  ",
		})
		require.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run("rejects zero amount", func(t *testing.T) {
		err := svc.AddEntry(ctx, &models.CashEntry{Kind: models.CashIn, Amount: 0})
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		err := svc.AddEntry(ctx, &models.CashEntry{Kind: models.CashOut, Amount: -5})
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		err := svc.AddEntry(ctx, &models.CashEntry{Kind: "TRANSFER", Amount: 10})
		assert.ErrorIs(t, err, ErrInvalidCashKind)
	})
}

func TestCashBalance(t *testing.T) {
	logger := zerolog.New(io.Discard)
	store := new(mockStore)
	svc := NewCashService(store, nil, &logger)

	store.On("CashBalance", mock.Anything).Return(320.0, nil).Once()

	balance, err := svc.Balance(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 320.0, balance, 0.001)
}

func TestRequestLedgerExport(t *testing.T) {
	logger := zerolog.New(io.Discard)
	store := new(mockStore)
	worker := new(mockWorker)
	svc := NewCashService(store, worker, &logger)

	start := time.Now().AddDate(0, -1, 0)
	end := time.Now()
	worker.On("EnqueueLedgerExport", mock.Anything, start, end).Return(nil).Once()

	require.NoError(t, svc.RequestLedgerExport(context.Background(), start, end))
	worker.AssertExpectations(t)
}

func TestRequestLedgerExportWithoutWorker(t *testing.T) {
	logger := zerolog.New(io.Discard)
	svc := NewCashService(new(mockStore), nil, &logger)

	err := svc.RequestLedgerExport(context.Background(), time.Now(), time.Now())
	assert.Error(t, err)
}
