// Package notify pushes front-desk alerts to the manager's Telegram
// chat: forced overbookings, maintenance starts, and anything else the
// desk should not be able to hide.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"frontdesk/internal/domain"
	"frontdesk/internal/events"
	"frontdesk/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

const (
	// alert flood control, per event type
	alertLimit  = 10
	alertWindow = time.Minute
)

type Alerter struct {
	bot    domain.TelegramSender
	cache  domain.RoomCache
	chatID int64
	logger *zerolog.Logger
}

func NewAlerter(bot domain.TelegramSender, cache domain.RoomCache, chatID int64, logger *zerolog.Logger) *Alerter {
	return &Alerter{
		bot:    bot,
		cache:  cache,
		chatID: chatID,
		logger: logger,
	}
}

// SubscribeAll wires the alerter to the events it reports on.
func (a *Alerter) SubscribeAll(bus *events.EventBus) {
	bus.Subscribe(events.EventBookingForced, a.handleForced)
	bus.Subscribe(events.EventRoomStatusChanged, a.handleStatusChanged)
}

func (a *Alerter) handleForced(event *events.Event) error {
	payload, err := decodePayload(event)
	if err != nil {
		return err
	}

	text := fmt.Sprintf("⚠️ Forced booking on room %s\nGuest: %s\nSaved by: %s",
		payload.RoomNumber, payload.GuestName, orUnknown(payload.ChangedBy))
	a.send(event.Type, text)
	return nil
}

func (a *Alerter) handleStatusChanged(event *events.Event) error {
	payload, err := decodePayload(event)
	if err != nil {
		return err
	}

	// only maintenance is worth a ping; routine cleaning noise stays out
	if payload.ToStatus != models.StatusMaintenance {
		return nil
	}

	text := fmt.Sprintf("🔧 Room %s moved to maintenance (was %s)",
		payload.RoomNumber, payload.FromStatus)
	a.send(event.Type, text)
	return nil
}

func (a *Alerter) send(eventType, text string) {
	if a.cache != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		allowed, err := a.cache.CheckRateLimit(ctx, "alerts:"+eventType, alertLimit, alertWindow)
		cancel()
		if err == nil && !allowed {
			a.logger.Warn().Str("event_type", eventType).Msg("alert rate limit hit, dropping")
			return
		}
	}

	msg := tgbotapi.NewMessage(a.chatID, text)
	if _, err := a.bot.Send(msg); err != nil {
		a.logger.Error().Err(err).Str("event_type", eventType).Msg("failed to send alert")
	}
}

func decodePayload(event *events.Event) (events.RoomEventPayload, error) {
	var payload events.RoomEventPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return payload, fmt.Errorf("decode room event payload: %w", err)
	}
	return payload, nil
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
