package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"fundhub/internal/app/service"
	"fundhub/internal/platform/queue"
)

// NotificationWorker consumes donation events from the Redis queue and
// emits notifications. Delivery is best effort; the donation itself is
// already committed by the time an event reaches the queue.
type NotificationWorker struct {
	queue  *queue.ListQueue
	logger zerolog.Logger
}

func NewNotificationWorker(q *queue.ListQueue, logger zerolog.Logger) *NotificationWorker {
	return &NotificationWorker{queue: q, logger: logger}
}

func (w *NotificationWorker) Start(ctx context.Context) {
	w.logger.Info().Str("queue", w.queue.Name()).Msg("notification worker started")
	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("notification worker stopping")
			return
		default:
			payload, err := w.queue.Dequeue(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					continue
				}
				if errors.Is(err, redis.Nil) {
					continue
				}
				w.logger.Error().Err(err).Msg("failed to dequeue donation event")
				time.Sleep(5 * time.Second) // Wait before retrying
				continue
			}
			w.handle(payload)
		}
	}
}

func (w *NotificationWorker) handle(payload []byte) {
	var event service.DonationEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		w.logger.Error().Err(err).Msg("failed to decode donation event")
		return
	}

	w.logger.Info().
		Str("donation_id", event.DonationID).
		Str("campaign_id", event.CampaignID).
		Int64("amount", event.Amount).
		Msgf("donation received for %q", event.CampaignTitle)

	if event.Completed {
		w.logger.Info().
			Str("campaign_id", event.CampaignID).
			Msgf("campaign %q reached its funding goal", event.CampaignTitle)
	}
}
