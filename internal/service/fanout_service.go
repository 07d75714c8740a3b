/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"elearn/internal/entity"
	"elearn/internal/repository"
	"elearn/internal/telemetry"
)

// EventNotification is the realtime event name carrying a fresh inbox entry.
const EventNotification = "notification"

// Notification is the payload a fan-out writes into every recipient's inbox.
type Notification struct {
	Image string `json:"image"`
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
}

// Service used to deliver one notification to many recipients over the three
// channels: advisory realtime event, durable inbox entry, best-effort push.
type FanoutService interface {
	// Dispatch fans a notification out to an already-resolved recipient set.
	// eventName/payload form the primary realtime event ("recieveMsg" for chat);
	// an empty eventName skips it and only the derived "notification" event
	// fires. The return value is how many recipients received the primary event
	// live. Dispatch never fails: individual delivery errors are logged and
	// counted, and only the inbox write is guaranteed durable.
	Dispatch(ctx context.Context, recipients []RecipientChannel, notification Notification, eventName string, payload any) int

	// Announce resolves an explicit audience and dispatches a bare notification
	// to it. Serves the non-chat events (new comment, new live session).
	Announce(ctx context.Context, audience []string, notification Notification)

	ListNotifications(userID string) ([]*entity.NotificationEntry, error) // Inbox read path, newest first; no inbox yields an empty slice
}

type fanoutService struct {
	notifications repository.NotificationRepository
	hub           RealtimeHub
	push          PushSender
	resolver      *ParticipantResolver
	timeout       time.Duration // Bound on the side-effect phase; a stalled channel cannot delay the response past it
	logger        *slog.Logger
}

func NewFanoutService(notifications repository.NotificationRepository, hub RealtimeHub, push PushSender, resolver *ParticipantResolver, timeout time.Duration, logger *slog.Logger) FanoutService {
	return &fanoutService{
		notifications: notifications,
		hub:           hub,
		push:          push,
		resolver:      resolver,
		timeout:       timeout,
		logger:        logger,
	}
}

func (f *fanoutService) Dispatch(ctx context.Context, recipients []RecipientChannel, notification Notification, eventName string, payload any) int {
	if len(recipients) == 0 {
		return 0
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	var delivered atomic.Int64
	var wg sync.WaitGroup
	for _, recipient := range recipients {
		wg.Add(1)
		go func(recipient RecipientChannel) {
			defer wg.Done()
			if f.dispatchOne(ctx, recipient, notification, eventName, payload) {
				delivered.Add(1)
			}
		}(recipient)
	}
	wg.Wait()

	return int(delivered.Load())
}

// dispatchOne runs the per-recipient sequence. The inbox append happens before
// the derived notification event and before the push attempt, so a client can
// never observe a push without a corresponding inbox entry.
func (f *fanoutService) dispatchOne(ctx context.Context, recipient RecipientChannel, notification Notification, eventName string, payload any) bool {
	deliveredLive := false

	if recipient.Connected && eventName != "" {
		if err := f.hub.Emit(ctx, recipient.Handle, eventName, payload); err != nil {
			telemetry.RealtimeEmits.WithLabelValues(telemetry.OutcomeFailed).Inc()
			f.logger.Warn("realtime delivery skipped", "user", recipient.UserID, "event", eventName, "error", err)
		} else {
			telemetry.RealtimeEmits.WithLabelValues(telemetry.OutcomeOK).Inc()
			deliveredLive = true
		}
	}

	entry := &entity.NotificationEntry{
		Owner:     recipient.UserID,
		Image:     notification.Image,
		Title:     notification.Title,
		Body:      notification.Body,
		URL:       notification.URL,
		CreatedAt: time.Now(),
	}
	if err := f.notifications.Append(entry); err != nil {
		// The durable channel failed; without it the derived event and the push
		// would advertise an entry that does not exist.
		f.logger.Error("inbox append failed", "user", recipient.UserID, "error", err)
		return deliveredLive
	}
	telemetry.InboxAppends.Inc()

	if recipient.Connected {
		if err := f.hub.Emit(ctx, recipient.Handle, EventNotification, entry); err != nil {
			telemetry.RealtimeEmits.WithLabelValues(telemetry.OutcomeFailed).Inc()
			f.logger.Warn("notification event skipped", "user", recipient.UserID, "error", err)
		} else {
			telemetry.RealtimeEmits.WithLabelValues(telemetry.OutcomeOK).Inc()
		}
	}

	if recipient.PushSubscription != nil {
		serialized, err := json.Marshal(entry)
		if err == nil {
			err = f.push.Send(ctx, recipient.PushSubscription, serialized)
		}
		if err != nil {
			telemetry.PushDeliveries.WithLabelValues(telemetry.OutcomeFailed).Inc()
			f.logger.Warn("offline push failed", "user", recipient.UserID, "error", err)
		} else {
			telemetry.PushDeliveries.WithLabelValues(telemetry.OutcomeOK).Inc()
		}
	}

	return deliveredLive
}

func (f *fanoutService) Announce(ctx context.Context, audience []string, notification Notification) {
	recipients := f.resolver.ResolveUsers(audience)
	f.Dispatch(ctx, recipients, notification, "", nil)
}

func (f *fanoutService) ListNotifications(userID string) ([]*entity.NotificationEntry, error) {
	return f.notifications.ListForOwner(userID)
}
