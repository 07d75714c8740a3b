/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package service

import (
	"encoding/json"
	"log/slog"

	"elearn/internal/directory"
	"elearn/internal/entity"
)

// RecipientChannel is a recipient with both of its delivery channels resolved.
// Either channel may be absent; a recipient with neither still gets its inbox
// entry, the durable record.
type RecipientChannel struct {
	UserID           string
	Handle           string          // Realtime handle, meaningful only when Connected
	Connected        bool            // Whether the user holds a live connection right now
	PushSubscription json.RawMessage // Well-formed push descriptor, nil when the user has no usable offline channel
}

// ParticipantResolver computes who a fan-out reaches and how. The actor is
// always excluded from the destination set.
type ParticipantResolver struct {
	directory directory.Directory
	hub       RealtimeHub
	logger    *slog.Logger
}

func NewParticipantResolver(dir directory.Directory, hub RealtimeHub, logger *slog.Logger) *ParticipantResolver {
	return &ParticipantResolver{directory: dir, hub: hub, logger: logger}
}

// ResolveDestinations resolves every participant of a conversation except the
// actor, in participant order. An empty result is valid and short-circuits
// fan-out with no error.
func (r *ParticipantResolver) ResolveDestinations(conversation *entity.Conversation, actorID string) []RecipientChannel {
	recipients := []RecipientChannel{}
	for _, participant := range conversation.Participants {
		if participant.UserID == actorID {
			continue
		}
		recipients = append(recipients, r.resolve(participant.UserID))
	}
	return recipients
}

// ResolveUsers resolves an explicit audience, in the given order. Used for
// event announcements that target users outside any conversation.
func (r *ParticipantResolver) ResolveUsers(userIDs []string) []RecipientChannel {
	recipients := []RecipientChannel{}
	for _, userID := range userIDs {
		recipients = append(recipients, r.resolve(userID))
	}
	return recipients
}

func (r *ParticipantResolver) resolve(userID string) RecipientChannel {
	recipient := RecipientChannel{UserID: userID}

	if handle, ok := r.hub.CurrentHandle(userID); ok {
		recipient.Handle = handle
		recipient.Connected = true
	}

	subscription, err := r.directory.PushRegistration(userID)
	if err != nil {
		// An unknown or unreadable registration just means no offline channel.
		r.logger.Warn("push registration lookup failed", "user", userID, "error", err)
		return recipient
	}
	if hasEndpoint(subscription) {
		recipient.PushSubscription = subscription
	}
	return recipient
}

// hasEndpoint reports whether a stored descriptor is well-formed enough to
// attempt delivery: it must at least carry a delivery endpoint.
func hasEndpoint(subscription json.RawMessage) bool {
	if len(subscription) == 0 {
		return false
	}
	var probe struct {
		Endpoint string `json:"endpoint"`
	}
	if err := json.Unmarshal(subscription, &probe); err != nil {
		return false
	}
	return probe.Endpoint != ""
}
