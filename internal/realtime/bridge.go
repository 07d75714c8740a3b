/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const bridgePattern = "realtime:user:*"

// Bridge re-broadcasts emits across server instances through Redis pub/sub.
// It is the scale-out seam: a deployment with a single instance never
// constructs one, and the hub behaves identically without it.
type Bridge struct {
	rdb      *redis.Client
	hub      *Hub
	origin   string // Instance id, used to skip frames this instance published itself
	logger   *slog.Logger
}

// frame is what crosses the backbone: the raw envelope plus its origin.
type frame struct {
	Origin string          `json:"origin"`
	Data   json.RawMessage `json:"data"`
}

func NewBridge(rdb *redis.Client, logger *slog.Logger) *Bridge {
	return &Bridge{
		rdb:    rdb,
		origin: uuid.New().String(),
		logger: logger,
	}
}

func (b *Bridge) publish(ctx context.Context, userID string, data []byte) {
	payload, err := json.Marshal(&frame{Origin: b.origin, Data: data})
	if err != nil {
		return
	}
	if err := b.rdb.Publish(ctx, "realtime:user:"+userID, payload).Err(); err != nil {
		b.logger.Warn("bridge publish failed", "user", userID, "error", err)
	}
}

func (b *Bridge) run(ctx context.Context) {
	pubsub := b.rdb.PSubscribe(ctx, bridgePattern)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			userID := strings.TrimPrefix(msg.Channel, "realtime:user:")
			var f frame
			if err := json.Unmarshal([]byte(msg.Payload), &f); err != nil {
				continue
			}
			if f.Origin == b.origin {
				continue
			}
			b.hub.deliverToUser(userID, f.Data)
		case <-ctx.Done():
			return
		}
	}
}
