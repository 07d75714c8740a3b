/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package push

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"
)

// WebPush delivers notification payloads to browser push subscriptions through
// the web-push protocol. Delivery is one attempt, best-effort: an expired or
// rejected subscription is an error for the caller to log, never to retry.
type WebPush struct {
	subscriber      string // Contact address required by VAPID
	vapidPublicKey  string
	vapidPrivateKey string
}

func NewWebPush(subscriber, publicKey, privateKey string) *WebPush {
	return &WebPush{
		subscriber:      subscriber,
		vapidPublicKey:  publicKey,
		vapidPrivateKey: privateKey,
	}
}

// Send pushes one serialized payload to one subscription descriptor.
func (w *WebPush) Send(ctx context.Context, subscription json.RawMessage, payload []byte) error {
	var sub webpush.Subscription
	if err := json.Unmarshal(subscription, &sub); err != nil {
		return fmt.Errorf("malformed push subscription: %w", err)
	}

	resp, err := webpush.SendNotificationWithContext(ctx, payload, &sub, &webpush.Options{
		Subscriber:      w.subscriber,
		VAPIDPublicKey:  w.vapidPublicKey,
		VAPIDPrivateKey: w.vapidPrivateKey,
		TTL:             60,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// 404/410 mean the registration expired on the push service side.
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("push service rejected delivery: %s", resp.Status)
	}
	return nil
}
