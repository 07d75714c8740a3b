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
)

// RealtimeHub is the live delivery channel. It is injected, never reached
// through a global accessor, so tests substitute a fake.
type RealtimeHub interface {
	CurrentHandle(userID string) (string, bool)                                 // Resolves a user to a connection-scoped handle, false when offline
	Emit(ctx context.Context, handle string, event string, payload any) error   // Pushes one named event to one handle, fire-and-forget
}

// PushSender is the offline delivery channel: one best-effort attempt against
// a stored subscription descriptor.
type PushSender interface {
	Send(ctx context.Context, subscription json.RawMessage, payload []byte) error
}
