/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package service

import "errors"

// Failure taxonomy of the messaging subsystem. Handlers map these to HTTP
// statuses with errors.Is; anything else is an internal error. Delivery
// failures on the realtime or push channels are deliberately absent: they are
// logged and counted at the fan-out boundary and never surface to a caller.
var (
	ErrNotFound         = errors.New("not found")          // Conversation or user absent
	ErrForbidden        = errors.New("forbidden")          // Actor is not a participant
	ErrInvalidInput     = errors.New("invalid input")      // Empty payload, malformed request
	ErrInvalidRecipient = errors.New("invalid recipient")  // Self-messaging or nonexistent counterpart
)
