/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package entity

import (
	"time"

	"gorm.io/datatypes"
)

// Delivery status of a message. A message is created as "sent" and becomes
// "delivered" once at least one recipient received it on the realtime channel.
const (
	MessageSent      = "sent"
	MessageDelivered = "delivered"
)

// Media is the descriptor of an uploaded object attached to a message.
type Media struct {
	URL  string `json:"url"`  // Public URL of the stored object
	Size int64  `json:"size"` // Size in bytes
	Name string `json:"name"` // Original file name
	Kind string `json:"kind"` // Media kind ("image", "video", ...), the mime type's first segment
}

// Represents a message inside a conversation. Each message is its own row, so
// an append never rewrites the conversation it belongs to.
type Message struct {
	ID               uint           `gorm:"primaryKey" json:"-"`                 // Autoincrement, the append order of the log
	ConversationUUID string         `gorm:"not null;index" json:"to"`            // Conversation the message belongs to
	FromID           string         `gorm:"not null;index" json:"from"`          // Id of the sender in the user directory
	Text             string         `json:"text,omitempty"`                      // Text payload, empty for media messages
	Media            datatypes.JSON `json:"media,omitempty"`                     // Media descriptor, empty for text messages
	Time             time.Time      `gorm:"not null;index" json:"time"`          // Instant of the append, also the client-side cache buster for media URLs
	Status           string         `gorm:"not null;default:sent" json:"status"` // "sent" or "delivered"
}
