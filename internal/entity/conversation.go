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

	"gorm.io/gorm"
)

// Kind of a conversation: a 1:1 private chat or a named group chat
const (
	ConversationPrivate = "private"
	ConversationGroup   = "group"
)

// Conversation is the container of an append-only message log, either between
// exactly two users (private) or between many (group).
type Conversation struct {
	UUID      string         `gorm:"primaryKey" json:"uuid"`           // Unique identifier
	Kind      string         `gorm:"not null;index" json:"kind"`       // "private" or "group"
	Name      string         `json:"name,omitempty"`                   // Display name, groups only
	Image     string         `json:"image,omitempty"`                  // Picture URL, groups only
	PairKey   *string        `gorm:"uniqueIndex" json:"-"`             // Normalized "<low>:<high>" participant pair, private only. The unique index is what makes a private pair exist at most once.
	CreatedAt time.Time      `gorm:"not null;index" json:"created-at"` // Time of creation
	UpdatedAt time.Time      `gorm:"not null;index" json:"updated-at"` // Touched on every message append, drives the conversation list ordering
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                   // Time of soft deletion

	Participants []*Participant `gorm:"foreignKey:ConversationUUID;references:UUID" json:"participants"`       // Membership rows, in insertion order
	Messages     []*Message     `gorm:"foreignKey:ConversationUUID;references:UUID" json:"messages,omitempty"` // Message log, loaded only for detail views
}

// Participant is one user's membership in a conversation.
// Users live in an external directory, so only their id is stored here.
type Participant struct {
	ID               uint      `gorm:"primaryKey" json:"-"`
	ConversationUUID string    `gorm:"not null;uniqueIndex:conversation_member" json:"-"`
	UserID           string    `gorm:"not null;uniqueIndex:conversation_member;index" json:"user-id"` // Id of the user in the directory
	Position         int       `gorm:"not null" json:"position"`                                      // Insertion order, relevant for group display
	CreatedAt        time.Time `gorm:"not null" json:"-"`
}
