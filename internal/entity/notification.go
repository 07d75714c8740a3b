/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package entity

import "time"

// NotificationEntry is one element of a user's inbox, the durable record of a
// fan-out. The inbox itself is implicit: it is the set of entries owned by a
// user, ordered by insertion. Appending a row is atomic, so "append or create"
// needs no read-modify-write and the first entry creates the inbox.
type NotificationEntry struct {
	ID        uint      `gorm:"primaryKey" json:"-"`        // Autoincrement, the append order of the inbox
	Owner     string    `gorm:"not null;index" json:"-"`    // Id of the inbox owner in the user directory
	Image     string    `json:"image"`                      // Picture shown with the notification
	Title     string    `json:"title"`                      // Short headline ("New Message", "New Session", ...)
	Body      string    `json:"body"`                       // Human readable description
	URL       string    `json:"url"`                        // Deep link the client navigates to
	CreatedAt time.Time `gorm:"not null" json:"created-at"` // Time of the append
}
