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

// Profile is the local projection of a user in the platform's directory:
// just what message fan-out needs to know about a recipient. The platform's
// user service owns the full account; this table mirrors the display fields
// and the web-push subscription the user registered, if any.
type Profile struct {
	UserID           string         `gorm:"primaryKey" json:"user-id"`
	DisplayName      string         `gorm:"not null" json:"display-name"`
	ImageURL         string         `json:"image-url"`             // Avatar URL
	PushSubscription datatypes.JSON `json:"-"`                     // Opaque web-push subscription descriptor, absent or malformed means no offline channel
	CreatedAt        time.Time      `gorm:"not null" json:"-"`
	UpdatedAt        time.Time      `gorm:"not null" json:"-"`
}
