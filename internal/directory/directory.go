/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package directory

import (
	"encoding/json"
	"errors"

	"elearn/internal/entity"

	"gorm.io/gorm"
)

// ErrUnknownUser is returned when a user id has no directory record.
var ErrUnknownUser = errors.New("unknown user")

// Directory is the user-directory collaborator. Accounts are owned by the
// platform's user service; the messaging subsystem only asks the questions
// fan-out needs answered.
type Directory interface {
	Exists(userID string) (bool, error)                       // Reports whether the user is known to the directory
	DisplayName(userID string) (string, error)                // Name shown in notification bodies
	ProfileImage(userID string) (string, error)               // Avatar URL shown with notifications
	PushRegistration(userID string) (json.RawMessage, error)  // The user's stored web-push subscription; nil when the user never registered one
}

// GormDirectory answers directory questions from the local profile projection
// table. It is the deployment adapter for single-database installs; tests and
// other deployments substitute their own Directory.
type GormDirectory struct {
	db *gorm.DB
}

func NewGormDirectory(db *gorm.DB) *GormDirectory {
	return &GormDirectory{db}
}

func (d *GormDirectory) Exists(userID string) (bool, error) {
	var count int64
	err := d.db.Model(&entity.Profile{}).Where("user_id = ?", userID).Count(&count).Error
	return count > 0, err
}

func (d *GormDirectory) DisplayName(userID string) (string, error) {
	profile, err := d.get(userID)
	if err != nil {
		return "", err
	}
	return profile.DisplayName, nil
}

func (d *GormDirectory) ProfileImage(userID string) (string, error) {
	profile, err := d.get(userID)
	if err != nil {
		return "", err
	}
	return profile.ImageURL, nil
}

func (d *GormDirectory) PushRegistration(userID string) (json.RawMessage, error) {
	profile, err := d.get(userID)
	if err != nil {
		return nil, err
	}
	if len(profile.PushSubscription) == 0 {
		return nil, nil
	}
	return json.RawMessage(profile.PushSubscription), nil
}

func (d *GormDirectory) get(userID string) (*entity.Profile, error) {
	var profile entity.Profile
	err := d.db.Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUnknownUser
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
