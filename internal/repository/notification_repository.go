/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package repository

import (
	"elearn/internal/entity"

	"gorm.io/gorm"
)

// This repository owns the per-user inboxes. An inbox is just the set of
// notification rows owned by a user, so "append or create" is a single INSERT:
// the first append creates the inbox, and concurrent appends from unrelated
// events interleave without losing entries. Append fills the entry's ID, so
// callers hold the exact row that was written and never re-derive "the most
// recent" entry by position.
type NotificationRepository interface {
	Append(entry *entity.NotificationEntry) error              // Appends an entry to its owner's inbox, creating the inbox implicitly
	ListForOwner(owner string) ([]*entity.NotificationEntry, error) // Retrieves an inbox newest first; an unknown owner yields an empty slice
}

// Implementation of the repository using a SQLite DB
type SQLiteNotificationRepository struct {
	db *gorm.DB
}

func NewSQLiteNotificationRepository(db *gorm.DB) NotificationRepository {
	return &SQLiteNotificationRepository{db}
}

func (repo *SQLiteNotificationRepository) Append(entry *entity.NotificationEntry) error {
	return repo.db.Create(entry).Error
}

func (repo *SQLiteNotificationRepository) ListForOwner(owner string) ([]*entity.NotificationEntry, error) {
	entries := []*entity.NotificationEntry{}
	err := repo.db.
		Where("owner = ?", owner).
		Order("id DESC").
		Find(&entries).Error
	return entries, err
}
