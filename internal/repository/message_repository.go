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

// This repository owns the append-only message logs. An append inserts one row
// and touches the parent conversation's updated_at in the same transaction, so
// two concurrent senders can never overwrite each other's message.
type MessageRepository interface {
	Append(message *entity.Message) error // Inserts a message at the end of its conversation's log

	// Serves one window of the log in reverse chronological order: the log is
	// logically reversed (newest first), then sliced at pageIndex*pageSize.
	// An out-of-range window yields an empty slice, not an error.
	Page(conversationUUID string, pageIndex, pageSize int) ([]*entity.Message, error)

	MarkDelivered(id uint) error // Transitions a message from "sent" to "delivered"
}

// Implementation of the repository using a SQLite DB
type SQLiteMessageRepository struct {
	db *gorm.DB
}

func NewSQLiteMessageRepository(db *gorm.DB) MessageRepository {
	return &SQLiteMessageRepository{db}
}

func (repo *SQLiteMessageRepository) Append(message *entity.Message) error {
	return repo.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return err
		}
		return tx.Model(&entity.Conversation{}).
			Where("uuid = ?", message.ConversationUUID).
			Update("updated_at", message.Time).Error
	})
}

func (repo *SQLiteMessageRepository) Page(conversationUUID string, pageIndex, pageSize int) ([]*entity.Message, error) {
	if pageIndex < 0 {
		pageIndex = 0
	}

	messages := []*entity.Message{}
	err := repo.db.
		Where("conversation_uuid = ?", conversationUUID).
		Order("id DESC").
		Offset(pageIndex * pageSize).
		Limit(pageSize).
		Find(&messages).Error
	return messages, err
}

func (repo *SQLiteMessageRepository) MarkDelivered(id uint) error {
	return repo.db.Model(&entity.Message{}).
		Where("id = ?", id).
		Update("status", entity.MessageDelivered).Error
}
