/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package repository

import (
	"errors"
	"strings"

	"elearn/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrConversationNotFound is returned when no conversation matches a lookup.
var ErrConversationNotFound = errors.New("conversation not found")

// This repository owns the conversation containers and their membership rows.
// The message log itself is handled by MessageRepository; conversations only
// carry the participant set and the list-view bookkeeping (updated_at).
type ConversationRepository interface {
	Create(conversation *entity.Conversation) error // Inserts a conversation with its participant rows

	// Finds the private conversation for a normalized pair key, creating it when
	// absent. The unique index on the pair key settles concurrent first messages:
	// the loser of the race re-fetches the winner's row. The bool reports whether
	// this call created the conversation.
	GetOrCreatePrivate(pairKey string, participants []string) (*entity.Conversation, bool, error)

	GetByUUID(uuid string, withMessages bool) (*entity.Conversation, error) // Retrieves one conversation, as a summary or with its full log
	ListForUser(userID string) ([]*entity.Conversation, error)             // Retrieves the conversations a user belongs to, most recently updated first, each with its latest message
}

// Implementation of the repository using a SQLite DB
type SQLiteConversationRepository struct {
	db *gorm.DB
}

func NewSQLiteConversationRepository(db *gorm.DB) ConversationRepository {
	return &SQLiteConversationRepository{db}
}

// PairKey normalizes an unordered user pair into the key the private-pair
// unique index is built on. Argument order does not matter.
func PairKey(a, b string) string {
	if strings.Compare(a, b) < 0 {
		return a + ":" + b
	}
	return b + ":" + a
}

func (repo *SQLiteConversationRepository) Create(conversation *entity.Conversation) error {
	return repo.db.Create(conversation).Error
}

func (repo *SQLiteConversationRepository) GetOrCreatePrivate(pairKey string, participants []string) (*entity.Conversation, bool, error) {
	found, err := repo.getPrivateByPair(pairKey)
	if err == nil {
		return found, false, nil
	}
	if !errors.Is(err, ErrConversationNotFound) {
		return nil, false, err
	}

	conversation := &entity.Conversation{
		Kind:    entity.ConversationPrivate,
		PairKey: &pairKey,
	}
	for i, userID := range participants {
		conversation.Participants = append(conversation.Participants, &entity.Participant{
			UserID:   userID,
			Position: i,
		})
	}
	conversation.UUID = uuid.New().String()

	if err := repo.db.Create(conversation).Error; err != nil {
		// Someone else created the pair between our lookup and our insert.
		if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
			found, ferr := repo.getPrivateByPair(pairKey)
			if ferr != nil {
				return nil, false, ferr
			}
			return found, false, nil
		}
		return nil, false, err
	}
	return conversation, true, nil
}

func (repo *SQLiteConversationRepository) getPrivateByPair(pairKey string) (*entity.Conversation, error) {
	var conversation entity.Conversation
	err := repo.db.
		Preload("Participants", participantOrder).
		Where("kind = ? AND pair_key = ?", entity.ConversationPrivate, pairKey).
		First(&conversation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

func (repo *SQLiteConversationRepository) GetByUUID(uuid string, withMessages bool) (*entity.Conversation, error) {
	query := repo.db.Preload("Participants", participantOrder)
	if withMessages {
		query = query.Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("messages.id ASC")
		})
	}

	var conversation entity.Conversation
	err := query.Where("uuid = ?", uuid).First(&conversation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

func (repo *SQLiteConversationRepository) ListForUser(userID string) ([]*entity.Conversation, error) {
	var conversations []*entity.Conversation
	err := repo.db.
		Preload("Participants", participantOrder).
		Joins("JOIN participants ON participants.conversation_uuid = conversations.uuid").
		Where("participants.user_id = ?", userID).
		Order("conversations.updated_at DESC").
		Find(&conversations).Error
	if err != nil {
		return nil, err
	}

	// Summaries carry only the single most recent message.
	for _, conversation := range conversations {
		var last entity.Message
		err := repo.db.
			Where("conversation_uuid = ?", conversation.UUID).
			Order("id DESC").
			First(&last).Error
		if err == nil {
			conversation.Messages = []*entity.Message{&last}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	return conversations, nil
}

func participantOrder(db *gorm.DB) *gorm.DB {
	return db.Order("participants.position ASC")
}

// SQLite reports unique-index conflicts as a plain error whose text carries the
// constraint name, and gorm's translated ErrDuplicatedKey depends on the driver
// configuration. Both are checked.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
