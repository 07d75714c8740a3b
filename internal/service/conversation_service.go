/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"elearn/internal/directory"
	"elearn/internal/entity"
	"elearn/internal/repository"

	"github.com/google/uuid"
)

// Service used to handle the conversation containers: private pairs and groups.
type ConversationService interface {
	// GetOrCreatePrivate returns the single private conversation between the
	// actor and the recipient, creating it when it does not exist yet. The bool
	// reports creation. Argument order never matters.
	GetOrCreatePrivate(actorID, recipientID string) (*entity.Conversation, bool, error)

	CreateGroup(creatorID, name string, participantIDs []string, imageURL string) (*entity.Conversation, error) // Creates a group; the creator is implicitly its first member

	Get(conversationUUID string, withMessages bool) (*entity.Conversation, error) // Retrieves one conversation, summary or full detail
	ListForUser(userID string) ([]*entity.Conversation, error)                    // Retrieves a user's conversations, most recently updated first, each with its last message
}

type conversationService struct {
	conversations repository.ConversationRepository
	directory     directory.Directory
	logger        *slog.Logger
}

func NewConversationService(conversations repository.ConversationRepository, dir directory.Directory, logger *slog.Logger) ConversationService {
	return &conversationService{
		conversations: conversations,
		directory:     dir,
		logger:        logger,
	}
}

func (c *conversationService) GetOrCreatePrivate(actorID, recipientID string) (*entity.Conversation, bool, error) {
	if actorID == recipientID {
		return nil, false, fmt.Errorf("%w: you cannot message yourself", ErrInvalidRecipient)
	}

	exists, err := c.directory.Exists(recipientID)
	if err != nil {
		return nil, false, err
	}
	if !exists {
		return nil, false, fmt.Errorf("%w: user %q not found", ErrInvalidRecipient, recipientID)
	}

	pairKey := repository.PairKey(actorID, recipientID)
	conversation, created, err := c.conversations.GetOrCreatePrivate(pairKey, []string{actorID, recipientID})
	if err != nil {
		return nil, false, err
	}
	if created {
		c.logger.Info("private conversation created", "conversation", conversation.UUID)
	}
	return conversation, created, nil
}

func (c *conversationService) CreateGroup(creatorID, name string, participantIDs []string, imageURL string) (*entity.Conversation, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: a group needs a name", ErrInvalidInput)
	}

	// Creator first, then the others in request order, duplicates dropped.
	members := []string{creatorID}
	seen := map[string]bool{creatorID: true}
	for _, userID := range participantIDs {
		if seen[userID] {
			continue
		}
		seen[userID] = true
		members = append(members, userID)
	}
	if len(members) < 2 {
		return nil, fmt.Errorf("%w: a group needs at least one member besides its creator", ErrInvalidInput)
	}

	for _, userID := range members[1:] {
		exists, err := c.directory.Exists(userID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, fmt.Errorf("%w: user %q not found", ErrInvalidRecipient, userID)
		}
	}

	conversation := &entity.Conversation{
		UUID:      uuid.New().String(),
		Kind:      entity.ConversationGroup,
		Name:      name,
		Image:     imageURL,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	for i, userID := range members {
		conversation.Participants = append(conversation.Participants, &entity.Participant{
			UserID:   userID,
			Position: i,
		})
	}

	if err := c.conversations.Create(conversation); err != nil {
		return nil, err
	}
	c.logger.Info("group conversation created", "conversation", conversation.UUID, "members", len(members))
	return conversation, nil
}

func (c *conversationService) Get(conversationUUID string, withMessages bool) (*entity.Conversation, error) {
	conversation, err := c.conversations.GetByUUID(conversationUUID, withMessages)
	if errors.Is(err, repository.ErrConversationNotFound) {
		return nil, fmt.Errorf("%w: conversation %q", ErrNotFound, conversationUUID)
	}
	return conversation, err
}

func (c *conversationService) ListForUser(userID string) ([]*entity.Conversation, error) {
	return c.conversations.ListForUser(userID)
}
