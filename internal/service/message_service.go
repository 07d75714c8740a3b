/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"elearn/internal/directory"
	"elearn/internal/entity"
	"elearn/internal/repository"
	"elearn/internal/storage"
)

// EventReceiveMessage is the realtime event carrying a fresh chat message.
// The spelling is part of the client wire contract.
const EventReceiveMessage = "recieveMsg"

// EventEmptyMessage is the advisory event sent back to a connected actor whose
// payload validated empty.
const EventEmptyMessage = "emptyMsg"

// PageSize is the fixed window of the message pagination.
const PageSize = 15

// MediaUpload is a file received with a send-message request, before it is
// handed to object storage.
type MediaUpload struct {
	Data        []byte
	Name        string // Original file name
	ContentType string
}

// Service used to append to conversation logs and serve their pages.
type MessageService interface {
	// Append validates and appends a text-or-media message, fans it out, and
	// returns the stored message. Exactly one of text and media must be present.
	Append(ctx context.Context, conversationUUID, actorID, text string, media *MediaUpload) (*entity.Message, error)

	// Page serves one window of a conversation's log, newest first, 15 per page.
	Page(conversationUUID string, pageIndex int) ([]*entity.Message, error)
}

type messageService struct {
	conversations repository.ConversationRepository
	messages      repository.MessageRepository
	directory     directory.Directory
	objects       storage.ObjectStorage
	resolver      *ParticipantResolver
	fanout        FanoutService
	hub           RealtimeHub
	linkBase      string // Base URL notification deep links point into
	logger        *slog.Logger
}

func NewMessageService(
	conversations repository.ConversationRepository,
	messages repository.MessageRepository,
	dir directory.Directory,
	objects storage.ObjectStorage,
	resolver *ParticipantResolver,
	fanout FanoutService,
	hub RealtimeHub,
	linkBase string,
	logger *slog.Logger,
) MessageService {
	return &messageService{
		conversations: conversations,
		messages:      messages,
		directory:     dir,
		objects:       objects,
		resolver:      resolver,
		fanout:        fanout,
		hub:           hub,
		linkBase:      strings.TrimRight(linkBase, "/"),
		logger:        logger,
	}
}

func (m *messageService) Append(ctx context.Context, conversationUUID, actorID, text string, media *MediaUpload) (*entity.Message, error) {
	conversation, err := m.conversations.GetByUUID(conversationUUID, false)
	if errors.Is(err, repository.ErrConversationNotFound) {
		return nil, fmt.Errorf("%w: conversation %q", ErrNotFound, conversationUUID)
	}
	if err != nil {
		return nil, err
	}

	if !isParticipant(conversation, actorID) {
		return nil, fmt.Errorf("%w: not a participant of this conversation", ErrForbidden)
	}

	text = strings.TrimSpace(text)
	if text == "" && media == nil {
		// Advisory nudge on the actor's own live connection, mirroring the
		// rejected request.
		if handle, ok := m.hub.CurrentHandle(actorID); ok {
			_ = m.hub.Emit(ctx, handle, EventEmptyMessage, "Please enter a valid message")
		}
		return nil, fmt.Errorf("%w: please enter a valid message", ErrInvalidInput)
	}

	now := time.Now()
	message := &entity.Message{
		ConversationUUID: conversationUUID,
		FromID:           actorID,
		Time:             now,
		Status:           entity.MessageSent,
	}

	var mediaKind string
	if media != nil {
		stored, err := m.uploadMedia(actorID, media, now)
		if err != nil {
			return nil, err
		}
		descriptor, err := json.Marshal(&entity.Media{
			URL:  stored.URL,
			Size: stored.Size,
			Name: stored.Name,
			Kind: stored.Kind,
		})
		if err != nil {
			return nil, err
		}
		message.Media = descriptor
		mediaKind = stored.Kind
	} else {
		message.Text = text
	}

	if err := m.messages.Append(message); err != nil {
		return nil, err
	}

	// The message is durable; everything from here is best-effort fan-out and
	// can no longer fail the request.
	recipients := m.resolver.ResolveDestinations(conversation, actorID)
	if len(recipients) > 0 {
		notification := m.buildNotification(actorID, conversationUUID, mediaKind)
		delivered := m.fanout.Dispatch(ctx, recipients, notification, EventReceiveMessage, message)
		if delivered > 0 {
			if err := m.messages.MarkDelivered(message.ID); err != nil {
				m.logger.Warn("delivered-status update failed", "message", message.ID, "error", err)
			} else {
				message.Status = entity.MessageDelivered
			}
		}
	}

	return message, nil
}

// uploadMedia stores the file under the sender's chat-media directory. The
// append instant doubles as the object name so every upload gets a fresh URL.
func (m *messageService) uploadMedia(actorID string, media *MediaUpload, now time.Time) (*storage.Stored, error) {
	destination := fmt.Sprintf("users/%s/chat-media/%d%s", actorID, now.UnixMilli(), path.Ext(media.Name))
	return m.objects.Store(media.Data, destination, media.Name, media.ContentType)
}

func (m *messageService) buildNotification(actorID, conversationUUID, mediaKind string) Notification {
	senderName, err := m.directory.DisplayName(actorID)
	if err != nil {
		m.logger.Warn("sender name lookup failed", "user", actorID, "error", err)
		senderName = "Someone"
	}
	senderImage, err := m.directory.ProfileImage(actorID)
	if err != nil {
		senderImage = ""
	}

	body := fmt.Sprintf("%s sent you a message", senderName)
	if mediaKind != "" {
		body = fmt.Sprintf("%s sent you a %s", senderName, mediaKind)
	}

	return Notification{
		Image: senderImage,
		Title: "New Message",
		Body:  body,
		URL:   m.linkBase + "/messages/" + conversationUUID,
	}
}

func (m *messageService) Page(conversationUUID string, pageIndex int) ([]*entity.Message, error) {
	if _, err := m.conversations.GetByUUID(conversationUUID, false); err != nil {
		if errors.Is(err, repository.ErrConversationNotFound) {
			return nil, fmt.Errorf("%w: conversation %q", ErrNotFound, conversationUUID)
		}
		return nil, err
	}
	return m.messages.Page(conversationUUID, pageIndex, PageSize)
}

func isParticipant(conversation *entity.Conversation, userID string) bool {
	for _, participant := range conversation.Participants {
		if participant.UserID == userID {
			return true
		}
	}
	return false
}
