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
	"strings"
	"testing"
	"time"

	"elearn/internal/entity"
	"elearn/internal/repository"
)

type messageFixture struct {
	svc      MessageService
	fanout   FanoutService
	hub      *fakeHub
	push     *fakePush
	dir      *fakeDirectory
	messages repository.MessageRepository
	convs    repository.ConversationRepository
}

func newMessageFixture(t *testing.T, dir *fakeDirectory) *messageFixture {
	t.Helper()
	db := testDB(t)
	hub := newFakeHub()
	push := &fakePush{}
	convs := repository.NewSQLiteConversationRepository(db)
	messages := repository.NewSQLiteMessageRepository(db)
	resolver := NewParticipantResolver(dir, hub, discardLogger())
	fanout := NewFanoutService(repository.NewSQLiteNotificationRepository(db), hub, push, resolver, 2*time.Second, discardLogger())
	svc := NewMessageService(convs, messages, dir, &fakeObjects{}, resolver, fanout, hub, "http://app.local", discardLogger())
	return &messageFixture{svc: svc, fanout: fanout, hub: hub, push: push, dir: dir, messages: messages, convs: convs}
}

func (f *messageFixture) privateConversation(t *testing.T, a, b string) *entity.Conversation {
	t.Helper()
	conversation := &entity.Conversation{
		UUID: "conv-" + a + "-" + b,
		Kind: entity.ConversationPrivate,
		Participants: []*entity.Participant{
			{UserID: a, Position: 0},
			{UserID: b, Position: 1},
		},
	}
	pair := repository.PairKey(a, b)
	conversation.PairKey = &pair
	if err := f.convs.Create(conversation); err != nil {
		t.Fatalf("could not seed conversation: %v", err)
	}
	return conversation
}

func TestAppendTextMessageFansOut(t *testing.T) {
	dir := newFakeDirectory("alice", "bob")
	dir.names["alice"] = "Alice"
	fx := newMessageFixture(t, dir)
	conversation := fx.privateConversation(t, "alice", "bob")
	fx.hub.connect("bob", "handle-bob")

	message, err := fx.svc.Append(context.Background(), conversation.UUID, "alice", "hi", nil)
	if err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if message.Text != "hi" || message.FromID != "alice" {
		t.Fatalf("stored message is wrong: %+v", message)
	}
	if message.Status != entity.MessageDelivered {
		t.Fatalf("a live recipient should flip the status to delivered, got %q", message.Status)
	}

	primary := fx.hub.recorded(EventReceiveMessage)
	if len(primary) != 1 || primary[0].Handle != "handle-bob" {
		t.Fatalf("expected the message event on bob's handle, got %+v", primary)
	}
	got, ok := primary[0].Payload.(*entity.Message)
	if !ok || got.ID != message.ID {
		t.Fatalf("message event carries the wrong payload: %+v", primary[0].Payload)
	}

	inbox, err := fx.fanout.ListNotifications("bob")
	if err != nil {
		t.Fatalf("could not read bob's inbox: %v", err)
	}
	if len(inbox) != 1 {
		t.Fatalf("expected 1 inbox entry, got %d", len(inbox))
	}
	if inbox[0].Title != "New Message" || inbox[0].Body != "Alice sent you a message" {
		t.Fatalf("inbox entry is wrong: %+v", inbox[0])
	}
	if inbox[0].URL != "http://app.local/messages/"+conversation.UUID {
		t.Fatalf("deep link is wrong: %q", inbox[0].URL)
	}
	own, err := fx.fanout.ListNotifications("alice")
	if err != nil {
		t.Fatalf("could not read alice's inbox: %v", err)
	}
	if len(own) != 0 {
		t.Fatalf("the sender must not be notified about their own message, got %d entries", len(own))
	}
}

func TestAppendToOfflineRecipient(t *testing.T) {
	dir := newFakeDirectory("alice", "bob")
	fx := newMessageFixture(t, dir)
	conversation := fx.privateConversation(t, "alice", "bob")

	message, err := fx.svc.Append(context.Background(), conversation.UUID, "alice", "hello?", nil)
	if err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if message.Status != entity.MessageSent {
		t.Fatalf("with nobody listening the status must stay sent, got %q", message.Status)
	}
	if len(fx.hub.emits) != 0 {
		t.Fatalf("expected no realtime events, got %d", len(fx.hub.emits))
	}

	inbox, err := fx.fanout.ListNotifications("bob")
	if err != nil {
		t.Fatalf("could not read bob's inbox: %v", err)
	}
	if len(inbox) != 1 {
		t.Fatalf("the inbox entry is the durable record and must exist, got %d", len(inbox))
	}
	// Unknown display name degrades to a generic sender.
	if inbox[0].Body != "Someone sent you a message" {
		t.Fatalf("expected the fallback sender name, got %q", inbox[0].Body)
	}
}

func TestAppendRejectsEmptyPayload(t *testing.T) {
	fx := newMessageFixture(t, newFakeDirectory("alice", "bob"))
	conversation := fx.privateConversation(t, "alice", "bob")
	fx.hub.connect("alice", "handle-alice")

	_, err := fx.svc.Append(context.Background(), conversation.UUID, "alice", "   ", nil)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	nudges := fx.hub.recorded(EventEmptyMessage)
	if len(nudges) != 1 || nudges[0].Handle != "handle-alice" {
		t.Fatalf("expected the advisory on the actor's own handle, got %+v", nudges)
	}
	page, err := fx.svc.Page(conversation.UUID, 0)
	if err != nil {
		t.Fatalf("page failed: %v", err)
	}
	if len(page) != 0 {
		t.Fatalf("nothing may be appended for a rejected payload, got %d messages", len(page))
	}
}

func TestAppendMediaMessage(t *testing.T) {
	dir := newFakeDirectory("alice", "bob")
	dir.names["alice"] = "Alice"
	fx := newMessageFixture(t, dir)
	conversation := fx.privateConversation(t, "alice", "bob")

	upload := &MediaUpload{Data: []byte("fake-bytes"), Name: "diagram.png", ContentType: "image/png"}
	message, err := fx.svc.Append(context.Background(), conversation.UUID, "alice", "", upload)
	if err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if message.Text != "" {
		t.Fatalf("a media message carries no text, got %q", message.Text)
	}

	var media entity.Media
	if err := json.Unmarshal(message.Media, &media); err != nil {
		t.Fatalf("media descriptor does not unmarshal: %v", err)
	}
	if !strings.Contains(media.URL, "users/alice/chat-media/") {
		t.Fatalf("object stored outside the sender's media directory: %q", media.URL)
	}
	if media.Kind != "image" || media.Name != "diagram.png" || media.Size != int64(len(upload.Data)) {
		t.Fatalf("media descriptor is wrong: %+v", media)
	}

	inbox, err := fx.fanout.ListNotifications("bob")
	if err != nil {
		t.Fatalf("could not read bob's inbox: %v", err)
	}
	if len(inbox) != 1 || inbox[0].Body != "Alice sent you a image" {
		t.Fatalf("expected the media notification body, got %+v", inbox)
	}
}

func TestAppendAuthorization(t *testing.T) {
	fx := newMessageFixture(t, newFakeDirectory("alice", "bob", "mallory"))
	conversation := fx.privateConversation(t, "alice", "bob")

	if _, err := fx.svc.Append(context.Background(), "missing", "alice", "hi", nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown conversation: expected ErrNotFound, got %v", err)
	}
	if _, err := fx.svc.Append(context.Background(), conversation.UUID, "mallory", "hi", nil); !errors.Is(err, ErrForbidden) {
		t.Fatalf("outsider: expected ErrForbidden, got %v", err)
	}
}

func TestPageUnknownConversation(t *testing.T) {
	fx := newMessageFixture(t, newFakeDirectory())

	if _, err := fx.svc.Page("missing", 0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
