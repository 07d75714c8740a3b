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
	"testing"
	"time"

	"elearn/internal/entity"

	"github.com/google/uuid"
)

func TestGetOrCreatePrivateIsIdempotent(t *testing.T) {
	repo := NewSQLiteConversationRepository(testDB(t))

	key := PairKey("alice", "bob")
	first, created, err := repo.GetOrCreatePrivate(key, []string{"alice", "bob"})
	if err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	if !created {
		t.Errorf("first call should create the conversation")
	}

	second, created, err := repo.GetOrCreatePrivate(key, []string{"bob", "alice"})
	if err != nil {
		t.Fatalf("second call failed: %v", err)
	}
	if created {
		t.Errorf("second call should not create a new conversation")
	}
	if first.UUID != second.UUID {
		t.Errorf("expected the same conversation, got %s and %s", first.UUID, second.UUID)
	}
	if second.Kind != entity.ConversationPrivate {
		t.Errorf("expected a private conversation, got %s", second.Kind)
	}
	if len(second.Participants) != 2 {
		t.Errorf("expected 2 participants, got %d", len(second.Participants))
	}
}

func TestCreateDuplicatePairFallsBackToFetch(t *testing.T) {
	db := testDB(t)
	repo := NewSQLiteConversationRepository(db)

	key := PairKey("alice", "bob")
	first, _, err := repo.GetOrCreatePrivate(key, []string{"alice", "bob"})
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	// Force the insert path despite the existing row, as a lost race would.
	conflicting := &entity.Conversation{
		UUID:    uuid.New().String(),
		Kind:    entity.ConversationPrivate,
		PairKey: &key,
	}
	if err := db.Create(conflicting).Error; err == nil {
		t.Fatalf("expected the unique pair index to reject the duplicate")
	}

	got, created, err := repo.GetOrCreatePrivate(key, []string{"alice", "bob"})
	if err != nil {
		t.Fatalf("lookup after conflict failed: %v", err)
	}
	if created || got.UUID != first.UUID {
		t.Errorf("expected the original conversation back, got %s (created=%v)", got.UUID, created)
	}
}

func TestGetByUUIDUnknownIsNotFound(t *testing.T) {
	repo := NewSQLiteConversationRepository(testDB(t))
	if _, err := repo.GetByUUID("missing", false); !errors.Is(err, ErrConversationNotFound) {
		t.Errorf("expected ErrConversationNotFound, got %v", err)
	}
}

func TestListForUserOrdersByActivity(t *testing.T) {
	db := testDB(t)
	conversations := NewSQLiteConversationRepository(db)
	messages := NewSQLiteMessageRepository(db)

	stale := &entity.Conversation{
		UUID: uuid.New().String(),
		Kind: entity.ConversationGroup,
		Name: "old group",
		Participants: []*entity.Participant{
			{UserID: "alice", Position: 0},
			{UserID: "bob", Position: 1},
		},
	}
	fresh := &entity.Conversation{
		UUID: uuid.New().String(),
		Kind: entity.ConversationGroup,
		Name: "busy group",
		Participants: []*entity.Participant{
			{UserID: "alice", Position: 0},
			{UserID: "carol", Position: 1},
		},
	}
	for _, c := range []*entity.Conversation{stale, fresh} {
		if err := conversations.Create(c); err != nil {
			t.Fatalf("setup failed: %v", err)
		}
	}

	base := time.Now()
	if err := messages.Append(&entity.Message{ConversationUUID: stale.UUID, FromID: "bob", Text: "old", Time: base, Status: entity.MessageSent}); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if err := messages.Append(&entity.Message{ConversationUUID: fresh.UUID, FromID: "carol", Text: "new", Time: base.Add(time.Minute), Status: entity.MessageSent}); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	listed, err := conversations.ListForUser("alice")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(listed))
	}
	if listed[0].UUID != fresh.UUID {
		t.Errorf("expected the recently active conversation first")
	}
	if len(listed[0].Messages) != 1 || listed[0].Messages[0].Text != "new" {
		t.Errorf("expected the summary to carry the latest message")
	}

	// A user in no conversation sees an empty list.
	none, err := conversations.ListForUser("nobody")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no conversations, got %d", len(none))
	}
}
