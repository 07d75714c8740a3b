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
	"io"
	"log/slog"
	"sync"
	"testing"

	"elearn/internal/directory"
	"elearn/internal/entity"
	"elearn/internal/storage"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("could not open in-memory db: %v", err)
	}
	if err := db.AutoMigrate(
		&entity.Conversation{},
		&entity.Participant{},
		&entity.Message{},
		&entity.NotificationEntry{},
		&entity.Profile{},
	); err != nil {
		t.Fatalf("migration failed: %v", err)
	}
	return db
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Fake user directory backed by maps.
type fakeDirectory struct {
	users  map[string]bool
	names  map[string]string
	images map[string]string
	subs   map[string]json.RawMessage
}

func newFakeDirectory(users ...string) *fakeDirectory {
	f := &fakeDirectory{
		users:  map[string]bool{},
		names:  map[string]string{},
		images: map[string]string{},
		subs:   map[string]json.RawMessage{},
	}
	for _, u := range users {
		f.users[u] = true
	}
	return f
}

func (f *fakeDirectory) Exists(userID string) (bool, error) { return f.users[userID], nil }

func (f *fakeDirectory) DisplayName(userID string) (string, error) {
	if name, ok := f.names[userID]; ok {
		return name, nil
	}
	return "", directory.ErrUnknownUser
}

func (f *fakeDirectory) ProfileImage(userID string) (string, error) {
	if image, ok := f.images[userID]; ok {
		return image, nil
	}
	return "", directory.ErrUnknownUser
}

func (f *fakeDirectory) PushRegistration(userID string) (json.RawMessage, error) {
	return f.subs[userID], nil
}

type emitRecord struct {
	Handle  string
	Event   string
	Payload any
}

// Fake realtime hub recording every emit.
type fakeHub struct {
	mu        sync.Mutex
	connected map[string]string // user id -> handle
	stale     map[string]bool   // handles that reject emits
	emits     []emitRecord
}

func newFakeHub() *fakeHub {
	return &fakeHub{connected: map[string]string{}, stale: map[string]bool{}}
}

func (f *fakeHub) connect(userID, handle string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected[userID] = handle
}

func (f *fakeHub) CurrentHandle(userID string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	handle, ok := f.connected[userID]
	return handle, ok
}

func (f *fakeHub) Emit(_ context.Context, handle string, event string, payload any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stale[handle] {
		return errors.New("stale realtime handle")
	}
	f.emits = append(f.emits, emitRecord{Handle: handle, Event: event, Payload: payload})
	return nil
}

func (f *fakeHub) recorded(event string) []emitRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []emitRecord{}
	for _, e := range f.emits {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

type pushRecord struct {
	Subscription json.RawMessage
	Payload      []byte
}

// Fake push provider recording attempts, optionally failing them all.
type fakePush struct {
	mu    sync.Mutex
	err   error
	sends []pushRecord
}

func (f *fakePush) Send(_ context.Context, subscription json.RawMessage, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sends = append(f.sends, pushRecord{Subscription: subscription, Payload: payload})
	return f.err
}

func (f *fakePush) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sends)
}

// Fake object storage that never touches a disk.
type fakeObjects struct{}

func (f *fakeObjects) Store(data []byte, destinationPath, originalName, contentType string) (*storage.Stored, error) {
	return &storage.Stored{
		URL:  "http://media.local/" + destinationPath,
		Size: int64(len(data)),
		Name: originalName,
		Kind: storage.MediaKind(contentType),
	}, nil
}
