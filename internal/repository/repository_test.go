/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package repository

import (
	"testing"

	"elearn/internal/entity"

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

func TestPairKeyIsOrderIndependent(t *testing.T) {
	if PairKey("alice", "bob") != PairKey("bob", "alice") {
		t.Errorf("pair key should not depend on argument order")
	}
	if PairKey("alice", "bob") != "alice:bob" {
		t.Errorf("expected alice:bob, got %s", PairKey("alice", "bob"))
	}
}
