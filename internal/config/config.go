/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries every runtime knob of the messaging service, read from the
// environment. A .env file next to the binary is loaded first when present.
type Config struct {
	Addr         string // HTTP listen address
	DatabasePath string // SQLite database file
	SessionKey   string // Cookie-store authentication key

	MediaDir     string // Directory the disk object store writes under
	MediaBaseURL string // Public URL prefix stored media is served from
	LinkBaseURL  string // Base URL notification deep links point into

	RedisAddr string // Optional; enables the cross-instance realtime bridge when set

	VAPIDSubject    string // Contact for the web-push VAPID claims
	VAPIDPublicKey  string
	VAPIDPrivateKey string

	FanoutTimeout time.Duration // Upper bound on realtime and push side effects per request
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Addr:            envOr("ADDR", ":8080"),
		DatabasePath:    envOr("DB_FILE", "elearn.db"),
		SessionKey:      envOr("SESSION_KEY", "development-only-key"),
		MediaDir:        envOr("MEDIA_DIR", "media"),
		MediaBaseURL:    envOr("MEDIA_BASE_URL", "http://localhost:8080/media"),
		LinkBaseURL:     envOr("LINK_BASE_URL", "http://localhost:3000"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		VAPIDSubject:    envOr("VAPID_SUBJECT", "mailto:admin@localhost"),
		VAPIDPublicKey:  os.Getenv("VAPID_PUBLIC_KEY"),
		VAPIDPrivateKey: os.Getenv("VAPID_PRIVATE_KEY"),
		FanoutTimeout:   envSecondsOr("FANOUT_TIMEOUT_SECONDS", 5) * time.Second,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envSecondsOr(key string, fallback int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n)
		}
	}
	return time.Duration(fallback)
}
