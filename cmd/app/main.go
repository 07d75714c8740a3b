/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"elearn/internal/config"
	"elearn/internal/directory"
	"elearn/internal/entity"
	"elearn/internal/handler"
	"elearn/internal/middleware"
	"elearn/internal/push"
	"elearn/internal/realtime"
	"elearn/internal/repository"
	"elearn/internal/service"
	"elearn/internal/storage"
	"elearn/internal/telemetry"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	cfg := config.Load()

	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{TranslateError: true})
	if err != nil {
		logger.Error("could not open database", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}
	if err := db.AutoMigrate(
		&entity.Conversation{},
		&entity.Participant{},
		&entity.Message{},
		&entity.NotificationEntry{},
		&entity.Profile{},
	); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := realtime.NewHub(logger)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		hub.AttachBridge(realtime.NewBridge(rdb, logger))
		logger.Info("realtime bridge enabled", "redis", cfg.RedisAddr)
	}
	go hub.Run(ctx)

	conversationRepo := repository.NewSQLiteConversationRepository(db)
	messageRepo := repository.NewSQLiteMessageRepository(db)
	notificationRepo := repository.NewSQLiteNotificationRepository(db)

	userDirectory := directory.NewGormDirectory(db)
	objects := storage.NewDiskStorage(cfg.MediaDir, cfg.MediaBaseURL)
	pushSender := push.NewWebPush(cfg.VAPIDSubject, cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey)

	resolver := service.NewParticipantResolver(userDirectory, hub, logger)
	fanout := service.NewFanoutService(notificationRepo, hub, pushSender, resolver, cfg.FanoutTimeout, logger)
	conversations := service.NewConversationService(conversationRepo, userDirectory, logger)
	messages := service.NewMessageService(conversationRepo, messageRepo, userDirectory, objects, resolver, fanout, hub, cfg.LinkBaseURL, logger)

	store := sessions.NewCookieStore([]byte(cfg.SessionKey))
	chats := handler.NewChatHandler(conversations, messages, objects)
	notifications := handler.NewNotificationHandler(fanout)
	live := handler.NewRealtimeHandler(hub, logger)

	router := mux.NewRouter()
	router.Handle("/metrics", telemetry.Handler())
	router.PathPrefix("/media/").Handler(http.StripPrefix("/media/", http.FileServer(http.Dir(cfg.MediaDir))))

	api := router.PathPrefix("/").Subrouter()
	api.Use(func(next http.Handler) http.Handler { return middleware.RequestLog(logger, next) })
	api.Use(func(next http.Handler) http.Handler { return middleware.Actor(store, next) })

	api.HandleFunc("/chats", chats.ListChats).Methods(http.MethodGet)
	api.HandleFunc("/chats/{chatId}", chats.GetChat).Methods(http.MethodGet)
	api.HandleFunc("/chats/{chatId}/messages", chats.SendMessage).Methods(http.MethodPost)
	api.HandleFunc("/chats/{chatId}/messages", chats.PageMessages).Methods(http.MethodGet)
	api.HandleFunc("/groups", chats.CreateGroup).Methods(http.MethodPost)
	api.HandleFunc("/notifications", notifications.ListNotifications).Methods(http.MethodGet)
	api.HandleFunc("/events", notifications.AnnounceEvent).Methods(http.MethodPost)
	api.HandleFunc("/ws", live.Connect).Methods(http.MethodGet)

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("listening", "addr", cfg.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
