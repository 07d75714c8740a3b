/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package handler

import (
	"encoding/json"
	"net/http"

	"elearn/internal/service"
)

// NotificationHandler serves the inbox read path and the event announcement
// endpoint other platform subsystems (comments, live sessions) fan out through.
type NotificationHandler struct {
	fanout service.FanoutService
}

func NewNotificationHandler(fanout service.FanoutService) *NotificationHandler {
	return &NotificationHandler{fanout: fanout}
}

// Used to read the actor's inbox, newest first. A user with no inbox gets an
// empty list.
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	entries, err := h.fanout.ListNotifications(actor)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":        "success",
		"notifications": entries,
	})
}

type announceRequest struct {
	Audience []string `json:"audience"`
	Image    string   `json:"image"`
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	URL      string   `json:"url"`
}

// Used to fan a non-chat notification out to an explicit audience: new
// comment, new live session. The response does not wait on delivery outcomes;
// the inbox writes are the only guaranteed effect.
func (h *NotificationHandler) AnnounceEvent(w http.ResponseWriter, r *http.Request) {
	if _, ok := actorFrom(r); !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req announceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Malformed request body", http.StatusBadRequest)
		return
	}
	if len(req.Audience) == 0 || req.Title == "" {
		http.Error(w, "An announcement needs an audience and a title", http.StatusBadRequest)
		return
	}

	h.fanout.Announce(r.Context(), req.Audience, service.Notification{
		Image: req.Image,
		Title: req.Title,
		Body:  req.Body,
		URL:   req.URL,
	})

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
	})
}
