/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package handler

import (
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"elearn/internal/service"
	"elearn/internal/storage"

	"github.com/gorilla/mux"
)

const maxUploadBytes = 32 << 20

// ChatHandler is used to handle all conversation-related routes: sending
// messages, fetching and listing conversations, paging their logs and
// creating groups.
type ChatHandler struct {
	conversations service.ConversationService
	messages      service.MessageService
	objects       storage.ObjectStorage
}

func NewChatHandler(conversations service.ConversationService, messages service.MessageService, objects storage.ObjectStorage) *ChatHandler {
	return &ChatHandler{
		conversations: conversations,
		messages:      messages,
		objects:       objects,
	}
}

// Used to append a message to a conversation. The body is either a form with
// a "message" text field or a multipart upload with a "media" file.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	conversationID := mux.Vars(r)["chatId"]

	text, media, err := readMessageBody(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	message, err := h.messages.Append(r.Context(), conversationID, actor, text, media)
	if err != nil {
		writeError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": message,
	})
}

// Used to fetch a conversation. With ?user=true the path id is a recipient id
// and the private conversation with that user is fetched, created when absent.
// With ?detail=true the message log is included.
func (h *ChatHandler) GetChat(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id := mux.Vars(r)["chatId"]

	if r.URL.Query().Get("user") == "true" {
		conversation, created, err := h.conversations.GetOrCreatePrivate(actor, id)
		if err != nil {
			writeError(w, err)
			return
		}
		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		respondJSON(w, status, map[string]interface{}{
			"status": "success",
			"chat":   conversation,
		})
		return
	}

	conversation, err := h.conversations.Get(id, r.URL.Query().Get("detail") == "true")
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"chat":   conversation,
	})
}

// Used to list the actor's conversations, most recently updated first, each
// summarized by its latest message.
func (h *ChatHandler) ListChats(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conversations, err := h.conversations.ListForUser(actor)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"chats":  conversations,
	})
}

// Used to page through a conversation's message log, newest window first.
func (h *ChatHandler) PageMessages(w http.ResponseWriter, r *http.Request) {
	if _, ok := actorFrom(r); !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	conversationID := mux.Vars(r)["chatId"]

	page := 0
	if raw := r.URL.Query().Get("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			page = parsed
		}
	}

	messages, err := h.messages.Page(conversationID, page)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "success",
		"messages": messages,
	})
}

// Used to create a group conversation. Multipart form with "name", repeated
// "participants" fields and an optional "image" file.
func (h *ChatHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := parseForm(r); err != nil {
		http.Error(w, "Malformed request body", http.StatusBadRequest)
		return
	}
	name := r.FormValue("name")
	participants := participantList(r)

	imageURL := ""
	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
		if err != nil {
			http.Error(w, "Could not read the uploaded image", http.StatusBadRequest)
			return
		}
		destination := fmt.Sprintf("users/%s/chat-media/%d%s", actor, time.Now().UnixMilli(), path.Ext(header.Filename))
		stored, err := h.objects.Store(data, destination, header.Filename, header.Header.Get("Content-Type"))
		if err != nil {
			writeError(w, err)
			return
		}
		imageURL = stored.URL
	}

	conversation, err := h.conversations.CreateGroup(actor, name, participants, imageURL)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status": "success",
		"chat":   conversation,
	})
}

// readMessageBody pulls the text or the media file out of a send-message
// request. Both may be absent; the service decides whether that is an error.
func readMessageBody(r *http.Request) (string, *service.MediaUpload, error) {
	if err := parseForm(r); err != nil {
		return "", nil, fmt.Errorf("malformed request body")
	}

	text := r.FormValue("message")

	file, header, err := r.FormFile("media")
	if err != nil {
		return text, nil, nil
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		return "", nil, fmt.Errorf("could not read the uploaded file")
	}
	return text, &service.MediaUpload{
		Data:        data,
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
	}, nil
}

func parseForm(r *http.Request) error {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		return r.ParseMultipartForm(maxUploadBytes)
	}
	return r.ParseForm()
}

// participantList accepts both repeated "participants" fields and a single
// comma-separated one.
func participantList(r *http.Request) []string {
	values := r.Form["participants"]
	if len(values) == 1 && strings.Contains(values[0], ",") {
		values = strings.Split(values[0], ",")
	}
	out := []string{}
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
