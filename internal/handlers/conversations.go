package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jdehlin/aigent/internal/chat"
)

// ConversationsHandler exposes the persistence collaborator: list on GET
// /v1/conversations, delete on DELETE /v1/conversations/{id}.
type ConversationsHandler struct {
	store  *chat.Store
	logger *slog.Logger
}

func NewConversationsHandler(store *chat.Store, logger *slog.Logger) *ConversationsHandler {
	return &ConversationsHandler{
		store:  store,
		logger: logger,
	}
}

func (h *ConversationsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w)
	case http.MethodDelete:
		h.delete(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ConversationsHandler) list(w http.ResponseWriter) {
	conversations, err := h.store.List()
	if err != nil {
		h.logger.Error("Failed to list conversations", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if conversations == nil {
		conversations = []chat.Conversation{}
	}

	writeJSON(w, h.logger, conversations)
}

func (h *ConversationsHandler) delete(w http.ResponseWriter, r *http.Request) {
	rawID := strings.TrimPrefix(r.URL.Path, "/v1/conversations/")
	id, err := uuid.Parse(rawID)
	if err != nil {
		http.Error(w, "invalid conversation id", http.StatusBadRequest)
		return
	}

	if err := h.store.Delete(id); err != nil {
		h.logger.Error("Failed to delete conversation", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}
