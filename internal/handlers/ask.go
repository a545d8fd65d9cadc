package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/jdehlin/aigent/internal/catalog"
	"github.com/jdehlin/aigent/internal/chat"
	"github.com/jdehlin/aigent/internal/gateway"
)

// AskHandler exposes the dispatch gateway over HTTP: single-provider dispatch
// on /v1/ask and fan-out dispatch on /v1/ask/all. When a conversation id is
// supplied, the exchange is appended to that conversation after all in-flight
// requests complete.
type AskHandler struct {
	gateway *gateway.Gateway
	store   *chat.Store
	logger  *slog.Logger
}

func NewAskHandler(gw *gateway.Gateway, store *chat.Store, logger *slog.Logger) *AskHandler {
	return &AskHandler{
		gateway: gw,
		store:   store,
		logger:  logger,
	}
}

type askRequest struct {
	Message        string `json:"message"`
	Provider       string `json:"provider,omitempty"`
	Model          string `json:"model,omitempty"`
	ConversationID string `json:"conversation_id,omitempty"`
	Image          []byte `json:"image,omitempty"`
}

type askResponse struct {
	Text           string `json:"text"`
	Provider       string `json:"provider"`
	Model          string `json:"model"`
	ConversationID string `json:"conversation_id,omitempty"`
}

type askAllResponse struct {
	Results        []chat.ProviderResult `json:"results"`
	ConversationID string                `json:"conversation_id,omitempty"`
}

// Single handles POST /v1/ask.
func (h *AskHandler) Single() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, conversation, ok := h.parseRequest(w, r)
		if !ok {
			return
		}

		provider := catalog.Provider(req.Provider)
		if !provider.Valid() {
			h.httpError(w, http.StatusBadRequest, "unknown provider: %q", req.Provider)
			return
		}

		model := req.Model
		if model == "" {
			model = catalog.DefaultModel(provider)
		}

		var turns []chat.Turn
		if conversation != nil {
			turns = conversation.Turns
		}

		text, err := h.gateway.Send(r.Context(), req.Message, provider, model, turns, req.Image)
		if err != nil {
			h.dispatchError(w, err)
			return
		}

		resp := askResponse{
			Text:     text,
			Provider: provider.DisplayName(),
			Model:    model,
		}

		if conversation != nil {
			conversation.Append(chat.NewUserTurn(req.Message, req.Image))
			conversation.Append(chat.NewAssistantTurn(text, provider, model))
			if err := h.store.Update(*conversation); err != nil {
				h.logger.Error("Failed to persist conversation", "error", err)
			}
			resp.ConversationID = conversation.ID.String()
		}

		h.writeJSON(w, http.StatusOK, resp)
	})
}

// FanOut handles POST /v1/ask/all. It never fails on individual provider
// errors; an empty result list means no provider had a credential.
func (h *AskHandler) FanOut() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, conversation, ok := h.parseRequest(w, r)
		if !ok {
			return
		}

		var turns []chat.Turn
		if conversation != nil {
			turns = conversation.Turns
		}

		results := h.gateway.SendAll(r.Context(), req.Message, turns, req.Image)

		resp := askAllResponse{Results: results}

		if conversation != nil {
			conversation.Append(chat.NewUserTurn(req.Message, req.Image))
			conversation.Append(chat.NewFanOutTurn(results))
			if err := h.store.Update(*conversation); err != nil {
				h.logger.Error("Failed to persist conversation", "error", err)
			}
			resp.ConversationID = conversation.ID.String()
		}

		h.writeJSON(w, http.StatusOK, resp)
	})
}

// parseRequest decodes the request body and resolves the optional
// conversation. conversation_id "new" creates one.
func (h *AskHandler) parseRequest(w http.ResponseWriter, r *http.Request) (askRequest, *chat.Conversation, bool) {
	var req askRequest

	if r.Method != http.MethodPost {
		h.httpError(w, http.StatusMethodNotAllowed, "method %s not allowed", r.Method)
		return req, nil, false
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.httpError(w, http.StatusBadRequest, "invalid request body: %v", err)
		return req, nil, false
	}

	if req.Message == "" {
		h.httpError(w, http.StatusBadRequest, "message is required")
		return req, nil, false
	}

	switch req.ConversationID {
	case "":
		return req, nil, true
	case "new":
		conversation, err := h.store.Create()
		if err != nil {
			h.httpError(w, http.StatusInternalServerError, "create conversation: %v", err)
			return req, nil, false
		}
		return req, &conversation, true
	default:
		id, err := uuid.Parse(req.ConversationID)
		if err != nil {
			h.httpError(w, http.StatusBadRequest, "invalid conversation id: %v", err)
			return req, nil, false
		}
		conversation, err := h.store.Get(id)
		if err != nil {
			h.httpError(w, http.StatusNotFound, "conversation not found: %v", err)
			return req, nil, false
		}
		return req, &conversation, true
	}
}

func (h *AskHandler) dispatchError(w http.ResponseWriter, err error) {
	if errors.Is(err, gateway.ErrMissingCredential) {
		h.httpError(w, http.StatusUnprocessableEntity, "%v", err)
		return
	}
	h.httpError(w, http.StatusBadGateway, "%v", err)
}

func (h *AskHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", "error", err)
	}
}

func (h *AskHandler) httpError(w http.ResponseWriter, code int, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	h.logger.Error("HTTP Error", "code", code, "message", msg)
	http.Error(w, msg, code)
}
