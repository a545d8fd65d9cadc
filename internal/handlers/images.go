package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jdehlin/aigent/internal/catalog"
	"github.com/jdehlin/aigent/internal/imagegen"
)

// ImagesHandler exposes image generation over HTTP: single-provider
// generation on /v1/images and fan-out generation on /v1/images/all.
type ImagesHandler struct {
	service *imagegen.Service
	logger  *slog.Logger
}

func NewImagesHandler(service *imagegen.Service, logger *slog.Logger) *ImagesHandler {
	return &ImagesHandler{
		service: service,
		logger:  logger,
	}
}

type imageRequest struct {
	Prompt   string `json:"prompt"`
	Provider string `json:"provider,omitempty"`
}

type imageResponse struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Image    []byte `json:"image"`
}

type imageAllResponse struct {
	Results []imagegen.Response `json:"results"`
}

// Single handles POST /v1/images.
func (h *ImagesHandler) Single() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, ok := h.parseRequest(w, r)
		if !ok {
			return
		}

		provider := catalog.Provider(req.Provider)
		model, hasModel := imagegen.ModelName(provider)
		if !hasModel {
			h.httpError(w, http.StatusBadRequest, "provider %q cannot generate images", req.Provider)
			return
		}

		image, err := h.service.Generate(r.Context(), req.Prompt, provider)
		if err != nil {
			h.generationError(w, err)
			return
		}

		writeJSON(w, h.logger, imageResponse{
			Provider: provider.DisplayName(),
			Model:    model,
			Image:    image,
		})
	})
}

// FanOut handles POST /v1/images/all. Individual provider failures are
// returned as failed results, never as an HTTP error.
func (h *ImagesHandler) FanOut() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, ok := h.parseRequest(w, r)
		if !ok {
			return
		}

		results := h.service.GenerateAll(r.Context(), req.Prompt)

		writeJSON(w, h.logger, imageAllResponse{Results: results})
	})
}

func (h *ImagesHandler) parseRequest(w http.ResponseWriter, r *http.Request) (imageRequest, bool) {
	var req imageRequest

	if r.Method != http.MethodPost {
		h.httpError(w, http.StatusMethodNotAllowed, "method %s not allowed", r.Method)
		return req, false
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.httpError(w, http.StatusBadRequest, "invalid request body: %v", err)
		return req, false
	}

	if req.Prompt == "" {
		h.httpError(w, http.StatusBadRequest, "prompt is required")
		return req, false
	}

	return req, true
}

func (h *ImagesHandler) generationError(w http.ResponseWriter, err error) {
	if errors.Is(err, imagegen.ErrMissingCredential) {
		h.httpError(w, http.StatusUnprocessableEntity, "%v", err)
		return
	}
	h.httpError(w, http.StatusBadGateway, "%v", err)
}

func (h *ImagesHandler) httpError(w http.ResponseWriter, code int, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	h.logger.Error("HTTP Error", "code", code, "message", msg)
	http.Error(w, msg, code)
}
