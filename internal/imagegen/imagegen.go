// Package imagegen dispatches image-generation requests to the vendors that
// offer an image model, one fixed model per vendor. It mirrors the chat
// dispatch layer: single dispatch fails loudly, fan-out absorbs per-provider
// failures and returns deterministically ordered results.
package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jdehlin/aigent/internal/catalog"
)

// ErrMissingCredential is returned when no API key is configured for the
// targeted provider.
var ErrMissingCredential = errors.New("API key not configured")

// ErrInvalidResponse marks a 200-status response whose body did not match the
// vendor's documented envelope.
var ErrInvalidResponse = errors.New("invalid response from image API")

// HTTPError is returned when a vendor answers with a non-success status.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Body)
}

func invalidResponse(provider, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidResponse, provider, reason)
}

// genModel pairs a vendor's image model display name with its wire-level id.
type genModel struct {
	display string
	apiID   string
}

// One image model per vendor. Anthropic offers none, so it never appears here.
var generators = map[catalog.Provider]genModel{
	catalog.OpenAI: {"DALL-E 3", "dall-e-3"},
	catalog.Google: {"Imagen 3", "imagen-3.0-generate-002"},
	catalog.Grok:   {"Aurora", "grok-2-image"},
}

// Providers returns every provider with an image model, in catalog order.
func Providers() []catalog.Provider {
	providers := make([]catalog.Provider, 0, len(generators))
	for _, p := range catalog.All() {
		if _, ok := generators[p]; ok {
			providers = append(providers, p)
		}
	}
	return providers
}

// ModelName returns the display name of p's image model, and whether p offers
// one.
func ModelName(p catalog.Provider) (string, bool) {
	m, ok := generators[p]
	return m.display, ok
}

// Response is one vendor's answer to a fan-out generation round. Image holds
// the decoded payload on success; on failure Failed is set and Error carries
// the rendered error string.
type Response struct {
	ID        uuid.UUID        `json:"id"`
	Provider  catalog.Provider `json:"provider"`
	Model     string           `json:"model"`
	Image     []byte           `json:"image,omitempty"`
	Error     string           `json:"error,omitempty"`
	Failed    bool             `json:"failed,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// NewResponse builds a successful generation result.
func NewResponse(p catalog.Provider, model string, image []byte) Response {
	return Response{
		ID:        uuid.New(),
		Provider:  p,
		Model:     model,
		Image:     image,
		Timestamp: time.Now(),
	}
}

// NewFailedResponse builds a result that records a per-provider generation
// error.
func NewFailedResponse(p catalog.Provider, model, errText string) Response {
	return Response{
		ID:        uuid.New(),
		Provider:  p,
		Model:     model,
		Error:     errText,
		Failed:    true,
		Timestamp: time.Now(),
	}
}

// CredentialStore looks up per-provider secrets. Image generation shares the
// chat providers' keys.
type CredentialStore interface {
	APIKey(p catalog.Provider) (string, bool)
	HasAPIKey(p catalog.Provider) bool
}

// Service generates images through the vendors' image endpoints.
type Service struct {
	OpenAIEndpoint string
	GoogleBaseURL  string
	GrokEndpoint   string
	HTTPClient     *http.Client

	credentials CredentialStore
	logger      *slog.Logger
}

// New creates an image-generation service over the given credential store.
func New(credentials CredentialStore, logger *slog.Logger) *Service {
	return &Service{
		OpenAIEndpoint: openAIDefaultEndpoint,
		GoogleBaseURL:  googleDefaultBaseURL,
		GrokEndpoint:   grokDefaultEndpoint,
		HTTPClient:     &http.Client{Timeout: 120 * time.Second},
		credentials:    credentials,
		logger:         logger,
	}
}

// Generate requests one image from a single provider and returns the decoded
// image bytes. It fails with ErrMissingCredential when no key is configured
// and with an error for providers without an image model.
func (s *Service) Generate(ctx context.Context, prompt string, p catalog.Provider) ([]byte, error) {
	model, ok := generators[p]
	if !ok {
		return nil, fmt.Errorf("provider %s has no image model", p)
	}

	key, ok := s.credentials.APIKey(p)
	if !ok {
		return nil, fmt.Errorf("%s: %w", p, ErrMissingCredential)
	}

	s.logger.Info("Generating image",
		"provider", p.DisplayName(),
		"model", model.apiID,
		"prompt_len", len(prompt),
	)

	var image []byte
	var err error
	switch p {
	case catalog.OpenAI:
		image, err = s.generateOpenAI(ctx, prompt, key)
	case catalog.Google:
		image, err = s.generateGoogle(ctx, prompt, key, model.apiID)
	case catalog.Grok:
		image, err = s.generateGrok(ctx, prompt, key)
	}
	if err != nil {
		s.logger.Error("Image generation failed", "provider", p.DisplayName(), "error", err)
		return nil, err
	}

	return image, nil
}

// GenerateAll requests one image concurrently from every image-capable
// provider that has a credential. Individual failures are absorbed into a
// failed Response; the call waits for every in-flight request and returns
// results sorted by provider display name.
func (s *Service) GenerateAll(ctx context.Context, prompt string) []Response {
	var targets []catalog.Provider
	for _, p := range Providers() {
		if s.credentials.HasAPIKey(p) {
			targets = append(targets, p)
		}
	}

	resultCh := make(chan Response, len(targets))

	var wg sync.WaitGroup
	for _, p := range targets {
		wg.Add(1)
		go func(p catalog.Provider) {
			defer wg.Done()

			model := generators[p]
			image, err := s.Generate(ctx, prompt, p)
			if err != nil {
				resultCh <- NewFailedResponse(p, model.display, "Error: "+err.Error())
				return
			}
			resultCh <- NewResponse(p, model.display, image)
		}(p)
	}

	wg.Wait()
	close(resultCh)

	results := make([]Response, 0, len(targets))
	for r := range resultCh {
		results = append(results, r)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Provider.DisplayName() < results[j].Provider.DisplayName()
	})

	return results
}

func (s *Service) postJSON(ctx context.Context, url string, headers map[string]string, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	return respBody, nil
}
