// Package gateway is the public entry point of the dispatch layer: it routes a
// single-provider request to the matching transport, or fans a request out
// concurrently to every transport whose provider has a configured credential.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/jdehlin/aigent/internal/catalog"
	"github.com/jdehlin/aigent/internal/chat"
	"github.com/jdehlin/aigent/internal/history"
	"github.com/jdehlin/aigent/internal/transport"
	"github.com/jdehlin/aigent/internal/websearch"
)

// ErrMissingCredential is returned when no API key is configured for the
// targeted provider.
var ErrMissingCredential = errors.New("API key not configured")

// CredentialStore looks up per-provider secrets. Reads only; the gateway never
// mutates credentials.
type CredentialStore interface {
	APIKey(p catalog.Provider) (string, bool)
	HasAPIKey(p catalog.Provider) bool
}

// PromptStore looks up the configured per-provider system prompt, returning ""
// when unset.
type PromptStore interface {
	SystemPrompt(p catalog.Provider) string
}

// Searcher is the optional web-search augmentation collaborator.
type Searcher interface {
	ShouldSearch(query string) bool
	Search(ctx context.Context, query string) ([]websearch.Result, error)
}

// Gateway dispatches chat requests to vendor transports. All collaborators
// are passed in explicitly so tests can swap in fakes.
type Gateway struct {
	registry    *transport.Registry
	credentials CredentialStore
	prompts     PromptStore
	searcher    Searcher
	logger      *slog.Logger
}

// Option configures optional gateway collaborators.
type Option func(*Gateway)

// WithSearcher enables web-search augmentation of outgoing messages.
func WithSearcher(s Searcher) Option {
	return func(g *Gateway) { g.searcher = s }
}

// New creates a gateway over the given transport registry and stores.
func New(registry *transport.Registry, credentials CredentialStore, prompts PromptStore, logger *slog.Logger, opts ...Option) *Gateway {
	g := &Gateway{
		registry:    registry,
		credentials: credentials,
		prompts:     prompts,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Send dispatches one message to a single provider and returns its answer
// text. It fails with ErrMissingCredential when no key is configured, and
// propagates transport failures unchanged. When search augmentation triggers,
// retrieved context is injected ahead of the message and a citation block is
// appended to the returned text.
func (g *Gateway) Send(ctx context.Context, message string, p catalog.Provider, model string, turns []chat.Turn, image []byte) (string, error) {
	prompt, citations := g.augment(ctx, message)

	text, err := g.dispatch(ctx, prompt, p, model, turns, image)
	if err != nil {
		return "", err
	}

	return text + citations, nil
}

// SendAll dispatches one message concurrently to every provider that has a
// credential, skipping providers without image support when an image is
// attached. Each provider uses its default model. Individual failures are
// absorbed into a failed ProviderResult rather than aborting the round; the
// call waits for every in-flight request and returns results sorted by
// provider display name so completion order never leaks into the output.
func (g *Gateway) SendAll(ctx context.Context, message string, turns []chat.Turn, image []byte) []chat.ProviderResult {
	prompt, citations := g.augment(ctx, message)

	type target struct {
		provider catalog.Provider
		model    string
	}

	var targets []target
	for _, p := range g.registry.List() {
		if !g.credentials.HasAPIKey(p) {
			continue
		}
		t, _ := g.registry.Get(p)
		if len(image) > 0 && !t.SupportsImages() {
			continue
		}
		targets = append(targets, target{provider: p, model: catalog.DefaultModel(p)})
	}

	resultCh := make(chan chat.ProviderResult, len(targets))

	var wg sync.WaitGroup
	for _, tgt := range targets {
		wg.Add(1)
		go func(tgt target) {
			defer wg.Done()

			text, err := g.dispatch(ctx, prompt, tgt.provider, tgt.model, turns, image)
			if err != nil {
				resultCh <- chat.NewFailedResult(tgt.provider, tgt.model, "Error: "+err.Error())
				return
			}
			resultCh <- chat.NewProviderResult(tgt.provider, tgt.model, text+citations)
		}(tgt)
	}

	wg.Wait()
	close(resultCh)

	results := make([]chat.ProviderResult, 0, len(targets))
	for r := range resultCh {
		results = append(results, r)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Provider.DisplayName() < results[j].Provider.DisplayName()
	})

	return results
}

func (g *Gateway) dispatch(ctx context.Context, message string, p catalog.Provider, model string, turns []chat.Turn, image []byte) (string, error) {
	t, ok := g.registry.Get(p)
	if !ok {
		return "", fmt.Errorf("no transport registered for provider %s", p)
	}

	key, ok := g.credentials.APIKey(p)
	if !ok {
		return "", fmt.Errorf("%s: %w", p, ErrMissingCredential)
	}

	req := transport.Request{
		Model:   catalog.APIModelID(p, model),
		APIKey:  key,
		System:  g.prompts.SystemPrompt(p),
		History: history.Project(p, turns),
		Message: message,
		Image:   image,
	}

	g.logger.Info("Dispatching request",
		"provider", p.DisplayName(),
		"model", req.Model,
		"history_len", len(req.History),
		"input_tokens", countTokens(message),
		"has_image", len(image) > 0,
	)

	text, err := t.Send(ctx, req)
	if err != nil {
		g.logger.Error("Dispatch failed", "provider", p.DisplayName(), "error", err)
		return "", err
	}

	g.logger.Info("Dispatch complete",
		"provider", p.DisplayName(),
		"output_tokens", countTokens(text),
	)

	return text, nil
}

func (g *Gateway) augment(ctx context.Context, message string) (prompt, citations string) {
	if g.searcher == nil || !g.searcher.ShouldSearch(message) {
		return message, ""
	}

	results, err := g.searcher.Search(ctx, message)
	if err != nil {
		g.logger.Warn("Web search failed, continuing without augmentation", "error", err)
		return message, ""
	}
	if len(results) == 0 {
		return message, ""
	}

	g.logger.Info("Augmenting message with search results", "results", len(results))

	return websearch.FormatContext(results) + message, websearch.FormatCitations(results)
}

func countTokens(text string) int {
	tke, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return 0
	}
	return len(tke.Encode(text, nil, nil))
}
