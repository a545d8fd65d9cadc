package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdehlin/aigent/internal/catalog"
	"github.com/jdehlin/aigent/internal/chat"
	"github.com/jdehlin/aigent/internal/gateway"
	"github.com/jdehlin/aigent/internal/transport"
)

type stubTransport struct {
	provider catalog.Provider
	reply    string
	err      error
}

func (s *stubTransport) Provider() catalog.Provider { return s.provider }
func (s *stubTransport) SupportsImages() bool       { return true }

func (s *stubTransport) Send(context.Context, transport.Request) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

type stubCredentials map[catalog.Provider]string

func (c stubCredentials) APIKey(p catalog.Provider) (string, bool) {
	key, ok := c[p]
	return key, ok
}

func (c stubCredentials) HasAPIKey(p catalog.Provider) bool {
	_, ok := c[p]
	return ok
}

func (c stubCredentials) SystemPrompt(catalog.Provider) string { return "" }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestAskHandler(t *testing.T, transports []*stubTransport, creds stubCredentials) (*AskHandler, *chat.Store) {
	t.Helper()

	registry := transport.NewRegistry()
	for _, tr := range transports {
		registry.Register(tr)
	}

	gw := gateway.New(registry, creds, creds, testLogger())
	store := chat.NewStore(t.TempDir())

	return NewAskHandler(gw, store, testLogger()), store
}

func postAsk(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/ask", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAskHandler_Single(t *testing.T) {
	h, _ := newTestAskHandler(t,
		[]*stubTransport{{provider: catalog.Anthropic, reply: "hello"}},
		stubCredentials{catalog.Anthropic: "k"})

	rec := postAsk(t, h.Single(), `{"message":"hi","provider":"Anthropic"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "hello", resp["text"])
	assert.Equal(t, "Anthropic", resp["provider"])
	assert.Equal(t, catalog.DefaultModel(catalog.Anthropic), resp["model"])
	assert.NotContains(t, resp, "conversation_id")
}

func TestAskHandler_Single_UnknownProvider(t *testing.T) {
	h, _ := newTestAskHandler(t, nil, stubCredentials{})

	rec := postAsk(t, h.Single(), `{"message":"hi","provider":"bard"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAskHandler_Single_MissingMessage(t *testing.T) {
	h, _ := newTestAskHandler(t, nil, stubCredentials{})

	rec := postAsk(t, h.Single(), `{"provider":"Anthropic"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAskHandler_Single_MissingCredential(t *testing.T) {
	h, _ := newTestAskHandler(t,
		[]*stubTransport{{provider: catalog.Anthropic, reply: "unused"}},
		stubCredentials{})

	rec := postAsk(t, h.Single(), `{"message":"hi","provider":"Anthropic"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAskHandler_Single_MethodNotAllowed(t *testing.T) {
	h, _ := newTestAskHandler(t, nil, stubCredentials{})

	req := httptest.NewRequest(http.MethodGet, "/v1/ask", nil)
	rec := httptest.NewRecorder()
	h.Single().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestAskHandler_Single_NewConversationPersists(t *testing.T) {
	h, store := newTestAskHandler(t,
		[]*stubTransport{{provider: catalog.Anthropic, reply: "hello"}},
		stubCredentials{catalog.Anthropic: "k"})

	rec := postAsk(t, h.Single(), `{"message":"first question","provider":"Anthropic","conversation_id":"new"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	id, ok := resp["conversation_id"].(string)
	require.True(t, ok)

	conversations, err := store.List()
	require.NoError(t, err)
	require.Len(t, conversations, 1)
	assert.Equal(t, id, conversations[0].ID.String())
	assert.Equal(t, "first question", conversations[0].Title)

	require.Len(t, conversations[0].Turns, 2)
	assert.True(t, conversations[0].Turns[0].IsUser())
	assert.Equal(t, "hello", conversations[0].Turns[1].Text)
	assert.Equal(t, catalog.Anthropic, conversations[0].Turns[1].Provider)
}

func TestAskHandler_Single_UnknownConversation(t *testing.T) {
	h, _ := newTestAskHandler(t,
		[]*stubTransport{{provider: catalog.Anthropic, reply: "hello"}},
		stubCredentials{catalog.Anthropic: "k"})

	rec := postAsk(t, h.Single(), `{"message":"hi","provider":"Anthropic","conversation_id":"1b671a64-40d5-491e-99b0-da01ff1f3341"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAskHandler_FanOut(t *testing.T) {
	h, store := newTestAskHandler(t,
		[]*stubTransport{
			{provider: catalog.Anthropic, reply: "from claude"},
			{provider: catalog.OpenAI, err: assert.AnError},
		},
		stubCredentials{catalog.Anthropic: "k", catalog.OpenAI: "k"})

	req := httptest.NewRequest(http.MethodPost, "/v1/ask/all",
		strings.NewReader(`{"message":"compare","conversation_id":"new"}`))
	rec := httptest.NewRecorder()
	h.FanOut().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Results        []chat.ProviderResult `json:"results"`
		ConversationID string                `json:"conversation_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 2)

	assert.Equal(t, catalog.Anthropic, resp.Results[0].Provider)
	assert.False(t, resp.Results[0].Failed)
	assert.Equal(t, "from claude", resp.Results[0].Text)

	assert.Equal(t, catalog.OpenAI, resp.Results[1].Provider)
	assert.True(t, resp.Results[1].Failed)

	conversations, err := store.List()
	require.NoError(t, err)
	require.Len(t, conversations, 1)
	require.Len(t, conversations[0].Turns, 2)
	assert.True(t, conversations[0].Turns[1].IsFanOut())
}
