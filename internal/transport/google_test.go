package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdehlin/aigent/internal/history"
)

func newTestGoogleTransport(serverURL string) *GoogleTransport {
	t := NewGoogleTransport()
	t.BaseURL = serverURL
	return t
}

func TestGoogleTransport_Send(t *testing.T) {
	var captured struct {
		path  string
		query string
		body  map[string]any
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.path = r.URL.Path
		captured.query = r.URL.Query().Get("key")
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured.body))

		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Hello from Gemini"}]}}]}`))
	}))
	defer server.Close()

	transport := newTestGoogleTransport(server.URL)
	text, err := transport.Send(context.Background(), Request{
		Model:  "gemini-2.5-flash",
		APIKey: "g-test",
		System: "Be brief.",
		History: []history.Exchange{
			{Role: history.RoleUser, Text: "Hi"},
			{Role: history.RoleAssistant, Text: "Hello"},
		},
		Message: "How are you?",
	})

	require.NoError(t, err)
	assert.Equal(t, "Hello from Gemini", text)
	assert.Equal(t, "/gemini-2.5-flash:generateContent", captured.path)
	assert.Equal(t, "g-test", captured.query)

	contents := captured.body["contents"].([]any)
	require.Len(t, contents, 3)
	assert.Equal(t, "user", contents[0].(map[string]any)["role"])
	assert.Equal(t, "model", contents[1].(map[string]any)["role"])

	last := contents[2].(map[string]any)
	assert.Equal(t, "user", last["role"])
	parts := last["parts"].([]any)
	require.Len(t, parts, 1)
	assert.Equal(t, "How are you?", parts[0].(map[string]any)["text"])

	instruction := captured.body["systemInstruction"].(map[string]any)
	instructionParts := instruction["parts"].([]any)
	require.Len(t, instructionParts, 1)
	assert.Equal(t, "Be brief.", instructionParts[0].(map[string]any)["text"])
}

func TestGoogleTransport_Send_Image(t *testing.T) {
	var captured map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured))
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"A picture"}]}}]}`))
	}))
	defer server.Close()

	transport := newTestGoogleTransport(server.URL)
	_, err := transport.Send(context.Background(), Request{
		Model:   "gemini-2.5-pro",
		APIKey:  "g-test",
		Message: "What is this?",
		Image:   []byte{0x47, 0x49, 0x46, 0x38, 0x39, 0x61},
	})
	require.NoError(t, err)

	contents := captured["contents"].([]any)
	require.Len(t, contents, 1)
	parts := contents[0].(map[string]any)["parts"].([]any)
	require.Len(t, parts, 2)

	inline := parts[0].(map[string]any)["inlineData"].(map[string]any)
	assert.Equal(t, "image/gif", inline["mimeType"])
	assert.NotEmpty(t, inline["data"])

	assert.Equal(t, "What is this?", parts[1].(map[string]any)["text"])

	_, hasInstruction := captured["systemInstruction"]
	assert.False(t, hasInstruction, "systemInstruction should be omitted when unset")
}

func TestGoogleTransport_Send_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"bad key"}}`))
	}))
	defer server.Close()

	transport := newTestGoogleTransport(server.URL)
	_, err := transport.Send(context.Background(), Request{Model: "m", APIKey: "k", Message: "hi"})

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.StatusCode)
}

func TestGoogleTransport_Send_EmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	transport := newTestGoogleTransport(server.URL)
	_, err := transport.Send(context.Background(), Request{Model: "m", APIKey: "k", Message: "hi"})

	assert.True(t, errors.Is(err, ErrInvalidResponse))
}
