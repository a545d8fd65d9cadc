package transport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrokTransport_Send(t *testing.T) {
	var captured struct {
		auth string
		body map[string]any
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.auth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured.body))

		w.Write([]byte(`{"choices":[{"message":{"content":"Hello from Grok"}}]}`))
	}))
	defer server.Close()

	transport := NewGrokTransport()
	transport.Endpoint = server.URL

	text, err := transport.Send(context.Background(), Request{
		Model:   "grok-4-1-fast",
		APIKey:  "xai-test",
		Message: "How are you?",
	})

	require.NoError(t, err)
	assert.Equal(t, "Hello from Grok", text)
	assert.Equal(t, "Bearer xai-test", captured.auth)
	assert.Equal(t, "grok-4-1-fast", captured.body["model"])
}

func TestGrokTransport_Send_ImageOmitted(t *testing.T) {
	var captured map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured))
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer server.Close()

	transport := NewGrokTransport()
	transport.Endpoint = server.URL

	_, err := transport.Send(context.Background(), Request{
		Model:   "grok-4-0709",
		APIKey:  "xai-test",
		Message: "What is this?",
		Image:   []byte{0x89, 0x50, 0x4E, 0x47},
	})
	require.NoError(t, err)

	messages := captured["messages"].([]any)
	require.Len(t, messages, 1)
	content := messages[0].(map[string]any)["content"]
	assert.Equal(t, "What is this?", content, "image payload must not be encoded")
}

func TestGrokTransport_SupportsImages(t *testing.T) {
	assert.False(t, NewGrokTransport().SupportsImages())
}
