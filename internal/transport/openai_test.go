package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdehlin/aigent/internal/history"
)

func newTestOpenAITransport(serverURL string) *OpenAITransport {
	t := NewOpenAITransport()
	t.Endpoint = serverURL
	return t
}

func TestOpenAITransport_Send(t *testing.T) {
	var captured struct {
		auth string
		body map[string]any
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.auth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured.body))

		w.Write([]byte(`{"choices":[{"message":{"content":"Hello from GPT"}}]}`))
	}))
	defer server.Close()

	transport := newTestOpenAITransport(server.URL)
	text, err := transport.Send(context.Background(), Request{
		Model:  "gpt-4.1",
		APIKey: "sk-test",
		System: "Be helpful.",
		History: []history.Exchange{
			{Role: history.RoleUser, Text: "Hi"},
			{Role: history.RoleAssistant, Text: "Hello"},
		},
		Message: "How are you?",
	})

	require.NoError(t, err)
	assert.Equal(t, "Hello from GPT", text)
	assert.Equal(t, "Bearer sk-test", captured.auth)
	assert.Equal(t, "gpt-4.1", captured.body["model"])

	messages := captured.body["messages"].([]any)
	require.Len(t, messages, 4)

	system := messages[0].(map[string]any)
	assert.Equal(t, "system", system["role"])
	assert.Equal(t, "Be helpful.", system["content"])

	assert.Equal(t, "user", messages[1].(map[string]any)["role"])
	assert.Equal(t, "assistant", messages[2].(map[string]any)["role"])

	last := messages[3].(map[string]any)
	assert.Equal(t, "user", last["role"])
	assert.Equal(t, "How are you?", last["content"])
}

func TestOpenAITransport_Send_Image(t *testing.T) {
	var captured map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured))
		w.Write([]byte(`{"choices":[{"message":{"content":"A picture"}}]}`))
	}))
	defer server.Close()

	transport := newTestOpenAITransport(server.URL)
	_, err := transport.Send(context.Background(), Request{
		Model:   "gpt-4o",
		APIKey:  "sk-test",
		Message: "What is this?",
		Image:   []byte{0xFF, 0xD8, 0xFF, 0xE0},
	})
	require.NoError(t, err)

	messages := captured["messages"].([]any)
	require.Len(t, messages, 1)
	blocks := messages[0].(map[string]any)["content"].([]any)
	require.Len(t, blocks, 2)

	imageBlock := blocks[0].(map[string]any)
	assert.Equal(t, "image_url", imageBlock["type"])
	url := imageBlock["image_url"].(map[string]any)["url"].(string)
	assert.True(t, strings.HasPrefix(url, "data:image/jpeg;base64,"))

	textBlock := blocks[1].(map[string]any)
	assert.Equal(t, "text", textBlock["type"])
	assert.Equal(t, "What is this?", textBlock["text"])
}

func TestOpenAITransport_Send_NoSystemPrompt(t *testing.T) {
	var captured map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured))
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer server.Close()

	transport := newTestOpenAITransport(server.URL)
	_, err := transport.Send(context.Background(), Request{Model: "gpt-4o", APIKey: "k", Message: "hi"})
	require.NoError(t, err)

	messages := captured["messages"].([]any)
	require.Len(t, messages, 1)
	assert.Equal(t, "user", messages[0].(map[string]any)["role"])
}

func TestOpenAITransport_Send_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"invalid key"}}`))
	}))
	defer server.Close()

	transport := newTestOpenAITransport(server.URL)
	_, err := transport.Send(context.Background(), Request{Model: "m", APIKey: "k", Message: "hi"})

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
}

func TestOpenAITransport_Send_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	transport := newTestOpenAITransport(server.URL)
	_, err := transport.Send(context.Background(), Request{Model: "m", APIKey: "k", Message: "hi"})

	assert.True(t, errors.Is(err, ErrInvalidResponse))
}
