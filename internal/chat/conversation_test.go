package chat

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdehlin/aigent/internal/catalog"
)

func TestConversation_TitleFromFirstUserTurn(t *testing.T) {
	c := NewConversation()
	assert.Equal(t, "New Chat", c.Title)

	c.Append(NewUserTurn("What is the capital of France?", nil))
	assert.Equal(t, "What is the capital of France?", c.Title)

	c.Append(NewUserTurn("Another question entirely", nil))
	assert.Equal(t, "What is the capital of France?", c.Title, "title derives from the first user turn only")
}

func TestConversation_TitleTruncation(t *testing.T) {
	long := strings.Repeat("a", 80)

	c := NewConversation()
	c.Append(NewUserTurn(long, nil))

	runes := []rune(c.Title)
	assert.Len(t, runes, 51)
	assert.Equal(t, strings.Repeat("a", 50)+"…", c.Title)
}

func TestConversation_TitleShortMessageUnchanged(t *testing.T) {
	c := NewConversation()
	c.Append(NewUserTurn("short message", nil))

	assert.Equal(t, "short message", c.Title)
}

func TestConversation_TitleSkipsAssistantTurns(t *testing.T) {
	c := NewConversation()
	c.Append(NewAssistantTurn("assistant first", catalog.OpenAI, "GPT-4o"))
	assert.Equal(t, "New Chat", c.Title)

	c.Append(NewUserTurn("user arrives later", nil))
	assert.Equal(t, "user arrives later", c.Title)
}

func TestConversation_AppendBumpsUpdatedAt(t *testing.T) {
	c := NewConversation()
	before := c.UpdatedAt

	time.Sleep(time.Millisecond)
	c.Append(NewUserTurn("hi", nil))

	assert.True(t, c.UpdatedAt.After(before))
	require.Len(t, c.Turns, 1)
}

func TestTurn_Kinds(t *testing.T) {
	user := NewUserTurn("hi", nil)
	assert.True(t, user.IsUser())
	assert.False(t, user.IsFanOut())

	assistant := NewAssistantTurn("hello", catalog.Anthropic, "Claude Opus 4.6")
	assert.False(t, assistant.IsUser())
	assert.False(t, assistant.IsFanOut())
	assert.Equal(t, catalog.Anthropic, assistant.Provider)

	fanOut := NewFanOutTurn([]ProviderResult{
		NewProviderResult(catalog.Anthropic, "Claude Opus 4.6", "a"),
		NewFailedResult(catalog.Grok, "Grok 4.1 Fast", "Error: boom"),
	})
	assert.False(t, fanOut.IsUser())
	assert.True(t, fanOut.IsFanOut())
}

func TestTurn_ResultFor(t *testing.T) {
	fanOut := NewFanOutTurn([]ProviderResult{
		NewProviderResult(catalog.Anthropic, "Claude Opus 4.6", "from claude"),
		NewProviderResult(catalog.Google, "Gemini 2.5 Flash", "from gemini"),
	})

	r, ok := fanOut.ResultFor(catalog.Google)
	require.True(t, ok)
	assert.Equal(t, "from gemini", r.Text)

	_, ok = fanOut.ResultFor(catalog.Grok)
	assert.False(t, ok)
}

func TestNewFailedResult(t *testing.T) {
	r := NewFailedResult(catalog.OpenAI, "GPT-4.1", "Error: timeout")

	assert.True(t, r.Failed)
	assert.Equal(t, "Error: timeout", r.Text)
	assert.NotEqual(t, "", r.ID.String())
}

func TestConversation_UsedProviders(t *testing.T) {
	c := NewConversation()
	c.Append(NewUserTurn("hi", nil))
	c.Append(NewAssistantTurn("hello", catalog.Anthropic, "Claude Opus 4.6"))
	c.Append(NewFanOutTurn([]ProviderResult{
		NewProviderResult(catalog.Google, "Gemini 2.5 Flash", "g"),
		NewProviderResult(catalog.OpenAI, "GPT-4.1", "o"),
	}))

	used := c.UsedProviders()
	assert.True(t, used[catalog.Anthropic])
	assert.True(t, used[catalog.Google])
	assert.True(t, used[catalog.OpenAI])
	assert.False(t, used[catalog.Grok])
}
