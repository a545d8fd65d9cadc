package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdehlin/aigent/internal/catalog"
	"github.com/jdehlin/aigent/internal/chat"
)

func TestProject_UserTurnsAlwaysPass(t *testing.T) {
	turns := []chat.Turn{
		chat.NewUserTurn("first", nil),
		chat.NewUserTurn("second", nil),
	}

	exchanges := Project(catalog.OpenAI, turns)
	require.Len(t, exchanges, 2)
	assert.Equal(t, RoleUser, exchanges[0].Role)
	assert.Equal(t, "first", exchanges[0].Text)
	assert.Equal(t, "second", exchanges[1].Text)
}

func TestProject_OtherProviderAssistantTurnsDropped(t *testing.T) {
	turns := []chat.Turn{
		chat.NewUserTurn("hi", nil),
		chat.NewAssistantTurn("from claude", catalog.Anthropic, "Claude Opus 4.6"),
	}

	exchanges := Project(catalog.Google, turns)
	require.Len(t, exchanges, 1)
	assert.Equal(t, RoleUser, exchanges[0].Role)

	own := Project(catalog.Anthropic, turns)
	require.Len(t, own, 2)
	assert.Equal(t, RoleAssistant, own[1].Role)
	assert.Equal(t, "from claude", own[1].Text)
}

func TestProject_FanOutSelectsOwnResult(t *testing.T) {
	turns := []chat.Turn{
		chat.NewUserTurn("compare yourselves", nil),
		chat.NewFanOutTurn([]chat.ProviderResult{
			chat.NewProviderResult(catalog.Anthropic, "Claude Opus 4.6", "claude says"),
			chat.NewProviderResult(catalog.Google, "Gemini 2.5 Flash", "gemini says"),
		}),
		chat.NewUserTurn("and now?", nil),
	}

	google := Project(catalog.Google, turns)
	require.Len(t, google, 3)
	assert.Equal(t, "gemini says", google[1].Text)
	assert.Equal(t, RoleAssistant, google[1].Role)

	// A provider absent from the round sees the fan-out turn omitted.
	openai := Project(catalog.OpenAI, turns)
	require.Len(t, openai, 2)
	assert.Equal(t, "compare yourselves", openai[0].Text)
	assert.Equal(t, "and now?", openai[1].Text)
}

func TestProject_Empty(t *testing.T) {
	assert.Empty(t, Project(catalog.Anthropic, nil))
}
