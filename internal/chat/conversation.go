package chat

import (
	"time"

	"github.com/google/uuid"

	"github.com/jdehlin/aigent/internal/catalog"
)

// Role marks the author of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

const (
	defaultTitle  = "New Chat"
	titleMaxRunes = 50
)

// ProviderResult is one vendor's answer within a fan-out turn. Text always
// holds the user-facing rendering; when the dispatch failed, Failed is set and
// Text carries the rendered error string instead of an answer.
type ProviderResult struct {
	ID        uuid.UUID        `json:"id"`
	Provider  catalog.Provider `json:"provider"`
	Model     string           `json:"model"`
	Text      string           `json:"text"`
	Failed    bool             `json:"failed,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// NewProviderResult builds a successful result for a fan-out turn.
func NewProviderResult(p catalog.Provider, model, text string) ProviderResult {
	return ProviderResult{
		ID:        uuid.New(),
		Provider:  p,
		Model:     model,
		Text:      text,
		Timestamp: time.Now(),
	}
}

// NewFailedResult builds a result that records a per-provider dispatch error.
func NewFailedResult(p catalog.Provider, model, text string) ProviderResult {
	r := NewProviderResult(p, model, text)
	r.Failed = true
	return r
}

// Turn is one entry in a conversation. A turn is exactly one of: a user turn,
// a single-provider assistant turn, or a fan-out assistant turn. Provider and
// Results are never populated together.
type Turn struct {
	ID        uuid.UUID        `json:"id"`
	Text      string           `json:"text"`
	Role      Role             `json:"role"`
	Timestamp time.Time        `json:"timestamp"`
	Image     []byte           `json:"image,omitempty"`
	Provider  catalog.Provider `json:"provider,omitempty"`
	Model     string           `json:"model,omitempty"`
	Results   []ProviderResult `json:"results,omitempty"`
}

// NewUserTurn builds a user turn with optional image payload. The turn takes
// ownership of the image bytes.
func NewUserTurn(text string, image []byte) Turn {
	return Turn{
		ID:        uuid.New(),
		Text:      text,
		Role:      RoleUser,
		Timestamp: time.Now(),
		Image:     image,
	}
}

// NewAssistantTurn builds a single-provider assistant turn.
func NewAssistantTurn(text string, p catalog.Provider, model string) Turn {
	return Turn{
		ID:        uuid.New(),
		Text:      text,
		Role:      RoleAssistant,
		Timestamp: time.Now(),
		Provider:  p,
		Model:     model,
	}
}

// NewFanOutTurn builds an assistant turn holding one result per provider from
// a fan-out dispatch round.
func NewFanOutTurn(results []ProviderResult) Turn {
	return Turn{
		ID:        uuid.New(),
		Role:      RoleAssistant,
		Timestamp: time.Now(),
		Results:   results,
	}
}

// IsUser reports whether the turn was authored by the user.
func (t Turn) IsUser() bool {
	return t.Role == RoleUser
}

// IsFanOut reports whether the turn holds multiple provider results.
func (t Turn) IsFanOut() bool {
	return len(t.Results) > 0
}

// ResultFor returns the fan-out result authored by p, if any.
func (t Turn) ResultFor(p catalog.Provider) (ProviderResult, bool) {
	for _, r := range t.Results {
		if r.Provider == p {
			return r, true
		}
	}
	return ProviderResult{}, false
}

// Conversation is an append-only ordered sequence of turns.
type Conversation struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Turns     []Turn    `json:"turns"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewConversation creates an empty conversation with the placeholder title.
func NewConversation() Conversation {
	now := time.Now()
	return Conversation{
		ID:        uuid.New(),
		Title:     defaultTitle,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Append adds a turn and bumps UpdatedAt. The title is derived from the first
// user turn once it arrives.
func (c *Conversation) Append(t Turn) {
	c.Turns = append(c.Turns, t)
	c.UpdatedAt = time.Now()
	c.deriveTitle()
}

// UsedProviders returns every provider that has answered in this conversation.
func (c *Conversation) UsedProviders() map[catalog.Provider]bool {
	used := make(map[catalog.Provider]bool)
	for _, t := range c.Turns {
		if t.Provider != "" {
			used[t.Provider] = true
		}
		for _, r := range t.Results {
			used[r.Provider] = true
		}
	}
	return used
}

func (c *Conversation) deriveTitle() {
	if c.Title != defaultTitle {
		return
	}
	for _, t := range c.Turns {
		if !t.IsUser() {
			continue
		}
		runes := []rune(t.Text)
		if len(runes) > titleMaxRunes {
			c.Title = string(runes[:titleMaxRunes]) + "…"
		} else {
			c.Title = t.Text
		}
		return
	}
}
