package catalog

// Provider identifies one of the supported LLM vendors. The value doubles as
// the user-facing display name and is stable across releases.
type Provider string

const (
	Anthropic Provider = "Anthropic"
	Google    Provider = "Google"
	Grok      Provider = "Grok"
	OpenAI    Provider = "OpenAI"
)

// All returns every supported provider in a stable order.
func All() []Provider {
	return []Provider{Anthropic, Google, Grok, OpenAI}
}

// DisplayName returns the human-readable provider name.
func (p Provider) DisplayName() string {
	return string(p)
}

// Icon returns a presentation-only tag for UI layers.
func (p Provider) Icon() string {
	switch p {
	case Anthropic:
		return "sparkles"
	case Google:
		return "g.circle"
	case Grok:
		return "x.circle"
	case OpenAI:
		return "brain.head.profile"
	default:
		return "questionmark.circle"
	}
}

// Valid reports whether p is one of the supported providers.
func (p Provider) Valid() bool {
	switch p {
	case Anthropic, Google, Grok, OpenAI:
		return true
	}
	return false
}

// modelEntry pairs a display name with the vendor's wire-level model id.
type modelEntry struct {
	display string
	apiID   string
}

// The first entry per provider is its default model: it is what fan-out
// dispatch uses and what APIModelID falls back to for unrecognized names.
var models = map[Provider][]modelEntry{
	Anthropic: {
		{"Claude Opus 4.6", "claude-opus-4-6-20260205"},
		{"Claude Sonnet 4.5", "claude-sonnet-4-5-20250929"},
		{"Claude Opus 4.1", "claude-opus-4-1-20250805"},
	},
	OpenAI: {
		{"GPT-4.1", "gpt-4.1"},
		{"GPT-4.1 Mini", "gpt-4.1-mini"},
		{"GPT-4o", "gpt-4o"},
		{"GPT-4o Mini", "gpt-4o-mini"},
	},
	Google: {
		{"Gemini 2.5 Flash", "gemini-2.5-flash"},
		{"Gemini 2.5 Pro", "gemini-2.5-pro"},
		{"Gemini 3 Flash", "gemini-3-flash-preview"},
	},
	Grok: {
		{"Grok 4.1 Fast", "grok-4-1-fast"},
		{"Grok 4", "grok-4-0709"},
		{"Grok 3", "grok-3-beta"},
	},
}

// Models returns the ordered list of selectable model display names for p.
func Models(p Provider) []string {
	entries := models[p]
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.display)
	}
	return names
}

// DefaultModel returns the display name of the provider's primary model.
func DefaultModel(p Provider) string {
	entries := models[p]
	if len(entries) == 0 {
		return ""
	}
	return entries[0].display
}

// APIModelID maps a model display name to the vendor's API model identifier.
// Unrecognized names map to the provider's default model, so the result is
// never empty for a supported provider.
func APIModelID(p Provider, display string) string {
	entries := models[p]
	if len(entries) == 0 {
		return ""
	}
	for _, e := range entries {
		if e.display == display {
			return e.apiID
		}
	}
	return entries[0].apiID
}
