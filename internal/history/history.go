// Package history reconstructs a provider's linear view of a conversation.
//
// A fan-out turn represents N parallel answers to the same message. Replaying
// a conversation to provider X must select only X's own prior answer from such
// a turn; leaking another vendor's text would contaminate X's sense of its own
// exchange. Single-provider assistant turns from other vendors are dropped for
// the same reason.
package history

import (
	"github.com/jdehlin/aigent/internal/catalog"
	"github.com/jdehlin/aigent/internal/chat"
)

// Role tags one projected content block.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Exchange is one role-tagged content block of a provider's reconstructed
// history, ready to be mapped onto that provider's wire format.
type Exchange struct {
	Role Role
	Text string
}

// Project converts the full turn history into the target provider's linear
// exchange. User turns always pass through. Assistant turns contribute only
// when the target provider authored them; a provider that never answered in a
// stretch of the conversation simply sees those turns omitted.
func Project(target catalog.Provider, turns []chat.Turn) []Exchange {
	exchanges := make([]Exchange, 0, len(turns))

	for _, t := range turns {
		switch {
		case t.IsUser():
			exchanges = append(exchanges, Exchange{Role: RoleUser, Text: t.Text})
		case t.IsFanOut():
			if r, ok := t.ResultFor(target); ok {
				exchanges = append(exchanges, Exchange{Role: RoleAssistant, Text: r.Text})
			}
		case t.Provider == target:
			exchanges = append(exchanges, Exchange{Role: RoleAssistant, Text: t.Text})
		}
	}

	return exchanges
}
