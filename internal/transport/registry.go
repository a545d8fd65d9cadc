package transport

import (
	"github.com/jdehlin/aigent/internal/catalog"
)

// Registry manages transport instances keyed by provider.
type Registry struct {
	transports map[catalog.Provider]Transport
}

func NewRegistry() *Registry {
	return &Registry{
		transports: make(map[catalog.Provider]Transport),
	}
}

// Register adds a transport to the registry, replacing any previous transport
// for the same provider.
func (r *Registry) Register(t Transport) {
	r.transports[t.Provider()] = t
}

// Get retrieves the transport for a provider.
func (r *Registry) Get(p catalog.Provider) (Transport, bool) {
	t, exists := r.transports[p]
	return t, exists
}

// List returns the providers with a registered transport, in catalog order.
func (r *Registry) List() []catalog.Provider {
	providers := make([]catalog.Provider, 0, len(r.transports))
	for _, p := range catalog.All() {
		if _, exists := r.transports[p]; exists {
			providers = append(providers, p)
		}
	}
	return providers
}

// Initialize registers all built-in vendor transports.
func (r *Registry) Initialize() {
	r.Register(NewAnthropicTransport())
	r.Register(NewOpenAITransport())
	r.Register(NewGoogleTransport())
	r.Register(NewGrokTransport())
}
