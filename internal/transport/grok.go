package transport

import (
	"context"
	"net/http"

	"github.com/jdehlin/aigent/internal/catalog"
)

const grokDefaultEndpoint = "https://api.x.ai/v1/chat/completions"

// GrokTransport speaks the same chat-completions shape as OpenAI against the
// xAI endpoint. Grok has no vision support: image payloads are never encoded
// into the request, and the gateway skips Grok for image-bearing fan-out.
type GrokTransport struct {
	Endpoint   string
	HTTPClient *http.Client
}

func NewGrokTransport() *GrokTransport {
	return &GrokTransport{
		Endpoint:   grokDefaultEndpoint,
		HTTPClient: defaultHTTPClient(),
	}
}

func (t *GrokTransport) Provider() catalog.Provider {
	return catalog.Grok
}

func (t *GrokTransport) SupportsImages() bool {
	return false
}

func (t *GrokTransport) Send(ctx context.Context, req Request) (string, error) {
	return sendChatCompletions(ctx, t.HTTPClient, t.Endpoint, "grok", req, false)
}
