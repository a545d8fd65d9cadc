package transport

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/jdehlin/aigent/internal/catalog"
	"github.com/jdehlin/aigent/internal/history"
)

const (
	anthropicDefaultEndpoint = "https://api.anthropic.com/v1/messages"
	anthropicVersion         = "2023-06-01"
	anthropicMaxTokens       = 4096
)

// AnthropicTransport speaks the Anthropic Messages API: custom key header,
// top-level system field, content blocks with base64 image sources.
type AnthropicTransport struct {
	Endpoint   string
	HTTPClient *http.Client
}

func NewAnthropicTransport() *AnthropicTransport {
	return &AnthropicTransport{
		Endpoint:   anthropicDefaultEndpoint,
		HTTPClient: defaultHTTPClient(),
	}
}

func (t *AnthropicTransport) Provider() catalog.Provider {
	return catalog.Anthropic
}

func (t *AnthropicTransport) SupportsImages() bool {
	return true
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"` // string or []anthropicContentBlock
}

type anthropicContentBlock struct {
	Type   string                `json:"type"`
	Text   string                `json:"text,omitempty"`
	Source *anthropicImageSource `json:"source,omitempty"`
}

type anthropicImageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (t *AnthropicTransport) Send(ctx context.Context, req Request) (string, error) {
	messages := make([]anthropicMessage, 0, len(req.History)+1)
	for _, e := range req.History {
		messages = append(messages, anthropicMessage{Role: string(e.Role), Content: e.Text})
	}

	if len(req.Image) > 0 {
		messages = append(messages, anthropicMessage{
			Role: string(history.RoleUser),
			Content: []anthropicContentBlock{
				{
					Type: "image",
					Source: &anthropicImageSource{
						Type:      "base64",
						MediaType: SniffImageMimeType(req.Image),
						Data:      base64.StdEncoding.EncodeToString(req.Image),
					},
				},
				{Type: "text", Text: req.Message},
			},
		})
	} else {
		messages = append(messages, anthropicMessage{Role: string(history.RoleUser), Content: req.Message})
	}

	body, err := json.Marshal(anthropicRequest{
		Model:     req.Model,
		MaxTokens: anthropicMaxTokens,
		System:    req.System,
		Messages:  messages,
	})
	if err != nil {
		return "", err
	}

	headers := map[string]string{
		"x-api-key":         req.APIKey,
		"anthropic-version": anthropicVersion,
	}

	respBody, err := postJSON(ctx, t.HTTPClient, t.Endpoint, headers, body)
	if err != nil {
		return "", err
	}

	var resp anthropicResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", invalidResponse("anthropic", err.Error())
	}
	if len(resp.Content) == 0 || resp.Content[0].Text == "" {
		return "", invalidResponse("anthropic", "missing content text")
	}

	return resp.Content[0].Text, nil
}
