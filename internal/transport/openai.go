package transport

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jdehlin/aigent/internal/catalog"
	"github.com/jdehlin/aigent/internal/history"
)

const openAIDefaultEndpoint = "https://api.openai.com/v1/chat/completions"

// OpenAITransport speaks the chat completions API: Bearer auth, system prompt
// as the first message, data-URI image blocks.
type OpenAITransport struct {
	Endpoint   string
	HTTPClient *http.Client
}

func NewOpenAITransport() *OpenAITransport {
	return &OpenAITransport{
		Endpoint:   openAIDefaultEndpoint,
		HTTPClient: defaultHTTPClient(),
	}
}

func (t *OpenAITransport) Provider() catalog.Provider {
	return catalog.OpenAI
}

func (t *OpenAITransport) SupportsImages() bool {
	return true
}

// Chat-completions wire types, shared with the Grok transport which speaks the
// same shape against a different endpoint.
type chatCompletionsRequest struct {
	Model    string                   `json:"model"`
	Messages []chatCompletionsMessage `json:"messages"`
}

type chatCompletionsMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"` // string or []chatCompletionsContentBlock
}

type chatCompletionsContentBlock struct {
	Type     string                   `json:"type"`
	Text     string                   `json:"text,omitempty"`
	ImageURL *chatCompletionsImageURL `json:"image_url,omitempty"`
}

type chatCompletionsImageURL struct {
	URL string `json:"url"`
}

type chatCompletionsResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func buildChatCompletionsMessages(req Request, withImage bool) []chatCompletionsMessage {
	messages := make([]chatCompletionsMessage, 0, len(req.History)+2)

	if req.System != "" {
		messages = append(messages, chatCompletionsMessage{Role: "system", Content: req.System})
	}

	for _, e := range req.History {
		messages = append(messages, chatCompletionsMessage{Role: string(e.Role), Content: e.Text})
	}

	if withImage && len(req.Image) > 0 {
		dataURI := fmt.Sprintf("data:%s;base64,%s",
			SniffImageMimeType(req.Image), base64.StdEncoding.EncodeToString(req.Image))
		messages = append(messages, chatCompletionsMessage{
			Role: string(history.RoleUser),
			Content: []chatCompletionsContentBlock{
				{Type: "image_url", ImageURL: &chatCompletionsImageURL{URL: dataURI}},
				{Type: "text", Text: req.Message},
			},
		})
	} else {
		messages = append(messages, chatCompletionsMessage{Role: string(history.RoleUser), Content: req.Message})
	}

	return messages
}

func sendChatCompletions(ctx context.Context, client *http.Client, endpoint, providerName string, req Request, withImage bool) (string, error) {
	body, err := json.Marshal(chatCompletionsRequest{
		Model:    req.Model,
		Messages: buildChatCompletionsMessages(req, withImage),
	})
	if err != nil {
		return "", err
	}

	headers := map[string]string{
		"Authorization": "Bearer " + req.APIKey,
	}

	respBody, err := postJSON(ctx, client, endpoint, headers, body)
	if err != nil {
		return "", err
	}

	var resp chatCompletionsResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", invalidResponse(providerName, err.Error())
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", invalidResponse(providerName, "missing message content")
	}

	return resp.Choices[0].Message.Content, nil
}

func (t *OpenAITransport) Send(ctx context.Context, req Request) (string, error) {
	return sendChatCompletions(ctx, t.HTTPClient, t.Endpoint, "openai", req, true)
}
