package transport

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/jdehlin/aigent/internal/catalog"
	"github.com/jdehlin/aigent/internal/history"
)

const googleDefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// GoogleTransport speaks the Gemini generateContent API: key as query
// parameter, contents with user/model roles, inlineData image parts, top-level
// systemInstruction.
type GoogleTransport struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewGoogleTransport() *GoogleTransport {
	return &GoogleTransport{
		BaseURL:    googleDefaultBaseURL,
		HTTPClient: defaultHTTPClient(),
	}
}

func (t *GoogleTransport) Provider() catalog.Provider {
	return catalog.Google
}

func (t *GoogleTransport) SupportsImages() bool {
	return true
}

type googleRequest struct {
	Contents          []googleContent `json:"contents"`
	SystemInstruction *googleContent  `json:"systemInstruction,omitempty"`
}

type googleContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []googlePart `json:"parts"`
}

type googlePart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *googleInlineData `json:"inlineData,omitempty"`
}

type googleInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type googleResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// googleRole maps the internal assistant role onto Gemini's "model" role.
func googleRole(r history.Role) string {
	if r == history.RoleAssistant {
		return "model"
	}
	return "user"
}

func (t *GoogleTransport) Send(ctx context.Context, req Request) (string, error) {
	contents := make([]googleContent, 0, len(req.History)+1)
	for _, e := range req.History {
		contents = append(contents, googleContent{
			Role:  googleRole(e.Role),
			Parts: []googlePart{{Text: e.Text}},
		})
	}

	if len(req.Image) > 0 {
		contents = append(contents, googleContent{
			Role: "user",
			Parts: []googlePart{
				{InlineData: &googleInlineData{
					MimeType: SniffImageMimeType(req.Image),
					Data:     base64.StdEncoding.EncodeToString(req.Image),
				}},
				{Text: req.Message},
			},
		})
	} else {
		contents = append(contents, googleContent{
			Role:  "user",
			Parts: []googlePart{{Text: req.Message}},
		})
	}

	request := googleRequest{Contents: contents}
	if req.System != "" {
		request.SystemInstruction = &googleContent{Parts: []googlePart{{Text: req.System}}}
	}

	body, err := json.Marshal(request)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/%s:generateContent?key=%s", t.BaseURL, req.Model, url.QueryEscape(req.APIKey))

	respBody, err := postJSON(ctx, t.HTTPClient, endpoint, nil, body)
	if err != nil {
		return "", err
	}

	var resp googleResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", invalidResponse("google", err.Error())
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 || resp.Candidates[0].Content.Parts[0].Text == "" {
		return "", invalidResponse("google", "missing candidate text")
	}

	return resp.Candidates[0].Content.Parts[0].Text, nil
}
