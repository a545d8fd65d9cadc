package imagegen

import (
	"context"
	"encoding/base64"
	"encoding/json"
)

const (
	openAIDefaultEndpoint = "https://api.openai.com/v1/images/generations"
	dalleImageSize        = "1024x1024"
)

// Images-generations wire types, shared with the Grok path which speaks the
// same shape against the xAI endpoint.
type imagesGenerationsRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size,omitempty"`
	ResponseFormat string `json:"response_format"`
}

type imagesGenerationsResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

func (s *Service) generateImagesGenerations(ctx context.Context, endpoint, providerName, apiKey string, req imagesGenerationsRequest) ([]byte, error) {
	headers := map[string]string{
		"Authorization": "Bearer " + apiKey,
	}

	respBody, err := s.postJSON(ctx, endpoint, headers, req)
	if err != nil {
		return nil, err
	}

	var resp imagesGenerationsResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, invalidResponse(providerName, err.Error())
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, invalidResponse(providerName, "missing image data")
	}

	image, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, invalidResponse(providerName, "malformed base64 image")
	}

	return image, nil
}

func (s *Service) generateOpenAI(ctx context.Context, prompt, apiKey string) ([]byte, error) {
	return s.generateImagesGenerations(ctx, s.OpenAIEndpoint, "openai", apiKey, imagesGenerationsRequest{
		Model:          "dall-e-3",
		Prompt:         prompt,
		N:              1,
		Size:           dalleImageSize,
		ResponseFormat: "b64_json",
	})
}
