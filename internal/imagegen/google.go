package imagegen

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
)

const googleDefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

type imagenRequest struct {
	Instances  []imagenInstance `json:"instances"`
	Parameters imagenParameters `json:"parameters"`
}

type imagenInstance struct {
	Prompt string `json:"prompt"`
}

type imagenParameters struct {
	SampleCount int `json:"sampleCount"`
}

type imagenResponse struct {
	Predictions []struct {
		BytesBase64Encoded string `json:"bytesBase64Encoded"`
	} `json:"predictions"`
}

func (s *Service) generateGoogle(ctx context.Context, prompt, apiKey, model string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/%s:predict?key=%s", s.GoogleBaseURL, model, url.QueryEscape(apiKey))

	respBody, err := s.postJSON(ctx, endpoint, nil, imagenRequest{
		Instances:  []imagenInstance{{Prompt: prompt}},
		Parameters: imagenParameters{SampleCount: 1},
	})
	if err != nil {
		return nil, err
	}

	var resp imagenResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, invalidResponse("google", err.Error())
	}
	if len(resp.Predictions) == 0 || resp.Predictions[0].BytesBase64Encoded == "" {
		return nil, invalidResponse("google", "missing prediction data")
	}

	image, err := base64.StdEncoding.DecodeString(resp.Predictions[0].BytesBase64Encoded)
	if err != nil {
		return nil, invalidResponse("google", "malformed base64 image")
	}

	return image, nil
}
