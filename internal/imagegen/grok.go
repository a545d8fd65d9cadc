package imagegen

import "context"

const grokDefaultEndpoint = "https://api.x.ai/v1/images/generations"

// Aurora speaks the same images-generations shape as DALL-E but rejects the
// size parameter, so it is never sent.
func (s *Service) generateGrok(ctx context.Context, prompt, apiKey string) ([]byte, error) {
	return s.generateImagesGenerations(ctx, s.GrokEndpoint, "grok", apiKey, imagesGenerationsRequest{
		Model:          "grok-2-image",
		Prompt:         prompt,
		N:              1,
		ResponseFormat: "b64_json",
	})
}
