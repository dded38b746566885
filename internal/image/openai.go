package image

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// OpenAIGenerator generates illustrations with DALL-E. It is used as
// fallback when the primary provider cannot return an image.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
	size   string
}

// NewOpenAIGenerator creates a DALL-E backed generator.
func NewOpenAIGenerator(apiKey, model, size string) (*OpenAIGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if model == "" {
		model = openai.CreateImageModelDallE3
	}
	if size == "" {
		size = openai.CreateImageSize1024x1024
	}
	return &OpenAIGenerator{
		client: openai.NewClient(apiKey),
		model:  model,
		size:   size,
	}, nil
}

// Generate implements Generator.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (*Illustration, error) {
	resp, err := g.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt + StyleSuffix,
		Model:          g.model,
		Size:           g.size,
		N:              1,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI image API error: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, fmt.Errorf("no image data received from OpenAI")
	}

	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image data: %w", err)
	}

	// DALL-E returns PNG payloads
	return &Illustration{MIMEType: "image/png", Data: data}, nil
}

// Name implements Generator.
func (g *OpenAIGenerator) Name() string {
	return "openai"
}
