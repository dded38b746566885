// Package image generates story illustrations. The primary generator
// uses the content provider's inline-image call; an OpenAI DALL-E
// generator can serve as fallback when configured.
package image

import (
	"context"
	"encoding/base64"
	"fmt"

	"codeberg.org/snonux/petitverbe/internal/provider"
)

// StyleSuffix is appended to every illustration prompt.
const StyleSuffix = " 3D render style, cute, colorful, high quality, pixar style, bright lighting"

// Illustration is a generated image with its declared MIME type.
type Illustration struct {
	MIMEType string
	Data     []byte
}

// DataURI renders the illustration as a data: URI for display layers.
func (i *Illustration) DataURI() string {
	return fmt.Sprintf("data:%s;base64,%s", i.MIMEType, base64.StdEncoding.EncodeToString(i.Data))
}

// Generator defines the interface for illustration generators.
type Generator interface {
	// Generate produces an illustration for the prompt. The style
	// suffix is applied by the implementation.
	Generate(ctx context.Context, prompt string) (*Illustration, error)

	// Name returns the generator name.
	Name() string
}

// ProviderGenerator generates illustrations through the content provider.
type ProviderGenerator struct {
	client provider.Client
}

// NewProviderGenerator creates a generator backed by the provider client.
func NewProviderGenerator(client provider.Client) *ProviderGenerator {
	return &ProviderGenerator{client: client}
}

// Generate implements Generator.
func (g *ProviderGenerator) Generate(ctx context.Context, prompt string) (*Illustration, error) {
	blob, err := g.client.GenerateImage(ctx, prompt+StyleSuffix)
	if err != nil {
		return nil, err
	}
	return &Illustration{MIMEType: blob.MIMEType, Data: blob.Data}, nil
}

// Name implements Generator.
func (g *ProviderGenerator) Name() string {
	return g.client.Name()
}

// GeneratorWithFallback tries the primary generator first and falls back
// to the secondary on error.
type GeneratorWithFallback struct {
	primary  Generator
	fallback Generator
}

// NewGeneratorWithFallback creates a generator with a fallback option.
func NewGeneratorWithFallback(primary, fallback Generator) Generator {
	return &GeneratorWithFallback{primary: primary, fallback: fallback}
}

// Generate implements Generator.
func (g *GeneratorWithFallback) Generate(ctx context.Context, prompt string) (*Illustration, error) {
	ill, err := g.primary.Generate(ctx, prompt)
	if err != nil {
		fmt.Printf("Primary image generator (%s) failed: %v. Falling back to %s\n",
			g.primary.Name(), err, g.fallback.Name())
		return g.fallback.Generate(ctx, prompt)
	}
	return ill, nil
}

// Name implements Generator.
func (g *GeneratorWithFallback) Name() string {
	return fmt.Sprintf("%s (fallback: %s)", g.primary.Name(), g.fallback.Name())
}
