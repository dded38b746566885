package provider

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// Gemini implements Client on top of the Google GenAI API.
type Gemini struct {
	client  *genai.Client
	config  *Config
	limiter *rate.Limiter
}

// NewGemini creates a Gemini-backed provider client.
func NewGemini(ctx context.Context, config *Config) (*Gemini, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	rpm := config.RequestsPerMinute
	if rpm <= 0 {
		rpm = DefaultConfig().RequestsPerMinute
	}

	return &Gemini{
		client:  client,
		config:  config,
		limiter: rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1),
	}, nil
}

// GenerateStructured sends the prompt with a JSON response schema and
// unmarshals the reply into out. A reply that cannot be unmarshaled is
// reported as a MalformedResponseError.
func (g *Gemini) GenerateStructured(ctx context.Context, prompt string, schema *genai.Schema, out any) error {
	if err := g.limiter.Wait(ctx); err != nil {
		return err
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.config.TextModel, genai.Text(prompt),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   schema,
		})
	if err != nil {
		return fmt.Errorf("Gemini API error: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return &MalformedResponseError{Model: g.config.TextModel, Err: fmt.Errorf("empty response")}
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return &MalformedResponseError{Model: g.config.TextModel, Err: err}
	}
	return nil
}

// GenerateImage generates an image and returns the first inline image
// payload of the response, or ErrNoImage if none is present.
func (g *Gemini) GenerateImage(ctx context.Context, prompt string) (*Blob, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.config.ImageModel, genai.Text(prompt), nil)
	if err != nil {
		return nil, fmt.Errorf("Gemini API error: %w", err)
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return &Blob{
					MIMEType: part.InlineData.MIMEType,
					Data:     part.InlineData.Data,
				}, nil
			}
		}
	}
	return nil, ErrNoImage
}

// GenerateSpeech synthesizes the text with the configured voice. Gemini
// returns raw PCM at 24 kHz mono, 16-bit little-endian.
func (g *Gemini) GenerateSpeech(ctx context.Context, text string) (*Audio, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.config.TTSModel, genai.Text(text),
		&genai.GenerateContentConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &genai.SpeechConfig{
				VoiceConfig: &genai.VoiceConfig{
					PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{
						VoiceName: g.config.Voice,
					},
				},
			},
		})
	if err != nil {
		return nil, fmt.Errorf("Gemini API error: %w", err)
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return &Audio{
					PCM:        part.InlineData.Data,
					SampleRate: 24000,
					Channels:   1,
				}, nil
			}
		}
	}
	return nil, ErrNoAudio
}

// Name returns the provider name.
func (g *Gemini) Name() string {
	return "gemini"
}
