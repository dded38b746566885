package speech

import (
	"context"
	"fmt"
	"io"

	"github.com/sashabaranov/go-openai"
)

// OpenAISynthesizer implements Synthesizer on the OpenAI TTS API. It is
// used as fallback when the primary provider cannot return audio.
type OpenAISynthesizer struct {
	client *openai.Client
	apiKey string
	model  string
	voice  string
}

// NewOpenAISynthesizer creates an OpenAI TTS synthesizer.
func NewOpenAISynthesizer(apiKey, model, voice string) (*OpenAISynthesizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if model == "" {
		model = "gpt-4o-mini-tts"
	}
	if voice == "" {
		voice = "alloy"
	}
	return &OpenAISynthesizer{
		client: openai.NewClient(apiKey),
		apiKey: apiKey,
		model:  model,
		voice:  voice,
	}, nil
}

// Synthesize implements Synthesizer.
func (s *OpenAISynthesizer) Synthesize(ctx context.Context, text string) (*Clip, error) {
	req := openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(s.model),
		Input:          text,
		Voice:          openai.SpeechVoice(s.voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
	}
	// Voice instructions are only supported by the gpt-4o-mini-tts model
	if s.model == "gpt-4o-mini-tts" {
		req.Instructions = "You are speaking French. Pronounce the text with authentic French phonetics. Speak slowly and clearly for language learners."
	}

	resp, err := s.client.CreateSpeech(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("OpenAI TTS API error: %w", err)
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio data: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("no audio data received from OpenAI")
	}
	return &Clip{Format: "mp3", Data: data}, nil
}

// Name implements Synthesizer.
func (s *OpenAISynthesizer) Name() string {
	return "openai"
}

// IsAvailable implements Synthesizer.
func (s *OpenAISynthesizer) IsAvailable() error {
	if s.apiKey == "" {
		return fmt.Errorf("OpenAI API key not configured")
	}
	return nil
}
