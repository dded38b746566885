// Package speech turns text into audible French. Synthesis goes through
// the content provider (raw PCM) or OpenAI TTS as fallback; playback
// shells out to whatever audio player the platform offers.
package speech

import (
	"context"
	"fmt"

	"codeberg.org/snonux/petitverbe/internal/provider"
)

// Clip is a playable piece of synthesized audio.
type Clip struct {
	Format string // file extension without dot: "wav" or "mp3"
	Data   []byte
}

// Synthesizer defines the interface for text-to-speech backends.
type Synthesizer interface {
	// Synthesize generates audio for the text.
	Synthesize(ctx context.Context, text string) (*Clip, error)

	// Name returns the synthesizer name.
	Name() string

	// IsAvailable checks if the synthesizer is properly configured.
	IsAvailable() error
}

// ProviderSynthesizer synthesizes speech through the content provider,
// which returns raw 16-bit little-endian PCM at 24 kHz mono. The samples
// are wrapped in a WAV container for playback.
type ProviderSynthesizer struct {
	client provider.Client
}

// NewProviderSynthesizer creates a synthesizer backed by the provider.
func NewProviderSynthesizer(client provider.Client) *ProviderSynthesizer {
	return &ProviderSynthesizer{client: client}
}

// Synthesize implements Synthesizer.
func (s *ProviderSynthesizer) Synthesize(ctx context.Context, text string) (*Clip, error) {
	audio, err := s.client.GenerateSpeech(ctx, text)
	if err != nil {
		return nil, err
	}
	if len(audio.PCM) == 0 {
		return nil, provider.ErrNoAudio
	}
	return &Clip{
		Format: "wav",
		Data:   EncodeWAV(audio.PCM, audio.SampleRate, audio.Channels),
	}, nil
}

// Name implements Synthesizer.
func (s *ProviderSynthesizer) Name() string {
	return s.client.Name()
}

// IsAvailable implements Synthesizer.
func (s *ProviderSynthesizer) IsAvailable() error {
	if s.client == nil {
		return fmt.Errorf("no provider client configured")
	}
	return nil
}

// SynthesizerWithFallback tries the primary synthesizer first and falls
// back to the secondary on error.
type SynthesizerWithFallback struct {
	primary  Synthesizer
	fallback Synthesizer
}

// NewSynthesizerWithFallback creates a synthesizer with a fallback option.
func NewSynthesizerWithFallback(primary, fallback Synthesizer) Synthesizer {
	return &SynthesizerWithFallback{primary: primary, fallback: fallback}
}

// Synthesize implements Synthesizer.
func (s *SynthesizerWithFallback) Synthesize(ctx context.Context, text string) (*Clip, error) {
	clip, err := s.primary.Synthesize(ctx, text)
	if err != nil {
		fmt.Printf("Primary synthesizer (%s) failed: %v. Falling back to %s\n",
			s.primary.Name(), err, s.fallback.Name())
		return s.fallback.Synthesize(ctx, text)
	}
	return clip, nil
}

// Name implements Synthesizer.
func (s *SynthesizerWithFallback) Name() string {
	return fmt.Sprintf("%s (fallback: %s)", s.primary.Name(), s.fallback.Name())
}

// IsAvailable implements Synthesizer.
func (s *SynthesizerWithFallback) IsAvailable() error {
	primaryErr := s.primary.IsAvailable()
	if primaryErr == nil {
		return nil
	}
	fallbackErr := s.fallback.IsAvailable()
	if fallbackErr == nil {
		return nil
	}
	return fmt.Errorf("both synthesizers unavailable: primary=%v, fallback=%v", primaryErr, fallbackErr)
}
