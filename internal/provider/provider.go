// Package provider is the single boundary to the generative content
// service. It exposes structured text generation, inline image generation
// and speech synthesis behind one interface, with rate limiting and a
// circuit breaker wrapped around the remote calls.
package provider

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// Client is the content provider boundary used by all orchestrators.
type Client interface {
	// GenerateStructured sends a prompt with a structured-output schema
	// and unmarshals the JSON response into out.
	GenerateStructured(ctx context.Context, prompt string, schema *genai.Schema, out any) error

	// GenerateImage generates an image for the prompt and returns the
	// first inline image payload of the response.
	GenerateImage(ctx context.Context, prompt string) (*Blob, error)

	// GenerateSpeech synthesizes speech for the text and returns raw
	// 16-bit little-endian PCM samples.
	GenerateSpeech(ctx context.Context, text string) (*Audio, error)

	// Name returns the provider name.
	Name() string
}

// Blob is an inline binary payload with its declared MIME type.
type Blob struct {
	MIMEType string
	Data     []byte
}

// Audio is a synthesized speech payload.
type Audio struct {
	PCM        []byte // 16-bit little-endian samples
	SampleRate int
	Channels   int
}

// ErrNoImage is returned when a generation response carries no inline
// image part.
var ErrNoImage = errors.New("response contains no image payload")

// ErrNoAudio is returned when a speech response carries no audio payload.
var ErrNoAudio = errors.New("response contains no audio payload")

// MalformedResponseError reports a response that does not match the
// declared output schema. Provider responses are never trusted blindly;
// schema mismatches surface as this error instead of a downstream panic.
type MalformedResponseError struct {
	Model string
	Err   error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response from %s: %v", e.Model, e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// Config holds provider settings.
type Config struct {
	APIKey            string
	TextModel         string // structured text generation
	ImageModel        string // inline image generation
	TTSModel          string // speech synthesis
	Voice             string // prebuilt TTS voice name
	RequestsPerMinute int
}

// DefaultConfig returns the default provider configuration.
func DefaultConfig() *Config {
	return &Config{
		TextModel:         "gemini-2.5-flash",
		ImageModel:        "gemini-2.5-flash-image",
		TTSModel:          "gemini-2.5-flash-preview-tts",
		Voice:             "Kore",
		RequestsPerMinute: 30,
	}
}
