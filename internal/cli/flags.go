package cli

import "time"

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile   string
	Tense     string
	AllTenses bool
	Quiz      bool
	Story     bool
	Theme     string
	Speak     bool
	Rounds    int
	BatchFile string
	OutputDir string

	// Provider flags
	Voice             string
	RequestsPerMinute int
	CacheTTL          time.Duration

	// OpenAI fallback flags
	OpenAIModel      string
	OpenAIVoice      string
	OpenAIImageModel string
	OpenAIImageSize  string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		Tense:             "present",
		Rounds:            5,
		RequestsPerMinute: 30,
		OpenAIModel:       "gpt-4o-mini-tts",
		OpenAIVoice:       "alloy",
		OpenAIImageModel:  "dall-e-3",
		OpenAIImageSize:   "1024x1024",
	}
}
