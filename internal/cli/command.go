package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/petitverbe/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "petitverbe [verb]",
		Short: "French verb practice for kids",
		Long: `petitverbe renders French conjugation tables, multiple-choice
quizzes and illustrated story exercises. All content is generated on the
fly by the Gemini API; pronunciation audio can be played back with
--speak.

Examples:
  petitverbe danser                      # Present-tense table for "danser"
  petitverbe danser --tense imparfait    # A different tense
  petitverbe danser --all-tenses         # All five tenses at once
  petitverbe danser --quiz               # Multiple-choice quiz rounds
  petitverbe danser --story --theme Space
  petitverbe --batch verbs.txt           # Tables for a list of verbs`,
		Args:    cobra.MaximumNArgs(1),
		Version: internal.Version,
	}

	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	home, _ := os.UserHomeDir()
	defaultOutputDir := filepath.Join(home, ".local", "state", "petitverbe", "stories")

	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.petitverbe.yaml)")

	// Local flags
	cmd.Flags().StringVarP(&flags.Tense, "tense", "t", flags.Tense, "Tense: present, futur, imparfait, passe-compose, plus-que-parfait")
	cmd.Flags().BoolVar(&flags.AllTenses, "all-tenses", false, "Show the table for every tense")
	cmd.Flags().BoolVar(&flags.Quiz, "quiz", false, "Run quiz mode")
	cmd.Flags().BoolVar(&flags.Story, "story", false, "Run story mode")
	cmd.Flags().StringVar(&flags.Theme, "theme", "", "Story theme (prompted interactively when omitted)")
	cmd.Flags().BoolVar(&flags.Speak, "speak", false, "Pronounce conjugations and answers")
	cmd.Flags().IntVar(&flags.Rounds, "rounds", flags.Rounds, "Number of quiz rounds")
	cmd.Flags().StringVar(&flags.BatchFile, "batch", "", "Process verbs from file (one per line)")
	cmd.Flags().StringVarP(&flags.OutputDir, "output", "o", defaultOutputDir, "Directory for saved story illustrations")

	// Provider flags
	cmd.Flags().StringVar(&flags.Voice, "voice", "", "Gemini TTS voice (default: Kore)")
	cmd.Flags().IntVar(&flags.RequestsPerMinute, "rpm", flags.RequestsPerMinute, "Provider request rate limit per minute")
	cmd.Flags().DurationVar(&flags.CacheTTL, "cache-ttl", 0, "Conjugation cache TTL (0 keeps entries for the whole session)")

	// OpenAI fallback flags
	cmd.Flags().StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI TTS fallback model: tts-1, tts-1-hd, gpt-4o-mini-tts")
	cmd.Flags().StringVar(&flags.OpenAIVoice, "openai-voice", flags.OpenAIVoice, "OpenAI fallback voice")
	cmd.Flags().StringVar(&flags.OpenAIImageModel, "openai-image-model", flags.OpenAIImageModel, "OpenAI image fallback model: dall-e-2 or dall-e-3")
	cmd.Flags().StringVar(&flags.OpenAIImageSize, "openai-image-size", flags.OpenAIImageSize, "Image size: 256x256, 512x512, 1024x1024")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("practice.tense", cmd.Flags().Lookup("tense"))
	viper.BindPFlag("practice.rounds", cmd.Flags().Lookup("rounds"))
	viper.BindPFlag("practice.speak", cmd.Flags().Lookup("speak"))
	viper.BindPFlag("provider.voice", cmd.Flags().Lookup("voice"))
	viper.BindPFlag("provider.rpm", cmd.Flags().Lookup("rpm"))
	viper.BindPFlag("provider.cache_ttl", cmd.Flags().Lookup("cache-ttl"))
	viper.BindPFlag("output.directory", cmd.Flags().Lookup("output"))
	viper.BindPFlag("openai.model", cmd.Flags().Lookup("openai-model"))
	viper.BindPFlag("openai.voice", cmd.Flags().Lookup("openai-voice"))
	viper.BindPFlag("openai.image_model", cmd.Flags().Lookup("openai-image-model"))
	viper.BindPFlag("openai.image_size", cmd.Flags().Lookup("openai-image-size"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".petitverbe" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".petitverbe")
	}

	// Environment variables
	viper.SetEnvPrefix("PETITVERBE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("provider.gemini_key")
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config.
// An empty return disables the OpenAI fallbacks.
func GetOpenAIKey() string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("openai.api_key")
}
