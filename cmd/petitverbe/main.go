package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/petitverbe/internal/cli"
	"codeberg.org/snonux/petitverbe/internal/processor"
)

func main() {
	flags := cli.NewFlags()

	rootCmd := cli.CreateRootCommand(flags)

	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, args, flags)
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCommand(cmd *cobra.Command, args []string, flags *cli.Flags) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if cli.GetGeminiKey() == "" {
		return fmt.Errorf("no Gemini API key found. Set GEMINI_API_KEY or provider.gemini_key in ~/.petitverbe.yaml")
	}

	proc, err := processor.NewProcessor(ctx, flags)
	if err != nil {
		return err
	}

	if flags.BatchFile != "" {
		return proc.ProcessBatch(ctx)
	}

	if len(args) == 0 {
		proc.PrintSuggestions()
		return nil
	}
	verb := args[0]

	switch {
	case flags.Quiz:
		return proc.RunQuiz(ctx, verb)
	case flags.Story:
		return proc.RunStory(ctx, verb)
	default:
		return proc.RunConjugation(ctx, verb)
	}
}
