package processor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"codeberg.org/snonux/petitverbe/internal"
	"codeberg.org/snonux/petitverbe/internal/cli"
	"codeberg.org/snonux/petitverbe/internal/conjugation"
	"codeberg.org/snonux/petitverbe/internal/image"
	"codeberg.org/snonux/petitverbe/internal/provider"
	"codeberg.org/snonux/petitverbe/internal/quiz"
	"codeberg.org/snonux/petitverbe/internal/speech"
	"codeberg.org/snonux/petitverbe/internal/story"
	"codeberg.org/snonux/petitverbe/internal/verb"
)

// prefetchLimit bounds concurrent provider calls during --all-tenses.
const prefetchLimit = 3

// Processor handles the main practice session logic.
type Processor struct {
	flags        *cli.Flags
	client       provider.Client
	cache        *verb.Cache
	conjugations *conjugation.Orchestrator
	quizzes      *quiz.Generator
	images       image.Generator
	player       *speech.Player

	in  io.Reader
	out io.Writer
}

// NewProcessor creates a processor from the parsed flags. It builds the
// Gemini provider client, wraps it with the circuit breaker and sets up
// OpenAI fallbacks for speech and illustrations when a key is present.
func NewProcessor(ctx context.Context, flags *cli.Flags) (*Processor, error) {
	config := provider.DefaultConfig()
	config.APIKey = cli.GetGeminiKey()
	config.RequestsPerMinute = flags.RequestsPerMinute
	if flags.Voice != "" {
		config.Voice = flags.Voice
	}

	gemini, err := provider.NewGemini(ctx, config)
	if err != nil {
		return nil, err
	}
	client := provider.WithBreaker(gemini)

	cache := verb.NewCache(flags.CacheTTL)

	var images image.Generator = image.NewProviderGenerator(client)
	var synth speech.Synthesizer = speech.NewProviderSynthesizer(client)

	if openAIKey := cli.GetOpenAIKey(); openAIKey != "" {
		if fallback, err := image.NewOpenAIGenerator(openAIKey, flags.OpenAIImageModel, flags.OpenAIImageSize); err == nil {
			images = image.NewGeneratorWithFallback(images, fallback)
		} else {
			fmt.Printf("OpenAI image fallback disabled: %v\n", err)
		}
		if fallback, err := speech.NewOpenAISynthesizer(openAIKey, flags.OpenAIModel, flags.OpenAIVoice); err == nil {
			synth = speech.NewSynthesizerWithFallback(synth, fallback)
		} else {
			fmt.Printf("OpenAI speech fallback disabled: %v\n", err)
		}
	}

	return &Processor{
		flags:        flags,
		client:       client,
		cache:        cache,
		conjugations: conjugation.New(client, cache),
		quizzes:      quiz.NewGenerator(client),
		images:       images,
		player:       speech.NewPlayer(synth),
		in:           os.Stdin,
		out:          os.Stdout,
	}, nil
}

// RunConjugation fetches and prints the conjugation table for one verb.
// With --all-tenses the five tenses are prefetched concurrently and
// printed in display order.
func (p *Processor) RunConjugation(ctx context.Context, v string) error {
	tense, err := verb.ParseTense(p.flags.Tense)
	if err != nil {
		return err
	}

	if p.flags.AllTenses {
		return p.runAllTenses(ctx, v)
	}

	data, err := p.conjugations.Fetch(ctx, v, tense)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	p.printTable(data)

	if p.flags.Speak && err == nil {
		p.speakTable(ctx, data)
	}
	return nil
}

// runAllTenses prefetches every tense with bounded concurrency, then
// prints the tables in the fixed tense order.
func (p *Processor) runAllTenses(ctx context.Context, v string) error {
	tenses := verb.AllTenses()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(prefetchLimit)
	for _, t := range tenses {
		g.Go(func() error {
			_, err := p.conjugations.Fetch(gctx, v, t)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	for _, t := range tenses {
		data, err := p.conjugations.Fetch(ctx, v, t)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
		p.printTable(data)
	}
	return nil
}

// printTable renders one conjugation record.
func (p *Processor) printTable(data verb.Data) {
	fmt.Fprintf(p.out, "\n%s %s (%s) — %s\n", data.Emoji, data.Verb, data.Tense, data.Translation)
	for _, e := range data.Conjugations {
		line := fmt.Sprintf("  %-10s %s", e.Pronoun, e.Conjugation)
		if e.PronunciationKey != "" {
			line += fmt.Sprintf("  [%s]", e.PronunciationKey)
		}
		fmt.Fprintln(p.out, line)
	}
	if data.ExampleSentence != "" {
		fmt.Fprintf(p.out, "  Example: %s\n", data.ExampleSentence)
	}
}

// speakTable pronounces each conjugated form, then the example sentence.
func (p *Processor) speakTable(ctx context.Context, data verb.Data) {
	for _, e := range data.Conjugations {
		phrase := pronounPhrase(e.Pronoun, e.Conjugation)
		if err := p.player.Say(ctx, phrase); err != nil {
			fmt.Fprintf(os.Stderr, "Speech error: %v\n", err)
			return
		}
	}
	if data.ExampleSentence != "" {
		if err := p.player.Say(ctx, data.ExampleSentence); err != nil {
			fmt.Fprintf(os.Stderr, "Speech error: %v\n", err)
		}
	}
}

// pronounPhrase joins a pronoun and form the way a speaker would say
// them. Grouped pronouns use their first surface form.
func pronounPhrase(p verb.Pronoun, form string) string {
	subject := string(p)
	if i := strings.IndexByte(subject, '/'); i > 0 {
		subject = subject[:i]
	}
	return subject + " " + form
}

// RunQuiz runs interactive quiz rounds for the verb on stdin/stdout.
func (p *Processor) RunQuiz(ctx context.Context, v string) error {
	tense, err := verb.ParseTense(p.flags.Tense)
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(p.in)
	score := 0

	for round := 1; round <= p.flags.Rounds; round++ {
		q, err := p.quizzes.Question(ctx, v, tense)
		if err != nil {
			return err
		}

		fmt.Fprintf(p.out, "\nRound %d/%d\n", round, p.flags.Rounds)
		fmt.Fprintf(p.out, "%s\n", q.Question)
		fmt.Fprintf(p.out, "(%s)\n", q.Translation)
		for i, opt := range q.Options {
			fmt.Fprintf(p.out, "  %d) %s\n", i+1, opt)
		}

		choice, ok := readChoice(scanner, p.out, len(q.Options))
		if !ok {
			return nil // input closed
		}

		if q.Options[choice-1] == q.CorrectAnswer {
			score++
			if p.flags.Speak {
				p.player.Speak(strings.ReplaceAll(q.Question, quiz.BlankMarker, q.CorrectAnswer))
			}
			fmt.Fprintln(p.out, "Correct!")
		} else {
			fmt.Fprintf(p.out, "Not quite — the answer is %q.\n", q.CorrectAnswer)
		}
	}

	fmt.Fprintf(p.out, "\nScore: %d/%d\n", score, p.flags.Rounds)
	return nil
}

// readChoice prompts until a number in [1, n] is entered.
func readChoice(scanner *bufio.Scanner, out io.Writer, n int) (int, bool) {
	for {
		fmt.Fprintf(out, "Your answer (1-%d): ", n)
		if !scanner.Scan() {
			return 0, false
		}
		choice, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
		if err == nil && choice >= 1 && choice <= n {
			return choice, true
		}
		fmt.Fprintln(out, "Please enter a valid option number.")
	}
}

// RunStory runs the interactive story exercise for the verb.
func (p *Processor) RunStory(ctx context.Context, v string) error {
	session := story.NewSession(p.client, p.images, v)
	scanner := bufio.NewScanner(p.in)

	theme := p.flags.Theme
	if theme == "" {
		var ok bool
		theme, ok = p.readTheme(scanner)
		if !ok {
			return nil
		}
	}

	fmt.Fprintf(p.out, "Generating a %q story for %q...\n", theme, v)
	if err := session.Start(ctx, theme); err != nil {
		return p.storyFailurePrompt(ctx, session, scanner)
	}
	return p.runStoryRound(ctx, session, scanner)
}

// readTheme offers the preset themes plus free-text input.
func (p *Processor) readTheme(scanner *bufio.Scanner) (string, bool) {
	fmt.Fprintln(p.out, "Pick a theme:")
	for i, t := range story.PresetThemes {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, t)
	}
	fmt.Fprint(p.out, "Number or your own theme: ")
	if !scanner.Scan() {
		return "", false
	}
	input := strings.TrimSpace(scanner.Text())
	if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(story.PresetThemes) {
		return story.PresetThemes[n-1], true
	}
	if input == "" {
		return story.PresetThemes[0], true
	}
	return input, true
}

// storyFailurePrompt handles the failed state: offer retry or quit.
func (p *Processor) storyFailurePrompt(ctx context.Context, session *story.Session, scanner *bufio.Scanner) error {
	for session.State() == story.StateFailed {
		fmt.Fprintf(p.out, "Story generation failed: %v\n", session.Err())
		fmt.Fprint(p.out, "Try again? (y/n): ")
		if !scanner.Scan() || strings.ToLower(strings.TrimSpace(scanner.Text())) != "y" {
			return session.Err()
		}
		if err := session.Retry(ctx); err != nil {
			continue
		}
	}
	return p.runStoryRound(ctx, session, scanner)
}

// runStoryRound shows the scenario and judges submitted sentences until
// one is correct or input ends.
func (p *Processor) runStoryRound(ctx context.Context, session *story.Session, scanner *bufio.Scanner) error {
	scenario := session.Scenario()

	if ill := session.Illustration(); ill != nil {
		if path, err := p.saveIllustration(ill); err == nil {
			fmt.Fprintf(p.out, "\nIllustration saved to: %s\n", path)
		} else {
			fmt.Fprintf(os.Stderr, "Warning: could not save illustration: %v\n", err)
		}
	} else {
		fmt.Fprintln(p.out, "\n(No illustration available for this story.)")
	}

	fmt.Fprintf(p.out, "Hint: %s\n", scenario.Hint)

	for {
		fmt.Fprint(p.out, "Describe the scene in French: ")
		if !scanner.Scan() {
			return nil
		}
		sentence := strings.TrimSpace(scanner.Text())
		if sentence == "" {
			fmt.Fprintln(p.out, "Please write a sentence.")
			continue
		}

		verdict, err := session.Validate(ctx, sentence)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			continue
		}

		fmt.Fprintln(p.out, verdict.Feedback)
		if verdict.IsCorrect {
			if p.flags.Speak {
				p.player.Speak(sentence)
			}
			fmt.Fprintf(p.out, "Target sentence was: %s\n", scenario.TargetSentence)
			return nil
		}
	}
}

// saveIllustration writes the illustration into the output directory.
func (p *Processor) saveIllustration(ill *image.Illustration) (string, error) {
	dir := p.flags.OutputDir
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	name := internal.SanitizeFilename("story_"+internal.ShortID()) + extensionForMIME(ill.MIMEType)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, ill.Data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

func extensionForMIME(mime string) string {
	switch mime {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}

// ProcessBatch runs conjugation mode for every verb listed in the batch
// file, one per line, skipping blanks and # comments.
func (p *Processor) ProcessBatch(ctx context.Context) error {
	verbs, err := ReadBatchFile(p.flags.BatchFile)
	if err != nil {
		return err
	}

	errorCount := 0
	for i, v := range verbs {
		fmt.Fprintf(p.out, "\nProcessing %d/%d: %s\n", i+1, len(verbs), v)
		if err := p.RunConjugation(ctx, v); err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %q: %v\n", v, err)
			errorCount++
		}
	}
	if errorCount > 0 {
		return fmt.Errorf("%d of %d verbs failed", errorCount, len(verbs))
	}
	return nil
}

// ReadBatchFile reads verbs from a file, one per line. Blank lines and
// lines starting with # are skipped.
func ReadBatchFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open batch file: %w", err)
	}
	defer f.Close()

	var verbs []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		verbs = append(verbs, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	if len(verbs) == 0 {
		return nil, fmt.Errorf("batch file %s contains no verbs", path)
	}
	return verbs, nil
}

// PrintSuggestions lists the starter verbs.
func (p *Processor) PrintSuggestions() {
	fmt.Fprintln(p.out, "No verb given. Try one of these:")
	for _, v := range verb.SuggestedVerbs {
		fmt.Fprintf(p.out, "  %s\n", v)
	}
}
