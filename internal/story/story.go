// Package story runs the illustrated story exercise: pick a theme, have
// the provider invent a scenario and an illustration for it, then judge
// the sentence the student writes back. The flow is a small state
// machine; generation failures land in an explicit failed state that can
// be retried or reset instead of stalling.
package story

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"google.golang.org/genai"

	"codeberg.org/snonux/petitverbe/internal/image"
	"codeberg.org/snonux/petitverbe/internal/provider"
	"codeberg.org/snonux/petitverbe/internal/verb"
)

// State is the story session state.
type State string

const (
	StateThemeSelection State = "theme-selection"
	StateGenerating     State = "generating"
	StateInteractive    State = "interactive"
	StateFailed         State = "failed"
)

// PresetThemes are the built-in theme choices; free-text themes are also
// accepted.
var PresetThemes = []string{"Fantasy", "Space", "Animals", "Pirates", "Robots"}

// Verdict is the provider's judgment of a submitted sentence.
type Verdict struct {
	IsCorrect bool   `json:"isCorrect"`
	Feedback  string `json:"feedback"`
}

// Session is one story exercise for a single verb.
type Session struct {
	client provider.Client
	images image.Generator
	verb   string

	// pick selects the target subject; swapped out in tests.
	pick func() string

	mu           sync.Mutex
	state        State
	theme        string
	scenario     *verb.StoryScenario
	illustration *image.Illustration
	lastErr      error
}

// NewSession creates a session in the theme-selection state.
func NewSession(client provider.Client, images image.Generator, v string) *Session {
	return &Session{
		client: client,
		images: images,
		verb:   v,
		state:  StateThemeSelection,
		pick: func() string {
			return verb.SurfacePronouns[rand.Intn(len(verb.SurfacePronouns))]
		},
	}
}

// State returns the current session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Scenario returns the generated scenario, or nil before generation.
func (s *Session) Scenario() *verb.StoryScenario {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scenario
}

// Illustration returns the generated illustration. A nil return in the
// interactive state means the image call failed and the exercise runs
// with a missing-image indicator.
func (s *Session) Illustration() *image.Illustration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.illustration
}

// Err returns the error that moved the session into the failed state.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Start moves the session from theme selection into generation for the
// given theme (preset or free text). The scenario call runs first; only
// when it succeeds is the illustration generated. A scenario failure
// moves the session to the failed state. An illustration failure is
// logged and the session still becomes interactive.
func (s *Session) Start(ctx context.Context, theme string) error {
	s.mu.Lock()
	if s.state != StateThemeSelection && s.state != StateFailed {
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("cannot start story from state %q", state)
	}
	s.state = StateGenerating
	s.theme = theme
	s.scenario = nil
	s.illustration = nil
	s.lastErr = nil
	s.mu.Unlock()

	scenario, err := s.generateScenario(ctx, theme)
	if err != nil {
		s.mu.Lock()
		s.state = StateFailed
		s.lastErr = err
		s.mu.Unlock()
		return err
	}

	ill, err := s.images.Generate(ctx, scenario.ImagePrompt)
	if err != nil {
		fmt.Printf("Illustration generation failed: %v\n", err)
		ill = nil
	}

	s.mu.Lock()
	s.scenario = scenario
	s.illustration = ill
	s.state = StateInteractive
	s.mu.Unlock()
	return nil
}

// Retry re-runs generation with the previously chosen theme. Only legal
// from the failed state.
func (s *Session) Retry(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateFailed {
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("cannot retry from state %q", state)
	}
	theme := s.theme
	s.mu.Unlock()
	return s.Start(ctx, theme)
}

// Reset returns the session to theme selection, discarding any scenario.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateThemeSelection
	s.theme = ""
	s.scenario = nil
	s.illustration = nil
	s.lastErr = nil
}

// Validate asks the provider to judge the student's sentence against the
// target sentence's intent. Only legal in the interactive state.
func (s *Session) Validate(ctx context.Context, userSentence string) (Verdict, error) {
	s.mu.Lock()
	if s.state != StateInteractive {
		state := s.state
		s.mu.Unlock()
		return Verdict{}, fmt.Errorf("cannot validate in state %q", state)
	}
	target := s.scenario.TargetSentence
	s.mu.Unlock()

	var v Verdict
	if err := s.client.GenerateStructured(ctx, validatePrompt(s.verb, userSentence, target), validateSchema(), &v); err != nil {
		return Verdict{}, fmt.Errorf("answer validation failed: %w", err)
	}
	return v, nil
}

func (s *Session) generateScenario(ctx context.Context, theme string) (*verb.StoryScenario, error) {
	pronoun := s.pick()

	var scenario verb.StoryScenario
	if err := s.client.GenerateStructured(ctx, scenarioPrompt(s.verb, theme, pronoun), scenarioSchema(), &scenario); err != nil {
		return nil, fmt.Errorf("scenario generation for %q failed: %w", s.verb, err)
	}
	return &scenario, nil
}

func scenarioPrompt(v, theme, pronoun string) string {
	return fmt.Sprintf(`Generate a creative, funny, and child-friendly scenario to practice the French verb %q specifically using the subject pronoun %q.

The theme of the scenario must be: %q.

1. Provide a detailed image description (prompt) for an AI image generator. The image should visually represent the subject doing the action, matching the %q theme.
   - If the pronoun is "Je" or "Tu", describe a specific character (e.g. a wizard, a robot, an animal) matching the theme that the student is roleplaying or talking to.
   - If the pronoun is "Nous", "Vous", "Ils", or "Elles", describe a GROUP of characters doing the action together.

2. Provide a simple French sentence that describes this image using %q and the verb %q.

3. Provide a hint in English that helps the student know which pronoun to use.
   - Example for "Nous": "Imagine you and your alien friends are doing this... (Use 'Nous')"
   - Example for "Il": "Describe what the robot is doing... (Use 'Il')"`,
		v, pronoun, theme, theme, pronoun, v)
}

func scenarioSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"imagePrompt":    {Type: genai.TypeString},
			"targetSentence": {Type: genai.TypeString},
			"hint":           {Type: genai.TypeString},
		},
		Required: []string{"imagePrompt", "targetSentence", "hint"},
	}
}

func validatePrompt(v, userSentence, targetSentence string) string {
	return fmt.Sprintf(`The student was asked to write a sentence for the verb %q.
Target meaning/structure: %q.
Student wrote: %q.

Is the student's sentence grammatically correct in French and does it use the verb %q correctly?
It doesn't have to match the target sentence exactly, as long as it describes the action well and uses the correct conjugation.

Return a boolean verdict and a short feedback message in English for a child.`,
		v, targetSentence, userSentence, v)
}

func validateSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"isCorrect": {Type: genai.TypeBoolean},
			"feedback":  {Type: genai.TypeString},
		},
		Required: []string{"isCorrect", "feedback"},
	}
}
