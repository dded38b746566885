// Package quiz generates multiple-choice fill-in-the-blank questions.
// Every question is fresh; nothing is cached. Malformed provider output
// is rejected and retried once before failing closed.
package quiz

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"google.golang.org/genai"

	"codeberg.org/snonux/petitverbe/internal/provider"
	"codeberg.org/snonux/petitverbe/internal/verb"
)

// BlankMarker is the placeholder the question sentence must contain.
const BlankMarker = "_______"

// MalformedQuestionError reports a question that failed validation even
// after the retry.
type MalformedQuestionError struct {
	Reason string
}

func (e *MalformedQuestionError) Error() string {
	return "malformed quiz question: " + e.Reason
}

// Generator produces quiz questions for a verb and tense.
type Generator struct {
	client provider.Client

	// pick selects the target subject; swapped out in tests.
	pick func() string
}

// NewGenerator creates a quiz generator.
func NewGenerator(client provider.Client) *Generator {
	return &Generator{
		client: client,
		pick: func() string {
			return verb.SurfacePronouns[rand.Intn(len(verb.SurfacePronouns))]
		},
	}
}

// Question generates one question for the verb and tense. The target
// subject is one of the eight surface pronoun forms, chosen uniformly at
// random. Provider failures and invalid questions get one retry; a second
// failure is returned to the caller.
func (g *Generator) Question(ctx context.Context, v string, tense verb.Tense) (verb.QuizQuestion, error) {
	pronoun := g.pick()

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		var q verb.QuizQuestion
		if err := g.client.GenerateStructured(ctx, quizPrompt(v, tense, pronoun), quizSchema(), &q); err != nil {
			lastErr = err
			continue
		}
		if err := validate(q); err != nil {
			lastErr = err
			continue
		}
		return q, nil
	}
	return verb.QuizQuestion{}, fmt.Errorf("quiz generation for %q failed: %w", v, lastErr)
}

// validate enforces the question invariants: exactly four options, the
// correct answer among them, and exactly one blank to fill in.
func validate(q verb.QuizQuestion) error {
	if len(q.Options) != 4 {
		return &MalformedQuestionError{Reason: fmt.Sprintf("expected 4 options, got %d", len(q.Options))}
	}
	found := false
	for _, o := range q.Options {
		if o == q.CorrectAnswer {
			found = true
			break
		}
	}
	if !found {
		return &MalformedQuestionError{Reason: "options do not contain the correct answer"}
	}
	if n := strings.Count(q.Question, BlankMarker); n != 1 {
		return &MalformedQuestionError{Reason: fmt.Sprintf("expected exactly one blank marker, got %d", n)}
	}
	return nil
}

func quizPrompt(v string, tense verb.Tense, pronoun string) string {
	return fmt.Sprintf(`Create a multiple-choice fill-in-the-blank question for the French verb %q in %q tense.
The sentence MUST specifically use the subject pronoun %q (or a proper name/noun that is equivalent to it).
Replace the conjugated verb with %q in the question sentence.
Target audience: children.`, v, string(tense), pronoun, BlankMarker)
}

func quizSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"question": {
				Type:        genai.TypeString,
				Description: "The sentence with the verb replaced by " + BlankMarker,
			},
			"correctAnswer": {Type: genai.TypeString},
			"translation":   {Type: genai.TypeString},
			"options": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "Array of 4 options, one is correct",
			},
		},
		Required: []string{"question", "correctAnswer", "options", "translation"},
	}
}
