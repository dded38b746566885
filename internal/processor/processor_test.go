package processor

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"codeberg.org/snonux/petitverbe/internal/cli"
	"codeberg.org/snonux/petitverbe/internal/conjugation"
	"codeberg.org/snonux/petitverbe/internal/image"
	"codeberg.org/snonux/petitverbe/internal/quiz"
	"codeberg.org/snonux/petitverbe/internal/testutil"
	"codeberg.org/snonux/petitverbe/internal/verb"
)

const danserJSON = `{
	"verb": "danser", "tense": "Present", "translation": "to dance",
	"emoji": "💃", "exampleSentence": "Je danse dans le parc.",
	"conjugations": [
		{"pronoun": "Je", "conjugation": "danse"},
		{"pronoun": "Tu", "conjugation": "danses"},
		{"pronoun": "Il/Elle", "conjugation": "danse"},
		{"pronoun": "Nous", "conjugation": "dansons"},
		{"pronoun": "Vous", "conjugation": "dansez"},
		{"pronoun": "Ils/Elles", "conjugation": "dansent"}
	]
}`

const questionJSON = `{
	"question": "Tu _______ dans le jardin.",
	"correctAnswer": "danses",
	"options": ["danse", "danses", "dansons", "dansent"],
	"translation": "You dance in the garden."
}`

func newTestProcessor(mock *testutil.MockProvider, flags *cli.Flags, input string) (*Processor, *bytes.Buffer) {
	out := &bytes.Buffer{}
	cache := verb.NewCache(0)
	return &Processor{
		flags:        flags,
		client:       mock,
		cache:        cache,
		conjugations: conjugation.New(mock, cache),
		quizzes:      quiz.NewGenerator(mock),
		images:       image.NewProviderGenerator(mock),
		in:           strings.NewReader(input),
		out:          out,
	}, out
}

func TestRunConjugationPrintsTable(t *testing.T) {
	mock := &testutil.MockProvider{StructuredJSON: []string{danserJSON}}
	flags := cli.NewFlags()
	p, out := newTestProcessor(mock, flags, "")

	if err := p.RunConjugation(context.Background(), "danser"); err != nil {
		t.Fatalf("RunConjugation failed: %v", err)
	}

	rendered := out.String()
	for _, want := range []string{"danser", "to dance", "dansons", "Je danse dans le parc."} {
		if !strings.Contains(rendered, want) {
			t.Errorf("Output missing %q:\n%s", want, rendered)
		}
	}
}

func TestRunConjugationAllTenses(t *testing.T) {
	responses := make([]string, 5)
	for i := range responses {
		responses[i] = danserJSON
	}
	mock := &testutil.MockProvider{StructuredJSON: responses}
	flags := cli.NewFlags()
	flags.AllTenses = true
	p, out := newTestProcessor(mock, flags, "")

	if err := p.RunConjugation(context.Background(), "danser"); err != nil {
		t.Fatalf("RunConjugation failed: %v", err)
	}
	if mock.StructuredCallCount() != 5 {
		t.Errorf("Expected 5 provider calls (one per tense), got %d", mock.StructuredCallCount())
	}
	for _, tense := range verb.AllTenses() {
		if !strings.Contains(out.String(), string(tense)) {
			t.Errorf("Output missing tense %q", tense)
		}
	}
}

func TestRunQuizRound(t *testing.T) {
	mock := &testutil.MockProvider{StructuredJSON: []string{questionJSON}}
	flags := cli.NewFlags()
	flags.Rounds = 1
	p, out := newTestProcessor(mock, flags, "2\n")

	if err := p.RunQuiz(context.Background(), "danser"); err != nil {
		t.Fatalf("RunQuiz failed: %v", err)
	}

	rendered := out.String()
	if !strings.Contains(rendered, "Correct!") {
		t.Errorf("Expected a correct answer, output:\n%s", rendered)
	}
	if !strings.Contains(rendered, "Score: 1/1") {
		t.Errorf("Expected score line, output:\n%s", rendered)
	}
}

func TestRunQuizWrongAnswer(t *testing.T) {
	mock := &testutil.MockProvider{StructuredJSON: []string{questionJSON}}
	flags := cli.NewFlags()
	flags.Rounds = 1
	p, out := newTestProcessor(mock, flags, "1\n")

	if err := p.RunQuiz(context.Background(), "danser"); err != nil {
		t.Fatalf("RunQuiz failed: %v", err)
	}
	if !strings.Contains(out.String(), "Score: 0/1") {
		t.Errorf("Expected zero score, output:\n%s", out.String())
	}
}

func TestRunQuizRejectsInvalidInput(t *testing.T) {
	mock := &testutil.MockProvider{StructuredJSON: []string{questionJSON}}
	flags := cli.NewFlags()
	flags.Rounds = 1
	p, out := newTestProcessor(mock, flags, "nine\n0\n2\n")

	if err := p.RunQuiz(context.Background(), "danser"); err != nil {
		t.Fatalf("RunQuiz failed: %v", err)
	}
	if !strings.Contains(out.String(), "valid option") {
		t.Error("Expected a re-prompt for invalid input")
	}
	if !strings.Contains(out.String(), "Score: 1/1") {
		t.Errorf("Expected the valid retry to count, output:\n%s", out.String())
	}
}

func TestPronounPhrase(t *testing.T) {
	tests := []struct {
		pronoun  verb.Pronoun
		form     string
		expected string
	}{
		{verb.PronounJe, "danse", "Je danse"},
		{verb.PronounIlElle, "danse", "Il danse"},
		{verb.PronounIlsElles, "dansent", "Ils dansent"},
	}
	for _, tt := range tests {
		if got := pronounPhrase(tt.pronoun, tt.form); got != tt.expected {
			t.Errorf("pronounPhrase(%q, %q) = %q, expected %q", tt.pronoun, tt.form, got, tt.expected)
		}
	}
}

func TestExtensionForMIME(t *testing.T) {
	if ext := extensionForMIME("image/jpeg"); ext != ".jpg" {
		t.Errorf("Expected .jpg, got %s", ext)
	}
	if ext := extensionForMIME("image/png"); ext != ".png" {
		t.Errorf("Expected .png, got %s", ext)
	}
	if ext := extensionForMIME("application/octet-stream"); ext != ".png" {
		t.Errorf("Expected .png default, got %s", ext)
	}
}

func TestReadBatchFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "verbs.txt")
	content := "danser\n\n# a comment\nchanter\n  manger  \n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	verbs, err := ReadBatchFile(path)
	if err != nil {
		t.Fatalf("ReadBatchFile failed: %v", err)
	}
	expected := []string{"danser", "chanter", "manger"}
	if len(verbs) != len(expected) {
		t.Fatalf("Expected %d verbs, got %d: %v", len(expected), len(verbs), verbs)
	}
	for i, v := range expected {
		if verbs[i] != v {
			t.Errorf("Position %d: expected %q, got %q", i, v, verbs[i])
		}
	}
}

func TestReadBatchFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, []byte("# only comments\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadBatchFile(path); err == nil {
		t.Error("Expected error for batch file without verbs")
	}
}

func TestReadBatchFileMissing(t *testing.T) {
	if _, err := ReadBatchFile(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("Expected error for missing batch file")
	}
}

func TestPrintSuggestions(t *testing.T) {
	p, out := newTestProcessor(&testutil.MockProvider{}, cli.NewFlags(), "")
	p.PrintSuggestions()
	if !strings.Contains(out.String(), "danser") {
		t.Error("Expected suggested verbs in output")
	}
}
