package story

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"codeberg.org/snonux/petitverbe/internal/image"
	"codeberg.org/snonux/petitverbe/internal/provider"
	"codeberg.org/snonux/petitverbe/internal/testutil"
)

const scenarioJSON = `{
	"imagePrompt": "A dragon dancing in a castle courtyard",
	"targetSentence": "Il danse dans le château.",
	"hint": "Describe what the dragon is doing... (Use 'Il')"
}`

const verdictJSON = `{"isCorrect": true, "feedback": "Great job! Your sentence is correct."}`

func newTestSession(mock *testutil.MockProvider, v string) *Session {
	s := NewSession(mock, image.NewProviderGenerator(mock), v)
	s.pick = func() string { return "Il" }
	return s
}

func TestSessionFlow(t *testing.T) {
	mock := &testutil.MockProvider{
		StructuredJSON: []string{scenarioJSON, verdictJSON},
		ImageBlob:      &provider.Blob{MIMEType: "image/png", Data: []byte{1, 2, 3}},
	}
	s := newTestSession(mock, "danser")
	ctx := context.Background()

	if s.State() != StateThemeSelection {
		t.Fatalf("New session should be in theme selection, got %q", s.State())
	}

	if err := s.Start(ctx, "Fantasy"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if s.State() != StateInteractive {
		t.Fatalf("Expected interactive state, got %q", s.State())
	}

	scenario := s.Scenario()
	if scenario == nil {
		t.Fatal("Expected a scenario")
	}
	if !strings.Contains(scenario.TargetSentence, "danse") {
		t.Errorf("Target sentence should contain the verb stem, got %q", scenario.TargetSentence)
	}
	if !strings.Contains(mock.Calls[0], `"Fantasy"`) {
		t.Errorf("Scenario prompt should carry the theme, got: %s", mock.Calls[0])
	}

	ill := s.Illustration()
	if ill == nil {
		t.Fatal("Expected an illustration")
	}
	uri := ill.DataURI()
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Errorf("Unexpected data URI shape: %s", uri)
	}

	verdict, err := s.Validate(ctx, "Je danse dans le jardin.")
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !verdict.IsCorrect {
		t.Error("Expected a correct verdict")
	}
	if verdict.Feedback == "" {
		t.Error("Expected non-empty feedback")
	}
}

func TestSessionIllustrationFailureStillInteractive(t *testing.T) {
	// Image call fails, the session still becomes interactive and
	// reports a missing illustration.
	mock := &testutil.MockProvider{
		StructuredJSON: []string{scenarioJSON},
		ImageErr:       fmt.Errorf("image service down"),
	}
	s := newTestSession(mock, "danser")

	if err := s.Start(context.Background(), "Space"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if s.State() != StateInteractive {
		t.Errorf("Expected interactive state, got %q", s.State())
	}
	if s.Illustration() != nil {
		t.Error("Expected no illustration after image failure")
	}
}

func TestSessionScenarioFailure(t *testing.T) {
	mock := &testutil.MockProvider{
		StructuredErrs: []error{fmt.Errorf("service down"), nil},
		StructuredJSON: []string{"", scenarioJSON},
	}
	s := newTestSession(mock, "danser")
	ctx := context.Background()

	if err := s.Start(ctx, "Pirates"); err == nil {
		t.Fatal("Expected error from failed scenario generation")
	}
	if s.State() != StateFailed {
		t.Fatalf("Expected failed state, got %q", s.State())
	}
	if s.Err() == nil {
		t.Error("Failed state should retain the error")
	}

	// Retry reuses the chosen theme and succeeds this time
	if err := s.Retry(ctx); err != nil {
		t.Fatalf("Retry failed: %v", err)
	}
	if s.State() != StateInteractive {
		t.Errorf("Expected interactive state after retry, got %q", s.State())
	}
	if !strings.Contains(mock.Calls[len(mock.Calls)-2], `"Pirates"`) {
		t.Error("Retry should reuse the original theme")
	}
}

func TestSessionIllegalTransitions(t *testing.T) {
	mock := &testutil.MockProvider{StructuredJSON: []string{scenarioJSON}}
	s := newTestSession(mock, "danser")
	ctx := context.Background()

	if _, err := s.Validate(ctx, "Je danse."); err == nil {
		t.Error("Validate before generation must fail")
	}
	if err := s.Retry(ctx); err == nil {
		t.Error("Retry outside the failed state must fail")
	}

	if err := s.Start(ctx, "Robots"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := s.Start(ctx, "Robots"); err == nil {
		t.Error("Start from interactive state must fail")
	}
}

func TestSessionReset(t *testing.T) {
	mock := &testutil.MockProvider{StructuredJSON: []string{scenarioJSON}}
	s := newTestSession(mock, "danser")

	if err := s.Start(context.Background(), "Animals"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	s.Reset()
	if s.State() != StateThemeSelection {
		t.Errorf("Expected theme selection after reset, got %q", s.State())
	}
	if s.Scenario() != nil || s.Illustration() != nil {
		t.Error("Reset should discard scenario and illustration")
	}
}
