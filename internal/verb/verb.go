package verb

import (
	"fmt"
	"strings"
)

// Tense is a French tense supported by the practice modes.
type Tense string

const (
	TensePresent        Tense = "Present"
	TenseFuturSimple    Tense = "Futur Simple"
	TenseImparfait      Tense = "Imparfait"
	TensePasseCompose   Tense = "Passé Composé"
	TensePlusQueParfait Tense = "Plus-que-parfait"
)

// AllTenses returns the supported tenses in display order.
func AllTenses() []Tense {
	return []Tense{
		TensePresent,
		TenseFuturSimple,
		TenseImparfait,
		TensePasseCompose,
		TensePlusQueParfait,
	}
}

// ParseTense resolves user input (CLI flag or config value) to a Tense.
// Matching is case-insensitive and accepts the common ASCII spellings.
func ParseTense(s string) (Tense, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "present", "présent":
		return TensePresent, nil
	case "futur", "futur simple", "futur-simple":
		return TenseFuturSimple, nil
	case "imparfait":
		return TenseImparfait, nil
	case "passe compose", "passé composé", "passe-compose":
		return TensePasseCompose, nil
	case "plus-que-parfait", "plus que parfait":
		return TensePlusQueParfait, nil
	default:
		return "", fmt.Errorf("unknown tense: %q", s)
	}
}

// Pronoun is one of the six grammatical persons conjugation varies by.
type Pronoun string

const (
	PronounJe       Pronoun = "Je"
	PronounTu       Pronoun = "Tu"
	PronounIlElle   Pronoun = "Il/Elle"
	PronounNous     Pronoun = "Nous"
	PronounVous     Pronoun = "Vous"
	PronounIlsElles Pronoun = "Ils/Elles"
)

// AllPronouns returns the six persons in fixed display order.
func AllPronouns() []Pronoun {
	return []Pronoun{
		PronounJe,
		PronounTu,
		PronounIlElle,
		PronounNous,
		PronounVous,
		PronounIlsElles,
	}
}

// SurfacePronouns is the eight-form subject list used by the quiz and
// story modes. Il/Elle and Ils/Elles are deliberately split here for
// practice variety; the conjugation table keeps the six-way grouping.
// Do not unify the two lists.
var SurfacePronouns = []string{"Je", "Tu", "Il", "Elle", "Nous", "Vous", "Ils", "Elles"}

// MapPronoun maps a free-form pronoun string returned by the content
// provider onto the closed six-person set. Matching is by substring over
// the lowercased input, plural forms before singular ones so that "ils"
// never matches as "il". Anything unrecognized maps to Il/Elle; this
// default is intentional and relied upon by callers.
func MapPronoun(s string) Pronoun {
	l := strings.ToLower(s)
	switch {
	case strings.Contains(l, "je") || strings.Contains(l, "j'"):
		return PronounJe
	case strings.Contains(l, "tu"):
		return PronounTu
	case strings.Contains(l, "nous"):
		return PronounNous
	case strings.Contains(l, "vous"):
		return PronounVous
	case strings.Contains(l, "ils") || strings.Contains(l, "elles"):
		return PronounIlsElles
	default:
		return PronounIlElle
	}
}

// ConjugationEntry is a single row of a conjugation table.
type ConjugationEntry struct {
	Pronoun          Pronoun `json:"pronoun"`
	Conjugation      string  `json:"conjugation"`
	PronunciationKey string  `json:"pronunciationKey,omitempty"`
}

// Data is a fetched conjugation record for one verb in one tense.
// Records are immutable once stored in the cache.
type Data struct {
	Verb            string             `json:"verb"`
	Tense           Tense              `json:"tense"`
	Translation     string             `json:"translation"`
	Emoji           string             `json:"emoji"`
	ExampleSentence string             `json:"exampleSentence"`
	Conjugations    []ConjugationEntry `json:"conjugations"`
}

// QuizQuestion is one multiple-choice fill-in-the-blank round. Options
// always has four entries and contains CorrectAnswer; the quiz
// orchestrator enforces this before handing a question to the caller.
type QuizQuestion struct {
	Question      string   `json:"question"`
	CorrectAnswer string   `json:"correctAnswer"`
	Options       []string `json:"options"`
	Translation   string   `json:"translation"`
}

// StoryScenario is the text half of one story exercise: a prompt for the
// illustration generator, the sentence the student should aim for, and an
// English hint naming the pronoun to use.
type StoryScenario struct {
	ImagePrompt    string `json:"imagePrompt"`
	TargetSentence string `json:"targetSentence"`
	Hint           string `json:"hint"`
}

// SuggestedVerbs is the starter list shown when no verb is given.
var SuggestedVerbs = []string{
	"manger", "être", "avoir", "aller", "faire", "jouer", "aimer",
	"finir", "pouvoir", "vouloir", "danser", "chanter", "dormir",
}
