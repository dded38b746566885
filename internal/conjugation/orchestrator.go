// Package conjugation fetches and caches conjugation tables from the
// content provider. A verb/tense pair is requested at most once; failures
// come back as a valid-shaped placeholder record alongside the error so
// the caller can still render something.
package conjugation

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"codeberg.org/snonux/petitverbe/internal/provider"
	"codeberg.org/snonux/petitverbe/internal/verb"
)

// Orchestrator builds prompts, calls the provider and normalizes
// responses into verb.Data records.
type Orchestrator struct {
	client provider.Client
	cache  *verb.Cache
}

// New creates an orchestrator using the given provider client and cache.
func New(client provider.Client, cache *verb.Cache) *Orchestrator {
	return &Orchestrator{client: client, cache: cache}
}

// response mirrors the structured-output contract sent to the provider.
type response struct {
	Verb            string          `json:"verb"`
	Tense           string          `json:"tense"`
	Translation     string          `json:"translation"`
	Emoji           string          `json:"emoji"`
	ExampleSentence string          `json:"exampleSentence"`
	Conjugations    []responseEntry `json:"conjugations"`
}

type responseEntry struct {
	Pronoun          string `json:"pronoun"`
	Conjugation      string `json:"conjugation"`
	PronunciationKey string `json:"pronunciationKey"`
}

// Fetch returns the conjugation record for (v, tense). Cache hits return
// the stored record without a remote call. On provider or parse failure
// it returns a degraded placeholder record together with the error; the
// placeholder is never cached.
func (o *Orchestrator) Fetch(ctx context.Context, v string, tense verb.Tense) (verb.Data, error) {
	if data, ok := o.cache.Get(v, tense); ok {
		return data, nil
	}

	var resp response
	if err := o.client.GenerateStructured(ctx, conjugationPrompt(v, tense), conjugationSchema(), &resp); err != nil {
		return sentinel(v, tense), fmt.Errorf("conjugation fetch for %q failed: %w", v, err)
	}
	if err := validate(&resp); err != nil {
		return sentinel(v, tense), fmt.Errorf("conjugation fetch for %q failed: %w", v, err)
	}

	data := normalize(v, tense, &resp)
	o.cache.Put(v, tense, data)
	return data, nil
}

// validate rejects responses missing required fields. A bare JSON object
// unmarshals without error, so this keeps degenerate records out of the
// cache; violations go through the sentinel path like any other failure.
func validate(resp *response) error {
	if resp.Translation == "" {
		return fmt.Errorf("response is missing the translation")
	}
	if len(resp.Conjugations) == 0 {
		return fmt.Errorf("response contains no conjugations")
	}
	return nil
}

// normalize maps the provider response onto the typed record. The tense
// is always the requested one, never what the provider echoed back.
func normalize(v string, tense verb.Tense, resp *response) verb.Data {
	data := verb.Data{
		Verb:            resp.Verb,
		Tense:           tense,
		Translation:     resp.Translation,
		Emoji:           resp.Emoji,
		ExampleSentence: resp.ExampleSentence,
	}
	if data.Verb == "" {
		data.Verb = v
	}
	if data.ExampleSentence == "" {
		data.ExampleSentence = fmt.Sprintf("Je %s ...", data.Verb)
	}

	seen := make(map[verb.Pronoun]bool)
	for _, e := range resp.Conjugations {
		p := verb.MapPronoun(e.Pronoun)
		if seen[p] {
			continue // at most one entry per pronoun, first wins
		}
		seen[p] = true
		data.Conjugations = append(data.Conjugations, verb.ConjugationEntry{
			Pronoun:          p,
			Conjugation:      e.Conjugation,
			PronunciationKey: e.PronunciationKey,
		})
	}
	return data
}

// sentinel is the degraded record returned when the provider fails.
func sentinel(v string, tense verb.Tense) verb.Data {
	return verb.Data{
		Verb:            v,
		Tense:           tense,
		Translation:     "Error loading",
		Emoji:           "❓",
		ExampleSentence: "Error...",
		Conjugations:    []verb.ConjugationEntry{},
	}
}

func conjugationPrompt(v string, tense verb.Tense) string {
	return fmt.Sprintf(`Conjugate the French verb %q in the %q tense.
Provide the English translation of the verb.
Choose a single fun emoji that represents this action.
Provide a simple example sentence in French using this verb in this tense.
Provide conjugations for: Je, Tu, Il/Elle, Nous, Vous, Ils/Elles.
Ensure "Il/Elle" and "Ils/Elles" treat the pronoun as a single string key.
For each conjugation include a simple phonetic pronunciation guide for kids.`, v, string(tense))
}

func conjugationSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"verb":            {Type: genai.TypeString},
			"tense":           {Type: genai.TypeString},
			"translation":     {Type: genai.TypeString},
			"emoji":           {Type: genai.TypeString},
			"exampleSentence": {Type: genai.TypeString},
			"conjugations": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"pronoun":     {Type: genai.TypeString},
						"conjugation": {Type: genai.TypeString},
						"pronunciationKey": {
							Type:        genai.TypeString,
							Description: "A simple phonetic pronunciation guide for kids",
						},
					},
					Required: []string{"pronoun", "conjugation"},
				},
			},
		},
		Required: []string{"verb", "tense", "translation", "emoji", "conjugations"},
	}
}
