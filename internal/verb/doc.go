// Package verb defines the domain types for French verb practice:
// tenses, grammatical persons, conjugation tables, quiz questions and
// story scenarios, plus the in-memory cache keyed by verb and tense.
package verb
