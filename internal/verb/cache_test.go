package verb

import (
	"testing"
	"time"
)

func TestKeyNormalization(t *testing.T) {
	tests := []struct {
		verb     string
		tense    Tense
		expected string
	}{
		{"Danser", TensePresent, "danser|Present"},
		{"  danser ", TensePresent, "danser|Present"},
		{"être", TenseImparfait, "être|Imparfait"},
		// Accents are preserved, not folded
		{"Être", TenseImparfait, "être|Imparfait"},
	}

	for _, tt := range tests {
		if got := Key(tt.verb, tt.tense); got != tt.expected {
			t.Errorf("Key(%q, %q) = %q, expected %q", tt.verb, tt.tense, got, tt.expected)
		}
	}
}

func TestCachePutGet(t *testing.T) {
	c := NewCache(0)

	if _, ok := c.Get("danser", TensePresent); ok {
		t.Fatal("Expected miss on empty cache")
	}

	data := Data{Verb: "danser", Tense: TensePresent, Translation: "to dance"}
	c.Put("danser", TensePresent, data)

	got, ok := c.Get("Danser", TensePresent)
	if !ok {
		t.Fatal("Expected hit for case-insensitive key")
	}
	if got.Translation != "to dance" {
		t.Errorf("Expected translation 'to dance', got %q", got.Translation)
	}

	// Different tense is a different entry
	if _, ok := c.Get("danser", TenseImparfait); ok {
		t.Error("Expected miss for different tense")
	}

	if c.Len() != 1 {
		t.Errorf("Expected 1 entry, got %d", c.Len())
	}
}

func TestCacheReplace(t *testing.T) {
	c := NewCache(0)

	c.Put("danser", TensePresent, Data{Verb: "danser", Translation: "first"})
	c.Put("danser", TensePresent, Data{Verb: "danser", Translation: "second"})

	got, ok := c.Get("danser", TensePresent)
	if !ok {
		t.Fatal("Expected hit")
	}
	if got.Translation != "second" {
		t.Errorf("Expected last write to win, got %q", got.Translation)
	}
	if c.Len() != 1 {
		t.Errorf("Expected 1 entry after replace, got %d", c.Len())
	}
}

func TestCacheTTL(t *testing.T) {
	c := NewCache(10 * time.Millisecond)

	c.Put("danser", TensePresent, Data{Verb: "danser"})
	if _, ok := c.Get("danser", TensePresent); !ok {
		t.Fatal("Expected hit before expiry")
	}

	time.Sleep(25 * time.Millisecond)
	if _, ok := c.Get("danser", TensePresent); ok {
		t.Error("Expected miss after TTL expiry")
	}
}
