// Package testutil provides hand-rolled mocks shared by package tests.
package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"google.golang.org/genai"

	"codeberg.org/snonux/petitverbe/internal/provider"
)

// MockProvider mocks the content provider boundary. Structured responses
// are consumed in order, one per call, so tests can script retry flows.
type MockProvider struct {
	mu sync.Mutex

	StructuredJSON []string // JSON payloads returned by successive GenerateStructured calls
	StructuredErrs []error  // parallel errors; nil entries mean success
	ImageBlob      *provider.Blob
	ImageErr       error
	Audio          *provider.Audio
	AudioErr       error

	Calls []string // records every call with its prompt or text

	structuredCalls int
}

// GenerateStructured implements provider.Client.
func (m *MockProvider) GenerateStructured(ctx context.Context, prompt string, schema *genai.Schema, out any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, "structured: "+prompt)
	i := m.structuredCalls
	m.structuredCalls++

	if i < len(m.StructuredErrs) && m.StructuredErrs[i] != nil {
		return m.StructuredErrs[i]
	}
	if i >= len(m.StructuredJSON) {
		return fmt.Errorf("mock: no structured response scripted for call %d", i)
	}
	if err := json.Unmarshal([]byte(m.StructuredJSON[i]), out); err != nil {
		return &provider.MalformedResponseError{Model: "mock", Err: err}
	}
	return nil
}

// GenerateImage implements provider.Client.
func (m *MockProvider) GenerateImage(ctx context.Context, prompt string) (*provider.Blob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, "image: "+prompt)
	if m.ImageErr != nil {
		return nil, m.ImageErr
	}
	if m.ImageBlob == nil {
		return nil, provider.ErrNoImage
	}
	return m.ImageBlob, nil
}

// GenerateSpeech implements provider.Client.
func (m *MockProvider) GenerateSpeech(ctx context.Context, text string) (*provider.Audio, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, "speech: "+text)
	if m.AudioErr != nil {
		return nil, m.AudioErr
	}
	if m.Audio == nil {
		return nil, provider.ErrNoAudio
	}
	return m.Audio, nil
}

// Name implements provider.Client.
func (m *MockProvider) Name() string {
	return "mock"
}

// StructuredCallCount returns how many GenerateStructured calls were made.
func (m *MockProvider) StructuredCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.structuredCalls
}
