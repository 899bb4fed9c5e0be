package llm

import "context"

// MockProvider is a scripted provider for tests. Responses are returned in
// order; when they run out, the last one repeats. A non-nil Err is returned
// for every call instead.
type MockProvider struct {
	Responses []string
	Err       error

	calls int
}

// Name returns the provider name.
func (m *MockProvider) Name() string {
	return "mock"
}

// Generate returns the next scripted response.
func (m *MockProvider) Generate(ctx context.Context, prompt string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Responses) == 0 {
		return "", nil
	}
	idx := m.calls
	if idx >= len(m.Responses) {
		idx = len(m.Responses) - 1
	}
	m.calls++
	return m.Responses[idx], nil
}

// Calls reports how many times Generate was invoked.
func (m *MockProvider) Calls() int {
	return m.calls
}
