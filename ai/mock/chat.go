package mock

import "context"

// MockChatModel is a test double for ai.ChatModel.
// It allows custom behavior injection via function fields.
type MockChatModel struct {
	// GenerateFunc is called by Generate if set.
	GenerateFunc func(ctx context.Context, system, prompt string) (string, error)

	// GenerateJSONFunc is called by GenerateJSON if set.
	GenerateJSONFunc func(ctx context.Context, system, prompt string) (string, error)

	// Response is returned when no function field is set. Defaults to "".
	Response string

	callCount int
}

// NewMockChatModel creates a mock chat model returning empty completions.
func NewMockChatModel() *MockChatModel {
	return &MockChatModel{}
}

// Generate returns the injected or canned completion.
func (m *MockChatModel) Generate(ctx context.Context, system, prompt string) (string, error) {
	m.callCount++
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, system, prompt)
	}
	return m.Response, nil
}

// GenerateJSON returns the injected or canned completion.
func (m *MockChatModel) GenerateJSON(ctx context.Context, system, prompt string) (string, error) {
	m.callCount++
	if m.GenerateJSONFunc != nil {
		return m.GenerateJSONFunc(ctx, system, prompt)
	}
	return m.Response, nil
}

// CallCount returns the number of times any method was called.
func (m *MockChatModel) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockChatModel) Reset() {
	m.callCount = 0
	m.GenerateFunc = nil
	m.GenerateJSONFunc = nil
	m.Response = ""
}
