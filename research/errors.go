package research

import "errors"

var (
	// ErrChatModelRequired is returned when no chat model is provided.
	ErrChatModelRequired = errors.New("chat model is required")
	// ErrWebClientRequired is returned when no web search client is provided.
	ErrWebClientRequired = errors.New("web search client is required")
)
