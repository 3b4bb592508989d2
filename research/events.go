package research

import "github.com/AishSoni/Narada-AI/core"

// EventType discriminates the search event union.
type EventType string

const (
	// EventPhaseUpdate announces a phase transition with a human message.
	EventPhaseUpdate EventType = "phase-update"
	// EventThinking is a free-text progress note.
	EventThinking EventType = "thinking"
	// EventFinalResult carries the answer, sources, and follow-up questions.
	// Terminal; at most one per invocation, mutually exclusive with EventError.
	EventFinalResult EventType = "final-result"
	// EventError carries a human-readable message and an error-kind tag.
	// Terminal; mutually exclusive with EventFinalResult.
	EventError EventType = "error"
)

// Phase names the orchestrator's logical states.
type Phase string

const (
	PhaseUnderstanding Phase = "understanding"
	PhaseRetrieving    Phase = "retrieving"
	PhaseEvaluating    Phase = "evaluating"
	PhaseSynthesizing  Phase = "synthesizing"
	PhaseComplete      Phase = "complete"
	PhaseError         Phase = "error"
)

// Error-kind tags attached to error events.
const (
	ErrorKindStackNotFound = "KnowledgeStackNotFound"
	ErrorKindSearch        = "search"
)

// SearchEvent is one entry in the ordered event stream produced per search
// invocation. Fields are populated according to Type.
type SearchEvent struct {
	Type EventType `json:"type"`

	// Phase and Message accompany phase-update events; Message alone
	// accompanies thinking events.
	Phase   Phase  `json:"phase,omitempty"`
	Message string `json:"message,omitempty"`

	// Content, Sources and FollowUpQuestions accompany final-result events.
	Content           string        `json:"content,omitempty"`
	Sources           []core.Source `json:"sources,omitempty"`
	FollowUpQuestions []string      `json:"followUpQuestions,omitempty"`

	// Error and ErrorType accompany error events.
	Error     string `json:"error,omitempty"`
	ErrorType string `json:"errorType,omitempty"`
}

// EventCallback consumes the event stream. Callbacks are invoked from the
// goroutine running the search, in production order, never concurrently.
type EventCallback func(SearchEvent)

// emitter serializes event delivery and enforces the single-terminal-event
// invariant: after a final-result or error event, further events are dropped.
type emitter struct {
	onEvent  EventCallback
	terminal bool
}

func newEmitter(onEvent EventCallback) *emitter {
	if onEvent == nil {
		onEvent = func(SearchEvent) {}
	}
	return &emitter{onEvent: onEvent}
}

func (e *emitter) phase(phase Phase, message string) {
	e.emit(SearchEvent{Type: EventPhaseUpdate, Phase: phase, Message: message})
}

func (e *emitter) thinking(message string) {
	e.emit(SearchEvent{Type: EventThinking, Message: message})
}

func (e *emitter) finalResult(content string, sources []core.Source, followUps []string) {
	e.emitTerminal(SearchEvent{
		Type:              EventFinalResult,
		Content:           content,
		Sources:           sources,
		FollowUpQuestions: followUps,
	})
}

func (e *emitter) error(message, kind string) {
	e.emitTerminal(SearchEvent{Type: EventError, Error: message, ErrorType: kind})
}

func (e *emitter) emit(event SearchEvent) {
	if e.terminal {
		return
	}
	e.onEvent(event)
}

func (e *emitter) emitTerminal(event SearchEvent) {
	if e.terminal {
		return
	}
	e.terminal = true
	e.onEvent(event)
}
