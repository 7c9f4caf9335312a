package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventInputChanged      EventType = "InputChanged"
	EventSelectionChanged  EventType = "SelectionChanged"
	EventHighlightProgress EventType = "HighlightProgress"
	EventSearchRequested   EventType = "SearchRequested"
	EventFetchStarted      EventType = "FetchStarted"
	EventOptionsLoaded     EventType = "OptionsLoaded"
	EventError             EventType = "Error"
	EventConfigLoaded      EventType = "ConfigLoaded"
	EventConfigSaved       EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// InputChangedEvent is emitted when the input text or filter text of a select changes
type InputChangedEvent struct {
	HostID string
	Value  string // literal input text
	Query  string // text used for filtering, empty right after a selection
}

func (e InputChangedEvent) Type() EventType { return EventInputChanged }

// SelectionChangedEvent is emitted when options are selected or deselected
type SelectionChangedEvent struct {
	HostID string
	Labels []string
}

func (e SelectionChangedEvent) Type() EventType { return EventSelectionChanged }

// HighlightProgressEvent reports how far through the visible options the highlight is
type HighlightProgressEvent struct {
	HostID    string
	Index     int
	Length    int
	Remaining int // positions after the highlighted one
	Percent   float64
	MenuOpen  bool
}

func (e HighlightProgressEvent) Type() EventType { return EventHighlightProgress }

// SearchRequestedEvent is emitted when the user submits text with nothing highlighted
type SearchRequestedEvent struct {
	HostID string
	Query  string
}

func (e SearchRequestedEvent) Type() EventType { return EventSearchRequested }

// FetchStartedEvent is emitted when a page of options is requested from a source
type FetchStartedEvent struct {
	Query string
	Page  int
}

func (e FetchStartedEvent) Type() EventType { return EventFetchStarted }

// OptionsLoadedEvent carries a page of options fetched from a source
type OptionsLoadedEvent struct {
	Query   string
	Page    int
	Options []Option[string]
	Reset   bool // first page, replaces the current options
	HasMore bool
}

func (e OptionsLoadedEvent) Type() EventType { return EventOptionsLoaded }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
