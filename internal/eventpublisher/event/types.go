package event

type (
	EventType int

	Event struct {
		Type    EventType
		Message interface{}
		Err     error
	}

	EventChannel  chan Event
	EventWChannel chan<- Event
)

const (
	DbDocAdded EventType = iota
	DbDocChanged
	DbDocDeleted
)
