package overlay

// EventType identifies an editor state change
type EventType int

const (
	EventLayerAdded EventType = iota
	EventLayerChanged
	EventLayerRemoved
	EventOrderChanged
	EventSelectionChanged
	EventCleared
	EventDragEnded
)

func (t EventType) String() string {
	switch t {
	case EventLayerAdded:
		return "layer-added"
	case EventLayerChanged:
		return "layer-changed"
	case EventLayerRemoved:
		return "layer-removed"
	case EventOrderChanged:
		return "order-changed"
	case EventSelectionChanged:
		return "selection-changed"
	case EventCleared:
		return "cleared"
	case EventDragEnded:
		return "drag-ended"
	default:
		return "unknown"
	}
}

// Event describes one change. LayerID is empty for EventCleared.
type Event struct {
	Type    EventType
	LayerID LayerID
}

// Mutates reports whether the composed image may differ after the event.
// Selection changes and drag ends only affect editor chrome.
func (e Event) Mutates() bool {
	switch e.Type {
	case EventSelectionChanged, EventDragEnded:
		return false
	default:
		return true
	}
}

// Listener is called synchronously after each change, outside the editor lock
type Listener func(Event)
