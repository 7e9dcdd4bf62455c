package garage

// State is the persistence state of the widget
type State int

const (
	// Idle - nothing to save
	Idle State = iota
	// PendingSave - debounce timer armed
	PendingSave
	// Saving - a save call is in flight
	Saving
	// SaveFailed - the last save failed; cleared when the indicator hides
	SaveFailed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case PendingSave:
		return "pending"
	case Saving:
		return "saving"
	case SaveFailed:
		return "save-failed"
	default:
		return "unknown"
	}
}

// EventKind is a user action the widget reacts to
type EventKind int

const (
	EventToggle EventKind = iota
	EventSearch
	EventOpen
	EventClose
)

// Event is one user action; VehicleID is used by toggle, Query by search
type Event struct {
	Kind      EventKind
	VehicleID string
	Query     string
}
