package form

import "fmt"

// EventKind names a control change.
type EventKind string

const (
	EventStartYearChanged   EventKind = "startYearChanged"
	EventEndYearChanged     EventKind = "endYearChanged"
	EventLevelToggled       EventKind = "levelToggled"
	EventParentMatchChanged EventKind = "parentMatchChanged"
)

// Event is a single user interaction with one of the bound controls. Only the
// fields relevant to Kind are read.
type Event struct {
	Kind    EventKind `json:"kind"`
	Year    int       `json:"year,omitempty"`
	Level   Level     `json:"level,omitempty"`
	Checked bool      `json:"checked,omitempty"`
	Choice  Choice    `json:"choice,omitempty"`
}

// Dispatch routes ev to its controller and returns the next state. Handlers
// run synchronously; the input state is never modified.
func Dispatch(state FormState, ev Event) (FormState, error) {
	switch ev.Kind {
	case EventStartYearChanged:
		return SelectStartYear(state, ev.Year), nil
	case EventEndYearChanged:
		return SelectEndYear(state, ev.Year), nil
	case EventLevelToggled:
		if !ev.Level.Valid() {
			return state, fmt.Errorf("form: unknown level %q", ev.Level)
		}
		return ToggleLevel(state, ev.Level, ev.Checked), nil
	case EventParentMatchChanged:
		return SelectParentMatch(state, ev.Choice), nil
	default:
		return state, fmt.Errorf("form: unknown event %q", ev.Kind)
	}
}
