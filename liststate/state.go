// Package liststate provides the state machine behind paginated, filterable
// listings such as a product's reviews.
//
// State machine:
//
//	idle -> loading             (first request)
//	loading -> loaded           (response ok)
//	loading -> errored          (response not ok or network failure)
//	loading -> loading          (a newer request supersedes the in-flight one)
//	loaded -> loading           (filter, page or resource changed)
//	errored -> loading          (filter, page or resource changed)
//
// Only the latest issued request may move the list out of loading: every
// request carries a generation number, and results of older generations are
// discarded (last-request-wins, not last-response-wins).
package liststate

// State represents the current state of a list.
type State string

const (
	// StateIdle indicates nothing has been requested yet.
	StateIdle State = "idle"

	// StateLoading indicates a request is in flight.
	StateLoading State = "loading"

	// StateLoaded indicates the latest request succeeded.
	StateLoaded State = "loaded"

	// StateErrored indicates the latest request failed.
	StateErrored State = "errored"
)

// AllStates returns all possible list states.
func AllStates() []State {
	return []State{
		StateIdle,
		StateLoading,
		StateLoaded,
		StateErrored,
	}
}

// IsValid returns true if the state is a valid State value.
func (s State) IsValid() bool {
	switch s {
	case StateIdle, StateLoading, StateLoaded, StateErrored:
		return true
	default:
		return false
	}
}

// IsSettled returns true if no request is in flight.
func (s State) IsSettled() bool {
	return s != StateLoading
}

// CanTransitionTo returns true if a transition from this state to the
// target state is valid.
//
// Valid transitions:
//   - idle, loaded, errored -> loading
//   - loading -> loading (superseded)
//   - loading -> loaded
//   - loading -> errored
func (s State) CanTransitionTo(target State) bool {
	switch s {
	case StateIdle, StateLoaded, StateErrored:
		return target == StateLoading
	case StateLoading:
		return target == StateLoading || target == StateLoaded || target == StateErrored
	}
	return false
}

// String returns the string representation of the state.
func (s State) String() string {
	return string(s)
}
