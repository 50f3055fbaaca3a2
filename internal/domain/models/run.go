package models

// RunState tracks a single pipeline run through its lifecycle.
// Transitions are one-directional: Idle -> Fetching -> Computing ->
// Classifying -> Rendering -> Publishing -> Done, with any stage able
// to move to Failed.
type RunState string

const (
	StateIdle        RunState = "idle"
	StateFetching    RunState = "fetching"
	StateComputing   RunState = "computing"
	StateClassifying RunState = "classifying"
	StateRendering   RunState = "rendering"
	StatePublishing  RunState = "publishing"
	StateFailed      RunState = "failed"
	StateDone        RunState = "done"
)

var runOrder = map[RunState]int{
	StateIdle:        0,
	StateFetching:    1,
	StateComputing:   2,
	StateClassifying: 3,
	StateRendering:   4,
	StatePublishing:  5,
	StateDone:        6,
}

// CanTransition reports whether moving from to next is a legal step.
// Failed is terminal and reachable from any non-terminal state.
func (s RunState) CanTransition(next RunState) bool {
	if s == StateFailed || s == StateDone {
		return false
	}
	if next == StateFailed {
		return true
	}
	a, ok := runOrder[s]
	if !ok {
		return false
	}
	b, ok := runOrder[next]
	if !ok {
		return false
	}
	return b == a+1
}
