package driver

// Stage identifies which part of a function's check pipeline an Event
// describes (spec.md §4.3-§4.6 pipeline stages, narrated for progress UI).
type Stage uint8

const (
	StageQueued Stage = iota
	StageCollect
	StageLiveness
	StageLoanlive
	StageConflicts
	StageDone
)

// Status is the outcome half of an Event.
type Status uint8

const (
	StatusQueued Status = iota
	StatusWorking
	StatusCached
	StatusDone
	StatusError
)

// Event reports progress on one function's check run; consumed by
// internal/ui to drive the interactive progress display.
type Event struct {
	Func   string
	Stage  Stage
	Status Status
}

// ProgressSink receives Events as Run runs. A nil sink disables
// progress reporting entirely.
type ProgressSink chan<- Event

func emit(sink ProgressSink, name string, stage Stage, status Status) {
	if sink == nil {
		return
	}
	sink <- Event{Func: name, Stage: stage, Status: status}
}
