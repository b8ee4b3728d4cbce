package domain

const (
	EventNameResultSubmitted   = "result.submitted"
	EventNameResultsRecomputed = "results.recomputed"
)

type EventResultSubmitted struct {
	Result Result
}

func (EventResultSubmitted) Name() string { return EventNameResultSubmitted }

type EventResultsRecomputed struct {
	Patched int
}

func (EventResultsRecomputed) Name() string { return EventNameResultsRecomputed }
