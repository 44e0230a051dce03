package service

// State is the lifecycle position of a Pipeline.
type State int

const (
	Idle State = iota
	Ingesting
	Ready
	Querying
	Answered
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Ingesting:
		return "ingesting"
	case Ready:
		return "ready"
	case Querying:
		return "querying"
	case Answered:
		return "answered"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}
