package store

// Status is the lifecycle of a server-backed collection. A collection
// starts Idle, moves to Loading on its first fetch, then settles in
// Ready or Failed. Mutations run Ready -> Mutating -> Ready|Failed
// while the last good snapshot stays readable.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusMutating
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusMutating:
		return "mutating"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}
