package ports

import "time"

type TaskID uint64

// TaskFunc receives the payload captured at registration time.
type TaskFunc func(args map[string]any) error

type PendingTask struct {
	ID     TaskID
	FireAt time.Time
	Args   map[string]any
}

type SchedulerPort interface {
	Schedule(delay time.Duration, args map[string]any, task TaskFunc) (TaskID, error)
	Cancel(id TaskID) bool
	Pending() []PendingTask
}
