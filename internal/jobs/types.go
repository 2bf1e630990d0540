package jobs

import "time"

// Batch is the set of candidate log lines read by one poll, in file order.
type Batch struct {
	ID         string
	SessionID  uint64
	Lines      []string
	EnqueuedAt time.Time
}

// Stats is a point-in-time view of queue health.
type Stats struct {
	Pending       int
	OldestPending time.Duration
	Processed     uint64
	Failed        uint64
	Running       bool
}
