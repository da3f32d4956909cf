package executor

import (
	"sync"
	"sync/atomic"

	"github.com/dot5enko/segment-exec/query"
	"github.com/dot5enko/segment-exec/segment"
)

type TaskStatus struct {
	SegmentsTotal     int
	SegmentsProcessed atomic.Int32

	Err       atomic.Bool
	ErrObject error

	Results []SegmentResult

	Waiter sync.WaitGroup
	Lock   sync.Mutex
}

type SegmentTask struct {
	Seg   *segment.Segment
	Query query.Query

	SegmentIdx int

	Status *TaskStatus
}
