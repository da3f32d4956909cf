package executor

import (
	"log/slog"

	"github.com/dot5enko/segment-exec/query"
	"github.com/dot5enko/segment-exec/segment"
)

// Run evaluates one query across independent segments: one pipeline per
// segment, fanned out over a fixed worker pool. Pipelines share nothing,
// segments and the query are read-only inputs.
func Run(segments []*segment.Segment, queryData query.Query, threads int) ([]SegmentResult, error) {

	if len(segments) == 0 {
		return []SegmentResult{}, nil
	}

	if threads < 1 {
		threads = 1
	}

	status := &TaskStatus{
		SegmentsTotal: len(segments),
		Results:       make([]SegmentResult, len(segments)),
	}
	status.Waiter.Add(1)

	tasksQueue := make(chan *SegmentTask, len(segments))

	for threadId := range threads {
		go SegmentSingleThreadProcessor(threadId, tasksQueue)
	}

	for idx, seg := range segments {
		tasksQueue <- &SegmentTask{
			Seg:        seg,
			Query:      queryData,
			SegmentIdx: idx,
			Status:     status,
		}
	}
	close(tasksQueue)

	status.Waiter.Wait()

	if status.Err.Load() {
		return nil, status.ErrObject
	}

	totalMatched := 0
	for _, it := range status.Results {
		totalMatched += it.NumMatched
	}

	slog.Info("query executed", "segments", len(segments), "total_matched", totalMatched)

	return status.Results, nil
}
