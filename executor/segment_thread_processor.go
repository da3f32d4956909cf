package executor

import (
	"fmt"
	"log/slog"

	"github.com/fatih/color"
)

func SegmentSingleThreadProcessor(threadId int, tasksQueue <-chan *SegmentTask) {

	slog.Info("worker started", "thread_id", threadId)
	defer slog.Info("worker stopped", "thread_id", threadId)

	for task := range tasksQueue {

		curStatus := task.Status

		if curStatus.Err.Load() {

			if curStatus.ErrObject == nil {
				panic("err object not set, but err flag is true")
			} else {
				color.Red("skipped because of error: %s", curStatus.ErrObject.Error())
			}

		} else {

			taskRes, err := RunSegmentPipeline(task.Seg, task.Query)
			if err != nil {

				// the error object must be in place before the flag other
				// workers poll is raised; first failure wins
				curStatus.Lock.Lock()
				if curStatus.ErrObject == nil {
					curStatus.ErrObject = fmt.Errorf("error while executing segment pipeline: %s", err.Error())
				}
				curStatus.Lock.Unlock()

				curStatus.Err.Store(true)
			} else {

				func() {
					curStatus.Lock.Lock()
					defer curStatus.Lock.Unlock()

					curStatus.Results[task.SegmentIdx] = taskRes
				}()
			}
		}

		processed := curStatus.SegmentsProcessed.Add(1)

		if processed == int32(curStatus.SegmentsTotal) {
			curStatus.Waiter.Done()
		}
	}
}
