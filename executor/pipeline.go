package executor

import (
	"fmt"

	"github.com/dot5enko/segment-exec/docids"
	"github.com/dot5enko/segment-exec/groupby"
	"github.com/dot5enko/segment-exec/query"
	"github.com/dot5enko/segment-exec/schema"
	"github.com/dot5enko/segment-exec/segment"
	"github.com/google/uuid"
)

type SegmentResult struct {
	SegmentUid uuid.UUID

	NumMatched int

	// composite group key -> matched row (or value combination) count
	GroupCounts map[string]int
}

// RunSegmentPipeline drives one full filter + group-by pass over a
// segment: compile the filter tree, pull the matching doc ids through it,
// project the survivors and feed them to the group-key generator. One
// pipeline is owned by exactly one worker, nothing here is shared.
func RunSegmentPipeline(seg *segment.Segment, queryData query.Query) (SegmentResult, error) {

	filterRoot, planErr := query.PlanFilter(seg, queryData)
	if planErr != nil {
		return SegmentResult{}, fmt.Errorf("unable to construct filter tree : %s", planErr.Error())
	}

	generator, genErr := groupby.New(seg, queryData.GroupBy, queryData.ArrayKeyThreshold)
	if genErr != nil {
		return SegmentResult{}, fmt.Errorf("unable to construct group key generator : %s", genErr.Error())
	}

	matched := docids.Collect(filterRoot.FilteredDocIdSet())

	counts := map[int]int{}

	// matched rows are projected and keyed in block-sized windows so one
	// wide match list never materializes every column copy at once
	for start := 0; start < len(matched); start += schema.BlockRowsSize {

		end := min(start+schema.BlockRowsSize, len(matched))
		projected := seg.ProjectRows(matched[start:end])

		if generator.MultiValued() {
			buffer := make([][]int, projected.NumRows())
			generator.GenerateBlockKeysMultiValue(projected, buffer)

			for _, keys := range buffer {
				for _, key := range keys {
					counts[key]++
				}
			}
		} else {
			buffer := make([]int, projected.NumRows())
			generator.GenerateBlockKeys(projected, buffer)

			for _, key := range buffer {
				counts[key]++
			}
		}
	}

	groupCounts := make(map[string]int, len(counts))

	keysIterator := generator.UniqueGroupKeys()
	for {
		groupKey, ok := keysIterator.Next()
		if !ok {
			break
		}

		if count, found := counts[groupKey.Id]; found {
			groupCounts[groupKey.Key] = count
		}
	}

	return SegmentResult{
		SegmentUid:  seg.Uid,
		NumMatched:  len(matched),
		GroupCounts: groupCounts,
	}, nil
}
