package executor

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/dot5enko/segment-exec/query"
	"github.com/dot5enko/segment-exec/schema"
	"github.com/dot5enko/segment-exec/segment"
)

type executorRow struct {
	region uint64
	status uint64
	tags   []uint64
}

func buildExecutorSegment(t *testing.T, seed int64, numRows int) (*segment.Segment, []executorRow) {
	t.Helper()

	rnd := rand.New(rand.NewSource(seed))

	columns := []schema.ColumnDescriptor{
		{Name: "region"},
		{Name: "status"},
		{Name: "tags", MultiValued: true},
	}

	builder := segment.NewBuilder(fmt.Sprintf("exec-%d", seed), columns)

	rows := make([]executorRow, numRows)
	for i := range rows {

		rows[i] = executorRow{
			region: uint64(rnd.Intn(6)),
			status: uint64(rnd.Intn(4)),
			tags:   make([]uint64, 1+rnd.Intn(3)),
		}
		for k := range rows[i].tags {
			rows[i].tags[k] = uint64(rnd.Intn(8))
		}

		builder.Add(segment.Row{
			"region": {rows[i].region},
			"status": {rows[i].status},
			"tags":   rows[i].tags,
		})
	}

	seg, err := builder.Build()
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	return seg, rows
}

func TestRunSegmentPipelineSingleValue(t *testing.T) {

	seg, rows := buildExecutorSegment(t, 5, 2000)

	queryData := query.Query{
		Filter: []query.FilterCondition{
			{Field: "status", Operand: query.LT, Arguments: []uint64{2}},
		},
		GroupBy: []string{"region"},
	}

	result, err := RunSegmentPipeline(seg, queryData)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	expectedMatched := 0
	expectedCounts := map[uint64]int{}
	for _, row := range rows {
		if row.status < 2 {
			expectedMatched++
			expectedCounts[row.region]++
		}
	}

	if result.NumMatched != expectedMatched {
		t.Errorf("expected %d matched rows, got %d", expectedMatched, result.NumMatched)
	}
	if len(result.GroupCounts) != len(expectedCounts) {
		t.Errorf("expected %d groups, got %d", len(expectedCounts), len(result.GroupCounts))
	}

	// group keys carry the region dictionary id
	region, _ := seg.Column("region")
	for value, count := range expectedCounts {
		id, _ := region.Dict.IdOf(value)
		key := fmt.Sprintf("%d", id)
		if result.GroupCounts[key] != count {
			t.Errorf("region %d (key %q): expected count %d, got %d", value, key, count, result.GroupCounts[key])
		}
	}
}

func TestRunSegmentPipelineMultiValue(t *testing.T) {

	seg, rows := buildExecutorSegment(t, 6, 1500)

	queryData := query.Query{
		Filter: []query.FilterCondition{
			{Field: "status", Operand: query.EQ, Arguments: []uint64{1}},
		},
		GroupBy: []string{"region", "tags"},
	}

	result, err := RunSegmentPipeline(seg, queryData)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	region, _ := seg.Column("region")
	tags, _ := seg.Column("tags")

	expectedCounts := map[string]int{}
	for _, row := range rows {
		if row.status != 1 {
			continue
		}
		regionId, _ := region.Dict.IdOf(row.region)
		for _, tag := range row.tags {
			tagId, _ := tags.Dict.IdOf(tag)
			expectedCounts[fmt.Sprintf("%d\t%d", regionId, tagId)]++
		}
	}

	if len(result.GroupCounts) != len(expectedCounts) {
		t.Errorf("expected %d groups, got %d", len(expectedCounts), len(result.GroupCounts))
	}
	for key, count := range expectedCounts {
		if result.GroupCounts[key] != count {
			t.Errorf("group %q: expected count %d, got %d", key, count, result.GroupCounts[key])
		}
	}
}

func TestRunAcrossSegments(t *testing.T) {

	first, firstRows := buildExecutorSegment(t, 7, 1000)
	second, secondRows := buildExecutorSegment(t, 8, 1000)

	queryData := query.Query{
		Filter: []query.FilterCondition{
			{Field: "status", Operand: query.EQ, Arguments: []uint64{0}},
		},
		GroupBy: []string{"region"},
	}

	results, err := Run([]*segment.Segment{first, second}, queryData, 4)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 segment results, got %d", len(results))
	}

	// results keep submission order regardless of worker scheduling
	if results[0].SegmentUid != first.Uid || results[1].SegmentUid != second.Uid {
		t.Errorf("results out of submission order")
	}

	countMatched := func(rows []executorRow) int {
		matched := 0
		for _, row := range rows {
			if row.status == 0 {
				matched++
			}
		}
		return matched
	}

	if results[0].NumMatched != countMatched(firstRows) {
		t.Errorf("segment 1: expected %d matched rows, got %d", countMatched(firstRows), results[0].NumMatched)
	}
	if results[1].NumMatched != countMatched(secondRows) {
		t.Errorf("segment 2: expected %d matched rows, got %d", countMatched(secondRows), results[1].NumMatched)
	}
}

func TestRunPropagatesErrors(t *testing.T) {

	seg, _ := buildExecutorSegment(t, 9, 100)

	queryData := query.Query{
		GroupBy: []string{"missing"},
	}

	if _, err := Run([]*segment.Segment{seg}, queryData, 2); err == nil {
		t.Errorf("expected error for an unknown group column")
	}
}

func TestRunConcurrentFailures(t *testing.T) {

	seg, _ := buildExecutorSegment(t, 11, 50)

	// every task fails, many workers observe the error flag while others
	// are still raising it
	segments := make([]*segment.Segment, 64)
	for i := range segments {
		segments[i] = seg
	}

	queryData := query.Query{GroupBy: []string{"missing"}}

	for round := 0; round < 20; round++ {
		if _, err := Run(segments, queryData, 16); err == nil {
			t.Fatalf("round %d: expected error for an unknown group column", round)
		}
	}
}

func TestRunSegmentPipelineWindowsWideMatches(t *testing.T) {

	// more matched rows than one evaluation window holds
	numRows := schema.BlockRowsSize + 5000
	seg, rows := buildExecutorSegment(t, 12, numRows)

	result, err := RunSegmentPipeline(seg, query.Query{GroupBy: []string{"region"}})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	if result.NumMatched != numRows {
		t.Errorf("expected all %d rows matched, got %d", numRows, result.NumMatched)
	}

	expectedCounts := map[uint64]int{}
	for _, row := range rows {
		expectedCounts[row.region]++
	}

	region, _ := seg.Column("region")
	total := 0
	for value, count := range expectedCounts {
		id, _ := region.Dict.IdOf(value)
		key := fmt.Sprintf("%d", id)
		if result.GroupCounts[key] != count {
			t.Errorf("region %d: expected count %d across windows, got %d", value, count, result.GroupCounts[key])
		}
		total += result.GroupCounts[key]
	}

	if total != numRows {
		t.Errorf("expected window counts to sum to %d, got %d", numRows, total)
	}
}

func TestRunNoSegments(t *testing.T) {

	results, err := Run(nil, query.Query{GroupBy: []string{"region"}}, 2)
	if err != nil {
		t.Errorf("unexpected error %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}
