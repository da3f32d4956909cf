package segment

import (
	"errors"
	"testing"

	"github.com/dot5enko/segment-exec/schema"
)

func testColumns() []schema.ColumnDescriptor {
	return []schema.ColumnDescriptor{
		{Name: "region"},
		{Name: "status"},
		{Name: "tags", MultiValued: true},
	}
}

func testRows() []Row {
	return []Row{
		{"region": {10}, "status": {1}, "tags": {100, 200}},
		{"region": {30}, "status": {0}, "tags": {200}},
		{"region": {10}, "status": {2}, "tags": {300, 100, 200}},
		{"region": {20}, "status": {1}, "tags": {100}},
	}
}

func buildTestSegment(t *testing.T) *Segment {
	t.Helper()

	builder := NewBuilder("orders", testColumns())
	builder.Add(testRows()...)

	seg, err := builder.Build()
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	return seg
}

func TestDictionaryIdsFollowValueOrder(t *testing.T) {

	dict := BuildDictionary([]uint64{30, 10, 30, 20, 10})

	if dict.Cardinality() != 3 {
		t.Fatalf("expected cardinality 3, got %d", dict.Cardinality())
	}

	expected := []uint64{10, 20, 30}
	for id, value := range expected {
		if dict.ValueOf(uint32(id)) != value {
			t.Errorf("id %d: expected value %d, got %d", id, value, dict.ValueOf(uint32(id)))
		}
		gotId, found := dict.IdOf(value)
		if !found || gotId != uint32(id) {
			t.Errorf("value %d: expected id %d, got %d (found=%v)", value, id, gotId, found)
		}
	}

	if _, found := dict.IdOf(15); found {
		t.Errorf("expected value 15 to be absent")
	}

	if dict.SearchGE(15) != 1 || dict.SearchGT(20) != 2 {
		t.Errorf("unexpected search positions: ge(15)=%d gt(20)=%d", dict.SearchGE(15), dict.SearchGT(20))
	}
}

func TestBuilderEncodesForwardIndexes(t *testing.T) {

	seg := buildTestSegment(t)
	rows := testRows()

	if seg.NumRows() != len(rows) {
		t.Fatalf("expected %d rows, got %d", len(rows), seg.NumRows())
	}

	region, found := seg.Column("region")
	if !found {
		t.Fatalf("region column missing")
	}
	if region.Desc.Cardinality != 3 {
		t.Errorf("expected region cardinality 3, got %d", region.Desc.Cardinality)
	}

	for rowIdx, id := range region.SingleIds() {
		if region.Dict.ValueOf(id) != rows[rowIdx]["region"][0] {
			t.Errorf("row %d: region decodes to %d, expected %d",
				rowIdx, region.Dict.ValueOf(id), rows[rowIdx]["region"][0])
		}
	}

	tags, _ := seg.Column("tags")
	for rowIdx, ids := range tags.MultiIds() {
		if len(ids) != len(rows[rowIdx]["tags"]) {
			t.Errorf("row %d: expected %d tag ids, got %d", rowIdx, len(rows[rowIdx]["tags"]), len(ids))
			continue
		}
		for i, id := range ids {
			if tags.Dict.ValueOf(id) != rows[rowIdx]["tags"][i] {
				t.Errorf("row %d tag %d: decodes to %d, expected %d",
					rowIdx, i, tags.Dict.ValueOf(id), rows[rowIdx]["tags"][i])
			}
		}
	}
}

func TestBuilderTracksValueBounds(t *testing.T) {

	seg := buildTestSegment(t)

	region, _ := seg.Column("region")
	if region.Bounds.Min != 10 || region.Bounds.Max != 30 {
		t.Errorf("region bounds: expected [10, 30], got [%d, %d]", region.Bounds.Min, region.Bounds.Max)
	}

	tags, _ := seg.Column("tags")
	if tags.Bounds.Min != 100 || tags.Bounds.Max != 300 {
		t.Errorf("tags bounds: expected [100, 300], got [%d, %d]", tags.Bounds.Min, tags.Bounds.Max)
	}
}

func TestBuilderValidation(t *testing.T) {

	empty := NewBuilder("empty", testColumns())
	if _, err := empty.Build(); !errors.Is(err, ErrNoRows) {
		t.Errorf("expected ErrNoRows, got %v", err)
	}

	missing := NewBuilder("missing", testColumns())
	missing.Add(Row{"region": {1}, "tags": {2}})
	if _, err := missing.Build(); err == nil {
		t.Errorf("expected error for row without status values")
	}

	tooMany := NewBuilder("toomany", testColumns())
	tooMany.Add(Row{"region": {1, 2}, "status": {1}, "tags": {2}})
	if _, err := tooMany.Build(); err == nil {
		t.Errorf("expected error for multiple values in a single-valued column")
	}
}

func TestProjectRows(t *testing.T) {

	seg := buildTestSegment(t)
	rows := testRows()

	projected := seg.ProjectRows([]uint32{1, 3})

	if projected.NumRows() != 2 {
		t.Fatalf("expected 2 projected rows, got %d", projected.NumRows())
	}

	region, _ := seg.Column("region")
	sv := projected.SingleValues("region")
	for i, srcRow := range []int{1, 3} {
		if region.Dict.ValueOf(sv[i]) != rows[srcRow]["region"][0] {
			t.Errorf("projected row %d: region decodes to %d, expected %d",
				i, region.Dict.ValueOf(sv[i]), rows[srcRow]["region"][0])
		}
	}

	mv := projected.MultiValues("tags")
	if len(mv[0]) != 1 || len(mv[1]) != 1 {
		t.Errorf("unexpected projected tag counts: %d and %d", len(mv[0]), len(mv[1]))
	}
}

func TestBlocksWindowing(t *testing.T) {

	columns := []schema.ColumnDescriptor{{Name: "v"}}

	builder := NewBuilder("windowed", columns)

	numRows := schema.BlockRowsSize + 1234
	for i := 0; i < numRows; i++ {
		builder.Add(Row{"v": {uint64(i % 7)}})
	}

	seg, err := builder.Build()
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	windows := seg.Blocks()
	if len(windows) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(windows))
	}

	if windows[0].NumRows() != schema.BlockRowsSize {
		t.Errorf("expected first block of %d rows, got %d", schema.BlockRowsSize, windows[0].NumRows())
	}
	if windows[1].NumRows() != 1234 {
		t.Errorf("expected last block of 1234 rows, got %d", windows[1].NumRows())
	}
	if windows[1].StartRow() != schema.BlockRowsSize {
		t.Errorf("expected last block to start at %d, got %d", schema.BlockRowsSize, windows[1].StartRow())
	}

	col, _ := seg.Column("v")
	view := windows[1].SingleValues("v")
	if view[0] != col.SingleIds()[schema.BlockRowsSize] {
		t.Errorf("block view does not window the forward index")
	}
}
