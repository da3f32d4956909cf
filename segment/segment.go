package segment

import (
	"github.com/dot5enko/segment-exec/schema"
	"github.com/google/uuid"
)

// Column holds one dictionary-encoded column of a built segment: the
// dictionary plus the forward index mapping rows onto dictionary ids.
type Column struct {
	Desc schema.ColumnDescriptor
	Dict *Dictionary

	// raw value bounds observed at build time, for cheap predicate pruning
	Bounds schema.Bounds[uint64]

	sv []uint32
	mv [][]uint32
}

// SingleIds exposes the forward index of a single-valued column.
func (c *Column) SingleIds() []uint32 {
	return c.sv
}

// MultiIds exposes the forward index of a multi-valued column.
func (c *Column) MultiIds() [][]uint32 {
	return c.mv
}

// Segment is an immutable dictionary-encoded chunk of a dataset, the unit
// one evaluation pipeline processes. No state on it mutates after Build.
type Segment struct {
	Uid    uuid.UUID
	Schema schema.Schema

	columns map[string]*Column
	numRows int
}

func (s *Segment) NumRows() int {
	return s.numRows
}

func (s *Segment) Column(name string) (*Column, bool) {
	col, found := s.columns[name]
	return col, found
}

func (s *Segment) Descriptor(column string) (schema.ColumnDescriptor, bool) {
	col, found := s.columns[column]
	if !found {
		return schema.ColumnDescriptor{}, false
	}
	return col.Desc, true
}

// Block is a contiguous row window over one segment, the unit evaluation
// pulls column vectors in. Accessors return views, not copies.
type Block struct {
	seg   *Segment
	start int
	rows  int
}

func (s *Segment) Blocks() []Block {

	result := []Block{}

	for start := 0; start < s.numRows; start += schema.BlockRowsSize {
		rows := s.numRows - start
		if rows > schema.BlockRowsSize {
			rows = schema.BlockRowsSize
		}
		result = append(result, Block{seg: s, start: start, rows: rows})
	}

	return result
}

func (b Block) NumRows() int {
	return b.rows
}

func (b Block) StartRow() int {
	return b.start
}

func (b Block) SingleValues(column string) []uint32 {
	col, found := b.seg.columns[column]
	if !found {
		return nil
	}
	return col.sv[b.start : b.start+b.rows]
}

func (b Block) MultiValues(column string) [][]uint32 {
	col, found := b.seg.columns[column]
	if !found {
		return nil
	}
	return col.mv[b.start : b.start+b.rows]
}
