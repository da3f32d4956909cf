package blocks

import (
	"errors"

	"github.com/dot5enko/segment-exec/docids"
	"github.com/dot5enko/segment-exec/schema"
)

var (
	ErrNoValueSet      = errors.New("filter block selects rows, it does not produce column values")
	ErrNoDocIdValueSet = errors.New("filter block selects rows, it does not produce doc-id value pairs")
)

// ValueSet is implemented by value-producing evaluation nodes. A filter
// block never produces one, the accessors exist only so plan-execution
// code hits a contract error instead of silently treating a row selector
// as a value source.
type ValueSet interface {
	NumRows() int
	SingleValues(column string) []uint32
	MultiValues(column string) [][]uint32
}

// Metadata carries the pruning hints a leaf predicate node knows about
// its column. Boolean-combination blocks have none.
type Metadata struct {
	Bounds      schema.Bounds[uint32]
	Cardinality int
}

type FilterBlock interface {
	// FilteredDocIdSet wires up and returns the root of the block's
	// doc-id-set tree. Each call builds a fresh single-pass tree.
	FilteredDocIdSet() docids.DocIdSet

	BlockValueSet() (ValueSet, error)
	BlockDocIdValueSet() (ValueSet, error)

	// Metadata returns nil for pure boolean-combination blocks.
	Metadata() *Metadata
}

// baseFilterBlock supplies the selector-only contract shared by every
// filter block variant.
type baseFilterBlock struct{}

func (baseFilterBlock) BlockValueSet() (ValueSet, error) {
	return nil, ErrNoValueSet
}

func (baseFilterBlock) BlockDocIdValueSet() (ValueSet, error) {
	return nil, ErrNoDocIdValueSet
}

func (baseFilterBlock) Metadata() *Metadata {
	return nil
}
