package blocks

import "github.com/dot5enko/segment-exec/docids"

// LeafBlock wraps one predicate's already-evaluated match results. The
// ids arrive sorted ascending from predicate evaluation, this core never
// evaluates raw predicates itself.
type LeafBlock struct {
	baseFilterBlock

	ids  []uint32
	meta *Metadata
}

func NewLeaf(ids []uint32, meta *Metadata) *LeafBlock {
	return &LeafBlock{ids: ids, meta: meta}
}

func (b *LeafBlock) FilteredDocIdSet() docids.DocIdSet {
	return docids.NewSorted(b.ids)
}

func (b *LeafBlock) Metadata() *Metadata {
	return b.meta
}
