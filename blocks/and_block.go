package blocks

import "github.com/dot5enko/segment-exec/docids"

type AndBlock struct {
	baseFilterBlock

	children []FilterBlock
}

func NewAnd(children ...FilterBlock) *AndBlock {
	return &AndBlock{children: children}
}

func (b *AndBlock) FilteredDocIdSet() docids.DocIdSet {
	sets := make([]docids.DocIdSet, len(b.children))
	for i, child := range b.children {
		sets[i] = child.FilteredDocIdSet()
	}
	return docids.NewAnd(sets...)
}
