package blocks

import "github.com/dot5enko/segment-exec/docids"

type OrBlock struct {
	baseFilterBlock

	children []FilterBlock
}

func NewOr(children ...FilterBlock) *OrBlock {
	return &OrBlock{children: children}
}

func (b *OrBlock) FilteredDocIdSet() docids.DocIdSet {
	sets := make([]docids.DocIdSet, len(b.children))
	for i, child := range b.children {
		sets[i] = child.FilteredDocIdSet()
	}
	return docids.NewOr(sets...)
}
