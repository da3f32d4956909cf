package blocks

import "github.com/dot5enko/segment-exec/docids"

type NotBlock struct {
	baseFilterBlock

	child   FilterBlock
	numDocs uint32
}

func NewNot(child FilterBlock, numDocs uint32) *NotBlock {
	return &NotBlock{child: child, numDocs: numDocs}
}

func (b *NotBlock) FilteredDocIdSet() docids.DocIdSet {
	return docids.NewNot(b.child.FilteredDocIdSet(), b.numDocs)
}
