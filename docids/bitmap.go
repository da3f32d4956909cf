package docids

import "github.com/RoaringBitmap/roaring/v2"

// BitmapDocIdSet adapts a roaring bitmap to the doc-id-set contract.
// Useful for leaf sets arriving from inverted indexes or other sparse
// external sources; roaring iterates in ascending order already.
type BitmapDocIdSet struct {
	it roaring.IntPeekable
}

func NewBitmap(bm *roaring.Bitmap) *BitmapDocIdSet {
	return &BitmapDocIdSet{it: bm.Iterator()}
}

func (s *BitmapDocIdSet) Next() (uint32, bool) {
	if !s.it.HasNext() {
		return 0, false
	}
	return s.it.Next(), true
}
