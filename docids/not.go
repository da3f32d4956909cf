package docids

// NotDocIdSet yields every id of [0, numDocs) absent from its child,
// preserving the ascending-order contract.
type NotDocIdSet struct {
	child   DocIdSet
	numDocs uint32

	next    uint32
	childId uint32
	childOk bool
	primed  bool
}

func NewNot(child DocIdSet, numDocs uint32) *NotDocIdSet {
	return &NotDocIdSet{
		child:   child,
		numDocs: numDocs,
	}
}

func (s *NotDocIdSet) Next() (uint32, bool) {
	if !s.primed {
		s.primed = true
		s.childId, s.childOk = s.child.Next()
	}

	for s.next < s.numDocs {
		id := s.next
		s.next++

		if s.childOk && s.childId == id {
			s.childId, s.childOk = s.child.Next()
			continue
		}

		return id, true
	}

	return 0, false
}
