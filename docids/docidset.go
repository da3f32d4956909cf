package docids

// DocIdSet yields matching doc ids of one evaluation pass in strictly
// ascending order. Sets are single-pass: once Next reports exhaustion it
// keeps reporting it, and a yielded id is never followed by a smaller one.
// The executor relies on that ordering for merge efficiency downstream.
type DocIdSet interface {
	Next() (docId uint32, ok bool)
}

// SortedDocIdSet wraps an already sorted list of doc ids, the form leaf
// predicate results arrive in.
type SortedDocIdSet struct {
	ids []uint32
	pos int
}

func NewSorted(ids []uint32) *SortedDocIdSet {
	return &SortedDocIdSet{ids: ids}
}

func (s *SortedDocIdSet) Next() (uint32, bool) {
	if s.pos >= len(s.ids) {
		return 0, false
	}

	id := s.ids[s.pos]
	s.pos++
	return id, true
}

// Collect drains a set into a slice. Mostly a test and glue helper, the
// executor proper consumes sets incrementally.
func Collect(set DocIdSet) []uint32 {
	out := []uint32{}
	for {
		id, ok := set.Next()
		if !ok {
			return out
		}
		out = append(out, id)
	}
}
