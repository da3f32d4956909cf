package docids

// AndDocIdSet merges the sorted id streams of its children, yielding only
// ids present in every child. It owns the children for the duration of one
// evaluation and exhausts as soon as any single child does.
type AndDocIdSet struct {
	children []DocIdSet
	current  []uint32

	primed bool
	done   bool
}

func NewAnd(children ...DocIdSet) *AndDocIdSet {
	return &AndDocIdSet{
		children: children,
		current:  make([]uint32, len(children)),
	}
}

func (s *AndDocIdSet) Next() (uint32, bool) {
	if s.done {
		return 0, false
	}

	if !s.primed {
		if len(s.children) == 0 {
			s.done = true
			return 0, false
		}

		for i, child := range s.children {
			v, ok := child.Next()
			if !ok {
				s.done = true
				return 0, false
			}
			s.current[i] = v
		}

		s.primed = true
	}

	for {
		// candidate is the largest id any child currently sits on
		target := s.current[0]
		for _, v := range s.current[1:] {
			if v > target {
				target = v
			}
		}

		matched := true
		for i := range s.children {
			v := s.current[i]
			for v < target {
				nv, ok := s.children[i].Next()
				if !ok {
					s.done = true
					return 0, false
				}
				v = nv
			}
			s.current[i] = v

			if v > target {
				// overshoot raises the candidate on the next round
				matched = false
			}
		}

		if !matched {
			continue
		}

		// every child sits on target, move them past it for the next call
		for i := range s.children {
			nv, ok := s.children[i].Next()
			if !ok {
				s.done = true
				break
			}
			s.current[i] = nv
		}

		return target, true
	}
}
