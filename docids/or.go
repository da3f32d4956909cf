package docids

// OrDocIdSet merges the sorted id streams of its children, yielding every
// distinct id exactly once. Each round resolves the minimum id across the
// still-alive children and advances all of them sitting on it, so ids
// visited by multiple children are de-duplicated on the fly. The set
// exhausts only when every child did.
type OrDocIdSet struct {
	children []DocIdSet
	current  []uint32
	alive    []bool

	primed bool
}

func NewOr(children ...DocIdSet) *OrDocIdSet {
	return &OrDocIdSet{
		children: children,
		current:  make([]uint32, len(children)),
		alive:    make([]bool, len(children)),
	}
}

func (s *OrDocIdSet) Next() (uint32, bool) {
	if !s.primed {
		s.primed = true

		for i, child := range s.children {
			v, ok := child.Next()
			s.current[i] = v
			s.alive[i] = ok
		}
	}

	minFound := false
	var min uint32

	for i, ok := range s.alive {
		if !ok {
			continue
		}
		if !minFound || s.current[i] < min {
			min = s.current[i]
			minFound = true
		}
	}

	if !minFound {
		return 0, false
	}

	for i, ok := range s.alive {
		if ok && s.current[i] == min {
			nv, nok := s.children[i].Next()
			s.current[i] = nv
			s.alive[i] = nok
		}
	}

	return min, true
}
