package groupby

// GroupKey pairs the dense integer id of one observed grouping-value
// combination with its canonical delimited string form. The string form
// is what external aggregation uses to reconcile groups across
// independently evaluated segments.
type GroupKey struct {
	Id  int
	Key string
}

// GroupKeyIterator walks every (id, key) pair observed so far, in
// ascending group id order. It is single-pass and backed by live holder
// state, start a fresh one to traverse again.
type GroupKeyIterator struct {
	next func() (GroupKey, bool)
}

func (it *GroupKeyIterator) Next() (GroupKey, bool) {
	return it.next()
}
