package groupby

import "strconv"

// keyHolder is the representation picked at construction time. It turns
// one combination of dictionary ids into an integer group key and tracks
// which combinations were observed.
type keyHolder interface {
	keyForIds(ids []uint32) int
	currentUpperBound() int
	uniqueKeys() *GroupKeyIterator
}

// arrayKeyHolder addresses every possible combination directly: the
// mixed-radix value is the group id, no lookup involved. Observed
// combinations are only flagged so the unique-key pass can skip the
// unseen slots.
type arrayKeyHolder struct {
	radixes []uint64
	seen    []bool
	format  func(raw uint64) string
}

func newArrayKeyHolder(numKeys int, radixes []uint64, format func(uint64) string) *arrayKeyHolder {
	return &arrayKeyHolder{
		radixes: radixes,
		seen:    make([]bool, numKeys),
		format:  format,
	}
}

func (h *arrayKeyHolder) keyForIds(ids []uint32) int {

	raw := uint64(0)
	for i, id := range ids {
		raw += uint64(id) * h.radixes[i]
	}

	key := int(raw)
	h.seen[key] = true

	return key
}

func (h *arrayKeyHolder) currentUpperBound() int {
	// every slot is addressable even if unseen
	return len(h.seen)
}

func (h *arrayKeyHolder) uniqueKeys() *GroupKeyIterator {

	pos := 0

	return &GroupKeyIterator{next: func() (GroupKey, bool) {
		for pos < len(h.seen) {
			if !h.seen[pos] {
				pos++
				continue
			}

			key := GroupKey{Id: pos, Key: h.format(uint64(pos))}
			pos++
			return key, true
		}

		return GroupKey{}, false
	}}
}

// uint64MapKeyHolder computes the same mixed-radix value as a wide
// integer and maps it onto a dense group id assigned in first-seen order.
type uint64MapKeyHolder struct {
	radixes []uint64
	ids     map[uint64]int
	order   []uint64
	format  func(raw uint64) string
}

func newUint64MapKeyHolder(radixes []uint64, format func(uint64) string) *uint64MapKeyHolder {
	return &uint64MapKeyHolder{
		radixes: radixes,
		ids:     map[uint64]int{},
		format:  format,
	}
}

func (h *uint64MapKeyHolder) keyForIds(ids []uint32) int {

	raw := uint64(0)
	for i, id := range ids {
		raw += uint64(id) * h.radixes[i]
	}

	groupId, found := h.ids[raw]
	if !found {
		groupId = len(h.order)
		h.ids[raw] = groupId
		h.order = append(h.order, raw)
	}

	return groupId
}

func (h *uint64MapKeyHolder) currentUpperBound() int {
	return len(h.order)
}

func (h *uint64MapKeyHolder) uniqueKeys() *GroupKeyIterator {

	pos := 0

	return &GroupKeyIterator{next: func() (GroupKey, bool) {
		if pos >= len(h.order) {
			return GroupKey{}, false
		}

		key := GroupKey{Id: pos, Key: h.format(h.order[pos])}
		pos++
		return key, true
	}}
}

// stringMapKeyHolder kicks in when the cardinality product overflows the
// wide-integer range. The combination is keyed by its delimited string
// form, which cannot overflow.
type stringMapKeyHolder struct {
	ids     map[string]int
	order   []string
	scratch []byte
}

func newStringMapKeyHolder() *stringMapKeyHolder {
	return &stringMapKeyHolder{
		ids: map[string]int{},
	}
}

func (h *stringMapKeyHolder) keyForIds(ids []uint32) int {

	buf := h.scratch[:0]
	for i, id := range ids {
		if i > 0 {
			buf = append(buf, keySeparator)
		}
		buf = strconv.AppendUint(buf, uint64(id), 10)
	}
	h.scratch = buf

	// string(buf) in the lookup does not allocate unless missing
	groupId, found := h.ids[string(buf)]
	if !found {
		key := string(buf)
		groupId = len(h.order)
		h.ids[key] = groupId
		h.order = append(h.order, key)
	}

	return groupId
}

func (h *stringMapKeyHolder) currentUpperBound() int {
	return len(h.order)
}

func (h *stringMapKeyHolder) uniqueKeys() *GroupKeyIterator {

	pos := 0

	return &GroupKeyIterator{next: func() (GroupKey, bool) {
		if pos >= len(h.order) {
			return GroupKey{}, false
		}

		key := GroupKey{Id: pos, Key: h.order[pos]}
		pos++
		return key, true
	}}
}
