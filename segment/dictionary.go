package segment

import "sort"

// Dictionary assigns dense ids to the distinct values of one column.
// Ids follow ascending value order, so any value predicate translates
// into a contiguous id range.
type Dictionary struct {
	values []uint64
	index  map[uint64]uint32
}

func BuildDictionary(values []uint64) *Dictionary {

	uniq := map[uint64]struct{}{}
	for _, v := range values {
		uniq[v] = struct{}{}
	}

	sorted := make([]uint64, 0, len(uniq))
	for v := range uniq {
		sorted = append(sorted, v)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	index := make(map[uint64]uint32, len(sorted))
	for id, v := range sorted {
		index[v] = uint32(id)
	}

	return &Dictionary{
		values: sorted,
		index:  index,
	}
}

func (d *Dictionary) Cardinality() int {
	return len(d.values)
}

func (d *Dictionary) IdOf(value uint64) (uint32, bool) {
	id, found := d.index[value]
	return id, found
}

func (d *Dictionary) ValueOf(id uint32) uint64 {
	return d.values[id]
}

func (d *Dictionary) Values() []uint64 {
	return d.values
}

// SearchGE returns the first id whose value is >= the given one,
// Cardinality() when none is.
func (d *Dictionary) SearchGE(value uint64) uint32 {
	return uint32(sort.Search(len(d.values), func(i int) bool {
		return d.values[i] >= value
	}))
}

// SearchGT returns the first id whose value is > the given one.
func (d *Dictionary) SearchGT(value uint64) uint32 {
	return uint32(sort.Search(len(d.values), func(i int) bool {
		return d.values[i] > value
	}))
}
