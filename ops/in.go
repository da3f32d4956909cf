package ops

// CompareIdsAreInSet collects indices of ids present in the given set.
// The set is expected to be tiny (a handful of ids from an IN predicate),
// so a linear membership scan beats a map here.
func CompareIdsAreInSet(arr []uint32, set []uint32, out []uint32) int {
	if len(set) == 0 {
		return 0
	}

	filled := 0
	for i, a := range arr {
		for _, s := range set {
			if a == s {
				out[filled] = uint32(i)
				filled++
				break
			}
		}
	}

	return filled
}
