package ops

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

// CompareIdsAreInRange collects indices of ids falling into [from, to).
// Dictionary ids are assigned in ascending value order, so any value
// range predicate reduces to one id range.
func CompareIdsAreInRange(
	arr []uint32, from, to uint32, out []uint32,
) int {
	if to <= from {
		return 0
	}

	n := len(arr)
	filled := 0
	rng := to - from
	i := 0

	for ; i+7 < n; i += 8 {
		a0 := arr[i+0]
		a1 := arr[i+1]
		a2 := arr[i+2]
		a3 := arr[i+3]
		a4 := arr[i+4]
		a5 := arr[i+5]
		a6 := arr[i+6]
		a7 := arr[i+7]

		m0 := (a0 - from) < rng
		m1 := (a1 - from) < rng
		m2 := (a2 - from) < rng
		m3 := (a3 - from) < rng
		m4 := (a4 - from) < rng
		m5 := (a5 - from) < rng
		m6 := (a6 - from) < rng
		m7 := (a7 - from) < rng

		if m0 {
			out[filled] = uint32(i + 0)
			filled++
		}
		if m1 {
			out[filled] = uint32(i + 1)
			filled++
		}
		if m2 {
			out[filled] = uint32(i + 2)
			filled++
		}
		if m3 {
			out[filled] = uint32(i + 3)
			filled++
		}
		if m4 {
			out[filled] = uint32(i + 4)
			filled++
		}
		if m5 {
			out[filled] = uint32(i + 5)
			filled++
		}
		if m6 {
			out[filled] = uint32(i + 6)
			filled++
		}
		if m7 {
			out[filled] = uint32(i + 7)
			filled++
		}
	}

	for ; i < n; i++ {
		a := arr[i]
		if (a - from) < rng {
			out[filled] = uint32(i)
			filled++
		}
	}

	return filled
}
