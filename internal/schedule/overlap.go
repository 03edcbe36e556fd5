package schedule

import "sort"

// Overlaps reports whether two half-open windows [s1,e1) and [s2,e2)
// intersect.
func Overlaps(a, b [2]int64) bool {
	return a[0] < b[1] && b[0] < a[1]
}

func fitsSorted(scheduled [][2]int64, toAdd [2]int64) (int, bool) {
	n := len(scheduled)

	if n == 0 {
		return 0, true
	}

	// find position for beginning to insert
	idx := sort.Search(n, func(i int) bool {
		return toAdd[0] <= scheduled[i][0]
	})

	if idx == n {
		// all windows start earlier, check
		// overlap with last one's end
		return idx, toAdd[0] >= scheduled[n-1][1]
	}

	if toAdd[1] > scheduled[idx][0] {
		return idx, false
	}

	// check overlap with previous one
	if idx > 0 && toAdd[0] < scheduled[idx-1][1] {
		return idx, false
	}

	return idx, true
}
