package slicer

import (
	"math"
	"sort"
)

// boundaries builds the partition of one axis: 0, the cut offsets in
// ascending order, then the axis extent. Offsets are taken as given;
// out-of-range values produce degenerate cells that processing skips.
func boundaries(cuts []int, extent int) []int {
	sorted := make([]int, len(cuts))
	copy(sorted, cuts)
	sort.Ints(sorted)

	b := make([]int, 0, len(sorted)+2)
	b = append(b, 0)
	b = append(b, sorted...)
	b = append(b, extent)

	return b
}

// gridCuts returns the n-1 evenly spaced interior offsets that divide a
// span of the given length into n parts.
func gridCuts(n, length int) []int {
	cuts := make([]int, 0, n-1)
	for i := 1; i < n; i++ {
		cuts = append(cuts, int(math.Round(float64(i)/float64(n)*float64(length))))
	}
	return cuts
}
