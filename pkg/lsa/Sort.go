package lsa

import "sort"

/*
	NthSmallest returns the k-th smallest (0-indexed) LSA in the slice without
	mutating the caller's copy. Used by the quorum gate to pick the
	(connected_count - quorum)-th smallest saved LSA among connected page
	server handlers -- the greatest LSA guaranteed to have been durably
	written by at least `quorum` replicas.
*/

func NthSmallest(values []LSA, k int) LSA {
	if len(values) == 0 || k < 0 || k >= len(values) { return Null }

	sorted := make([]LSA, len(values))
	copy(sorted, values)

	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })

	return sorted[k]
}
