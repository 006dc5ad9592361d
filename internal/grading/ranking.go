package grading

import "sort"

// DefaultRankSize is how many content groups the top and bottom lists hold.
const DefaultRankSize = 3

// Rank returns the n highest and n lowest graded content groups. Ungraded
// groups are dropped, the rest are stable-sorted by average descending so
// ties keep traversal order. top is a prefix of that order; bottom is its
// suffix reversed so the lowest value comes first. With fewer than 2n
// graded groups the two lists overlap, and both are empty when nothing is
// graded.
func Rank(groups []*AnnotatedNode, n int) (top, bottom []*AnnotatedNode) {
	graded := make([]*AnnotatedNode, 0, len(groups))
	for _, g := range groups {
		if g.Average != nil {
			graded = append(graded, g)
		}
	}
	sort.SliceStable(graded, func(i, j int) bool {
		return *graded[i].Average > *graded[j].Average
	})

	if n <= 0 {
		return nil, nil
	}
	k := n
	if k > len(graded) {
		k = len(graded)
	}
	top = append(top, graded[:k]...)
	for i := len(graded) - 1; i >= len(graded)-k; i-- {
		bottom = append(bottom, graded[i])
	}
	return top, bottom
}
