package viewport

import "sort"

// Range labels the inclusive byte span [Start, End] with attributes.
type Range struct {
	Start int
	End   int
	Attrs Attributes
}

// SplitRanges cuts a set of possibly overlapping ranges into disjoint
// windows. Every range start and every position one past a range end
// becomes a boundary; each window between consecutive boundaries
// carries the union of the attributes of all input ranges covering
// it. Windows covered by no input range are dropped, so the output is
// disjoint, sorted and attribute-complete.
func SplitRanges(ranges []Range) []Range {
	boundaries := make([]int, 0, len(ranges)*2)
	for _, r := range ranges {
		boundaries = append(boundaries, r.Start, r.End+1)
	}
	sort.Ints(boundaries)
	boundaries = dedupInts(boundaries)

	var result []Range
	for i := 0; i+1 < len(boundaries); i++ {
		start, end := boundaries[i], boundaries[i+1]-1

		var attrs Attributes
		for _, r := range ranges {
			if start <= r.End && end >= r.Start {
				attrs |= r.Attrs
			}
		}
		if attrs != 0 {
			result = append(result, Range{Start: start, End: end, Attrs: attrs})
		}
	}
	return result
}

func dedupInts(xs []int) []int {
	out := xs[:0]
	for i, x := range xs {
		if i == 0 || x != xs[i-1] {
			out = append(out, x)
		}
	}
	return out
}
