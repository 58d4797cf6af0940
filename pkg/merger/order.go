package merger

import (
	"sort"

	"salto.dev/core/pkg/sourcerange"
)

// rangeSortKey returns a permutation-invariant sort key for a
// declaration's contributed source ranges: its earliest (filename, byte
// offset). Declarations without any range sort last and keep their
// relative order among themselves, since Go's sort.SliceStable preserves
// the original relative order of equal keys; for those declarations the
// order within a group is therefore the order of the Merge input.
func rangeSortKey(ranges []sourcerange.SourceRange) (string, int, bool) {
	if len(ranges) == 0 {
		return "", 0, false
	}
	best := ranges[0]
	for _, r := range ranges[1:] {
		if r.Filename < best.Filename || (r.Filename == best.Filename && r.Start.Byte < best.Start.Byte) {
			best = r
		}
	}
	return best.Filename, best.Start.Byte, true
}

// stableSortBySourceRange sorts decls in place by rangeSortKey(ranges(d)),
// declarations with a valid range first.
func stableSortBySourceRange[T any](decls []T, ranges func(T) []sourcerange.SourceRange) {
	sort.SliceStable(decls, func(i, j int) bool {
		fi, bi, oki := rangeSortKey(ranges(decls[i]))
		fj, bj, okj := rangeSortKey(ranges(decls[j]))
		if oki != okj {
			return oki
		}
		if !oki {
			return false
		}
		if fi != fj {
			return fi < fj
		}
		return bi < bj
	})
}
