package archetype

import (
	"sort"
	"strings"
)

const (
	// AllFour is the label used when every category is within the tolerance band.
	AllFour = "all four"

	// Tolerance is how far below the top total a category can be and still
	// take part in the dominant type.
	Tolerance = 3

	labelSep = "+"
)

// Resolve derives the dominant type label from the totals.
//
// Every category whose total is at least max-Tolerance is selected, the
// band is measured against the global max only. Selected names are joined
// with "+" in lexicographic order, or AllFour when none is left out.
func Resolve(s Scores) string {
	floor := s.max() - Tolerance

	top := make([]string, 0, len(Categories))
	for _, c := range Categories {
		if s.Get(c) >= floor {
			top = append(top, string(c))
		}
	}

	if len(top) == len(Categories) {
		return AllFour
	}

	sort.Strings(top)
	return strings.Join(top, labelSep)
}
