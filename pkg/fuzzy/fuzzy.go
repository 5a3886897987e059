// Package fuzzy resolves free-text names against a set of candidates.
package fuzzy

import (
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// Separator splits candidate names into independently scored segments.
const Separator = "_"

// Score returns the best similarity between query and any segment of name,
// in the range [0, 1].
func Score(name, query string) float64 {
	q := Fold(query)
	if q == "" {
		return 0
	}

	metric := metrics.NewSorensenDice()
	metric.CaseSensitive = false

	best := 0.0
	for _, segment := range strings.Split(name, Separator) {
		if segment == "" {
			continue
		}
		if s := strutil.Similarity(Fold(segment), q, metric); s > best {
			best = s
		}
	}
	return best
}

// Resolve returns the candidate whose name scores highest against query.
// Ties go to the earliest candidate. It returns false when the query is
// blank or there are no candidates.
func Resolve[T any](candidates []T, name func(T) string, query string) (T, bool) {
	var zero T
	if strings.TrimSpace(query) == "" || len(candidates) == 0 {
		return zero, false
	}

	bestIdx := 0
	bestScore := -1.0
	for i, c := range candidates {
		if s := Score(name(c), query); s > bestScore {
			bestIdx, bestScore = i, s
		}
	}
	return candidates[bestIdx], true
}
