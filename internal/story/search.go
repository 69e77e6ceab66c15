package story

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxRankDistance is the normalised distance above which a story is not
// considered a match.
const maxRankDistance = 0.6

// Rank orders stories by how closely their theme or title matches query.
// Substring matches always rank first; the rest are kept only when their
// normalised Levenshtein distance is under maxRankDistance.
func Rank(stories []Summary, query string) []Summary {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return stories
	}

	type scored struct {
		s     Summary
		score float64
	}
	var out []scored
	for _, s := range stories {
		best := 1.0
		for _, field := range []string{s.Theme, s.Title} {
			if d := similarity(q, strings.ToLower(field)); d < best {
				best = d
			}
		}
		if best < maxRankDistance {
			out = append(out, scored{s: s, score: best})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].score < out[j].score })

	ranked := make([]Summary, len(out))
	for i, o := range out {
		ranked[i] = o.s
	}
	return ranked
}

// similarity returns 0 for a substring match, otherwise the Levenshtein
// distance divided by the longer length.
func similarity(q, field string) float64 {
	if field == "" {
		return 1
	}
	if strings.Contains(field, q) {
		return 0
	}
	longest := len(field)
	if len(q) > longest {
		longest = len(q)
	}
	return float64(levenshtein.ComputeDistance(q, field)) / float64(longest)
}
