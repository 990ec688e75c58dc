// Package hobby scores how well a town supports a user's hobbies and ranks
// towns by that score.
package hobby

import (
	"fmt"
	"math"
	"strings"
)

// OpenToAnything is the factor reported for a profile with no hobbies.
const OpenToAnything = "Open to any activities"

// maxMissingListed is the largest missing set still spelled out as a factor.
const maxMissingListed = 3

// Factor is a human-readable explanation of a score.
type Factor struct {
	Factor string `json:"factor"`
	Score  int    `json:"score"`
}

// Result is the outcome of scoring one town.
type Result struct {
	Score   int      `json:"score"`
	Matched []string `json:"matched"`
	Missing []string `json:"missing"`
	Factors []Factor `json:"factors"`
}

// Scorer computes hobby scores. It is safe for concurrent use.
type Scorer struct {
	resolver Resolver
}

// NewScorer creates a Scorer backed by r.
func NewScorer(r Resolver) *Scorer {
	return &Scorer{resolver: r}
}

// NewDefaultScorer creates a Scorer over the built-in taxonomy.
func NewDefaultScorer() *Scorer {
	return NewScorer(NewTaxonomyResolver(DefaultTaxonomy()))
}

// Score rates town against the profile.
func (s *Scorer) Score(p Profile, town Town) Result {
	tags := p.Tags()
	if len(tags) == 0 {
		return Result{
			Score:   100,
			Matched: []string{},
			Missing: []string{},
			Factors: []Factor{{Factor: OpenToAnything, Score: 100}},
		}
	}

	matched := make([]string, 0, len(tags))
	missing := make([]string, 0)
	for _, tag := range tags {
		if s.resolver.Resolve(tag, town) {
			matched = append(matched, tag)
		} else {
			missing = append(missing, tag)
		}
	}

	score := percent(len(matched), len(tags))
	factors := []Factor{{
		Factor: fmt.Sprintf("%s: %d/%d hobbies available", tier(score), len(matched), len(tags)),
		Score:  score,
	}}
	if len(missing) >= 1 && len(missing) <= maxMissingListed {
		factors = append(factors, Factor{
			Factor: "Missing: " + strings.Join(missing, ", "),
			Score:  0,
		})
	}

	return Result{
		Score:   score,
		Matched: matched,
		Missing: missing,
		Factors: factors,
	}
}

// percent returns round(100*n/d), rounding halves up.
func percent(n, d int) int {
	return int(math.Round(100 * float64(n) / float64(d)))
}

func tier(score int) string {
	switch {
	case score >= 80:
		return "Excellent"
	case score >= 60:
		return "Good"
	case score >= 40:
		return "Fair"
	default:
		return "Limited"
	}
}
