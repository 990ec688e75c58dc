package hobby

import "sort"

// Ranked is a town annotated with its hobby result. Index is the town's
// position in the slice passed to Rank.
type Ranked struct {
	Index  int
	Town   Town
	Result Result
}

// Rank scores every town, orders them by descending score and keeps at
// most limit entries. Towns with equal scores keep their input order.
// A limit <= 0 keeps every town.
func (s *Scorer) Rank(p Profile, towns []Town, limit int) []Ranked {
	ranked := make([]Ranked, 0, len(towns))
	for i, t := range towns {
		ranked = append(ranked, Ranked{Index: i, Town: t, Result: s.Score(p, t)})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Result.Score > ranked[j].Result.Score
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
