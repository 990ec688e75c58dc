package hobby

import (
	"strings"

	"town-discovery/pkg/hobbytag"
)

// Resolver decides whether a town can support a single hobby tag.
type Resolver interface {
	Resolve(tag string, town Town) bool
}

// TaxonomyResolver resolves tags with a Taxonomy: universal tags always
// match, location-specific tags need any keyword in the town's text, and
// unknown tags fall back to a substring search of the description.
type TaxonomyResolver struct {
	taxonomy *Taxonomy
}

// NewTaxonomyResolver creates a resolver over t.
func NewTaxonomyResolver(t *Taxonomy) *TaxonomyResolver {
	return &TaxonomyResolver{taxonomy: t}
}

func (r *TaxonomyResolver) Resolve(tag string, town Town) bool {
	switch r.taxonomy.Classify(tag) {
	case KindUniversal:
		return true
	case KindLocationSpecific:
		haystack := town.haystack()
		for _, kw := range r.taxonomy.Keywords(tag) {
			if strings.Contains(haystack, kw) {
				return true
			}
		}
		return false
	default:
		k := hobbytag.Key(tag)
		if k == "" {
			return false
		}
		return strings.Contains(hobbytag.Fold(town.Description), k)
	}
}
