// Package capability derives the hobbies a town can support from its
// descriptive fields.
package capability

import (
	"sort"
	"strings"

	"town-discovery/pkg/hobbytag"
)

type rule struct {
	keywords []string
	hobbies  []string
}

var geographicRules = []rule{
	{keywords: []string{"coast", "beach"}, hobbies: []string{"swimming", "water_sports", "fishing"}},
	{keywords: []string{"mountain", "hill"}, hobbies: []string{"hiking"}},
	{keywords: []string{"lake", "river"}, hobbies: []string{"fishing", "swimming"}},
}

var activityRules = []rule{
	{keywords: []string{"golf"}, hobbies: []string{"golf"}},
	{keywords: []string{"tennis"}, hobbies: []string{"tennis"}},
	{keywords: []string{"wine", "vineyard"}, hobbies: []string{"wine"}},
	{keywords: []string{"museum"}, hobbies: []string{"museums"}},
	{keywords: []string{"theater"}, hobbies: []string{"theater"}},
	{keywords: []string{"hik", "trail"}, hobbies: []string{"hiking"}},
	{keywords: []string{"cycl", "bike"}, hobbies: []string{"cycling"}},
}

// Descriptions are prose, so only the strong signals count.
var descriptionRules = []rule{
	{keywords: []string{"golf"}, hobbies: []string{"golf"}},
	{keywords: []string{"beach", "coast"}, hobbies: []string{"swimming", "water_sports"}},
	{keywords: []string{"wine", "vineyard"}, hobbies: []string{"wine"}},
	{keywords: []string{"museum"}, hobbies: []string{"museums"}},
	{keywords: []string{"theater", "cultural"}, hobbies: []string{"theater"}},
}

// Derive returns the sorted, de-duplicated hobby capabilities implied by a
// town's geographic features, activities and description. It returns an
// empty, non-nil slice when nothing matches.
func Derive(geographicFeatures, activities []string, description string) []string {
	found := make(map[string]struct{})

	for _, f := range geographicFeatures {
		apply(found, geographicRules, hobbytag.Fold(f))
	}
	for _, a := range activities {
		apply(found, activityRules, hobbytag.Fold(a))
	}
	if description != "" {
		apply(found, descriptionRules, hobbytag.Fold(description))
	}

	out := make([]string, 0, len(found))
	for h := range found {
		out = append(out, h)
	}
	sort.Strings(out)
	return out
}

func apply(found map[string]struct{}, rules []rule, text string) {
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(text, kw) {
				for _, h := range r.hobbies {
					found[h] = struct{}{}
				}
				break
			}
		}
	}
}

// Equal reports whether two capability lists hold the same hobbies in the
// same order.
func Equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
