package hobby

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"town-discovery/pkg/hobbytag"
)

//go:embed taxonomy.yaml
var defaultTaxonomyYAML []byte

// Kind classifies a hobby tag.
type Kind int

const (
	KindUnknown Kind = iota
	KindUniversal
	KindLocationSpecific
)

func (k Kind) String() string {
	switch k {
	case KindUniversal:
		return "universal"
	case KindLocationSpecific:
		return "location_specific"
	default:
		return "unknown"
	}
}

// Taxonomy is the rule table used to resolve hobby tags against towns.
type Taxonomy struct {
	universal map[string]struct{}
	location  map[string][]string
}

type taxonomyFile struct {
	Universal        []string            `yaml:"universal"`
	LocationSpecific map[string][]string `yaml:"location_specific"`
}

// DefaultTaxonomy returns the built-in rule table.
func DefaultTaxonomy() *Taxonomy {
	t, err := ParseTaxonomy(defaultTaxonomyYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded taxonomy is invalid: %v", err))
	}
	return t
}

// LoadTaxonomy reads a rule table from path. An empty path yields the default.
func LoadTaxonomy(path string) (*Taxonomy, error) {
	if path == "" {
		return DefaultTaxonomy(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy: %w", err)
	}
	return ParseTaxonomy(data)
}

// ParseTaxonomy decodes a YAML rule table. Tags and keywords are folded;
// a tag listed as both universal and location-specific is rejected.
func ParseTaxonomy(data []byte) (*Taxonomy, error) {
	var f taxonomyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode taxonomy: %w", err)
	}

	t := &Taxonomy{
		universal: make(map[string]struct{}, len(f.Universal)),
		location:  make(map[string][]string, len(f.LocationSpecific)),
	}
	for _, tag := range f.Universal {
		k := hobbytag.Key(tag)
		if k == "" {
			return nil, fmt.Errorf("blank universal hobby")
		}
		t.universal[k] = struct{}{}
	}
	for tag, keywords := range f.LocationSpecific {
		k := hobbytag.Key(tag)
		if k == "" {
			return nil, fmt.Errorf("blank location-specific hobby")
		}
		if _, dup := t.universal[k]; dup {
			return nil, fmt.Errorf("hobby %q is both universal and location-specific", k)
		}
		folded := make([]string, 0, len(keywords))
		for _, kw := range keywords {
			if kw = hobbytag.Key(kw); kw != "" {
				folded = append(folded, kw)
			}
		}
		if len(folded) == 0 {
			return nil, fmt.Errorf("hobby %q has no keywords", k)
		}
		t.location[k] = folded
	}
	return t, nil
}

// Classify reports which rule applies to tag.
func (t *Taxonomy) Classify(tag string) Kind {
	k := hobbytag.Key(tag)
	if _, ok := t.universal[k]; ok {
		return KindUniversal
	}
	if _, ok := t.location[k]; ok {
		return KindLocationSpecific
	}
	return KindUnknown
}

// Keywords returns the required town keywords for a location-specific tag.
func (t *Taxonomy) Keywords(tag string) []string {
	return t.location[hobbytag.Key(tag)]
}

// IsUniversal reports whether tag is available in every town.
func (t *Taxonomy) IsUniversal(tag string) bool {
	return t.Classify(tag) == KindUniversal
}
