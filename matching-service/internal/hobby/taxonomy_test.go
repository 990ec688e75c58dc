package hobby

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTaxonomy_Classify(t *testing.T) {
	tax := DefaultTaxonomy()

	for _, tag := range []string{"walking", "reading", "cooking", "gardening", "arts", "music", "Walking"} {
		assert.Equal(t, KindUniversal, tax.Classify(tag), tag)
	}
	for _, tag := range []string{"swimming", "water_sports", "fishing", "golf", "tennis", "hiking", "cycling", "wine", "theater", "museums"} {
		assert.Equal(t, KindLocationSpecific, tax.Classify(tag), tag)
	}
	assert.Equal(t, KindUnknown, tax.Classify("birdwatching"))
	assert.Equal(t, "unknown", KindUnknown.String())
}

func TestDefaultTaxonomy_Keywords(t *testing.T) {
	tax := DefaultTaxonomy()
	assert.Equal(t, []string{"beach", "pool", "lake", "coast"}, tax.Keywords("Swimming"))
	assert.Nil(t, tax.Keywords("walking"))
}

func TestParseTaxonomy_FoldsEntries(t *testing.T) {
	tax, err := ParseTaxonomy([]byte(`
universal: [" Chess "]
location_specific:
  Skiing: ["Ski Resort", "", "SLOPES"]
`))
	require.NoError(t, err)
	assert.True(t, tax.IsUniversal("chess"))
	assert.Equal(t, []string{"ski resort", "slopes"}, tax.Keywords("skiing"))
}

func TestParseTaxonomy_Rejects(t *testing.T) {
	cases := map[string]string{
		"bad yaml":      "universal: [",
		"overlap":       "universal: [golf]\nlocation_specific:\n  golf: [golf_course]\n",
		"no keywords":   "location_specific:\n  golf: []\n",
		"blank hobby":   "universal: [\"  \"]\n",
		"blank keyword": "location_specific:\n  golf: [\" \"]\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseTaxonomy([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadTaxonomy(t *testing.T) {
	tax, err := LoadTaxonomy("")
	require.NoError(t, err)
	assert.True(t, tax.IsUniversal("music"))

	path := filepath.Join(t.TempDir(), "taxonomy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("universal: [chess]\n"), 0o600))
	tax, err = LoadTaxonomy(path)
	require.NoError(t, err)
	assert.True(t, tax.IsUniversal("chess"))
	assert.False(t, tax.IsUniversal("music"))

	_, err = LoadTaxonomy(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestTaxonomyResolver_LocationSpecificUsesAllFields(t *testing.T) {
	r := NewTaxonomyResolver(DefaultTaxonomy())
	assert.True(t, r.Resolve("fishing", Town{GeographicFeatures: []string{"River"}}))
	assert.True(t, r.Resolve("fishing", Town{ActivitiesAvailable: []string{"ocean charters"}}))
	assert.True(t, r.Resolve("fishing", Town{Description: "A quiet Lake town"}))
	assert.False(t, r.Resolve("fishing", Town{Description: "desert"}))
}
