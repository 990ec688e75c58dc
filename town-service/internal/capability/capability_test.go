package capability

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerive(t *testing.T) {
	tests := []struct {
		name        string
		geo         []string
		activities  []string
		description string
		want        []string
	}{
		{
			name: "nothing known",
			want: []string{},
		},
		{
			name: "coastline implies water hobbies",
			geo:  []string{"Coastline"},
			want: []string{"fishing", "swimming", "water_sports"},
		},
		{
			name: "hills and rivers",
			geo:  []string{"rolling hills", "river"},
			want: []string{"fishing", "hiking", "swimming"},
		},
		{
			name:       "activity keywords",
			activities: []string{"Golf Course", "tennis_courts", "Vineyard tours", "hiking trails", "bike paths", "museum"},
			want:       []string{"cycling", "golf", "hiking", "museums", "tennis", "wine"},
		},
		{
			name:        "description signals",
			description: "A cultural hub near the beach with several wine bars.",
			want:        []string{"swimming", "theater", "water_sports", "wine"},
		},
		{
			name:        "accents fold before matching",
			description: "Théâter festivals and a famous museum",
			want:        []string{"museums", "theater"},
		},
		{
			name:       "duplicates collapse",
			geo:        []string{"beach", "lake"},
			activities: []string{"golf", "mini golf"},
			want:       []string{"fishing", "golf", "swimming", "water_sports"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Derive(tt.geo, tt.activities, tt.description))
		})
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(nil, []string{}))
	assert.True(t, Equal([]string{"golf"}, []string{"golf"}))
	assert.False(t, Equal([]string{"golf"}, []string{"tennis"}))
	assert.False(t, Equal([]string{"golf"}, nil))
}
