package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTownListParams_Validate(t *testing.T) {
	cases := []struct {
		name string
		in   TownListParams
		want TownListParams
	}{
		{
			name: "defaults",
			in:   TownListParams{},
			want: TownListParams{Page: 1, PageSize: 20, SortBy: "name", Order: "asc"},
		},
		{
			name: "keeps valid values",
			in:   TownListParams{Page: 3, PageSize: 100, SortBy: "country", Order: "desc", WithPhoto: true},
			want: TownListParams{Page: 3, PageSize: 100, SortBy: "country", Order: "desc", WithPhoto: true},
		},
		{
			name: "rejects unknown sort and oversized page",
			in:   TownListParams{Page: -1, PageSize: 500, SortBy: "description; DROP TABLE towns", Order: "sideways"},
			want: TownListParams{Page: 1, PageSize: 20, SortBy: "name", Order: "asc"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.in
			got.Validate()
			assert.Equal(t, tc.want, got)
		})
	}
}
