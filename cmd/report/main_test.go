package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/recruiting-territories-service/internal/domain"
)

func TestBuildFilter_Defaults(t *testing.T) {
	f, err := buildFilter(options{years: "2015-2020", stars: "4-5", distance: "250", mode: "all"}, []string{"Texas", "USC"})
	require.NoError(t, err)

	assert.Equal(t, domain.Range{Min: 2015, Max: 2020}, f.Years)
	assert.Equal(t, domain.Range{Min: 4, Max: 5}, f.Stars)
	assert.Equal(t, []string{"Texas", "USC"}, f.Teams)
	require.NotNil(t, f.MaxDistance)
	assert.InDelta(t, 250.0, *f.MaxDistance, 0)
	assert.Equal(t, domain.ModeAll, f.Mode)
	assert.Empty(t, f.Positions)
}

func TestBuildFilter_Overrides(t *testing.T) {
	f, err := buildFilter(options{
		teams:     " Alabama , ,Ohio State",
		years:     "2018",
		stars:     "3-5",
		positions: "qb,ath",
		distance:  "none",
		mode:      "commits-only",
	}, []string{"Texas"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Alabama", "Ohio State"}, f.Teams)
	assert.Equal(t, domain.Range{Min: 2018, Max: 2018}, f.Years)
	assert.Equal(t, []domain.Position{domain.PositionQB, domain.PositionATH}, f.Positions)
	assert.Nil(t, f.MaxDistance)
	assert.Equal(t, domain.ModeCommits, f.Mode)
}

func TestBuildFilter_Errors(t *testing.T) {
	base := options{years: "2015-2020", stars: "4-5", distance: "250", mode: "all"}
	tests := []struct {
		name   string
		mutate func(*options)
	}{
		{"bad years", func(o *options) { o.years = "soon" }},
		{"stars out of range", func(o *options) { o.stars = "0-6" }},
		{"bad position", func(o *options) { o.positions = "QB,K" }},
		{"bad distance", func(o *options) { o.distance = "far" }},
		{"negative distance", func(o *options) { o.distance = "-10" }},
		{"bad mode", func(o *options) { o.mode = "rivals" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := base
			tt.mutate(&o)
			_, err := buildFilter(o, []string{"Texas"})
			assert.Error(t, err)
		})
	}
}
