package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/recruiting-territories-service/internal/adapter/csvdata"
	"github.com/couchcryptid/recruiting-territories-service/internal/domain"
)

func TestValidateRows(t *testing.T) {
	p := validateRows("Recruit rows", []csvdata.RowError{
		{Line: 4, Err: errors.New(`invalid stars "9"`)},
	})
	require.False(t, p.passed())
	assert.Equal(t, []string{`line 4: invalid stars "9"`}, p.errors)

	assert.True(t, validateRows("Team rows", nil).passed())
}

func TestValidateTeamCatalogue(t *testing.T) {
	teams := []domain.Team{
		{School: "Texas", Color: "#BF5700", Campus: domain.Geo{Lat: 30.28, Lon: -97.73}},
		{School: "Texas", Color: "#BF5700", Campus: domain.Geo{Lat: 30.28, Lon: -97.73}},
		{School: "Texas", Color: "#BF5700", Campus: domain.Geo{Lat: 30.28, Lon: -97.73}},
		{School: "Nowhere", Campus: domain.Geo{}},
	}
	p := validateTeamCatalogue(teams)

	assert.Equal(t, []string{
		`duplicate school "Texas"`,
		"Nowhere: missing color",
		"Nowhere: campus at (0, 0)",
	}, p.errors, "a school repeated three times is reported once")
}

func TestValidateCommitReferences(t *testing.T) {
	teams := []domain.Team{{School: "Texas"}}
	recruits := []domain.Recruit{
		{Name: "A", CommittedTo: "Texas"},
		{Name: "B", CommittedTo: ""},
		{Name: "C", CommittedTo: "Ghost U"},
		{Name: "D", CommittedTo: "Alpha State"},
		{Name: "E", CommittedTo: "Ghost U"},
	}
	p := validateCommitReferences(recruits, teams)

	require.Len(t, p.errors, 1)
	assert.Equal(t, "2 committedTo values name no known team: Alpha State, Ghost U", p.errors[0])

	assert.True(t, validateCommitReferences(recruits[:2], teams).passed())
}

func TestValidateHometowns(t *testing.T) {
	recruits := []domain.Recruit{
		{Name: "Located", Hometown: domain.Geo{Lat: 30.27, Lon: -97.74}},
		{Name: "Unknown", Hometown: domain.Geo{}},
		{Name: "Broken", Hometown: domain.Geo{Lat: 120, Lon: -97.74}},
	}
	p := validateHometowns(recruits)

	assert.Equal(t, []string{
		"1 recruits have no coordinates and need geocoding: Unknown",
		"1 recruits have out-of-range coordinates: Broken",
	}, p.errors)
}

func TestValidatePositions(t *testing.T) {
	recruits := []domain.Recruit{
		{Position: domain.PositionQB},
		{Position: "K"},
		{Position: "K"},
		{Position: "APB"},
	}
	p := validatePositions(recruits)

	require.Len(t, p.errors, 1)
	assert.Contains(t, p.errors[0], `2 unrecognized positions`)
	assert.Contains(t, p.errors[0], `"K", "APB"`)
}

func TestListSome(t *testing.T) {
	assert.Equal(t, "a, b", listSome([]string{"a", "b"}))

	values := make([]string, maxListed+3)
	for i := range values {
		values[i] = "x"
	}
	assert.Contains(t, listSome(values), "... (3 more)")
}
