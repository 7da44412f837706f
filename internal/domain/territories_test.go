package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTerritories_Default(t *testing.T) {
	ds := testDataset(t)

	got, err := BuildTerritories(ds, testFilter("Texas", "USC"))
	require.NoError(t, err)

	assert.Len(t, got.Recruits, 5)
	assert.Equal(t, 9, sumRecruits(got.Recruits))

	require.Len(t, got.Hometowns, 4)
	wantHometowns := []HometownCount{
		{City: "Austin, TX", Hometown: austin, Count: 5},
		{City: "Dallas, TX", Hometown: dallas, Count: 1},
		{City: "Houston, TX", Hometown: houston, Count: 1},
		{City: "Los Angeles, CA", Hometown: losAngeles, Count: 2},
	}
	if diff := cmp.Diff(wantHometowns, got.Hometowns); diff != "" {
		t.Errorf("hometowns mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, got.Connections, 4)
	type line struct {
		City, School string
		Count        int
	}
	lines := make([]line, len(got.Connections))
	for i, c := range got.Connections {
		lines[i] = line{c.City, c.School, c.Count}
		require.NotNil(t, c.Distance)
		assert.LessOrEqual(t, *c.Distance, 250.0)
	}
	assert.Equal(t, []line{
		{"Austin, TX", "Texas", 5},
		{"Dallas, TX", "Texas", 1},
		{"Houston, TX", "Texas", 1},
		{"Los Angeles, CA", "USC", 2},
	}, lines)

	require.Len(t, got.Teams, 2)
	assert.Equal(t, TeamSummary{School: "Texas", Color: "#BF5700", Logo: "texas.png", Campus: texasCampus, Available: 7, Committed: 4}, got.Teams[0])
	assert.Equal(t, 2, got.Teams[1].Available)
	assert.Equal(t, 2, got.Teams[1].Committed)

	assert.Equal(t, 5, got.ConnectionRows)
	assert.Equal(t, 8, got.DistanceEvaluations)
	assert.Equal(t, "Blue Chip Recruits within 250 Miles of Campus", got.Labels.Title)
}

func TestBuildTerritories_CommitsOnly(t *testing.T) {
	ds := testDataset(t)
	f := testFilter("Texas", "USC")
	f.Mode = ModeCommits

	got, err := BuildTerritories(ds, f)
	require.NoError(t, err)

	require.Len(t, got.Teams, 2)
	assert.Equal(t, 4, got.Teams[0].Available)
	assert.Equal(t, 4, got.Teams[0].Committed)
	assert.Equal(t, 2, got.Teams[1].Available)
	assert.Equal(t, 2, got.Teams[1].Committed)
	for _, s := range got.Teams {
		assert.Equal(t, s.Available, s.Committed, s.School)
	}
	assert.Equal(t, 3, got.DistanceEvaluations)
}

func TestBuildTerritories_NoTeams(t *testing.T) {
	ds := testDataset(t)

	got, err := BuildTerritories(ds, testFilter())
	require.NoError(t, err)

	assert.Empty(t, got.Connections)
	assert.NotNil(t, got.Connections)
	assert.Empty(t, got.Teams)
	assert.Equal(t, 0, got.DistanceEvaluations)
	assert.Equal(t, 9, sumHometowns(got.Hometowns))
	assert.Equal(t, "Blue Chip Recruits", got.Labels.Title)
}

func TestBuildTerritories_UnknownTeam(t *testing.T) {
	ds := testDataset(t)
	_, err := BuildTerritories(ds, testFilter("Texas", "Oregon"))
	assert.ErrorIs(t, err, ErrUnknownTeam)
}

func TestBuildTerritories_InvalidFilter(t *testing.T) {
	ds := testDataset(t)
	f := testFilter("Texas")
	f.Stars = Range{Min: 5, Max: 4}
	_, err := BuildTerritories(ds, f)
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func TestBuildTerritories_Conservation(t *testing.T) {
	ds := testDataset(t)
	filters := []Filter{testFilter(), testFilter("Texas"), testFilter("USC", "Alabama", "Nebraska")}
	wide := testFilter("Texas")
	wide.Years = Range{Min: 2010, Max: 2020}
	wide.Stars = Range{Min: 1, Max: 5}
	wide.MaxDistance = nil
	filters = append(filters, wide)

	for _, f := range filters {
		got, err := BuildTerritories(ds, f)
		require.NoError(t, err)
		assert.Equal(t, sumRecruits(got.Recruits), sumHometowns(got.Hometowns))
		for _, s := range got.Teams {
			assert.LessOrEqual(t, s.Committed, s.Available)
		}
	}
}

func TestBuildTerritories_Idempotent(t *testing.T) {
	ds := testDataset(t)
	f := testFilter("Texas", "USC", "Texas")

	first, err := BuildTerritories(ds, f)
	require.NoError(t, err)
	second, err := BuildTerritories(ds, f)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second run differs (-first +second):\n%s", diff)
	}
	assert.Equal(t, []string{"Texas", "USC"}, first.Filter.Teams)
}

func TestBuildTerritories_NoDistanceThreshold(t *testing.T) {
	ds := testDataset(t)
	f := testFilter("Texas")
	f.MaxDistance = nil

	got, err := BuildTerritories(ds, f)
	require.NoError(t, err)
	assert.Equal(t, 9, got.Teams[0].Available)
	assert.Equal(t, "Blue Chip Recruits", got.Labels.Title)
}

func TestBuildConnections_HometownOnCampus(t *testing.T) {
	recruits := []Recruit{{Year: 2018, Stars: 4, City: "Austin, TX", Hometown: texasCampus, Count: 1}}
	teams := []Team{{School: "Texas", Campus: texasCampus}}

	for _, miles := range []float64{50, 0} {
		f := testFilter("Texas")
		f.MaxDistance = Miles(miles)
		table := BuildConnections(recruits, teams, f)
		require.Len(t, table.Rows, 1, "max distance %v", miles)
		assert.Zero(t, table.Rows[0].Distance)
	}
}

func TestBuildConnections_NoTeams(t *testing.T) {
	table := BuildConnections(testRecruits(), nil, testFilter())
	assert.False(t, table.HasDistance)
	assert.Empty(t, table.Rows)
	assert.Zero(t, table.Evaluations)
}

func TestBuildConnections_MemoizesPerHometown(t *testing.T) {
	recruits := make([]Recruit, 0, 100)
	for range 50 {
		recruits = append(recruits,
			Recruit{Year: 2018, Stars: 4, City: "Austin, TX", Hometown: austin, Count: 1},
			Recruit{Year: 2018, Stars: 4, City: "Dallas, TX", Hometown: dallas, Count: 1},
		)
	}
	table := BuildConnections(recruits, testTeams()[:2], testFilter("Texas", "USC"))
	assert.Equal(t, 4, table.Evaluations)
	assert.Len(t, table.Rows, 100)
}

func TestAggregateConnections_WithoutDistance(t *testing.T) {
	table := ConnectionTable{
		Rows: []Connection{
			{City: "Austin, TX", Hometown: austin, School: "Texas", Campus: texasCampus, Count: 2, Distance: 1},
			{City: "Austin, TX", Hometown: austin, School: "Texas", Campus: texasCampus, Count: 3, Distance: 7},
		},
	}
	got := AggregateConnections(table)
	require.Len(t, got, 1)
	assert.Equal(t, 5, got[0].Count)
	assert.Nil(t, got[0].Distance)

	table.HasDistance = true
	assert.Len(t, AggregateConnections(table), 2)
}

func TestAggregateHometowns_SameCityDifferentPoints(t *testing.T) {
	got := AggregateHometowns([]Recruit{
		{City: "Springfield", Hometown: Geo{Lat: 39.8, Lon: -89.6}, Count: 1},
		{City: "Springfield", Hometown: Geo{Lat: 37.2, Lon: -93.3}, Count: 2},
		{City: "Springfield", Hometown: Geo{Lat: 39.8, Lon: -89.6}, Count: 4},
	})
	require.Len(t, got, 2)
	assert.Equal(t, 37.2, got[0].Hometown.Lat)
	assert.Equal(t, 2, got[0].Count)
	assert.Equal(t, 5, got[1].Count)
}
