package domain

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	austin     = Geo{Lat: 30.27, Lon: -97.74}
	dallas     = Geo{Lat: 32.78, Lon: -96.80}
	houston    = Geo{Lat: 29.76, Lon: -95.37}
	losAngeles = Geo{Lat: 34.05, Lon: -118.24}

	texasCampus = Geo{Lat: 30.285, Lon: -97.733}
	uscCampus   = Geo{Lat: 34.0224, Lon: -118.285}
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testTeams() []Team {
	return []Team{
		{School: "Texas", Color: "#BF5700", Campus: texasCampus, Logos: []string{"texas.png", "texas-dark.png"}},
		{School: "USC", Color: "#990000", Campus: uscCampus, Logos: []string{"usc.png"}},
		{School: "Alabama", Color: "#9E1B32", Campus: Geo{Lat: 33.2098, Lon: -87.5692}},
		{School: "Nebraska", Color: "#E41C38", Campus: Geo{Lat: 40.8202, Lon: -96.7005}},
	}
}

func testRecruits() []Recruit {
	return []Recruit{
		{Year: 2016, Stars: 5, Position: PositionQB, Name: "A One", City: "Austin, TX", Hometown: austin, CommittedTo: "Texas", Count: 3},
		{Year: 2017, Stars: 4, Position: PositionWR, Name: "A Two", City: "Austin, TX", Hometown: austin, CommittedTo: "Alabama", Count: 2},
		{Year: 2018, Stars: 4, Position: PositionRB, Name: "D One", City: "Dallas, TX", Hometown: dallas, CommittedTo: "Texas", Count: 1},
		{Year: 2019, Stars: 3, Position: PositionOL, Name: "H One", City: "Houston, TX", Hometown: houston, CommittedTo: "USC", Count: 1},
		{Year: 2015, Stars: 5, Position: PositionDE, Name: "L One", City: "Los Angeles, CA", Hometown: losAngeles, CommittedTo: "USC", Count: 2},
		{Year: 2012, Stars: 4, Position: PositionQB, Name: "Old", City: "Houston, TX", Hometown: houston, CommittedTo: "Texas", Count: 1},
		{Year: 2020, Stars: 4, Position: PositionCB, Name: "U One", City: "Houston, TX", Hometown: houston, Count: 1},
	}
}

func testDataset(t *testing.T) *Dataset {
	t.Helper()
	ds, err := NewDataset(testRecruits(), testTeams(), RecruitSchema{HasCount: true}, OrphanWarn, discardLogger())
	require.NoError(t, err)
	return ds
}

func testFilter(teams ...string) Filter {
	return DefaultFilter(teams)
}

func sumRecruits(rs []Recruit) int {
	n := 0
	for _, r := range rs {
		n += r.Count
	}
	return n
}

func sumHometowns(hs []HometownCount) int {
	n := 0
	for _, h := range hs {
		n += h.Count
	}
	return n
}
