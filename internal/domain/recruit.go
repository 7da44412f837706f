package domain

import (
	"fmt"
	"strings"
)

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// IsZero reports whether the pair is the (0, 0) "unknown" sentinel.
func (g Geo) IsZero() bool {
	return g.Lat == 0 && g.Lon == 0
}

// Valid reports whether both components are within decimal-degree bounds.
func (g Geo) Valid() bool {
	return g.Lat >= -90 && g.Lat <= 90 && g.Lon >= -180 && g.Lon <= 180
}

// Position is a football roster position as used by recruiting services.
type Position string

const (
	PositionQB  Position = "QB"
	PositionRB  Position = "RB"
	PositionWR  Position = "WR"
	PositionTE  Position = "TE"
	PositionOL  Position = "OL"
	PositionDT  Position = "DT"
	PositionDE  Position = "DE"
	PositionLB  Position = "LB"
	PositionCB  Position = "CB"
	PositionS   Position = "S"
	PositionATH Position = "ATH"
)

// Positions lists every recognized position in display order.
var Positions = []Position{
	PositionQB, PositionRB, PositionWR, PositionTE, PositionOL, PositionDT,
	PositionDE, PositionLB, PositionCB, PositionS, PositionATH,
}

// ParsePosition normalizes a position code, e.g. " qb " -> QB.
func ParsePosition(s string) (Position, error) {
	p := Position(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Positions {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown position %q", s)
}

// Recruit is one row of the recruits table. Count is 1 for per-athlete files
// and the pre-summed total for aggregated files.
type Recruit struct {
	Year        int      `json:"year"`
	Stars       int      `json:"stars"`
	Position    Position `json:"position"`
	Name        string   `json:"name"`
	City        string   `json:"city"`
	Hometown    Geo      `json:"hometown"`
	CommittedTo string   `json:"committed_to,omitempty"`
	Count       int      `json:"count"`
}

// Team is one row of the teams table.
type Team struct {
	School string   `json:"school"`
	Color  string   `json:"color"`
	Campus Geo      `json:"campus"`
	Logos  []string `json:"logos,omitempty"`
}

// Logo returns the display logo, or "" when the team has none.
func (t Team) Logo() string {
	if len(t.Logos) == 0 {
		return ""
	}
	return t.Logos[0]
}

// RecruitSchema records which optional columns a recruits file carried.
type RecruitSchema struct {
	HasCount    bool `json:"has_count"`
	HasDistance bool `json:"has_distance"`
}
