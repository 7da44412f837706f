package domain

import (
	"cmp"
	"slices"
)

// Connection pairs one selected team with one filtered recruit row.
type Connection struct {
	City        string  `json:"city"`
	Hometown    Geo     `json:"hometown"`
	School      string  `json:"school"`
	Campus      Geo     `json:"campus"`
	CommittedTo string  `json:"committed_to,omitempty"`
	Count       int     `json:"count"`
	Distance    float64 `json:"distance"`
}

// ConnectionTable is the derived connections table. HasDistance is false when
// the rows carry no distance column, e.g. the empty-selection short circuit.
type ConnectionTable struct {
	Rows        []Connection
	HasDistance bool

	// Evaluations counts GreatCircle calls made while building the table.
	Evaluations int
}

// HometownCount is a recruit total for one hometown point.
type HometownCount struct {
	City     string `json:"city"`
	Hometown Geo    `json:"hometown"`
	Count    int    `json:"count"`
}

// ConnectionCount is a recruit total for one hometown/team line.
// Distance is nil when the source table had no distance column.
type ConnectionCount struct {
	City     string   `json:"city"`
	Hometown Geo      `json:"hometown"`
	School   string   `json:"school"`
	Campus   Geo      `json:"campus"`
	Distance *float64 `json:"distance,omitempty"`
	Count    int      `json:"count"`
}

// TeamSummary carries the committed/available counts shown under each logo.
type TeamSummary struct {
	School    string `json:"school"`
	Color     string `json:"color"`
	Logo      string `json:"logo,omitempty"`
	Campus    Geo    `json:"campus"`
	Available int    `json:"available"`
	Committed int    `json:"committed"`
}

// Territories is everything a front-end needs to draw the map for one filter.
type Territories struct {
	Filter      Filter            `json:"filter"`
	Labels      Labels            `json:"labels"`
	Recruits    []Recruit         `json:"recruits"`
	Hometowns   []HometownCount   `json:"hometowns"`
	Connections []ConnectionCount `json:"connections"`
	Teams       []TeamSummary     `json:"teams"`

	ConnectionRows      int `json:"-"`
	DistanceEvaluations int `json:"-"`
}

// BuildTerritories runs the full filter and aggregation pipeline against ds.
func BuildTerritories(ds *Dataset, f Filter) (Territories, error) {
	f = f.Normalize()
	if err := f.Validate(); err != nil {
		return Territories{}, err
	}
	teams, err := ds.SelectTeams(f.Teams)
	if err != nil {
		return Territories{}, err
	}

	recruits := FilterRecruits(ds.Recruits, f)
	conns := BuildConnections(recruits, teams, f)

	return Territories{
		Filter:              f,
		Labels:              NewLabels(f),
		Recruits:            recruits,
		Hometowns:           AggregateHometowns(recruits),
		Connections:         AggregateConnections(conns),
		Teams:               Summarize(conns, teams),
		ConnectionRows:      len(conns.Rows),
		DistanceEvaluations: conns.Evaluations,
	}, nil
}

// BuildConnections cross joins teams with recruits, keeping pairs within the
// distance threshold (and, in commits mode, pairs where the recruit committed
// to that team). Distances are computed once per distinct (team, hometown).
func BuildConnections(recruits []Recruit, teams []Team, f Filter) ConnectionTable {
	if len(teams) == 0 {
		return ConnectionTable{}
	}

	table := ConnectionTable{HasDistance: true}
	distances := make(map[Geo]float64, len(recruits))
	for _, t := range teams {
		clear(distances)
		for _, r := range recruits {
			if f.Mode == ModeCommits && r.CommittedTo != t.School {
				continue
			}
			d, ok := distances[r.Hometown]
			if !ok {
				d = GreatCircle(r.Hometown, t.Campus)
				distances[r.Hometown] = d
				table.Evaluations++
			}
			if !f.WithinDistance(d) {
				continue
			}
			table.Rows = append(table.Rows, Connection{
				City:        r.City,
				Hometown:    r.Hometown,
				School:      t.School,
				Campus:      t.Campus,
				CommittedTo: r.CommittedTo,
				Count:       r.Count,
				Distance:    d,
			})
		}
	}
	return table
}

type hometownKey struct {
	City     string
	Hometown Geo
}

// AggregateHometowns sums recruit counts per (city, lat, lng), sorted by key.
func AggregateHometowns(recruits []Recruit) []HometownCount {
	index := make(map[hometownKey]int)
	out := make([]HometownCount, 0)
	for _, r := range recruits {
		k := hometownKey{City: r.City, Hometown: r.Hometown}
		if i, ok := index[k]; ok {
			out[i].Count += r.Count
			continue
		}
		index[k] = len(out)
		out = append(out, HometownCount{City: r.City, Hometown: r.Hometown, Count: r.Count})
	}

	slices.SortFunc(out, func(a, b HometownCount) int {
		return cmp.Or(
			cmp.Compare(a.City, b.City),
			cmp.Compare(a.Hometown.Lat, b.Hometown.Lat),
			cmp.Compare(a.Hometown.Lon, b.Hometown.Lon),
		)
	})
	return out
}

type connectionKey struct {
	City     string
	Hometown Geo
	School   string
	Campus   Geo
	Distance float64
}

// AggregateConnections sums counts per hometown/team line. The grouping key
// includes distance only when the table carries a distance column.
func AggregateConnections(t ConnectionTable) []ConnectionCount {
	index := make(map[connectionKey]int)
	out := make([]ConnectionCount, 0)
	for _, c := range t.Rows {
		k := connectionKey{City: c.City, Hometown: c.Hometown, School: c.School, Campus: c.Campus}
		if t.HasDistance {
			k.Distance = c.Distance
		}
		if i, ok := index[k]; ok {
			out[i].Count += c.Count
			continue
		}
		index[k] = len(out)
		cc := ConnectionCount{City: c.City, Hometown: c.Hometown, School: c.School, Campus: c.Campus, Count: c.Count}
		if t.HasDistance {
			cc.Distance = Miles(c.Distance)
		}
		out = append(out, cc)
	}

	slices.SortFunc(out, func(a, b ConnectionCount) int {
		return cmp.Or(
			cmp.Compare(a.City, b.City),
			cmp.Compare(a.Hometown.Lat, b.Hometown.Lat),
			cmp.Compare(a.Hometown.Lon, b.Hometown.Lon),
			cmp.Compare(a.School, b.School),
			cmp.Compare(distanceOrZero(a.Distance), distanceOrZero(b.Distance)),
		)
	})
	return out
}

func distanceOrZero(d *float64) float64 {
	if d == nil {
		return 0
	}
	return *d
}

// Summarize derives per-team available and committed totals, in team order.
func Summarize(t ConnectionTable, teams []Team) []TeamSummary {
	out := make([]TeamSummary, len(teams))
	pos := make(map[string]int, len(teams))
	for i, team := range teams {
		out[i] = TeamSummary{School: team.School, Color: team.Color, Logo: team.Logo(), Campus: team.Campus}
		pos[team.School] = i
	}
	for _, c := range t.Rows {
		i, ok := pos[c.School]
		if !ok {
			continue
		}
		out[i].Available += c.Count
		if c.CommittedTo == c.School {
			out[i].Committed += c.Count
		}
	}
	return out
}
