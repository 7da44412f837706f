package domain

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// MaxDestinations caps the top-destinations bar chart.
const MaxDestinations = 7

// histogramBinWidth is the nominal bin width in miles.
const histogramBinWidth = 100

// DetailRow is one line of the drill-down table under each chart.
type DetailRow struct {
	Year        int      `json:"year"`
	Name        string   `json:"name"`
	CommittedTo string   `json:"committed_to"`
	Position    Position `json:"position"`
	Stars       int      `json:"stars"`
	City        string   `json:"city"`
	Distance    int      `json:"distance"`
}

// HistogramBin is a [Lower, Upper) distance bucket weighted by recruit count.
type HistogramBin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count float64 `json:"count"`
}

// Histogram answers how far a team's commits travelled.
type Histogram struct {
	School         string         `json:"school"`
	Color          string         `json:"color"`
	Question       string         `json:"question"`
	Bins           []HistogramBin `json:"bins"`
	Total          int            `json:"total"`
	MaxDistance    float64        `json:"max_distance"`
	MeanDistance   float64        `json:"mean_distance"`
	MedianDistance float64        `json:"median_distance"`
	Rows           []DetailRow    `json:"rows"`
}

// Destination is one bar of the top-destinations chart.
type Destination struct {
	School string `json:"school"`
	Color  string `json:"color"`
	Count  int    `json:"count"`
}

// Destinations answers where recruits near a team ended up.
type Destinations struct {
	School   string        `json:"school"`
	Question string        `json:"question"`
	Teams    []Destination `json:"teams"`
	Rows     []DetailRow   `json:"rows"`
}

// DistanceHistogram bins the distances between school's campus and the
// hometowns of filtered recruits who committed there. It returns ErrNoData
// when no such recruits exist.
func DistanceHistogram(ds *Dataset, f Filter, school string) (Histogram, error) {
	f = f.Normalize()
	if err := f.Validate(); err != nil {
		return Histogram{}, err
	}
	team, err := lookupTeam(ds, school)
	if err != nil {
		return Histogram{}, err
	}

	var commits []Recruit
	total := 0
	for _, r := range FilterRecruits(ds.Recruits, f) {
		if r.CommittedTo == school {
			commits = append(commits, r)
			total += r.Count
		}
	}
	if total == 0 {
		return Histogram{}, ErrNoData
	}

	rows := make([]DetailRow, len(commits))
	samples := make([]distanceSample, len(commits))
	for i, r := range commits {
		d := GreatCircle(r.Hometown, team.Campus)
		rows[i] = newDetailRow(r, d)
		samples[i] = distanceSample{miles: d, weight: float64(r.Count)}
	}
	slices.SortFunc(samples, func(a, b distanceSample) int { return cmp.Compare(a.miles, b.miles) })
	x := make([]float64, len(samples))
	weights := make([]float64, len(samples))
	for i, s := range samples {
		x[i] = s.miles
		weights[i] = s.weight
	}
	sortDetailRows(rows)

	maxDist := x[len(x)-1]
	return Histogram{
		School:         team.School,
		Color:          team.Color,
		Question:       NewLabels(f).HistogramQuestion(team.School),
		Bins:           histogramBins(x, weights, maxDist),
		Total:          total,
		MaxDistance:    maxDist,
		MeanDistance:   stat.Mean(x, weights),
		MedianDistance: stat.Quantile(0.5, stat.Empirical, x, weights),
		Rows:           rows,
	}, nil
}

type distanceSample struct {
	miles  float64
	weight float64
}

// histogramBins splits [0, maxDist] into int(maxDist/100) equal bins (at least
// one). x must be sorted ascending.
func histogramBins(x, weights []float64, maxDist float64) []HistogramBin {
	n := int(maxDist / histogramBinWidth)
	if n < 1 {
		n = 1
	}
	upper := maxDist
	if upper == 0 {
		upper = 1
	}

	dividers := floats.Span(make([]float64, n+1), 0, upper)
	// stat.Histogram treats the last divider as exclusive.
	dividers[n] = math.Nextafter(upper, math.Inf(1))
	counts := stat.Histogram(nil, dividers, x, weights)

	bins := make([]HistogramBin, n)
	for i := range bins {
		bins[i] = HistogramBin{Lower: dividers[i], Upper: dividers[i+1], Count: counts[i]}
	}
	bins[n-1].Upper = upper
	return bins
}

// TopDestinations groups the filtered recruits from hometowns connected to
// school by the team they committed to. Uncommitted recruits and commits to
// unknown teams are left out. It returns ErrNoData when nothing remains.
func TopDestinations(ds *Dataset, f Filter, school string) (Destinations, error) {
	f = f.Normalize()
	if err := f.Validate(); err != nil {
		return Destinations{}, err
	}
	team, err := lookupTeam(ds, school)
	if err != nil {
		return Destinations{}, err
	}

	recruits := FilterRecruits(ds.Recruits, f)
	conns := BuildConnections(recruits, []Team{team}, f)
	nearby := make(map[hometownKey]struct{}, len(conns.Rows))
	for _, c := range conns.Rows {
		nearby[hometownKey{City: c.City, Hometown: c.Hometown}] = struct{}{}
	}

	totals := make(map[string]int)
	var rows []DetailRow
	for _, r := range recruits {
		if _, ok := nearby[hometownKey{City: r.City, Hometown: r.Hometown}]; !ok {
			continue
		}
		rows = append(rows, newDetailRow(r, GreatCircle(r.Hometown, team.Campus)))
		if _, known := ds.Team(r.CommittedTo); known && r.CommittedTo != "" {
			totals[r.CommittedTo] += r.Count
		}
	}

	teams := make([]Destination, 0, len(totals))
	for name, n := range totals {
		if n == 0 {
			continue
		}
		t, _ := ds.Team(name)
		teams = append(teams, Destination{School: name, Color: t.Color, Count: n})
	}
	if len(teams) == 0 {
		return Destinations{}, ErrNoData
	}
	slices.SortFunc(teams, func(a, b Destination) int {
		return cmp.Or(cmp.Compare(b.Count, a.Count), cmp.Compare(a.School, b.School))
	})
	if len(teams) > MaxDestinations {
		teams = teams[:MaxDestinations]
	}
	sortDetailRows(rows)

	return Destinations{
		School:   team.School,
		Question: NewLabels(f).DestinationsQuestion(team.School, f.MaxDistance),
		Teams:    teams,
		Rows:     rows,
	}, nil
}

func lookupTeam(ds *Dataset, school string) (Team, error) {
	team, ok := ds.Team(school)
	if !ok {
		return Team{}, fmt.Errorf("%w: %q", ErrUnknownTeam, school)
	}
	return team, nil
}

func newDetailRow(r Recruit, miles float64) DetailRow {
	return DetailRow{
		Year:        r.Year,
		Name:        r.Name,
		CommittedTo: r.CommittedTo,
		Position:    r.Position,
		Stars:       r.Stars,
		City:        r.City,
		Distance:    int(miles),
	}
}

// sortDetailRows orders by year asc, stars desc, city asc, committedTo asc.
func sortDetailRows(rows []DetailRow) {
	slices.SortStableFunc(rows, func(a, b DetailRow) int {
		return cmp.Or(
			cmp.Compare(a.Year, b.Year),
			cmp.Compare(b.Stars, a.Stars),
			cmp.Compare(a.City, b.City),
			cmp.Compare(a.CommittedTo, b.CommittedTo),
		)
	})
}
