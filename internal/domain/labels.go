package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Labels are the user-facing strings assembled from the active filter.
type Labels struct {
	Stars     string `json:"stars"`
	Years     string `json:"years"`
	Positions string `json:"positions"`
	Distance  string `json:"distance"`
	Title     string `json:"title"`
}

// NewLabels renders every label for f.
func NewLabels(f Filter) Labels {
	l := Labels{
		Stars:     StarLabel(f.Stars),
		Years:     YearLabel(f.Years),
		Positions: PositionLabel(f.Positions),
		Distance:  DistanceLabel(f),
	}
	l.Title = l.Stars + l.Positions + l.Distance
	return l
}

// StarLabel names a star range: "" for every rating, "Blue Chip " for 4-5,
// otherwise "3 Star " or "2 - 4 Star ". The trailing space is intentional so
// labels concatenate directly.
func StarLabel(r Range) string {
	switch {
	case r.Min == 1 && r.Max == 5:
		return ""
	case r.Min == 4 && r.Max == 5:
		return "Blue Chip "
	case r.Min == r.Max:
		return fmt.Sprintf("%d Star ", r.Min)
	default:
		return fmt.Sprintf("%d - %d Star ", r.Min, r.Max)
	}
}

// YearLabel renders "2015 - 2020", or a single year when the range collapses.
func YearLabel(r Range) string {
	if r.Min == r.Max {
		return strconv.Itoa(r.Min)
	}
	return fmt.Sprintf("%d - %d", r.Min, r.Max)
}

// PositionLabel renders "Recruits" or e.g. "QB, RB Recruits".
func PositionLabel(positions []Position) string {
	if len(positions) == 0 {
		return "Recruits"
	}
	names := make([]string, len(positions))
	for i, p := range positions {
		names[i] = string(p)
	}
	return strings.Join(names, ", ") + " Recruits"
}

// DistanceLabel renders " within 250 Miles of Campus" when teams are selected
// and a threshold is set.
func DistanceLabel(f Filter) string {
	if len(f.Teams) == 0 || f.MaxDistance == nil {
		return ""
	}
	return fmt.Sprintf(" within %s Miles of Campus", formatMiles(*f.MaxDistance))
}

// HistogramQuestion is the heading for the commit-distance drill-down.
func (l Labels) HistogramQuestion(school string) string {
	return fmt.Sprintf("How far did all %s that went to %s in %s come?",
		strings.ToLower(l.Stars+l.Positions), school, l.Years)
}

// DestinationsQuestion is the heading for the top-destinations drill-down.
func (l Labels) DestinationsQuestion(school string, maxDistance *float64) string {
	who := strings.ToLower(l.Stars + l.Positions)
	if maxDistance == nil {
		return fmt.Sprintf("Where did %s connected to %s in %s go to?", who, school, l.Years)
	}
	return fmt.Sprintf("Where did %s within %s miles of %s in %s go to?",
		who, formatMiles(*maxDistance), school, l.Years)
}

// DownloadFilename names the CSV export, e.g. "Texas Blue Chip Recruits 2015 - 2020.csv".
func (l Labels) DownloadFilename(school string) string {
	if school == "" {
		school = "All Teams"
	}
	return fmt.Sprintf("%s %sRecruits %s.csv", school, l.Stars, l.Years)
}

func formatMiles(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
