package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Control bounds offered to users. Filters outside the year bounds are still
// accepted so newer data files keep working.
const (
	MinYearBound     = 2010
	MaxYearBound     = 2020
	MaxDistanceBound = 500
	DistanceStep     = 25
)

// DefaultTeams is the initial team selection.
var DefaultTeams = []string{"USC", "Nebraska", "Texas", "Alabama", "Ohio State"}

// Range is an inclusive integer interval.
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether v lies within the range, bounds included.
func (r Range) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// String renders the range in the same form ParseRange accepts.
func (r Range) String() string {
	if r.Min == r.Max {
		return strconv.Itoa(r.Min)
	}
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}

// ParseRange parses "2015-2020" or a single value "2018".
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	lo, hi, found := strings.Cut(s, "-")
	minV, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return Range{}, fmt.Errorf("%w: bad range %q", ErrInvalidFilter, s)
	}
	if !found {
		return Range{Min: minV, Max: minV}, nil
	}
	maxV, err := strconv.Atoi(strings.TrimSpace(hi))
	if err != nil {
		return Range{}, fmt.Errorf("%w: bad range %q", ErrInvalidFilter, s)
	}
	return Range{Min: minV, Max: maxV}, nil
}

// ConnectionMode selects which team/hometown pairs become connections.
type ConnectionMode string

const (
	// ModeAll keeps every pair within the distance threshold.
	ModeAll ConnectionMode = "all"
	// ModeCommits keeps only pairs where the recruit committed to that team.
	ModeCommits ConnectionMode = "commits"
)

// ParseConnectionMode accepts the short and long spellings of each mode.
func ParseConnectionMode(s string) (ConnectionMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all", "all-within-distance":
		return ModeAll, nil
	case "commits", "commits-only":
		return ModeCommits, nil
	default:
		return "", fmt.Errorf("%w: unknown connection mode %q", ErrInvalidFilter, s)
	}
}

// Filter is the full set of user selections for one pipeline run.
type Filter struct {
	Years       Range          `json:"years"`
	Stars       Range          `json:"stars"`
	Positions   []Position     `json:"positions,omitempty"` // empty means all positions
	Teams       []string       `json:"teams"`
	MaxDistance *float64       `json:"max_distance,omitempty"` // miles; nil means no threshold
	Mode        ConnectionMode `json:"mode"`
}

// Miles is a convenience for building a MaxDistance.
func Miles(v float64) *float64 {
	return &v
}

// DefaultFilter returns the initial dashboard selection for the given teams.
func DefaultFilter(teams []string) Filter {
	return Filter{
		Years:       Range{Min: 2015, Max: 2020},
		Stars:       Range{Min: 4, Max: 5},
		Teams:       append([]string(nil), teams...),
		MaxDistance: Miles(250),
		Mode:        ModeAll,
	}
}

// Validate checks the filter for internally inconsistent values.
func (f Filter) Validate() error {
	if f.Years.Min > f.Years.Max {
		return fmt.Errorf("%w: year range %s is inverted", ErrInvalidFilter, f.Years)
	}
	if f.Stars.Min > f.Stars.Max || f.Stars.Min < 1 || f.Stars.Max > 5 {
		return fmt.Errorf("%w: star range %s must lie within 1-5", ErrInvalidFilter, f.Stars)
	}
	if f.MaxDistance != nil && *f.MaxDistance < 0 {
		return fmt.Errorf("%w: distance %g is negative", ErrInvalidFilter, *f.MaxDistance)
	}
	for _, p := range f.Positions {
		if _, err := ParsePosition(string(p)); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidFilter, err)
		}
	}
	switch f.Mode {
	case ModeAll, ModeCommits:
	default:
		return fmt.Errorf("%w: unknown connection mode %q", ErrInvalidFilter, f.Mode)
	}
	return nil
}

// Normalize drops duplicate teams and positions while keeping first-seen order.
func (f Filter) Normalize() Filter {
	f.Teams = dedupe(f.Teams)
	f.Positions = dedupe(f.Positions)
	if f.Mode == "" {
		f.Mode = ModeAll
	}
	return f
}

func dedupe[T comparable](in []T) []T {
	if len(in) == 0 {
		return in
	}
	seen := make(map[T]struct{}, len(in))
	out := make([]T, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Match reports whether a recruit passes the year, star and position predicates.
func (f Filter) Match(r Recruit) bool {
	if !f.Years.Contains(r.Year) || !f.Stars.Contains(r.Stars) {
		return false
	}
	if len(f.Positions) == 0 {
		return true
	}
	for _, p := range f.Positions {
		if r.Position == p {
			return true
		}
	}
	return false
}

// WithinDistance reports whether d passes the distance threshold.
func (f Filter) WithinDistance(d float64) bool {
	return f.MaxDistance == nil || d <= *f.MaxDistance
}

// FilterRecruits returns the recruits matching f, in source order.
func FilterRecruits(recruits []Recruit, f Filter) []Recruit {
	out := make([]Recruit, 0, len(recruits))
	for _, r := range recruits {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}
