package http

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/couchcryptid/recruiting-territories-service/internal/domain"
)

// parseFilter overlays query parameters on defaults:
//
//	years=2015-2020  stars=4-5  distance=250|none
//	positions=QB,RB|all  mode=all|commits  teams=Texas,USC
//
// A present but empty teams parameter selects no teams.
func parseFilter(q url.Values, defaults domain.Filter) (domain.Filter, error) {
	f := defaults
	var err error

	if v := q.Get("years"); v != "" {
		if f.Years, err = domain.ParseRange(v); err != nil {
			return domain.Filter{}, err
		}
	}
	if v := q.Get("stars"); v != "" {
		if f.Stars, err = domain.ParseRange(v); err != nil {
			return domain.Filter{}, err
		}
	}
	if v := q.Get("distance"); v != "" {
		if f.MaxDistance, err = parseDistance(v); err != nil {
			return domain.Filter{}, err
		}
	}
	if v := q.Get("positions"); v != "" {
		if f.Positions, err = parsePositions(v); err != nil {
			return domain.Filter{}, err
		}
	}
	if v := q.Get("mode"); v != "" {
		if f.Mode, err = domain.ParseConnectionMode(v); err != nil {
			return domain.Filter{}, err
		}
	}
	if q.Has("teams") {
		f.Teams = splitList(q.Get("teams"))
	}
	return f, nil
}

func parseDistance(v string) (*float64, error) {
	if strings.EqualFold(v, "none") {
		return nil, nil
	}
	miles, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(miles) || math.IsInf(miles, 0) {
		return nil, fmt.Errorf("%w: bad distance %q", domain.ErrInvalidFilter, v)
	}
	return domain.Miles(miles), nil
}

func parsePositions(v string) ([]domain.Position, error) {
	if strings.EqualFold(v, "all") {
		return nil, nil
	}
	var out []domain.Position
	for _, s := range splitList(v) {
		p, err := domain.ParsePosition(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidFilter, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
