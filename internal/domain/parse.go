package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Required column sets for the two source files.
var (
	RecruitColumns = []string{"year", "stars", "position", "name", "city", "lat", "lng", "committedTo"}
	TeamColumns    = []string{"school", "color", "lat", "lng", "logos"}
)

// DetectRecruitSchema inspects a header row and reports which optional
// columns are present. It returns an error naming the first missing required column.
func DetectRecruitSchema(header []string) (RecruitSchema, error) {
	if missing := missingColumn(header, RecruitColumns); missing != "" {
		return RecruitSchema{}, fmt.Errorf("recruits: missing column %q", missing)
	}
	return RecruitSchema{
		HasCount:    hasColumn(header, "count"),
		HasDistance: hasColumn(header, "distance"),
	}, nil
}

// CheckTeamColumns returns an error naming the first required teams column absent from header.
func CheckTeamColumns(header []string) error {
	if missing := missingColumn(header, TeamColumns); missing != "" {
		return fmt.Errorf("teams: missing column %q", missing)
	}
	return nil
}

func hasColumn(header []string, name string) bool {
	for _, h := range header {
		if strings.TrimSpace(h) == name {
			return true
		}
	}
	return false
}

func missingColumn(header, required []string) string {
	for _, col := range required {
		if !hasColumn(header, col) {
			return col
		}
	}
	return ""
}

// ParseRecruitRecord converts one CSV row, keyed by column name, into a Recruit.
// Unparseable coordinates become (0, 0) so the row can still be geocoded.
func ParseRecruitRecord(rec map[string]string, schema RecruitSchema) (Recruit, error) {
	year, err := parseIntCell(cell(rec, "year"))
	if err != nil || year < 1000 || year > 9999 {
		return Recruit{}, fmt.Errorf("parse recruit %q: invalid year %q", cell(rec, "name"), cell(rec, "year"))
	}

	stars, err := parseIntCell(cell(rec, "stars"))
	if err != nil || stars < 1 || stars > 5 {
		return Recruit{}, fmt.Errorf("parse recruit %q: invalid stars %q", cell(rec, "name"), cell(rec, "stars"))
	}

	count := 1
	if schema.HasCount {
		count, err = parseIntCell(cell(rec, "count"))
		if err != nil || count < 0 {
			return Recruit{}, fmt.Errorf("parse recruit %q: invalid count %q", cell(rec, "name"), cell(rec, "count"))
		}
	}

	return Recruit{
		Year:        year,
		Stars:       stars,
		Position:    Position(strings.ToUpper(cell(rec, "position"))),
		Name:        cell(rec, "name"),
		City:        cell(rec, "city"),
		Hometown:    Geo{Lat: parseFloatOrZero(cell(rec, "lat")), Lon: parseFloatOrZero(cell(rec, "lng"))},
		CommittedTo: cell(rec, "committedTo"),
		Count:       count,
	}, nil
}

// ParseTeamRecord converts one CSV row, keyed by column name, into a Team.
func ParseTeamRecord(rec map[string]string) (Team, error) {
	school := cell(rec, "school")
	if school == "" {
		return Team{}, fmt.Errorf("parse team: empty school")
	}

	lat, errLat := strconv.ParseFloat(cell(rec, "lat"), 64)
	lon, errLon := strconv.ParseFloat(cell(rec, "lng"), 64)
	campus := Geo{Lat: lat, Lon: lon}
	if errLat != nil || errLon != nil || !campus.Valid() {
		return Team{}, fmt.Errorf("parse team %q: invalid campus coordinates %q,%q", school, cell(rec, "lat"), cell(rec, "lng"))
	}

	logos, err := ParseLogos(rec["logos"])
	if err != nil {
		return Team{}, fmt.Errorf("parse team %q: %w", school, err)
	}

	return Team{
		School: school,
		Color:  cell(rec, "color"),
		Campus: campus,
		Logos:  logos,
	}, nil
}

// ParseLogos decodes a serialized list of strings such as
// "['http://a.png', \"http://b.png\"]". Only quoted string items are accepted;
// anything else is an error. Empty and null-like inputs yield nil.
func ParseLogos(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if isNullCell(s) {
		return nil, nil
	}
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return nil, fmt.Errorf("parse logos: expected list literal, got %q", s)
	}

	var out []string
	body := s[1 : len(s)-1]
	i := 0
	for {
		i = skipSpace(body, i)
		if i >= len(body) {
			return out, nil
		}

		item, next, err := scanQuoted(body, i)
		if err != nil {
			return nil, fmt.Errorf("parse logos: %w", err)
		}
		out = append(out, item)

		i = skipSpace(body, next)
		if i >= len(body) {
			return out, nil
		}
		if body[i] != ',' {
			return nil, fmt.Errorf("parse logos: expected ',' at offset %d in %q", i+1, s)
		}
		i++
	}
}

// scanQuoted reads a single- or double-quoted string starting at s[start] and
// returns the unescaped value and the offset just past the closing quote.
func scanQuoted(s string, start int) (string, int, error) {
	quote := s[start]
	if quote != '\'' && quote != '"' {
		return "", 0, fmt.Errorf("expected quoted string at offset %d", start+1)
	}

	var b strings.Builder
	for i := start + 1; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s):
			i++
			switch s[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(s[i])
			}
		case c == quote:
			return b.String(), i + 1, nil
		default:
			b.WriteByte(c)
		}
	}
	return "", 0, fmt.Errorf("unterminated string at offset %d", start+1)
}

func skipSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
		i++
	}
	return i
}

// SplitCity splits a "City, ST" hometown into its name and state parts.
func SplitCity(city string) (name, state string) {
	city = strings.TrimSpace(city)
	idx := strings.LastIndex(city, ",")
	if idx < 0 {
		return city, ""
	}
	return strings.TrimSpace(city[:idx]), strings.TrimSpace(city[idx+1:])
}

// cell returns a trimmed value with pandas-style null markers mapped to "".
func cell(rec map[string]string, key string) string {
	v := strings.TrimSpace(rec[key])
	if isNullCell(v) {
		return ""
	}
	return v
}

func isNullCell(v string) bool {
	switch v {
	case "", "NaN", "nan", "None", "null", "<nil>":
		return true
	}
	return false
}

// parseIntCell accepts integer values written as floats ("4.0") by pandas.
func parseIntCell(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	return int(f), nil
}

// parseFloatOrZero parses a string as float64, returning 0 on failure.
func parseFloatOrZero(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
