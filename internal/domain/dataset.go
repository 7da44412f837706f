package domain

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
)

// OrphanPolicy decides what happens to recruits whose committedTo names no known team.
type OrphanPolicy string

const (
	OrphanWarn   OrphanPolicy = "warn"
	OrphanDrop   OrphanPolicy = "drop"
	OrphanReject OrphanPolicy = "reject"
)

// ParseOrphanPolicy validates a policy name.
func ParseOrphanPolicy(s string) (OrphanPolicy, error) {
	switch p := OrphanPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case OrphanWarn, OrphanDrop, OrphanReject:
		return p, nil
	default:
		return "", fmt.Errorf("unknown orphan commit policy %q", s)
	}
}

// Dataset is the immutable pair of tables loaded once per process.
type Dataset struct {
	Recruits []Recruit
	Teams    []Team
	Schema   RecruitSchema
	LoadedAt time.Time

	teamIndex map[string]int
}

// NewDataset indexes the tables and applies the orphan commit policy.
func NewDataset(recruits []Recruit, teams []Team, schema RecruitSchema, policy OrphanPolicy, logger *slog.Logger) (*Dataset, error) {
	index := make(map[string]int, len(teams))
	for i, t := range teams {
		if _, dup := index[t.School]; dup {
			return nil, fmt.Errorf("duplicate school %q in teams table", t.School)
		}
		index[t.School] = i
	}

	orphans := FindOrphanCommits(recruits, index)
	if len(orphans) > 0 {
		switch policy {
		case OrphanReject:
			return nil, fmt.Errorf("%w: %s", ErrOrphanCommit, strings.Join(orphans, ", "))
		case OrphanDrop:
			kept := make([]Recruit, 0, len(recruits))
			for _, r := range recruits {
				if r.CommittedTo == "" {
					kept = append(kept, r)
					continue
				}
				if _, ok := index[r.CommittedTo]; ok {
					kept = append(kept, r)
				}
			}
			logger.Warn("dropped recruits committed to unknown teams",
				"dropped", len(recruits)-len(kept),
				"teams", orphans,
			)
			recruits = kept
		default:
			logger.Warn("recruits committed to unknown teams",
				"teams", orphans,
				"distinct", len(orphans),
			)
		}
	}

	return &Dataset{
		Recruits:  recruits,
		Teams:     teams,
		Schema:    schema,
		LoadedAt:  clock.Now(),
		teamIndex: index,
	}, nil
}

// FindOrphanCommits returns the sorted distinct committedTo values absent from index.
func FindOrphanCommits(recruits []Recruit, index map[string]int) []string {
	seen := make(map[string]struct{})
	for _, r := range recruits {
		if r.CommittedTo == "" {
			continue
		}
		if _, ok := index[r.CommittedTo]; !ok {
			seen[r.CommittedTo] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Team looks up a team by school.
func (d *Dataset) Team(school string) (Team, bool) {
	i, ok := d.teamIndex[school]
	if !ok {
		return Team{}, false
	}
	return d.Teams[i], true
}

// SelectTeams resolves schools to teams in the given order.
func (d *Dataset) SelectTeams(schools []string) ([]Team, error) {
	out := make([]Team, 0, len(schools))
	for _, s := range schools {
		t, ok := d.Team(s)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTeam, s)
		}
		out = append(out, t)
	}
	return out, nil
}

// Schools lists team names in table order.
func (d *Dataset) Schools() []string {
	out := make([]string, len(d.Teams))
	for i, t := range d.Teams {
		out[i] = t.School
	}
	return out
}
