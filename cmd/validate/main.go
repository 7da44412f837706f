// Command validate checks the recruits and teams source tables for the
// problems the service would otherwise only log at load time: missing
// columns, unparseable rows, duplicate or incomplete teams, commits to
// unknown teams, hometowns without usable coordinates and unknown positions.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -recruits data/recruits-lat-long.csv \
//	  -teams data/teams-lat-long.csv
//
// Either flag may also be an http(s) URL; both default to RECRUITS_URL and
// TEAMS_URL.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"

	"github.com/couchcryptid/recruiting-territories-service/internal/adapter/csvdata"
	"github.com/couchcryptid/recruiting-territories-service/internal/domain"
)

// maxListed caps how many offending values a single error line names.
const maxListed = 10

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	recruitsLoc := flag.String("recruits", sharedcfg.EnvOrDefault("RECRUITS_URL", ""), "recruits CSV path or URL")
	teamsLoc := flag.String("teams", sharedcfg.EnvOrDefault("TEAMS_URL", ""), "teams CSV path or URL")
	timeout := flag.Duration("timeout", 30*time.Second, "fetch timeout per table")
	flag.Parse()

	if *recruitsLoc == "" || *teamsLoc == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*recruitsLoc, *teamsLoc, *timeout); code != 0 {
		os.Exit(code)
	}
}

func run(recruitsLoc, teamsLoc string, timeout time.Duration) int {
	fmt.Println("=== Recruiting Data Integrity Validation ===")
	fmt.Println()

	ctx := context.Background()
	client := &http.Client{Timeout: timeout}

	recruitsTable, err := csvdata.FetchTable(ctx, client, recruitsLoc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load recruits: %v\n", err)
		return 1
	}
	teamsTable, err := csvdata.FetchTable(ctx, client, teamsLoc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load teams: %v\n", err)
		return 1
	}

	columns := &phase{name: "Column schema"}
	recruits, schema, recruitErrs, err := csvdata.ParseRecruits(recruitsTable)
	if err != nil {
		columns.errorf("%v", err)
	}
	teams, teamErrs, err := csvdata.ParseTeams(teamsTable)
	if err != nil {
		columns.errorf("%v", err)
	}
	if !columns.passed() {
		report([]*phase{columns})
		fmt.Println("\nValidation FAILED.")
		return 1
	}

	phases := []*phase{
		columns,
		validateRows("Recruit rows", recruitErrs),
		validateRows("Team rows", teamErrs),
		validateTeamCatalogue(teams),
		validateCommitReferences(recruits, teams),
		validateHometowns(recruits),
		validatePositions(recruits),
	}

	report(phases)

	fmt.Println()
	fmt.Printf("Records: %d recruit rows (%d parsed), %d team rows (%d parsed)\n",
		len(recruitsTable.Rows), len(recruits), len(teamsTable.Rows), len(teams))
	fmt.Printf("Schema: count column %t, distance column %t\n", schema.HasCount, schema.HasDistance)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	for _, p := range phases {
		if !p.passed() {
			fmt.Println("\nValidation FAILED.")
			return 1
		}
	}
	fmt.Println("\nAll validations passed.")
	return 0
}

func report(phases []*phase) {
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}
}

func validateRows(name string, rowErrs []csvdata.RowError) *phase {
	p := &phase{name: name}
	for _, e := range rowErrs {
		p.errorf("%v", e)
	}
	return p
}

func validateTeamCatalogue(teams []domain.Team) *phase {
	p := &phase{name: "Team catalogue"}
	seen := make(map[string]int, len(teams))
	for _, t := range teams {
		seen[t.School]++
		if seen[t.School] == 2 {
			p.errorf("duplicate school %q", t.School)
		}
		if t.Color == "" {
			p.errorf("%s: missing color", t.School)
		}
		if t.Campus.IsZero() {
			p.errorf("%s: campus at (0, 0)", t.School)
		}
	}
	return p
}

func validateCommitReferences(recruits []domain.Recruit, teams []domain.Team) *phase {
	p := &phase{name: "Commit references"}
	index := make(map[string]int, len(teams))
	for i, t := range teams {
		index[t.School] = i
	}
	orphans := domain.FindOrphanCommits(recruits, index)
	if len(orphans) > 0 {
		p.errorf("%d committedTo values name no known team: %s", len(orphans), listSome(orphans))
	}
	return p
}

func validateHometowns(recruits []domain.Recruit) *phase {
	p := &phase{name: "Hometown coordinates"}
	var missing, invalid []string
	for _, r := range recruits {
		switch {
		case r.Hometown.IsZero():
			missing = append(missing, r.Name)
		case !r.Hometown.Valid():
			invalid = append(invalid, r.Name)
		}
	}
	if len(missing) > 0 {
		p.errorf("%d recruits have no coordinates and need geocoding: %s", len(missing), listSome(missing))
	}
	if len(invalid) > 0 {
		p.errorf("%d recruits have out-of-range coordinates: %s", len(invalid), listSome(invalid))
	}
	return p
}

func validatePositions(recruits []domain.Recruit) *phase {
	p := &phase{name: "Position codes"}
	unknown := make(map[domain.Position]int)
	var order []string
	for _, r := range recruits {
		if _, err := domain.ParsePosition(string(r.Position)); err == nil {
			continue
		}
		if unknown[r.Position] == 0 {
			order = append(order, fmt.Sprintf("%q", r.Position))
		}
		unknown[r.Position]++
	}
	if len(order) > 0 {
		p.errorf("%d unrecognized positions (rows are kept but never match a position filter): %s",
			len(order), listSome(order))
	}
	return p
}

func listSome(values []string) string {
	if len(values) <= maxListed {
		return strings.Join(values, ", ")
	}
	return strings.Join(values[:maxListed], ", ") + fmt.Sprintf(", ... (%d more)", len(values)-maxListed)
}
