// Command report runs one territories computation from the command line and
// prints the team summaries and busiest connections as tables. It can also
// write the filtered recruits to CSV and print a team's drill-downs.
//
// Usage:
//
//	go run ./cmd/report \
//	  -teams "Texas,Alabama" -years 2015-2020 -stars 4-5 -distance 250 \
//	  -school Texas -out texas.csv
package main

import (
	"cmp"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/couchcryptid/recruiting-territories-service/internal/adapter/csvdata"
	"github.com/couchcryptid/recruiting-territories-service/internal/config"
	"github.com/couchcryptid/recruiting-territories-service/internal/domain"
	"github.com/couchcryptid/recruiting-territories-service/internal/observability"
)

// topConnections caps the connections table.
const topConnections = 15

type options struct {
	teams     string
	years     string
	stars     string
	positions string
	distance  string
	mode      string
	school    string
	out       string
}

func main() {
	var opts options
	flag.StringVar(&opts.teams, "teams", "", "comma-separated schools (default DEFAULT_TEAMS)")
	flag.StringVar(&opts.years, "years", "2015-2020", "recruiting class range, e.g. 2015-2020")
	flag.StringVar(&opts.stars, "stars", "4-5", "star rating range, e.g. 3-5")
	flag.StringVar(&opts.positions, "positions", "", "comma-separated positions (default all)")
	flag.StringVar(&opts.distance, "distance", "250", `maximum miles from campus, or "none"`)
	flag.StringVar(&opts.mode, "mode", "all", "connection mode: all or commits")
	flag.StringVar(&opts.school, "school", "", "print the histogram and destinations drill-downs for this school")
	flag.StringVar(&opts.out, "out", "", "write the filtered recruits to this CSV file")
	flag.Parse()

	if code := run(context.Background(), opts, os.Stdout); code != 0 {
		os.Exit(code)
	}
}

func run(ctx context.Context, opts options, out io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load config: %v\n", err)
		return 1
	}
	logger := observability.NewLogger(cfg)

	f, err := buildFilter(opts, cfg.DefaultTeams)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 2
	}

	loader := csvdata.NewLoader(csvdata.Options{
		RecruitsURL:  cfg.RecruitsURL,
		TeamsURL:     cfg.TeamsURL,
		FetchTimeout: cfg.FetchTimeout,
		OrphanPolicy: domain.OrphanPolicy(cfg.OrphanCommitPolicy),
	}, observability.NewMetrics(), logger)
	ds, err := loader.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load dataset: %v\n", err)
		return 1
	}

	t, err := domain.BuildTerritories(ds, f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 2
	}

	fmt.Fprintf(out, "%s (%s)\n\n", t.Labels.Title, t.Labels.Years)
	renderTeams(out, t.Teams)
	fmt.Fprintln(out)
	renderConnections(out, t.Connections)

	if opts.school != "" {
		fmt.Fprintln(out)
		renderDrillDowns(out, ds, t.Filter, opts.school)
	}

	if opts.out != "" {
		if err := writeExport(opts.out, t.Recruits); err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
			return 1
		}
		fmt.Fprintf(out, "\nWrote %d recruits to %s\n", len(t.Recruits), opts.out)
	}
	return 0
}

func buildFilter(opts options, defaultTeams []string) (domain.Filter, error) {
	years, err := domain.ParseRange(opts.years)
	if err != nil {
		return domain.Filter{}, err
	}
	stars, err := domain.ParseRange(opts.stars)
	if err != nil {
		return domain.Filter{}, err
	}
	mode, err := domain.ParseConnectionMode(opts.mode)
	if err != nil {
		return domain.Filter{}, err
	}

	teams := defaultTeams
	if opts.teams != "" {
		teams = splitList(opts.teams)
	}
	f := domain.Filter{Years: years, Stars: stars, Teams: teams, Mode: mode}

	for _, s := range splitList(opts.positions) {
		p, err := domain.ParsePosition(s)
		if err != nil {
			return domain.Filter{}, err
		}
		f.Positions = append(f.Positions, p)
	}

	if !strings.EqualFold(opts.distance, "none") && opts.distance != "" {
		miles, err := strconv.ParseFloat(opts.distance, 64)
		if err != nil {
			return domain.Filter{}, fmt.Errorf("bad distance %q", opts.distance)
		}
		f.MaxDistance = domain.Miles(miles)
	}
	return f, f.Validate()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func renderTeams(out io.Writer, teams []domain.TeamSummary) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"School", "Available", "Committed", "Share"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, t := range teams {
		share := "-"
		if t.Available > 0 {
			share = fmt.Sprintf("%.0f%%", 100*float64(t.Committed)/float64(t.Available))
		}
		table.Append([]string{t.School, strconv.Itoa(t.Available), strconv.Itoa(t.Committed), share})
	}
	table.Render()
}

func renderConnections(out io.Writer, conns []domain.ConnectionCount) {
	ranked := slices.Clone(conns)
	// Ties keep the aggregate's city order.
	slices.SortStableFunc(ranked, func(a, b domain.ConnectionCount) int { return cmp.Compare(b.Count, a.Count) })
	if len(ranked) > topConnections {
		ranked = ranked[:topConnections]
	}

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"City", "School", "Miles", "Recruits"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, c := range ranked {
		miles := "-"
		if c.Distance != nil {
			miles = strconv.Itoa(int(*c.Distance))
		}
		table.Append([]string{c.City, c.School, miles, strconv.Itoa(c.Count)})
	}
	table.Render()
}

func renderDrillDowns(out io.Writer, ds *domain.Dataset, f domain.Filter, school string) {
	if h, err := domain.DistanceHistogram(ds, f, school); err != nil {
		fmt.Fprintf(out, "%s: %v\n", school, err)
	} else {
		fmt.Fprintln(out, h.Question)
		table := tablewriter.NewWriter(out)
		table.SetHeader([]string{"Miles", "Recruits"})
		for _, b := range h.Bins {
			table.Append([]string{
				fmt.Sprintf("%.0f - %.0f", b.Lower, b.Upper),
				strconv.FormatFloat(b.Count, 'f', -1, 64),
			})
		}
		table.SetFooter([]string{"median " + strconv.Itoa(int(h.MedianDistance)), strconv.Itoa(h.Total)})
		table.Render()
	}

	fmt.Fprintln(out)
	d, err := domain.TopDestinations(ds, f, school)
	if err != nil {
		fmt.Fprintf(out, "%s: %v\n", school, err)
		return
	}
	fmt.Fprintln(out, d.Question)
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Committed To", "Recruits"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, t := range d.Teams {
		table.Append([]string{t.School, strconv.Itoa(t.Count)})
	}
	table.Render()
}

func writeExport(path string, recruits []domain.Recruit) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := csvdata.WriteRecruits(file, recruits); err != nil {
		file.Close()
		os.Remove(path)
		return fmt.Errorf("write %s: %w", path, err)
	}
	return file.Close()
}
