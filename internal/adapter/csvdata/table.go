package csvdata

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/couchcryptid/recruiting-territories-service/internal/domain"
)

// Table is a CSV file read as strings, with each row keyed by column name.
type Table struct {
	Header []string
	Rows   []map[string]string
}

// RowError describes one source row that could not be parsed. Line is the
// 1-based line in the CSV file, counting the header.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// ReadTable reads a CSV with a header row. Every column is kept as text so
// that numeric parsing and null handling stay with the domain parsers. A file
// with a header and no data rows yields an empty table.
func ReadTable(r io.Reader) (Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Table{}, fmt.Errorf("read csv: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return Table{}, fmt.Errorf("read csv: %w", errNoHeader)
	}

	df := dataframe.ReadCSV(bytes.NewReader(data),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		// gota refuses frames without rows; fall back to the header alone.
		if header, ok := headerOnly(data); ok {
			return Table{Header: header, Rows: []map[string]string{}}, nil
		}
		return Table{}, fmt.Errorf("read csv: %w", df.Err)
	}

	header := df.Names()
	records := df.Records()
	rows := make([]map[string]string, 0, df.Nrow())
	for _, rec := range records[1:] {
		row := make(map[string]string, len(header))
		for i, name := range header {
			row[name] = rec[i]
		}
		rows = append(rows, row)
	}
	return Table{Header: header, Rows: rows}, nil
}

// errNoHeader is returned for a file without even a header row.
var errNoHeader = errors.New("no header row")

// headerOnly reports the header of a CSV that has exactly one record.
func headerOnly(data []byte) ([]string, bool) {
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil || len(records) != 1 {
		return nil, false
	}
	return records[0], true
}

// FetchTable opens location (URL or path) and reads it with ReadTable.
func FetchTable(ctx context.Context, client *http.Client, location string) (Table, error) {
	body, err := open(ctx, client, location)
	if err != nil {
		return Table{}, err
	}
	defer body.Close()

	t, err := ReadTable(body)
	if err != nil {
		return Table{}, fmt.Errorf("%s: %w", location, err)
	}
	return t, nil
}

// ParseRecruits detects the recruits schema and parses every row. Rows that
// fail to parse are returned as RowErrors; only a missing required column is fatal.
func ParseRecruits(t Table) ([]domain.Recruit, domain.RecruitSchema, []RowError, error) {
	schema, err := domain.DetectRecruitSchema(t.Header)
	if err != nil {
		return nil, domain.RecruitSchema{}, nil, err
	}

	recruits := make([]domain.Recruit, 0, len(t.Rows))
	var rowErrs []RowError
	for i, row := range t.Rows {
		r, err := domain.ParseRecruitRecord(row, schema)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: i + 2, Err: err})
			continue
		}
		recruits = append(recruits, r)
	}
	return recruits, schema, rowErrs, nil
}

// ParseTeams checks the teams columns and parses every row.
func ParseTeams(t Table) ([]domain.Team, []RowError, error) {
	if err := domain.CheckTeamColumns(t.Header); err != nil {
		return nil, nil, err
	}

	teams := make([]domain.Team, 0, len(t.Rows))
	var rowErrs []RowError
	for i, row := range t.Rows {
		team, err := domain.ParseTeamRecord(row)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: i + 2, Err: err})
			continue
		}
		teams = append(teams, team)
	}
	return teams, rowErrs, nil
}
