package csvdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/couchcryptid/recruiting-territories-service/internal/domain"
)

// ExportColumns is the column order of exported recruit files.
var ExportColumns = []string{"year", "stars", "position", "name", "city", "lat", "lng", "committedTo", "count"}

// WriteRecruits writes recruits as CSV with a header row, in the same layout
// the recruits source file uses. An empty slice yields the header alone.
func WriteRecruits(w io.Writer, recruits []domain.Recruit) error {
	if len(recruits) == 0 {
		return writeHeader(w)
	}

	records := make([][]string, 0, len(recruits)+1)
	records = append(records, ExportColumns)
	for _, r := range recruits {
		records = append(records, []string{
			strconv.Itoa(r.Year),
			strconv.Itoa(r.Stars),
			string(r.Position),
			r.Name,
			r.City,
			strconv.FormatFloat(r.Hometown.Lat, 'f', -1, 64),
			strconv.FormatFloat(r.Hometown.Lon, 'f', -1, 64),
			r.CommittedTo,
			strconv.Itoa(r.Count),
		})
	}

	df := dataframe.LoadRecords(records,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return fmt.Errorf("build export frame: %w", df.Err)
	}
	if err := df.WriteCSV(w); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// writeHeader covers the zero-row case, which gota rejects as an empty DataFrame.
func writeHeader(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportColumns); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
