package localfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"macropulse/domain/core"
	"macropulse/domain/series"
)

// Reader loads observations from a local CSV or Excel file with columns
// date, inflation, gdp_growth. The date is ISO 8601 and is reduced to
// its calendar year; a bare year is also accepted. Empty, "NA" and
// "null" cells are treated as missing.
type Reader struct {
	filePath string
	fileType string // "csv" or "xlsx"
}

// NewReader creates a reader that dispatches on file extension.
func NewReader(filePath string) *Reader {
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(filePath)) == ".csv" {
		fileType = "csv"
	}
	return &Reader{filePath: filePath, fileType: fileType}
}

// Name identifies the source in errors and logs.
func (r *Reader) Name() string {
	return fmt.Sprintf("file(%s)", filepath.Base(r.filePath))
}

// Fetch reads and parses the whole file. Any IO or parse failure is
// reported as ErrSourceUnavailable; nothing partial is returned.
func (r *Reader) Fetch(ctx context.Context) ([]series.Observation, error) {
	if err := ctx.Err(); err != nil {
		return nil, core.NewSourceError(r.Name(), err)
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSV()
	default:
		rows, err = r.readExcel()
	}
	if err != nil {
		return nil, core.NewSourceError(r.Name(), err)
	}

	obs, err := parseRows(rows)
	if err != nil {
		return nil, core.NewSourceError(r.Name(), err)
	}
	return obs, nil
}

func (r *Reader) readCSV() ([][]string, error) {
	f, err := os.Open(r.filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	return reader.ReadAll()
}

func (r *Reader) readExcel() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	return f.GetRows(sheet)
}

// parseRows converts header+data rows into observations. Column order
// is taken from the header, so extra columns are tolerated.
func parseRows(rows [][]string) ([]series.Observation, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("file needs a header row and at least one data row")
	}

	dateCol, inflCol, gdpCol := -1, -1, -1
	for i, h := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "date", "year":
			dateCol = i
		case "inflation":
			inflCol = i
		case "gdp_growth":
			gdpCol = i
		}
	}
	if dateCol < 0 || inflCol < 0 || gdpCol < 0 {
		return nil, fmt.Errorf("header must contain date, inflation and gdp_growth columns")
	}

	obs := make([]series.Observation, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		year, err := parseYear(cell(row, dateCol))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		o := series.Observation{Year: year}
		if o.Inflation, err = parseValue(cell(row, inflCol)); err != nil {
			return nil, fmt.Errorf("row %d inflation: %w", i+2, err)
		}
		if o.GDPGrowth, err = parseValue(cell(row, gdpCol)); err != nil {
			return nil, fmt.Errorf("row %d gdp_growth: %w", i+2, err)
		}
		obs = append(obs, o)
	}
	return obs, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseYear accepts a full ISO 8601 date or a bare year.
func parseYear(raw string) (int, error) {
	if raw == "" {
		return 0, fmt.Errorf("empty date")
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t.Year(), nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("unparseable date %q", raw)
	}
	return year, nil
}

// parseValue maps empty/NA/null cells to missing, everything else to a
// float. A malformed number is a parse error, not a missing value.
func parseValue(raw string) (*float64, error) {
	switch strings.ToLower(raw) {
	case "", "na", "n/a", "null":
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("unparseable value %q", raw)
	}
	return series.Float(v), nil
}
