package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"macropulse/domain/series"
	"macropulse/domain/stats"
)

// CSVExporter writes the two tabular outputs: the row-per-year derived
// table and the row-per-indicator statistics table.
type CSVExporter struct {
	dir    string
	format Format
}

// NewCSVExporter writes into dir using the given presentation format.
func NewCSVExporter(dir string, format Format) *CSVExporter {
	return &CSVExporter{dir: dir, format: format}
}

func (e *CSVExporter) Name() string {
	return "csv"
}

// Export writes series.csv and statistics.csv and returns their paths.
func (e *CSVExporter) Export(ctx context.Context, analysis *stats.Analysis) ([]string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	tablePath := filepath.Join(e.dir, "series.csv")
	if err := e.writeTable(tablePath, analysis.Table); err != nil {
		return nil, err
	}

	statsPath := filepath.Join(e.dir, "statistics.csv")
	if err := e.writeStats(statsPath, analysis.Indicators); err != nil {
		return nil, err
	}

	return []string{tablePath, statsPath}, nil
}

func (e *CSVExporter) writeTable(path string, table series.DerivedTable) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(tableHeader); err != nil {
		return err
	}
	for _, row := range table.Rows {
		if err := w.Write(e.format.tableRow(row)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// writeStats writes one row per indicator that has a summary. An
// indicator whose statistics failed is omitted rather than zero-filled.
func (e *CSVExporter) writeStats(path string, reports []stats.IndicatorReport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(statsHeader); err != nil {
		return err
	}
	for _, rep := range reports {
		if rep.Summary == nil {
			continue
		}
		s := rep.Summary
		record := []string{
			string(s.Indicator),
			e.format.Float(s.Mean),
			e.format.Float(s.Median),
			e.format.Float(s.StdDev),
			e.format.Float(s.Min),
			e.format.Float(s.Max),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// ReadTable re-reads an exported row-per-year table. It is the inverse
// of the table export: NA markers come back as missing values, so
// statistics recomputed from disk match the in-memory analysis.
func ReadTable(path string, format Format) (series.DerivedTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return series.DerivedTable{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return series.DerivedTable{}, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return series.DerivedTable{}, fmt.Errorf("%s: empty table", path)
	}
	if len(records[0]) != len(tableHeader) {
		return series.DerivedTable{}, fmt.Errorf("%s: expected %d columns, found %d",
			path, len(tableHeader), len(records[0]))
	}

	rows := make([]series.DerivedRow, 0, len(records)-1)
	for i, rec := range records[1:] {
		year, err := strconv.Atoi(rec[0])
		if err != nil {
			return series.DerivedTable{}, fmt.Errorf("%s row %d: bad year %q", path, i+2, rec[0])
		}
		fields := make([]*float64, len(tableHeader)-1)
		for j := 1; j < len(tableHeader); j++ {
			fields[j-1], err = parseOptional(rec[j], format.NAMarker)
			if err != nil {
				return series.DerivedTable{}, fmt.Errorf("%s row %d col %s: %w", path, i+2, tableHeader[j], err)
			}
		}
		rows = append(rows, series.DerivedRow{
			Year:              year,
			Inflation:         fields[0],
			GDPGrowth:         fields[1],
			InflationYoYDelta: fields[2],
			GDPYoYDelta:       fields[3],
			InflationMA3:      fields[4],
			GDPMA3:            fields[5],
			InflationTrend:    fields[6],
			InflationResidual: fields[7],
			GDPTrend:          fields[8],
			GDPResidual:       fields[9],
		})
	}
	return series.DerivedTable{Rows: rows}, nil
}

func parseOptional(raw, naMarker string) (*float64, error) {
	if raw == naMarker {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return series.Float(v), nil
}
