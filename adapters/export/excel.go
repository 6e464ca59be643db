package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"macropulse/domain/stats"
)

// ExcelExporter writes the derived table and the statistics table as
// two sheets of one workbook. Missing values keep the NA marker so the
// workbook reads the same as the CSV output.
type ExcelExporter struct {
	dir    string
	format Format
}

// NewExcelExporter writes into dir using the given presentation format.
func NewExcelExporter(dir string, format Format) *ExcelExporter {
	return &ExcelExporter{dir: dir, format: format}
}

func (e *ExcelExporter) Name() string {
	return "excel"
}

// Export writes analysis.xlsx and returns its path.
func (e *ExcelExporter) Export(ctx context.Context, analysis *stats.Analysis) ([]string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Series"); err != nil {
		return nil, err
	}
	if err := e.writeSheet(f, "Series", e.tableRows(analysis)); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet("Statistics"); err != nil {
		return nil, err
	}
	if err := e.writeSheet(f, "Statistics", e.statsRows(analysis)); err != nil {
		return nil, err
	}

	path := filepath.Join(e.dir, "analysis.xlsx")
	if err := f.SaveAs(path); err != nil {
		return nil, fmt.Errorf("save workbook: %w", err)
	}
	return []string{path}, nil
}

func (e *ExcelExporter) tableRows(analysis *stats.Analysis) [][]string {
	rows := make([][]string, 0, len(analysis.Table.Rows)+1)
	rows = append(rows, tableHeader)
	for _, r := range analysis.Table.Rows {
		rows = append(rows, e.format.tableRow(r))
	}
	return rows
}

func (e *ExcelExporter) statsRows(analysis *stats.Analysis) [][]string {
	rows := [][]string{statsHeader}
	for _, rep := range analysis.Indicators {
		if rep.Summary == nil {
			continue
		}
		s := rep.Summary
		rows = append(rows, []string{
			string(s.Indicator),
			e.format.Float(s.Mean),
			e.format.Float(s.Median),
			e.format.Float(s.StdDev),
			e.format.Float(s.Min),
			e.format.Float(s.Max),
		})
	}
	return rows
}

func (e *ExcelExporter) writeSheet(f *excelize.File, sheet string, rows [][]string) error {
	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}
	return nil
}
