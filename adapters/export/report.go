package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"macropulse/domain/stats"
)

// ReportExporter writes a human-readable analysis summary as markdown
// plus an HTML rendering of the same document. Unlike the tabular
// outputs, the report uses a fixed display precision.
type ReportExporter struct {
	dir       string
	naMarker  string
	precision int
}

// NewReportExporter writes into dir, showing NA for undefined metrics.
func NewReportExporter(dir string, format Format) *ReportExporter {
	precision := format.Precision
	if precision < 0 {
		precision = 4
	}
	return &ReportExporter{dir: dir, naMarker: format.NAMarker, precision: precision}
}

func (e *ReportExporter) Name() string {
	return "report"
}

// Export writes report.md and report.html and returns both paths.
func (e *ReportExporter) Export(ctx context.Context, analysis *stats.Analysis) ([]string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	md := BuildMarkdown(analysis, e.precision)

	mdPath := filepath.Join(e.dir, "report.md")
	if err := os.WriteFile(mdPath, []byte(md), 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", mdPath, err)
	}

	htmlPath := filepath.Join(e.dir, "report.html")
	if err := os.WriteFile(htmlPath, RenderHTML(md), 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", htmlPath, err)
	}

	return []string{mdPath, htmlPath}, nil
}

// BuildMarkdown renders the analysis summary as a markdown document.
func BuildMarkdown(analysis *stats.Analysis, precision int) string {
	num := func(v float64) string {
		return fmt.Sprintf("%.*f", precision, v)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Macroeconomic analysis: %s (%d-%d)\n\n", analysis.Country, analysis.StartYear, analysis.EndYear)
	fmt.Fprintf(&b, "Run `%s` from source `%s` at %s.\n\n", analysis.RunID, analysis.Source,
		analysis.GeneratedAt.UTC().Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "Years retained after cleaning: %d.\n\n", len(analysis.Table.Rows))

	b.WriteString("## Descriptive statistics\n\n")
	b.WriteString("| indicator | n | mean | median | std_dev | min | max |\n")
	b.WriteString("|---|---|---|---|---|---|---|\n")
	for _, rep := range analysis.Indicators {
		if rep.Summary == nil {
			fmt.Fprintf(&b, "| %s | - | unavailable: %v | | | | |\n", rep.Indicator, rep.SummaryErr)
			continue
		}
		s := rep.Summary
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %s | %s | %s |\n",
			s.Indicator, s.SampleSize, num(s.Mean), num(s.Median), num(s.StdDev), num(s.Min), num(s.Max))
	}
	b.WriteString("\n")

	b.WriteString("## Linear trend\n\n")
	for _, rep := range analysis.Indicators {
		if rep.Trend == nil {
			fmt.Fprintf(&b, "- %s: unavailable: %v\n", rep.Indicator, rep.TrendErr)
			continue
		}
		fmt.Fprintf(&b, "- %s: slope %s per year, intercept %s\n",
			rep.Indicator, num(rep.Trend.Slope), num(rep.Trend.Intercept))
	}
	b.WriteString("\n")

	b.WriteString("## Correlation (inflation vs GDP growth)\n\n")
	if analysis.Correlation == nil {
		fmt.Fprintf(&b, "Unavailable: %v\n", analysis.CorrelationErr)
	} else {
		c := analysis.Correlation
		fmt.Fprintf(&b, "Pearson r = %s over %d paired years, p = %s, 95%% CI [%s, %s].\n",
			num(c.Coefficient), c.SampleSize, num(c.PValue), num(c.CILow), num(c.CIHigh))
	}
	b.WriteString("\n")

	return b.String()
}

// RenderHTML converts a markdown report into a standalone HTML page.
func RenderHTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	doc := p.Parse([]byte(md))
	renderer := html.NewRenderer(html.RendererOptions{
		Title: "macropulse report",
		Flags: html.CommonFlags | html.CompletePage,
	})
	return markdown.Render(doc, renderer)
}
