package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"macropulse/adapters/stats/engine"
	"macropulse/domain/series"
	"macropulse/domain/stats"
	"macropulse/internal"
	"macropulse/ports"
)

// Pipeline runs the full sequential analysis: fetch, clean, derive,
// summarize, correlate, export. Stages hand complete values to each
// other; there is no shared mutable state and no background work.
type Pipeline struct {
	source    ports.DataSource
	engine    *engine.Engine
	exporters []ports.Exporter
	archive   ports.Archive // nil when no database is configured

	country   string
	startYear int
	endYear   int

	log *internal.Logger
}

// PipelineConfig wires a pipeline. Exporters run in the given order.
type PipelineConfig struct {
	Source    ports.DataSource
	Exporters []ports.Exporter
	Archive   ports.Archive
	Country   string
	StartYear int
	EndYear   int
	Logger    *internal.Logger
}

// NewPipeline creates a pipeline from its wiring.
func NewPipeline(cfg PipelineConfig) *Pipeline {
	logger := cfg.Logger
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	return &Pipeline{
		source:    cfg.Source,
		engine:    engine.New(),
		exporters: cfg.Exporters,
		archive:   cfg.Archive,
		country:   cfg.Country,
		startYear: cfg.StartYear,
		endYear:   cfg.EndYear,
		log:       logger,
	}
}

// Run executes the pipeline. Fetch and cleaning failures abort the run;
// per-indicator derivation failures are recorded on the analysis and
// the remaining metrics still go out. No failed metric is ever replaced
// by a placeholder value.
func (p *Pipeline) Run(ctx context.Context) (*stats.Analysis, error) {
	p.log.Info("fetching observations from %s", p.source.Name())
	raw, err := p.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	p.log.Debug("fetched %d raw observations", len(raw))

	cleaned, err := series.New(raw)
	if err != nil {
		return nil, err
	}
	p.log.Info("cleaned series covers %d-%d with %d rows",
		cleaned.MinYear(), cleaned.MaxYear(), cleaned.Len())

	analysis := p.analyze(cleaned)

	for _, exporter := range p.exporters {
		paths, err := exporter.Export(ctx, analysis)
		if err != nil {
			return nil, fmt.Errorf("%s export: %w", exporter.Name(), err)
		}
		for _, path := range paths {
			p.log.Info("%s exporter wrote %s", exporter.Name(), path)
		}
	}

	if p.archive != nil {
		if err := p.archive.SaveAnalysis(ctx, analysis); err != nil {
			return nil, fmt.Errorf("archive: %w", err)
		}
		p.log.Info("archived run %s", analysis.RunID)
	}

	return analysis, nil
}

// analyze computes every derivation and statistic over a cleaned series.
func (p *Pipeline) analyze(cleaned series.Series) *stats.Analysis {
	inflation := p.engine.Derive(cleaned, series.Inflation)
	gdpGrowth := p.engine.Derive(cleaned, series.GDPGrowth)

	reports := engine.DescribeAll(cleaned)
	attachTrend(reports, inflation)
	attachTrend(reports, gdpGrowth)
	for _, rep := range reports {
		if rep.SummaryErr != nil {
			p.log.Warn("descriptive stats for %s unavailable: %v", rep.Indicator, rep.SummaryErr)
		}
		if rep.TrendErr != nil {
			p.log.Warn("trend fit for %s unavailable: %v", rep.Indicator, rep.TrendErr)
		}
	}

	analysis := &stats.Analysis{
		RunID:       uuid.NewString(),
		Country:     p.country,
		StartYear:   p.startYear,
		EndYear:     p.endYear,
		Source:      p.source.Name(),
		GeneratedAt: time.Now(),
		Table:       engine.BuildTable(cleaned, inflation, gdpGrowth),
		Indicators:  reports,
	}

	correlation, err := engine.Correlate(cleaned, series.Inflation, series.GDPGrowth)
	if err != nil {
		p.log.Warn("correlation unavailable: %v", err)
		analysis.CorrelationErr = err
	} else {
		analysis.Correlation = &correlation
	}

	return analysis
}

func attachTrend(reports []stats.IndicatorReport, d engine.Derivation) {
	for i := range reports {
		if reports[i].Indicator == d.Indicator {
			reports[i].Trend = d.Fit
			reports[i].TrendErr = d.FitErr
			return
		}
	}
}
