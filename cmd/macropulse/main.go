package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"macropulse/adapters/export"
	"macropulse/adapters/localfile"
	"macropulse/adapters/postgres"
	"macropulse/adapters/worldbank"
	"macropulse/app"
	"macropulse/domain/stats"
	"macropulse/internal"
	"macropulse/internal/config"
	"macropulse/ports"
	"macropulse/ui"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "macropulse",
		Short: "Download, analyze and export macroeconomic series for one country",
	}

	rootCmd.AddCommand(newRunCmd(), newServeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// flags overrides environment configuration from the command line.
type flags struct {
	country  string
	start    int
	end      int
	file     string
	out      string
	noCharts bool
}

func (f *flags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.country, "country", "", "ISO country code (default from env)")
	cmd.Flags().IntVar(&f.start, "start", 0, "first year of the range")
	cmd.Flags().IntVar(&f.end, "end", 0, "last year of the range")
	cmd.Flags().StringVar(&f.file, "file", "", "read observations from a local CSV/XLSX file instead of the API")
	cmd.Flags().StringVar(&f.out, "out", "", "output directory")
	cmd.Flags().BoolVar(&f.noCharts, "no-charts", false, "skip chart rendering")
}

func (f *flags) apply(cfg *config.Config) {
	if f.country != "" {
		cfg.Country = f.country
	}
	if f.start != 0 {
		cfg.StartYear = f.start
	}
	if f.end != 0 {
		cfg.EndYear = f.end
	}
	if f.file != "" {
		cfg.Source.FilePath = f.file
	}
	if f.out != "" {
		cfg.Output.Dir = f.out
	}
	if f.noCharts {
		cfg.Output.Charts = false
	}
}

func newRunCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline once and write all outputs",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := runPipeline(cmd.Context(), &f)
			return err
		},
	}
	f.register(cmd)
	return cmd
}

func newServeCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the pipeline, then serve the analysis dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, analysis, err := runPipelineWithConfig(cmd.Context(), &f)
			if err != nil {
				return err
			}
			server := ui.NewServer()
			server.SetAnalysis(analysis)
			fmt.Printf("dashboard listening on :%s\n", cfg.Server.Port)
			return server.Start(cfg.Server.Port)
		},
	}
	f.register(cmd)
	return cmd
}

func runPipeline(ctx context.Context, f *flags) (*stats.Analysis, error) {
	_, analysis, err := runPipelineWithConfig(ctx, f)
	return analysis, err
}

func runPipelineWithConfig(ctx context.Context, f *flags) (*config.Config, *stats.Analysis, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	f.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger := internal.NewDefaultLogger()

	source := buildSource(cfg)
	exporters := buildExporters(cfg)

	var archive ports.Archive
	if cfg.Database.URL != "" {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		db, err := postgres.Connect(connectCtx, cfg.Database.URL)
		if err != nil {
			return nil, nil, err
		}
		defer db.Close()
		archive = postgres.NewArchiveRepository(db)
	}

	pipeline := app.NewPipeline(app.PipelineConfig{
		Source:    source,
		Exporters: exporters,
		Archive:   archive,
		Country:   cfg.Country,
		StartYear: cfg.StartYear,
		EndYear:   cfg.EndYear,
		Logger:    logger,
	})

	analysis, err := pipeline.Run(ctx)
	if err != nil {
		return nil, nil, err
	}
	return cfg, analysis, nil
}

func buildSource(cfg *config.Config) ports.DataSource {
	if cfg.Source.FilePath != "" {
		return localfile.NewReader(cfg.Source.FilePath)
	}
	return worldbank.NewClient(worldbank.Config{
		BaseURL:   cfg.Source.BaseURL,
		Country:   cfg.Country,
		StartYear: cfg.StartYear,
		EndYear:   cfg.EndYear,
		Timeout:   cfg.Source.Timeout,
	})
}

func buildExporters(cfg *config.Config) []ports.Exporter {
	format := export.Format{NAMarker: cfg.Output.NAMarker, Precision: cfg.Output.Precision}
	exporters := []ports.Exporter{
		export.NewCSVExporter(cfg.Output.Dir, format),
		export.NewExcelExporter(cfg.Output.Dir, format),
		export.NewReportExporter(cfg.Output.Dir, format),
	}
	if cfg.Output.Charts {
		exporters = append(exporters, export.NewChartExporter(cfg.Output.Dir))
	}
	return exporters
}
