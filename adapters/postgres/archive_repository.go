package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"macropulse/domain/stats"
	"macropulse/ports"
)

// archiveRepository persists completed analyses. One row per run plus
// one row per derived year keeps the archive queryable without
// unpacking JSON for the common year-level questions.
type archiveRepository struct {
	db *sqlx.DB
}

// NewArchiveRepository creates an archive backed by an open connection.
func NewArchiveRepository(db *sqlx.DB) ports.Archive {
	return &archiveRepository{db: db}
}

// Connect opens a postgres connection and prepares the schema.
func Connect(ctx context.Context, databaseURL string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to archive database: %w", err)
	}
	if err := ensureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sqlx.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS analysis_runs (
		run_id        TEXT PRIMARY KEY,
		country       TEXT NOT NULL,
		start_year    INT NOT NULL,
		end_year      INT NOT NULL,
		source        TEXT NOT NULL,
		generated_at  TIMESTAMPTZ NOT NULL,
		summaries     JSONB NOT NULL,
		correlation   JSONB
	);
	CREATE TABLE IF NOT EXISTS analysis_rows (
		run_id              TEXT NOT NULL REFERENCES analysis_runs(run_id) ON DELETE CASCADE,
		year                INT NOT NULL,
		inflation           DOUBLE PRECISION,
		gdp_growth          DOUBLE PRECISION,
		inflation_yoy_delta DOUBLE PRECISION,
		gdp_yoy_delta       DOUBLE PRECISION,
		inflation_ma3       DOUBLE PRECISION,
		gdp_ma3             DOUBLE PRECISION,
		inflation_trend     DOUBLE PRECISION,
		inflation_residual  DOUBLE PRECISION,
		gdp_trend           DOUBLE PRECISION,
		gdp_residual        DOUBLE PRECISION,
		PRIMARY KEY (run_id, year)
	);`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure archive schema: %w", err)
	}
	return nil
}

// SaveAnalysis archives one run atomically. Undefined derived values
// are stored as SQL NULL, matching the NA semantics of file exports.
func (r *archiveRepository) SaveAnalysis(ctx context.Context, analysis *stats.Analysis) error {
	summaries := make([]stats.Summary, 0, len(analysis.Indicators))
	for _, rep := range analysis.Indicators {
		if rep.Summary != nil {
			summaries = append(summaries, *rep.Summary)
		}
	}
	summariesJSON, err := json.Marshal(summaries)
	if err != nil {
		return fmt.Errorf("marshal summaries: %w", err)
	}

	var correlationJSON []byte
	if analysis.Correlation != nil {
		correlationJSON, err = json.Marshal(analysis.Correlation)
		if err != nil {
			return fmt.Errorf("marshal correlation: %w", err)
		}
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin archive tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO analysis_runs (
		run_id, country, start_year, end_year, source, generated_at, summaries, correlation
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		analysis.RunID, analysis.Country, analysis.StartYear, analysis.EndYear,
		analysis.Source, analysis.GeneratedAt, summariesJSON, correlationJSON,
	)
	if err != nil {
		return fmt.Errorf("insert analysis run: %w", err)
	}

	for _, row := range analysis.Table.Rows {
		_, err = tx.ExecContext(ctx, `INSERT INTO analysis_rows (
			run_id, year, inflation, gdp_growth,
			inflation_yoy_delta, gdp_yoy_delta, inflation_ma3, gdp_ma3,
			inflation_trend, inflation_residual, gdp_trend, gdp_residual
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			analysis.RunID, row.Year, row.Inflation, row.GDPGrowth,
			row.InflationYoYDelta, row.GDPYoYDelta, row.InflationMA3, row.GDPMA3,
			row.InflationTrend, row.InflationResidual, row.GDPTrend, row.GDPResidual,
		)
		if err != nil {
			return fmt.Errorf("insert analysis row %d: %w", row.Year, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit archive tx: %w", err)
	}
	return nil
}
