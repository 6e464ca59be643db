package ports

import (
	"context"

	"macropulse/domain/series"
)

// DataSource supplies raw yearly observations for a fixed country and
// year range. The fetch is atomic: either the full dataset is returned
// or an error wrapping ErrSourceUnavailable, never a partial result.
// Remote API and local file sources are alternative implementations
// selected at wiring time, not branches inside the pipeline.
type DataSource interface {
	Name() string
	Fetch(ctx context.Context) ([]series.Observation, error)
}
