package ports

import (
	"context"

	"macropulse/domain/stats"
)

// Archive persists completed analyses for later retrieval. Optional:
// the pipeline runs without one when no database is configured.
type Archive interface {
	SaveAnalysis(ctx context.Context, analysis *stats.Analysis) error
}
