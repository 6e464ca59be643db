package ports

import (
	"context"

	"macropulse/domain/stats"
)

// Exporter writes one rendering of a finished analysis to disk and
// returns the paths it produced. Exporters receive explicit formatting
// configuration at construction; none of them read global state.
type Exporter interface {
	Name() string
	Export(ctx context.Context, analysis *stats.Analysis) ([]string, error)
}
