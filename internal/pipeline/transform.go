package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/couchcryptid/temperature-dashboard/internal/domain"
)

// Snapshot is the immutable state built at startup and shared by all requests.
type Snapshot struct {
	Tidy     domain.TidyTable
	Map      domain.ChoroplethFigure
	MapYears []int
}

// DatasetTransformer implements Transformer using the domain reshape and
// choropleth builders.
type DatasetTransformer struct {
	logger *slog.Logger
}

// NewTransformer creates a DatasetTransformer.
func NewTransformer(logger *slog.Logger) *DatasetTransformer {
	return &DatasetTransformer{logger: logger}
}

// Transform reshapes the bar-chart dataset and builds the map figure from the
// map dataset.
func (t *DatasetTransformer) Transform(bars, maps domain.WideTable) (Snapshot, error) {
	tidy, err := domain.Reshape(bars)
	if err != nil {
		return Snapshot{}, fmt.Errorf("reshape %s: %w", bars.Name, err)
	}

	fig, err := domain.BuildChoropleth(maps)
	if err != nil {
		return Snapshot{}, fmt.Errorf("build map from %s: %w", maps.Name, err)
	}

	years := domain.MapYears(fig)
	if len(years) == 0 {
		t.logger.Warn("map dataset has no year columns", "dataset", maps.Name)
	}

	t.logger.Debug("datasets transformed",
		"tidy_records", len(tidy.Records),
		"map_years", len(years),
	)
	return Snapshot{Tidy: tidy, Map: fig, MapYears: years}, nil
}
