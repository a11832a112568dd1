package export

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dcs-tacmap/terrain-data-generator/internal/terrain"
	"github.com/rs/zerolog"
)

// Config controls which terrains are exported and where the files go.
type Config struct {
	// Terrains lists terrain IDs in export order. Empty means every terrain the provider knows.
	Terrains          []string `json:"terrains" mapstructure:"terrains"`
	OutputDir         string   `json:"outputDir" mapstructure:"outputDir"`
	IncludeProjection bool     `json:"includeProjection" mapstructure:"includeProjection"`
	CreateOutputDir   bool     `json:"createOutputDir" mapstructure:"createOutputDir"`
}

// Result describes one written terrain file.
type Result struct {
	TerrainID string
	Name      string
	Path      string
	Airports  int
	Bytes     int
	Duration  time.Duration
}

// Recorder is notified after each terrain file is written.
type Recorder interface {
	RecordExport(ctx context.Context, r Result)
}

// Exporter writes one JSON file per terrain.
type Exporter struct {
	provider  terrain.Provider
	cfg       Config
	log       zerolog.Logger
	recorders []Recorder
}

// New creates an exporter over the given provider.
func New(provider terrain.Provider, cfg Config, log zerolog.Logger, recorders ...Recorder) *Exporter {
	return &Exporter{
		provider:  provider,
		cfg:       cfg,
		log:       log,
		recorders: recorders,
	}
}

// Run exports every configured terrain in order. It stops at the first failure;
// files written before the failure are left in place.
func (e *Exporter) Run(ctx context.Context) ([]Result, error) {
	ids := e.cfg.Terrains
	if len(ids) == 0 {
		ids = e.provider.Terrains()
	}

	if e.cfg.CreateOutputDir {
		if err := os.MkdirAll(e.cfg.OutputDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	e.log.Info().
		Str("outputDir", e.cfg.OutputDir).
		Strs("terrains", ids).
		Bool("includeProjection", e.cfg.IncludeProjection).
		Msg("Exporting terrain data")

	results := make([]Result, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, err := e.exportOne(id)
		if err != nil {
			return results, fmt.Errorf("terrain %s: %w", id, err)
		}
		results = append(results, res)

		e.log.Info().
			Str("terrain", res.Name).
			Str("path", res.Path).
			Int("airports", res.Airports).
			Dur("duration", res.Duration).
			Msg("Wrote terrain")

		for _, r := range e.recorders {
			r.RecordExport(ctx, res)
		}
	}

	e.log.Info().Int("count", len(results)).Msg("Export complete")
	return results, nil
}

func (e *Exporter) exportOne(id string) (Result, error) {
	start := time.Now()

	t, err := Build(e.provider, id, e.cfg.IncludeProjection)
	if err != nil {
		return Result{}, err
	}
	data, err := Marshal(t)
	if err != nil {
		return Result{}, err
	}

	path := FilePath(e.cfg.OutputDir, t.Name)
	e.log.Debug().Str("path", path).Int("bytes", len(data)).Msg("Writing terrain file")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return Result{}, fmt.Errorf("failed to write %s: %w", path, err)
	}

	return Result{
		TerrainID: id,
		Name:      t.Name,
		Path:      path,
		Airports:  len(t.Airports),
		Bytes:     len(data),
		Duration:  time.Since(start),
	}, nil
}
