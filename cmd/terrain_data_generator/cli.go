package main

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dcs-tacmap/terrain-data-generator/internal/config"
	"github.com/dcs-tacmap/terrain-data-generator/internal/database"
	"github.com/dcs-tacmap/terrain-data-generator/internal/export"
	"github.com/dcs-tacmap/terrain-data-generator/internal/geo"
	"github.com/dcs-tacmap/terrain-data-generator/internal/influx"
	intOtel "github.com/dcs-tacmap/terrain-data-generator/internal/otel"
	"github.com/dcs-tacmap/terrain-data-generator/internal/terrain"
	"github.com/rs/zerolog"
)

// ErrNoTerrain is returned by locate when no terrain is in range.
var ErrNoTerrain = errors.New("no terrain in range")

const usage = `usage: terrain_data_generator [command]

commands:
  export             write one JSON file per terrain (default)
  list               print terrain IDs, names and centers
  locate <lat,lng>   print the terrain covering a position
  seed               copy the built-in catalog into the configured database
`

func run(ctx context.Context, args []string, out io.Writer, log zerolog.Logger) error {
	command := "export"
	if len(args) > 0 {
		command = strings.ToLower(args[0])
		args = args[1:]
	}

	switch command {
	case "export":
		return runExport(ctx, log)
	case "list":
		return runList(ctx, out, log)
	case "locate":
		return runLocate(ctx, args, out, log)
	case "seed":
		return runSeed(ctx, log)
	case "help", "-h", "--help":
		_, err := fmt.Fprint(out, usage)
		return err
	default:
		_, _ = fmt.Fprint(out, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

// openProvider returns the configured terrain source and a func that releases it.
func openProvider(ctx context.Context, log zerolog.Logger) (terrain.Provider, func(), error) {
	cc := config.GetCatalogConfig()
	if cc.Source == "" || cc.Source == "builtin" {
		catalog, err := terrain.Builtin()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load built-in catalog: %w", err)
		}
		return catalog, func() {}, nil
	}

	m := database.NewManager(log)
	if err := m.Open(cc, config.GetDBConfig()); err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if err := m.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close database")
		}
	}
	if err := m.Setup(); err != nil {
		closeDB()
		return nil, nil, err
	}
	catalog, err := m.LoadCatalog(ctx)
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	if len(catalog.Terrains()) == 0 {
		closeDB()
		return nil, nil, fmt.Errorf("catalog in %s is empty, run seed first", cc.Source)
	}
	return catalog, closeDB, nil
}

// openRecorders builds the metric recorders and a func that flushes them.
func openRecorders(ctx context.Context, log zerolog.Logger) ([]export.Recorder, func(), error) {
	metrics, err := intOtel.NewMetrics(intOtel.Meter(config.GetString("otel.serviceName")))
	if err != nil {
		return nil, nil, err
	}
	recorders := []export.Recorder{metrics}

	ic := config.GetInfluxConfig()
	if !ic.Enabled {
		return recorders, func() {}, nil
	}

	var backupFile *os.File
	var backup *gzip.Writer
	if ic.BackupPath != "" {
		backupFile, err = os.OpenFile(ic.BackupPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open influx backup file: %w", err)
		}
		backup = gzip.NewWriter(backupFile)
	}

	// keep a nil *gzip.Writer out of the io.Writer
	var reporter *influx.Reporter
	if backup != nil {
		reporter = influx.NewReporter(log, backup)
	} else {
		reporter = influx.NewReporter(log, nil)
	}
	closeAll := func() {
		reporter.Close()
		if backup != nil {
			if err := backup.Close(); err != nil {
				log.Warn().Err(err).Msg("Failed to flush influx backup")
			}
			_ = backupFile.Close()
		}
	}

	if err := reporter.Connect(ctx, ic); err != nil {
		log.Warn().Err(err).Msg("InfluxDB reporting disabled")
		closeAll()
		return recorders, func() {}, nil
	}
	return append(recorders, reporter), closeAll, nil
}

func runExport(ctx context.Context, log zerolog.Logger) error {
	provider, closeProvider, err := openProvider(ctx, log)
	if err != nil {
		return err
	}
	defer closeProvider()

	recorders, closeRecorders, err := openRecorders(ctx, log)
	if err != nil {
		return err
	}
	defer closeRecorders()

	results, err := export.New(provider, config.GetExportConfig(), log, recorders...).Run(ctx)
	if err != nil {
		return err
	}

	airports := 0
	for _, r := range results {
		airports += r.Airports
	}
	log.Info().Int("terrains", len(results)).Int("airports", airports).Msg("Done")
	return nil
}

func runList(ctx context.Context, out io.Writer, log zerolog.Logger) error {
	provider, closeProvider, err := openProvider(ctx, log)
	if err != nil {
		return err
	}
	defer closeProvider()

	for _, id := range provider.Terrains() {
		name, err := provider.Name(id)
		if err != nil {
			return err
		}
		center, err := provider.Center(id)
		if err != nil {
			return err
		}
		airports, err := provider.Airports(id)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(out, "%-16s %-16s %9.4f %10.4f %3d\n",
			id, name, center.Lat, center.Lng, len(airports)); err != nil {
			return err
		}
	}
	return nil
}

func runLocate(ctx context.Context, args []string, out io.Writer, log zerolog.Logger) error {
	if len(args) == 0 {
		return errors.New("no position provided, expected <lat,lng> or <lat> <lng>")
	}
	ref, err := geo.LatLngFromString(strings.Join(args, ","))
	if err != nil {
		return err
	}

	provider, closeProvider, err := openProvider(ctx, log)
	if err != nil {
		return err
	}
	defer closeProvider()

	id, ok := terrain.Locate(provider, ref)
	if !ok {
		return fmt.Errorf("%w: %.4f,%.4f", ErrNoTerrain, ref.Lat, ref.Lng)
	}
	_, err = fmt.Fprintln(out, id)
	return err
}

func runSeed(ctx context.Context, log zerolog.Logger) error {
	cc := config.GetCatalogConfig()
	m := database.NewManager(log)
	if err := m.Open(cc, config.GetDBConfig()); err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close database")
		}
	}()
	if err := m.Setup(); err != nil {
		return err
	}

	catalog, err := terrain.Builtin()
	if err != nil {
		return err
	}
	if err := m.Seed(ctx, catalog.All()); err != nil {
		return err
	}
	log.Info().Str("source", cc.Source).Int("terrains", len(catalog.Terrains())).Msg("Catalog seeded")
	return nil
}
