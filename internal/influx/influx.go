package influx

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dcs-tacmap/terrain-data-generator/internal/config"
	"github.com/dcs-tacmap/terrain-data-generator/internal/export"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"
)

// Measurement is the InfluxDB measurement written per exported terrain.
const Measurement = "terrain_export"

// Reporter writes one point per exported terrain to InfluxDB. When the server
// cannot be reached, points go to a backup writer as line protocol instead.
type Reporter struct {
	Client  influxdb2.Client
	Writer  influxdb2_api.WriteAPIBlocking
	Backup  io.Writer
	IsValid bool
	Logger  zerolog.Logger
}

// NewReporter creates a reporter. backup may be nil.
func NewReporter(log zerolog.Logger, backup io.Writer) *Reporter {
	return &Reporter{
		Backup: backup,
		Logger: log,
	}
}

// Connect creates the client and checks the server is reachable.
func (r *Reporter) Connect(ctx context.Context, cfg config.InfluxConfig) error {
	r.Client = influxdb2.NewClientWithOptions(
		fmt.Sprintf("%s://%s:%s", cfg.Protocol, cfg.Host, cfg.Port),
		cfg.Token,
		influxdb2.DefaultOptions(),
	)

	running, err := r.Client.Ping(ctx)
	if err != nil || !running {
		r.IsValid = false
		if r.Backup == nil {
			return fmt.Errorf("influxDB not reachable and no backup writer: %v", err)
		}
		r.Logger.Warn().Err(err).Msg("InfluxDB not reachable, writing to backup")
		return nil
	}

	r.Writer = r.Client.WriteAPIBlocking(cfg.Org, cfg.Bucket)
	r.IsValid = true
	r.Logger.Info().Str("bucket", cfg.Bucket).Msg("InfluxDB client initialized")
	return nil
}

// NewPoint builds the point describing one exported terrain.
func NewPoint(res export.Result, ts time.Time) *influxdb2_write.Point {
	return influxdb2_write.NewPoint(
		Measurement,
		map[string]string{
			"terrain": res.TerrainID,
			"name":    res.Name,
		},
		map[string]interface{}{
			"airports":    res.Airports,
			"bytes":       res.Bytes,
			"duration_ms": float64(res.Duration.Microseconds()) / 1000,
		},
		ts,
	)
}

// WritePoint writes a point to InfluxDB or the backup writer.
func (r *Reporter) WritePoint(ctx context.Context, point *influxdb2_write.Point) error {
	if r.IsValid {
		return r.Writer.WritePoint(ctx, point)
	}
	if r.Backup == nil {
		return fmt.Errorf("influxDB client not initialized and backup writer not available")
	}
	lineProtocol := influxdb2_write.PointToLineProtocol(point, time.Nanosecond)
	if _, err := r.Backup.Write([]byte(lineProtocol + "\n")); err != nil {
		return fmt.Errorf("error writing to InfluxDB backup: %w", err)
	}
	return nil
}

// RecordExport implements export.Recorder. Failures are logged, never returned.
func (r *Reporter) RecordExport(ctx context.Context, res export.Result) {
	if err := r.WritePoint(ctx, NewPoint(res, time.Now())); err != nil {
		r.Logger.Warn().Err(err).Str("terrain", res.TerrainID).Msg("Failed to report export")
	}
}

// Close releases the client.
func (r *Reporter) Close() {
	if r.Client != nil {
		r.Client.Close()
	}
}
