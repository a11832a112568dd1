// Package otel records export metrics through the OpenTelemetry metric API.
package otel

import (
	"context"
	"fmt"

	"github.com/dcs-tacmap/terrain-data-generator/internal/export"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics counts exported terrains, airports and bytes.
type Metrics struct {
	terrains metric.Int64Counter
	airports metric.Int64Counter
	bytes    metric.Int64Counter
	duration metric.Float64Histogram
}

// Meter returns a meter from the global provider, which is a no-op unless one is installed.
func Meter(serviceName string) metric.Meter {
	return otel.Meter(serviceName)
}

// NewMetrics creates the export instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	terrains, err := meter.Int64Counter("terrain_export.terrains",
		metric.WithDescription("Terrain files written"))
	if err != nil {
		return nil, fmt.Errorf("failed to create terrains counter: %w", err)
	}
	airports, err := meter.Int64Counter("terrain_export.airports",
		metric.WithDescription("Airports written across all terrain files"))
	if err != nil {
		return nil, fmt.Errorf("failed to create airports counter: %w", err)
	}
	bytes, err := meter.Int64Counter("terrain_export.bytes",
		metric.WithDescription("Bytes written"),
		metric.WithUnit("By"))
	if err != nil {
		return nil, fmt.Errorf("failed to create bytes counter: %w", err)
	}
	duration, err := meter.Float64Histogram("terrain_export.duration",
		metric.WithDescription("Time to build and write one terrain file"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	return &Metrics{
		terrains: terrains,
		airports: airports,
		bytes:    bytes,
		duration: duration,
	}, nil
}

// RecordExport implements export.Recorder.
func (m *Metrics) RecordExport(ctx context.Context, r export.Result) {
	attrs := metric.WithAttributes(attribute.String("terrain", r.TerrainID))
	m.terrains.Add(ctx, 1, attrs)
	m.airports.Add(ctx, int64(r.Airports), attrs)
	m.bytes.Add(ctx, int64(r.Bytes), attrs)
	m.duration.Record(ctx, float64(r.Duration.Microseconds())/1000, attrs)
}
