package otel

import (
	"context"
	"testing"
	"time"

	"github.com/dcs-tacmap/terrain-data-generator/internal/export"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

var _ export.Recorder = (*Metrics)(nil)

func TestNewMetrics_Noop(t *testing.T) {
	m, err := NewMetrics(noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)

	m.RecordExport(context.Background(), export.Result{TerrainID: "caucasus", Airports: 3})
}

func TestRecordExport(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := NewMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordExport(ctx, export.Result{TerrainID: "caucasus", Airports: 21, Bytes: 4000, Duration: 2 * time.Millisecond})
	m.RecordExport(ctx, export.Result{TerrainID: "nevada", Airports: 16, Bytes: 3000, Duration: time.Millisecond})

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	sums := map[string]int64{}
	var histCount uint64
	for _, md := range rm.ScopeMetrics[0].Metrics {
		switch data := md.Data.(type) {
		case metricdata.Sum[int64]:
			for _, dp := range data.DataPoints {
				sums[md.Name] += dp.Value
			}
		case metricdata.Histogram[float64]:
			for _, dp := range data.DataPoints {
				histCount += dp.Count
			}
		}
	}

	assert.Equal(t, int64(2), sums["terrain_export.terrains"])
	assert.Equal(t, int64(37), sums["terrain_export.airports"])
	assert.Equal(t, int64(7000), sums["terrain_export.bytes"])
	assert.Equal(t, uint64(2), histCount)
}
