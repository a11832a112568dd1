package database

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/dcs-tacmap/terrain-data-generator/internal/config"
	"github.com/dcs-tacmap/terrain-data-generator/internal/geo"
	"github.com/dcs-tacmap/terrain-data-generator/internal/terrain"
	"github.com/dcs-tacmap/terrain-data-generator/pkg/core"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager(zerolog.Nop())
	require.NoError(t, m.OpenSqlite(filepath.Join(t.TempDir(), "catalog.db")))
	t.Cleanup(func() { _ = m.Close() })
	require.NoError(t, m.Setup())
	return m
}

func TestSeedAndLoad_Builtin(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	builtin, err := terrain.Builtin()
	require.NoError(t, err)
	require.NoError(t, m.Seed(ctx, builtin.All()))

	loaded, err := m.LoadCatalog(ctx)
	require.NoError(t, err)

	assert.Equal(t, terrain.DefaultIDs, loaded.Terrains())
	assert.Equal(t, builtin.All(), loaded.All())
}

func TestSeed_ReplacesExisting(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	first := []core.Terrain{
		{ID: "a", Name: "A", Projection: core.Projection{CentralMeridian: 33, ScaleFactor: 0.9996},
			Airports: []core.Airport{{Name: "A1"}, {Name: "A2"}}},
		{ID: "b", Name: "B", Projection: core.Projection{CentralMeridian: 39, ScaleFactor: 0.9996}},
	}
	require.NoError(t, m.Seed(ctx, first))

	second := []core.Terrain{
		{ID: "c", Name: "C", Projection: core.Projection{CentralMeridian: 3, ScaleFactor: 0.9996},
			Airports: []core.Airport{{Name: "C1", Position: core.Position2D{X: 1, Y: 2}}}},
		{ID: "a", Name: "A again", Projection: core.Projection{CentralMeridian: 33, ScaleFactor: 0.9996}},
	}
	require.NoError(t, m.Seed(ctx, second))

	loaded, err := m.LoadCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, loaded.Terrains())

	a, err := loaded.Terrain("a")
	require.NoError(t, err)
	assert.Equal(t, "A again", a.Name)
	assert.Empty(t, a.Airports)

	c, err := loaded.Terrain("c")
	require.NoError(t, err)
	assert.Equal(t, []core.Airport{{Name: "C1", Position: core.Position2D{X: 1, Y: 2}}}, c.Airports)
}

func TestSeed_KeepsAirportOrder(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	in := core.Terrain{
		ID: "z", Name: "Z", Projection: core.Projection{CentralMeridian: 57, ScaleFactor: 0.9996},
		Airports: []core.Airport{{Name: "Zulu"}, {Name: "Alpha"}, {Name: "Mike"}},
	}
	require.NoError(t, m.Seed(ctx, []core.Terrain{in}))

	loaded, err := m.LoadCatalog(ctx)
	require.NoError(t, err)
	z, err := loaded.Terrain("z")
	require.NoError(t, err)

	names := []string{}
	for _, a := range z.Airports {
		names = append(names, a.Name)
	}
	assert.Equal(t, []string{"Zulu", "Alpha", "Mike"}, names)
}

func TestSeed_NonFiniteRollsBack(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	builtin, err := terrain.Builtin()
	require.NoError(t, err)
	require.NoError(t, m.Seed(ctx, builtin.All()))

	broken := []core.Terrain{
		{ID: "a", Name: "A", Projection: core.Projection{CentralMeridian: 33, ScaleFactor: 0.9996}},
		{ID: "b", Name: "B", Projection: core.Projection{CentralMeridian: 39, ScaleFactor: 0.9996},
			Airports: []core.Airport{{Name: "B1", Position: core.Position2D{X: math.NaN(), Y: 0}}}},
	}
	err = m.Seed(ctx, broken)
	assert.ErrorIs(t, err, geo.ErrInvalidCoordinates)

	loaded, err := m.LoadCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, terrain.DefaultIDs, loaded.Terrains())
}

func TestLoadCatalog_Empty(t *testing.T) {
	m := newTestManager(t)

	loaded, err := m.LoadCatalog(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded.Terrains())
}

func TestNotConnected(t *testing.T) {
	m := NewManager(zerolog.Nop())

	assert.ErrorIs(t, m.Setup(), ErrNotConnected)
	assert.ErrorIs(t, m.Seed(context.Background(), nil), ErrNotConnected)
	_, err := m.LoadCatalog(context.Background())
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.NoError(t, m.Close())
}

func TestOpen_Sources(t *testing.T) {
	m := NewManager(zerolog.Nop())

	err := m.Open(config.CatalogConfig{Source: "builtin"}, config.DBConfig{})
	assert.ErrorContains(t, err, "unsupported catalog source")

	err = m.Open(config.CatalogConfig{Source: "sqlite"}, config.DBConfig{})
	assert.ErrorContains(t, err, "sqlite path not set")

	path := filepath.Join(t.TempDir(), "catalog.db")
	require.NoError(t, m.Open(config.CatalogConfig{Source: "sqlite", SQLitePath: path}, config.DBConfig{}))
	assert.FileExists(t, path)
	assert.NoError(t, m.Close())
}
