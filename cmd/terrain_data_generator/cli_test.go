package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dcs-tacmap/terrain-data-generator/internal/config"
	"github.com/dcs-tacmap/terrain-data-generator/internal/terrain"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupConfig(t *testing.T) {
	t.Helper()
	t.Cleanup(viper.Reset)
	require.NoError(t, config.Load(t.TempDir()))
}

func TestRun_DefaultExport(t *testing.T) {
	setupConfig(t)
	out := t.TempDir()
	viper.Set("export.outputDir", out)

	require.NoError(t, run(context.Background(), nil, &bytes.Buffer{}, zerolog.Nop()))

	for _, id := range terrain.DefaultIDs {
		assert.FileExists(t, filepath.Join(out, id+".json"))
	}
}

func TestRun_ExportMissingDir(t *testing.T) {
	setupConfig(t)
	viper.Set("export.outputDir", filepath.Join(t.TempDir(), "missing"))

	err := run(context.Background(), []string{"export"}, &bytes.Buffer{}, zerolog.Nop())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRun_ExportWithInfluxBackup(t *testing.T) {
	setupConfig(t)
	out := t.TempDir()
	backup := filepath.Join(t.TempDir(), "influx.lp.gz")
	viper.Set("export.outputDir", out)
	viper.Set("export.terrains", []string{"syria"})
	viper.Set("influx.enabled", true)
	viper.Set("influx.host", "127.0.0.1")
	viper.Set("influx.port", "1")
	viper.Set("influx.backupPath", backup)

	require.NoError(t, run(context.Background(), []string{"export"}, &bytes.Buffer{}, zerolog.Nop()))

	assert.FileExists(t, filepath.Join(out, "syria.json"))
	info, err := os.Stat(backup)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestRun_List(t *testing.T) {
	setupConfig(t)
	var buf bytes.Buffer

	require.NoError(t, run(context.Background(), []string{"list"}, &buf, zerolog.Nop()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, len(terrain.DefaultIDs))
	for i, id := range terrain.DefaultIDs {
		assert.True(t, strings.HasPrefix(lines[i], id+" "), lines[i])
	}
}

func TestRun_Locate(t *testing.T) {
	setupConfig(t)

	var buf bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"locate", "41.6", "41.6"}, &buf, zerolog.Nop()))
	assert.Equal(t, "caucasus\n", buf.String())

	buf.Reset()
	require.NoError(t, run(context.Background(), []string{"LOCATE", "36.2,-115.0"}, &buf, zerolog.Nop()))
	assert.Equal(t, "nevada\n", buf.String())

	err := run(context.Background(), []string{"locate", "0,0"}, &buf, zerolog.Nop())
	assert.ErrorIs(t, err, ErrNoTerrain)

	err = run(context.Background(), []string{"locate"}, &buf, zerolog.Nop())
	assert.Error(t, err)

	err = run(context.Background(), []string{"locate", "north"}, &buf, zerolog.Nop())
	assert.Error(t, err)
}

func TestRun_SeedThenExportFromSqlite(t *testing.T) {
	setupConfig(t)
	out := t.TempDir()
	viper.Set("export.outputDir", out)
	viper.Set("catalog.source", "sqlite")
	viper.Set("catalog.sqlitePath", filepath.Join(t.TempDir(), "catalog.db"))

	// export before seeding finds an empty catalog
	err := run(context.Background(), []string{"export"}, &bytes.Buffer{}, zerolog.Nop())
	assert.ErrorContains(t, err, "run seed first")

	require.NoError(t, run(context.Background(), []string{"seed"}, &bytes.Buffer{}, zerolog.Nop()))
	require.NoError(t, run(context.Background(), []string{"export"}, &bytes.Buffer{}, zerolog.Nop()))

	for _, id := range terrain.DefaultIDs {
		assert.FileExists(t, filepath.Join(out, id+".json"))
	}
}

func TestRun_SeedBuiltinSource(t *testing.T) {
	setupConfig(t)

	err := run(context.Background(), []string{"seed"}, &bytes.Buffer{}, zerolog.Nop())
	assert.ErrorContains(t, err, "unsupported catalog source")
}

func TestRun_UnknownCommand(t *testing.T) {
	setupConfig(t)
	var buf bytes.Buffer

	err := run(context.Background(), []string{"frobnicate"}, &buf, zerolog.Nop())
	assert.ErrorContains(t, err, "unknown command")
	assert.Contains(t, buf.String(), "usage:")
}
