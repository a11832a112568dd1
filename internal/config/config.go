package config

import (
	"errors"
	"fmt"

	"github.com/dcs-tacmap/terrain-data-generator/internal/export"
	"github.com/dcs-tacmap/terrain-data-generator/internal/terrain"
	"github.com/spf13/viper"
)

// FileName is the config file looked up in the config directory.
const FileName = "terrain_data_generator.cfg.json"

// CatalogConfig selects where terrain data is read from
type CatalogConfig struct {
	Source     string `json:"source" mapstructure:"source"` // builtin, sqlite or postgres
	SQLitePath string `json:"sqlitePath" mapstructure:"sqlitePath"`
}

// DBConfig holds Postgres connection settings
type DBConfig struct {
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	Database string `json:"database" mapstructure:"database"`
}

// LoggingConfig holds log level and sink settings
type LoggingConfig struct {
	Level   string        `json:"logLevel" mapstructure:"logLevel"`
	Graylog GraylogConfig `json:"graylog" mapstructure:"graylog"`
}

// GraylogConfig holds the GELF sink settings
type GraylogConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Address string `json:"address" mapstructure:"address"`
}

// InfluxConfig holds InfluxDB reporting settings
type InfluxConfig struct {
	Enabled  bool   `json:"enabled" mapstructure:"enabled"`
	Protocol string `json:"protocol" mapstructure:"protocol"`
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Token    string `json:"token" mapstructure:"token"`
	Org      string `json:"org" mapstructure:"org"`
	Bucket   string `json:"bucket" mapstructure:"bucket"`

	// BackupPath receives gzipped line protocol when the server is unreachable. Empty disables it.
	BackupPath string `json:"backupPath" mapstructure:"backupPath"`
}

// settings is the whole config file. Logging keys live at the top level.
type settings struct {
	Logging LoggingConfig `mapstructure:",squash"`
	Export  export.Config `mapstructure:"export"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	DB      DBConfig      `mapstructure:"db"`
	Influx  InfluxConfig  `mapstructure:"influx"`
}

// decode merges defaults, file values and overrides into settings.
func decode() (settings, error) {
	var s settings
	err := viper.Unmarshal(&s)
	return s, err
}

// current returns the decoded settings. Load has already rejected values that fail to decode.
func current() settings {
	s, _ := decode()
	return s
}

// Load sets default values and reads the JSON config file from configDir, if present.
// A missing file keeps the defaults; a malformed one is an error.
func Load(configDir string) error {
	// Set default values
	viper.SetDefault("logLevel", "info")

	viper.SetDefault("export.outputDir", "../../src/data/terrain")
	viper.SetDefault("export.terrains", terrain.DefaultIDs)
	viper.SetDefault("export.includeProjection", true)
	viper.SetDefault("export.createOutputDir", false)

	viper.SetDefault("catalog.source", "builtin")
	viper.SetDefault("catalog.sqlitePath", "./terrain_catalog.db")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "terrain")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "tacmap")
	viper.SetDefault("influx.bucket", "terrain_data")
	viper.SetDefault("influx.backupPath", "")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("otel.serviceName", "terrain-data-generator")

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %v", err)
		}
	}

	if _, err := decode(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// GetExportConfig returns the export settings.
func GetExportConfig() export.Config {
	return current().Export
}

// GetCatalogConfig returns the terrain source settings.
func GetCatalogConfig() CatalogConfig {
	return current().Catalog
}

// GetDBConfig returns the Postgres settings.
func GetDBConfig() DBConfig {
	return current().DB
}

// GetLoggingConfig returns the logging settings.
func GetLoggingConfig() LoggingConfig {
	return current().Logging
}

// GetInfluxConfig returns the InfluxDB reporting settings.
func GetInfluxConfig() InfluxConfig {
	return current().Influx
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}
