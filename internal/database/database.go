package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/dcs-tacmap/terrain-data-generator/internal/config"
	"github.com/dcs-tacmap/terrain-data-generator/internal/model"
	"github.com/dcs-tacmap/terrain-data-generator/internal/model/convert"
	"github.com/dcs-tacmap/terrain-data-generator/internal/terrain"
	"github.com/dcs-tacmap/terrain-data-generator/pkg/core"
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNotConnected is returned when the manager is used before a database is opened
var ErrNotConnected = errors.New("database not connected")

// Manager stores and loads terrain catalogs.
type Manager struct {
	DB     *gorm.DB
	Logger zerolog.Logger
}

// NewManager creates a new database manager.
func NewManager(log zerolog.Logger) *Manager {
	return &Manager{
		Logger: log,
	}
}

// Open connects to the catalog store named by the catalog source.
func (m *Manager) Open(catalog config.CatalogConfig, db config.DBConfig) error {
	switch catalog.Source {
	case "sqlite":
		return m.OpenSqlite(catalog.SQLitePath)
	case "postgres":
		return m.OpenPostgres(db)
	default:
		return fmt.Errorf("unsupported catalog source %q", catalog.Source)
	}
}

// OpenPostgres connects to the Postgres database.
func (m *Manager) OpenPostgres(cfg config.DBConfig) error {
	dsn := fmt.Sprintf(`host=%s port=%s user=%s password=%s dbname=%s sslmode=disable`,
		cfg.Host,
		cfg.Port,
		cfg.Username,
		cfg.Password,
		cfg.Database,
	)

	m.Logger.Debug().Str("host", cfg.Host).Str("database", cfg.Database).Msg("Connecting to Postgres DB")

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	if err = sqlDB.Ping(); err != nil {
		return fmt.Errorf("failed to validate connection: %w", err)
	}

	m.DB = db
	m.Logger.Info().Msg("Connected to Postgres DB")
	return nil
}

// OpenSqlite opens (creating if needed) a SQLite catalog file.
func (m *Manager) OpenSqlite(path string) error {
	if path == "" {
		return errors.New("sqlite path not set")
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to open sqlite db: %w", err)
	}

	// PRAGMAs are per connection
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA foreign_keys = ON;",
		"PRAGMA journal_mode = WAL;",
	}
	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			return fmt.Errorf("error setting PRAGMA: %s", err)
		}
	}

	m.DB = db
	m.Logger.Info().Str("path", path).Msg("Using local SQLite DB")
	return nil
}

// Setup migrates the catalog tables.
func (m *Manager) Setup() error {
	if m.DB == nil {
		return ErrNotConnected
	}
	m.Logger.Debug().Msg("Migrating schema")
	if err := m.DB.AutoMigrate(model.DatabaseModels...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Seed replaces the stored catalog with terrains, keeping their order.
func (m *Manager) Seed(ctx context.Context, terrains []core.Terrain) error {
	if m.DB == nil {
		return ErrNotConnected
	}

	err := m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.Airport{}).Error; err != nil {
			return fmt.Errorf("failed to clear airports: %w", err)
		}
		if err := tx.Where("1 = 1").Delete(&model.Terrain{}).Error; err != nil {
			return fmt.Errorf("failed to clear terrains: %w", err)
		}
		for i, t := range terrains {
			record, err := convert.TerrainToModel(i, t)
			if err != nil {
				return err
			}
			if err := tx.Create(&record).Error; err != nil {
				return fmt.Errorf("failed to store terrain %s: %w", t.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	m.Logger.Info().Int("terrains", len(terrains)).Msg("Seeded terrain catalog")
	return nil
}

// LoadCatalog reads every stored terrain, in declared order, into a catalog.
func (m *Manager) LoadCatalog(ctx context.Context) (*terrain.Catalog, error) {
	if m.DB == nil {
		return nil, ErrNotConnected
	}

	var records []model.Terrain
	err := m.DB.WithContext(ctx).
		Preload("Airports", func(db *gorm.DB) *gorm.DB {
			return db.Order("ordinal ASC")
		}).
		Order("ordinal ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("error getting terrains: %w", err)
	}

	terrains := make([]core.Terrain, 0, len(records))
	for _, r := range records {
		t, err := convert.TerrainToCore(r)
		if err != nil {
			return nil, err
		}
		terrains = append(terrains, t)
	}

	m.Logger.Debug().Int("terrains", len(terrains)).Msg("Loaded terrain catalog")
	return terrain.NewCatalog(terrains...)
}

// Close closes the underlying connection.
func (m *Manager) Close() error {
	if m.DB == nil {
		return nil
	}
	sqlDB, err := m.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
