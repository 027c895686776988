package database

import (
	"database/sql"
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spherecam/spherecam/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Manager handles the journal database connection.
type Manager struct {
	DB      *gorm.DB
	SqlDB   *sql.DB
	IsValid bool
	Name    string
	Logger  zerolog.Logger
}

// NewManager creates a new database manager.
func NewManager(log zerolog.Logger) *Manager {
	return &Manager{
		IsValid: false,
		Logger:  log,
	}
}

// Connect opens a private in-memory SQLite database. Every Manager gets its
// own named database so concurrent sessions never share tables.
func (m *Manager) Connect() error {
	var err error

	m.Name = "spherecam-" + uuid.NewString()
	m.DB, err = m.GetSqliteDB(m.Name)
	if err != nil || m.DB == nil {
		m.IsValid = false
		return fmt.Errorf("failed to get in-memory SQLite DB: %w", err)
	}

	// test connection
	m.SqlDB, err = m.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}

	if err = m.SqlDB.Ping(); err != nil {
		m.IsValid = false
		return fmt.Errorf("failed to validate connection: %w", err)
	}

	m.Logger.Info().Str("name", m.Name).Msg("Using in-memory SQLite journal")
	m.IsValid = true
	return nil
}

// GetSqliteDB returns a connection to a named in-memory SQLite database.
func (m *Manager) GetSqliteDB(name string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		CreateBatchSize:        500,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		m.IsValid = false
		return nil, err
	}

	// set PRAGMAS
	pragmas := []string{
		"PRAGMA user_version = 1;",
		"PRAGMA journal_mode = MEMORY;",
		"PRAGMA synchronous = OFF;",
		"PRAGMA temp_store = MEMORY;",
		"PRAGMA foreign_keys = ON;",
	}

	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			return nil, fmt.Errorf("error setting PRAGMA: %w", err)
		}
	}

	return db, nil
}

// Setup migrates the journal tables.
func (m *Manager) Setup() error {
	if m.DB == nil {
		return fmt.Errorf("db not connected")
	}

	m.Logger.Info().Msg("Migrating schema")
	if err := m.DB.AutoMigrate(model.DatabaseModels...); err != nil {
		m.IsValid = false
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	m.Logger.Info().Msg("Database setup complete")
	return nil
}

// Close releases the connection. The in-memory database is gone afterwards.
func (m *Manager) Close() error {
	m.IsValid = false
	if m.SqlDB == nil {
		return nil
	}
	if err := m.SqlDB.Close(); err != nil {
		return fmt.Errorf("closing journal db: %w", err)
	}
	m.Logger.Debug().Str("name", m.Name).Msg("Closed in-memory SQLite journal")
	return nil
}
