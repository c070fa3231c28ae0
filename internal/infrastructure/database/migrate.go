package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/sangkips/festkasse-api/pkg/logger"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// Migrator runs the embedded goose migrations against a database.
type Migrator struct {
	db      *sql.DB
	dialect string
}

// NewMigrator prepares goose for the given gorm connection and driver.
// A nil log silences goose output.
func NewMigrator(db *gorm.DB, driver string, log *logger.Logger) (*Migrator, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("extracting sql.DB: %w", err)
	}

	dialect := "sqlite3"
	if driver == DriverPostgres {
		dialect = "postgres"
	}

	goose.SetBaseFS(migrationsFS)
	if log == nil {
		goose.SetLogger(goose.NopLogger())
	} else {
		goose.SetLogger(gooseLogger{log: log})
	}
	if err := goose.SetDialect(dialect); err != nil {
		return nil, fmt.Errorf("set goose dialect: %w", err)
	}

	return &Migrator{db: sqlDB, dialect: dialect}, nil
}

// Run executes a goose command such as "up", "down", "status" or "version".
func (m *Migrator) Run(ctx context.Context, command string, args ...string) error {
	if err := goose.RunContext(ctx, command, m.db, migrationsDir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

// Up applies all pending migrations.
func (m *Migrator) Up(ctx context.Context) error {
	return m.Run(ctx, "up")
}

// Version returns the current schema version.
func (m *Migrator) Version() (int64, error) {
	return goose.GetDBVersion(m.db)
}

type gooseLogger struct {
	log *logger.Logger
}

func (g gooseLogger) Printf(format string, v ...interface{}) {
	g.log.Printf(format, v...)
}

func (g gooseLogger) Fatalf(format string, v ...interface{}) {
	g.log.Fatal(context.Background(), fmt.Sprintf(format, v...), nil)
}
