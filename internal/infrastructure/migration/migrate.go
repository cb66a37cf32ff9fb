// Package migration applies the versioned SQL schema with golang-migrate.
// The schema ships embedded in the binary; a directory can stand in for it
// while authoring new migrations.
package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/bizcore/backend/migrations"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

// Migrator runs schema migrations against one PostgreSQL database.
type Migrator struct {
	migrate *migrate.Migrate
	log     *zap.Logger
}

// New uses the migrations embedded in the binary.
func New(db *sql.DB, log *zap.Logger) (*Migrator, error) {
	return newMigrator(db, migrations.FS, "embedded", log)
}

// NewFromDir reads migrations from dir instead.
func NewFromDir(db *sql.DB, dir string, log *zap.Logger) (*Migrator, error) {
	return newMigrator(db, os.DirFS(dir), dir, log)
}

func newMigrator(db *sql.DB, fsys fs.FS, label string, log *zap.Logger) (*Migrator, error) {
	src, err := iofs.New(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("open %s migrations: %w", label, err)
	}
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("postgres migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("init migrate: %w", err)
	}
	return &Migrator{migrate: m, log: log.With(zap.String("migrations", label))}, nil
}

// Up applies every pending migration.
func (m *Migrator) Up() error { return m.run("up", m.migrate.Up) }

// Down rolls every migration back.
func (m *Migrator) Down() error { return m.run("down", m.migrate.Down) }

// Steps moves n migrations forward, or back when n is negative.
func (m *Migrator) Steps(n int) error {
	return m.run(fmt.Sprintf("steps(%d)", n), func() error { return m.migrate.Steps(n) })
}

// run treats "nothing to do" as success and logs where the schema ended up.
func (m *Migrator) run(op string, apply func() error) error {
	err := apply()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		m.log.Info("schema already current", zap.String("op", op))
		return nil
	case err != nil:
		return fmt.Errorf("migrate %s: %w", op, err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	m.log.Info("schema migrated", zap.String("op", op), zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

// Version reports the applied version. An empty schema is version 0.
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.migrate.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read schema version: %w", err)
	}
	return version, dirty, nil
}

// Force records version as applied and clean without running anything.
// Used to recover from a dirty schema after a failed migration.
func (m *Migrator) Force(version int) error {
	m.log.Warn("forcing schema version", zap.Int("version", version))
	if err := m.migrate.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	return nil
}

func (m *Migrator) Close() error {
	srcErr, dbErr := m.migrate.Close()
	return errors.Join(srcErr, dbErr)
}

// Embedded returns the migration files compiled into the binary.
func Embedded() fs.FS {
	return migrations.FS
}
