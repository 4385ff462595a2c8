package migrate

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/chrissnell/sieveanalysis/internal/log"
)

// DefaultTable records applied versions
const DefaultTable = "schema_migrations"

// Migrator moves one database between versions of a Schema
type Migrator struct {
	db     *sql.DB
	schema *Schema
	table  string
}

// New returns a migrator recording versions in table (DefaultTable when empty)
func New(db *sql.DB, schema *Schema, table string) *Migrator {
	if table == "" {
		table = DefaultTable
	}
	return &Migrator{db: db, schema: schema, table: table}
}

// Status describes where a database stands against the schema
type Status struct {
	Current int
	Latest  int
	Pending []Step
}

// Up applies every pending step
func (m *Migrator) Up(ctx context.Context) error {
	return m.To(ctx, m.schema.Latest())
}

// Down reverts steps until target is the current version. target must be
// older than the current version.
func (m *Migrator) Down(ctx context.Context, target int) error {
	current, err := m.Version(ctx)
	if err != nil {
		return err
	}
	if target >= current {
		return fmt.Errorf("target version %d must be less than current version %d", target, current)
	}
	return m.To(ctx, target)
}

// To applies or reverts steps, one transaction each, until the database is at
// target
func (m *Migrator) To(ctx context.Context, target int) error {
	if target < 0 || target > m.schema.Latest() {
		return fmt.Errorf("unknown target version %d (schema has 0..%d)", target, m.schema.Latest())
	}

	current, err := m.Version(ctx)
	if err != nil {
		return err
	}
	if current > m.schema.Latest() {
		return fmt.Errorf("database is at version %d, newer than schema version %d", current, m.schema.Latest())
	}

	for v := current + 1; v <= target; v++ {
		if err := m.apply(ctx, m.schema.step(v), true); err != nil {
			return err
		}
	}
	for v := current; v > target; v-- {
		if err := m.apply(ctx, m.schema.step(v), false); err != nil {
			return err
		}
	}
	return nil
}

// Version returns the newest applied version, 0 on a fresh database
func (m *Migrator) Version(ctx context.Context) (int, error) {
	if err := m.ensureTable(ctx); err != nil {
		return 0, err
	}

	var version int
	query := fmt.Sprintf("SELECT COALESCE(MAX(version), 0) FROM %s", m.table)
	if err := m.db.QueryRowContext(ctx, query).Scan(&version); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}

// Status reports the current version and the steps not yet applied
func (m *Migrator) Status(ctx context.Context) (Status, error) {
	current, err := m.Version(ctx)
	if err != nil {
		return Status{}, err
	}

	st := Status{Current: current, Latest: m.schema.Latest()}
	for _, step := range m.schema.steps {
		if step.Version > current {
			st.Pending = append(st.Pending, step)
		}
	}
	return st, nil
}

func (m *Migrator) ensureTable(ctx context.Context) error {
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`, m.table)
	if _, err := m.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create %s: %w", m.table, err)
	}
	return nil
}

// apply runs one step and its bookkeeping row in a single transaction
func (m *Migrator) apply(ctx context.Context, step Step, up bool) error {
	stmt, direction := step.Up, "up"
	if !up {
		stmt, direction = step.Down, "down"
	}
	if stmt == "" {
		return fmt.Errorf("version %d (%s) cannot be reverted", step.Version, step.Name)
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin version %d: %w", step.Version, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("version %d %s: %w", step.Version, direction, err)
	}

	if up {
		_, err = tx.ExecContext(ctx, fmt.Sprintf("INSERT INTO %s (version, name) VALUES (?, ?)", m.table), step.Version, step.Name)
	} else {
		_, err = tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE version = ?", m.table), step.Version)
	}
	if err != nil {
		return fmt.Errorf("record version %d: %w", step.Version, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit version %d: %w", step.Version, err)
	}

	log.Infow("applied migration", "version", step.Version, "name", step.Name, "direction", direction)
	return nil
}
