package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"timestrap/internal/logging"
)

//go:embed sqlite/*.sql postgres/*.sql
var migrationsFS embed.FS

// Binder rewrites ? placeholders for the target database.
type Binder func(query string) string

// GoFunc is a migration step written in Go. It runs inside the migration transaction.
type GoFunc func(ctx context.Context, tx *sql.Tx, bind Binder) error

type goMigration struct {
	up   GoFunc
	down GoFunc
}

var goMigrations = map[int]goMigration{}

// RegisterGoMigration registers a Go migration for every dialect.
func RegisterGoMigration(version int, up, down GoFunc) {
	goMigrations[version] = goMigration{up: up, down: down}
}

// Migration represents a database migration
type Migration struct {
	Version  int
	Name     string
	Up       string
	Down     string
	UpFunc   GoFunc
	DownFunc GoFunc
}

// Status reports whether a known migration has been applied.
type Status struct {
	Version int
	Name    string
	Applied bool
}

// Runner applies the migrations of one dialect directory to a database.
type Runner struct {
	db   *sql.DB
	dir  string
	bind Binder
}

// NewRunner creates a runner reading migrations from dir ("sqlite" or "postgres").
func NewRunner(db *sql.DB, dir string, bind Binder) *Runner {
	if bind == nil {
		bind = func(q string) string { return q }
	}
	return &Runner{db: db, dir: dir, bind: bind}
}

// RunMigrations executes all pending migrations
func RunMigrations(ctx context.Context, db *sql.DB, dir string, bind Binder) error {
	_, err := NewRunner(db, dir, bind).Up(ctx)
	return err
}

// Up applies every pending migration in version order and returns the applied versions.
func (r *Runner) Up(ctx context.Context) ([]int, error) {
	if err := r.createMigrationsTable(ctx); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	migrations, err := r.load()
	if err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}

	applied, err := r.applied(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}

	var done []int
	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		if err := r.apply(ctx, m); err != nil {
			return done, fmt.Errorf("failed to apply migration %d: %w", m.Version, err)
		}
		done = append(done, m.Version)
	}
	return done, nil
}

// Down reverts the most recently applied migration. It returns 0 when nothing is applied.
func (r *Runner) Down(ctx context.Context) (int, error) {
	if err := r.createMigrationsTable(ctx); err != nil {
		return 0, fmt.Errorf("failed to create migrations table: %w", err)
	}

	migrations, err := r.load()
	if err != nil {
		return 0, fmt.Errorf("failed to load migrations: %w", err)
	}
	applied, err := r.applied(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get applied migrations: %w", err)
	}

	for i := len(migrations) - 1; i >= 0; i-- {
		m := migrations[i]
		if !applied[m.Version] {
			continue
		}
		if err := r.revert(ctx, m); err != nil {
			return 0, fmt.Errorf("failed to revert migration %d: %w", m.Version, err)
		}
		return m.Version, nil
	}
	return 0, nil
}

// Status lists every known migration and whether it has been applied.
func (r *Runner) Status(ctx context.Context) ([]Status, error) {
	if err := r.createMigrationsTable(ctx); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}
	migrations, err := r.load()
	if err != nil {
		return nil, err
	}
	applied, err := r.applied(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Status, 0, len(migrations))
	for _, m := range migrations {
		out = append(out, Status{Version: m.Version, Name: m.Name, Applied: applied[m.Version]})
	}
	return out, nil
}

func (r *Runner) createMigrationsTable(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS migrations (
		version INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL
	)`
	_, err := r.db.ExecContext(ctx, query)
	return err
}

func (r *Runner) load() ([]Migration, error) {
	entries, err := fs.ReadDir(migrationsFS, r.dir)
	if err != nil {
		return nil, err
	}

	byVersion := map[int]*Migration{}
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".up.sql") {
			continue
		}

		version := extractVersion(name)
		if version == 0 {
			continue
		}

		upSQL, err := migrationsFS.ReadFile(r.dir + "/" + name)
		if err != nil {
			return nil, err
		}

		downFile := strings.Replace(name, ".up.sql", ".down.sql", 1)
		downSQL, err := migrationsFS.ReadFile(r.dir + "/" + downFile)
		if err != nil {
			return nil, err
		}

		byVersion[version] = &Migration{
			Version: version,
			Name:    strings.TrimSuffix(name, ".up.sql"),
			Up:      string(upSQL),
			Down:    string(downSQL),
		}
	}

	for version, g := range goMigrations {
		m, ok := byVersion[version]
		if !ok {
			m = &Migration{Version: version, Name: goMigrationName(version)}
			byVersion[version] = m
		}
		m.UpFunc = g.up
		m.DownFunc = g.down
	}

	migrations := make([]Migration, 0, len(byVersion))
	for _, m := range byVersion {
		migrations = append(migrations, *m)
	}
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

func (r *Runner) applied(ctx context.Context) (map[int]bool, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT version FROM migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func (r *Runner) apply(ctx context.Context, m Migration) error {
	logging.Debugf("applying migration %06d (%s)", m.Version, m.Name)
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if strings.TrimSpace(m.Up) != "" {
		if _, err := tx.ExecContext(ctx, m.Up); err != nil {
			return err
		}
	}
	if m.UpFunc != nil {
		if err := m.UpFunc(ctx, tx, r.bind); err != nil {
			return err
		}
	}

	insert := r.bind("INSERT INTO migrations (version, applied_at) VALUES (?, ?)")
	if _, err := tx.ExecContext(ctx, insert, m.Version, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *Runner) revert(ctx context.Context, m Migration) error {
	logging.Debugln("reverting migration", m.Version, m.Name)
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if m.DownFunc != nil {
		if err := m.DownFunc(ctx, tx, r.bind); err != nil {
			return err
		}
	}
	if strings.TrimSpace(m.Down) != "" {
		if _, err := tx.ExecContext(ctx, m.Down); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, r.bind("DELETE FROM migrations WHERE version = ?"), m.Version); err != nil {
		return err
	}
	return tx.Commit()
}

func extractVersion(filename string) int {
	var version int
	fmt.Sscanf(filename, "%d_", &version)
	return version
}

func goMigrationName(version int) string {
	return fmt.Sprintf("%06d_go", version)
}
