package database

import (
	"context"
	"crypto/md5"
	"database/sql"
	"embed"
	"encoding/hex"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

var (
	versionRe     = regexp.MustCompile(`^(\d+)`)
	descriptionRe = regexp.MustCompile(`(?m)^-- Description: (.*)$`)
)

const (
	upMarker   = "-- UP"
	downMarker = "-- DOWN"
)

type Migration struct {
	Version     int
	Filename    string
	Description string
	Checksum    string
	Up          string
	Down        string
}

type AppliedMigration struct {
	Version     int
	Filename    string
	Description string
	AppliedAt   time.Time
}

type MigrationStatus struct {
	Current int
	Applied []AppliedMigration
	Pending []Migration
}

// ParseMigration splits a migration file into its UP and DOWN sections.
// Both markers must sit on their own line and both sections must hold SQL.
func ParseMigration(filename, content string) (Migration, error) {
	m := Migration{Filename: filename}
	match := versionRe.FindStringSubmatch(filename)
	if match == nil {
		return m, errors.Errorf("could not extract version from filename %s", filename)
	}
	m.Version, _ = strconv.Atoi(match[1])

	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	upStart, downStart := -1, -1
	for i, line := range lines {
		switch strings.TrimSpace(line) {
		case upMarker:
			if upStart == -1 {
				upStart = i + 1
			}
		case downMarker:
			if downStart == -1 {
				downStart = i + 1
			}
		}
	}
	if upStart == -1 {
		return m, errors.Errorf("missing '%s' marker in %s", upMarker, filename)
	}
	if downStart == -1 {
		return m, errors.Errorf("missing '%s' marker in %s", downMarker, filename)
	}
	if downStart < upStart {
		return m, errors.Errorf("'%s' must come before '%s' in %s", upMarker, downMarker, filename)
	}
	m.Up = strings.TrimSpace(strings.Join(lines[upStart:downStart-1], "\n"))
	m.Down = strings.TrimSpace(strings.Join(lines[downStart:], "\n"))
	if !hasStatements(m.Up) {
		return m, errors.Errorf("empty UP section in %s", filename)
	}
	if !hasStatements(m.Down) {
		return m, errors.Errorf("empty DOWN section in %s", filename)
	}

	m.Description = strings.ReplaceAll(strings.TrimSuffix(filename, ".sql"), "_", " ")
	if d := descriptionRe.FindStringSubmatch(content); d != nil && strings.TrimSpace(d[1]) != "" {
		m.Description = strings.TrimSpace(d[1])
	}
	sum := md5.Sum([]byte(content))
	m.Checksum = hex.EncodeToString(sum[:])
	return m, nil
}

func hasStatements(section string) bool {
	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "--") {
			return true
		}
	}
	return false
}

// LoadMigrations reads and parses every *.sql file in dir, ordered by version
func LoadMigrations(fsys fs.FS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read migrations dir %s", dir)
	}
	migrations := make([]Migration, 0, len(entries))
	seen := make(map[int]string)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") || strings.HasPrefix(e.Name(), "_") {
			continue
		}
		b, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, errors.Wrapf(err, "unable to read migration %s", e.Name())
		}
		m, err := ParseMigration(e.Name(), string(b))
		if err != nil {
			return nil, err
		}
		if other, ok := seen[m.Version]; ok {
			return nil, errors.Errorf("duplicate migration version %d in %s and %s", m.Version, other, m.Filename)
		}
		seen[m.Version] = m.Filename
		migrations = append(migrations, m)
	}
	sort.Slice(migrations, func(i, j int) bool { return migrations[i].Version < migrations[j].Version })
	return migrations, nil
}

type Migrator struct {
	db         *sql.DB
	migrations []Migration
}

// NewMigrator loads the migrations bundled with the binary
func NewMigrator(db *sql.DB) (*Migrator, error) {
	migrations, err := LoadMigrations(embeddedMigrations, "migrations")
	if err != nil {
		return nil, err
	}
	return &Migrator{db: db, migrations: migrations}, nil
}

func (m *Migrator) ensureTable(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	filename TEXT NOT NULL,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	execution_time_ms INTEGER NOT NULL DEFAULT 0,
	checksum TEXT,
	description TEXT
)`)
	return errors.Wrap(err, "unable to create schema_migrations")
}

func (m *Migrator) currentVersion(ctx context.Context) (int, error) {
	var v int
	err := m.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&v)
	return v, errors.Wrap(err, "unable to read current schema version")
}

// Up applies every pending migration, each one in its own transaction
func (m *Migrator) Up(ctx context.Context) ([]Migration, error) {
	if err := m.ensureTable(ctx); err != nil {
		return nil, err
	}
	current, err := m.currentVersion(ctx)
	if err != nil {
		return nil, err
	}
	applied := make([]Migration, 0)
	for _, mig := range m.migrations {
		if mig.Version <= current {
			continue
		}
		start := time.Now()
		err := WithTx(ctx, m.db, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, mig.Up); err != nil {
				return errors.Wrapf(err, "migration %s failed", mig.Filename)
			}
			_, err := tx.ExecContext(
				ctx,
				`INSERT INTO schema_migrations (version, filename, execution_time_ms, checksum, description) VALUES ($1, $2, $3, $4, $5)`,
				mig.Version,
				mig.Filename,
				time.Since(start).Milliseconds(),
				mig.Checksum,
				mig.Description,
			)
			return errors.Wrapf(err, "unable to record migration %s", mig.Filename)
		})
		if err != nil {
			return applied, err
		}
		applied = append(applied, mig)
	}
	return applied, nil
}

// Down rolls back the most recently applied migration
func (m *Migrator) Down(ctx context.Context) (Migration, error) {
	if err := m.ensureTable(ctx); err != nil {
		return Migration{}, err
	}
	current, err := m.currentVersion(ctx)
	if err != nil {
		return Migration{}, err
	}
	if current == 0 {
		return Migration{}, errors.New("no migrations to roll back")
	}
	var target *Migration
	for i := range m.migrations {
		if m.migrations[i].Version == current {
			target = &m.migrations[i]
		}
	}
	if target == nil {
		return Migration{}, fmt.Errorf("migration file for version %d is missing", current)
	}
	err = WithTx(ctx, m.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, target.Down); err != nil {
			return errors.Wrapf(err, "rollback of %s failed", target.Filename)
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM schema_migrations WHERE version = $1`, target.Version)
		return err
	})
	return *target, err
}

func (m *Migrator) Status(ctx context.Context) (MigrationStatus, error) {
	status := MigrationStatus{}
	if err := m.ensureTable(ctx); err != nil {
		return status, err
	}
	rows, err := m.db.QueryContext(ctx, `SELECT version, filename, COALESCE(description, ''), applied_at FROM schema_migrations ORDER BY version`)
	if err != nil {
		return status, errors.Wrap(err, "unable to list applied migrations")
	}
	defer rows.Close()
	applied := make(map[int]bool)
	for rows.Next() {
		var a AppliedMigration
		if err := rows.Scan(&a.Version, &a.Filename, &a.Description, &a.AppliedAt); err != nil {
			return status, err
		}
		applied[a.Version] = true
		status.Applied = append(status.Applied, a)
		if a.Version > status.Current {
			status.Current = a.Version
		}
	}
	if err := rows.Err(); err != nil {
		return status, err
	}
	for _, mig := range m.migrations {
		if !applied[mig.Version] && mig.Version > status.Current {
			status.Pending = append(status.Pending, mig)
		}
	}
	return status, nil
}
