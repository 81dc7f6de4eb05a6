package database

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMigration(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  string
		wantErr  string
		wantUp   string
		wantDown string
		wantDesc string
	}{
		{
			name:     "valid",
			filename: "0004_add_index.sql",
			content:  "-- Description: index applications by status\n-- UP\nCREATE INDEX a_idx ON applications (status);\n-- DOWN\nDROP INDEX a_idx;\n",
			wantUp:   "CREATE INDEX a_idx ON applications (status);",
			wantDown: "DROP INDEX a_idx;",
			wantDesc: "index applications by status",
		},
		{
			name:     "description falls back to filename",
			filename: "0005_add_column.sql",
			content:  "-- UP\nALTER TABLE tags ADD COLUMN x TEXT;\n-- DOWN\nALTER TABLE tags DROP COLUMN x;",
			wantUp:   "ALTER TABLE tags ADD COLUMN x TEXT;",
			wantDown: "ALTER TABLE tags DROP COLUMN x;",
			wantDesc: "0005 add column",
		},
		{
			name:     "missing version",
			filename: "add_column.sql",
			content:  "-- UP\nSELECT 1;\n-- DOWN\nSELECT 1;",
			wantErr:  "could not extract version",
		},
		{
			name:     "missing down marker",
			filename: "0006_x.sql",
			content:  "-- UP\nSELECT 1;",
			wantErr:  "missing '-- DOWN' marker",
		},
		{
			name:     "empty up section",
			filename: "0007_x.sql",
			content:  "-- UP\n-- only a comment\n-- DOWN\nSELECT 1;",
			wantErr:  "empty UP section",
		},
		{
			name:     "empty down section",
			filename: "0008_x.sql",
			content:  "-- UP\nSELECT 1;\n-- DOWN\n",
			wantErr:  "empty DOWN section",
		},
		{
			name:     "markers out of order",
			filename: "0009_x.sql",
			content:  "-- DOWN\nSELECT 1;\n-- UP\nSELECT 1;",
			wantErr:  "must come before",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseMigration(tt.filename, tt.content)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantUp, m.Up)
			assert.Equal(t, tt.wantDown, m.Down)
			assert.Equal(t, tt.wantDesc, m.Description)
			assert.Len(t, m.Checksum, 32)
		})
	}
}

func TestLoadMigrationsOrdersAndSkips(t *testing.T) {
	fsys := fstest.MapFS{
		"m/0002_b.sql":     {Data: []byte("-- UP\nSELECT 2;\n-- DOWN\nSELECT 2;")},
		"m/0001_a.sql":     {Data: []byte("-- UP\nSELECT 1;\n-- DOWN\nSELECT 1;")},
		"m/_template.sql":  {Data: []byte("not a migration")},
		"m/README.md":      {Data: []byte("docs")},
		"m/0010_later.sql": {Data: []byte("-- UP\nSELECT 10;\n-- DOWN\nSELECT 10;")},
	}
	migrations, err := LoadMigrations(fsys, "m")
	require.NoError(t, err)
	require.Len(t, migrations, 3)
	assert.Equal(t, 1, migrations[0].Version)
	assert.Equal(t, 2, migrations[1].Version)
	assert.Equal(t, 10, migrations[2].Version)
}

func TestLoadMigrationsRejectsDuplicateVersions(t *testing.T) {
	fsys := fstest.MapFS{
		"m/0001_a.sql": {Data: []byte("-- UP\nSELECT 1;\n-- DOWN\nSELECT 1;")},
		"m/001_b.sql":  {Data: []byte("-- UP\nSELECT 1;\n-- DOWN\nSELECT 1;")},
	}
	_, err := LoadMigrations(fsys, "m")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate migration version 1")
}

func TestEmbeddedMigrationsParse(t *testing.T) {
	migrations, err := LoadMigrations(embeddedMigrations, "migrations")
	require.NoError(t, err)
	require.NotEmpty(t, migrations)
	for i, m := range migrations {
		assert.Equal(t, i+1, m.Version, m.Filename)
	}
}

func TestMigratorUpAppliesPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	m := &Migrator{db: db, migrations: []Migration{
		{Version: 1, Filename: "0001_a.sql", Up: "CREATE TABLE a (id INT);", Down: "DROP TABLE a;", Description: "a"},
		{Version: 2, Filename: "0002_b.sql", Up: "CREATE TABLE b (id INT);", Down: "DROP TABLE b;", Description: "b", Checksum: "abc"},
	}}

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT COALESCE\(MAX\(version\), 0\) FROM schema_migrations`).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TABLE b \(id INT\);`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO schema_migrations").
		WithArgs(2, "0002_b.sql", sqlmock.AnyArg(), "abc", "b").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	applied, err := m.Up(context.Background())
	require.NoError(t, err)
	require.Len(t, applied, 1)
	assert.Equal(t, 2, applied[0].Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigratorDownRollsBackLatest(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	m := &Migrator{db: db, migrations: []Migration{
		{Version: 1, Filename: "0001_a.sql", Up: "CREATE TABLE a (id INT);", Down: "DROP TABLE a;"},
	}}

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT COALESCE").WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectExec("DROP TABLE a;").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM schema_migrations WHERE version = \$1`).WithArgs(1).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	rolledBack, err := m.Down(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0001_a.sql", rolledBack.Filename)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigratorDownWithNothingApplied(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT COALESCE").WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))

	_, err = (&Migrator{db: db}).Down(context.Background())
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
