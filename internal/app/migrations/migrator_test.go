package migrations

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"testing/fstest"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	createTracking = regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS schema_migrations")
	checkApplied   = regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)")
	recordApplied  = regexp.QuoteMeta("INSERT INTO schema_migrations (version, applied_at) VALUES ($1, $2)")
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestVersion(t *testing.T) {
	assert.Equal(t, "001", Version("001_init.sql"))
	assert.Equal(t, "002", Version("sql/002_add_index.sql"))
	assert.Equal(t, "plain.sql", Version("plain.sql"))
}

func TestMigrateFS_AppliesPendingFiles(t *testing.T) {
	mock := newMock(t)
	fsys := fstest.MapFS{
		"001_init.sql": {Data: []byte("CREATE TABLE things (id INT)")},
		"README.md":    {Data: []byte("ignored")},
	}

	mock.ExpectExec(createTracking).WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectQuery(checkApplied).WithArgs("001").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE things (id INT)")).WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec(recordApplied).WithArgs("001", pgxmock.AnyArg()).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	m := NewMigrator(mock, zerolog.Nop())
	require.NoError(t, m.MigrateFS(context.Background(), fsys, "."))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateFS_SkipsAppliedFiles(t *testing.T) {
	mock := newMock(t)
	fsys := fstest.MapFS{"001_init.sql": {Data: []byte("CREATE TABLE things (id INT)")}}

	mock.ExpectExec(createTracking).WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectQuery(checkApplied).WithArgs("001").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	m := NewMigrator(mock, zerolog.Nop())
	require.NoError(t, m.MigrateFS(context.Background(), fsys, "."))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApply_RollsBackOnFailure(t *testing.T) {
	mock := newMock(t)

	mock.ExpectExec(createTracking).WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectQuery(checkApplied).WithArgs("002").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("ALTER TABLE broken")).WillReturnError(errors.New("syntax error"))
	mock.ExpectRollback()

	m := NewMigrator(mock, zerolog.Nop())
	err := m.Apply(context.Background(), "002_broken.sql", "ALTER TABLE broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "002_broken.sql")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	data, err := Files.ReadFile("sql/001_init.sql")
	require.NoError(t, err)
	assert.Contains(t, string(data), "CREATE TABLE IF NOT EXISTS food_donations")
	assert.Contains(t, string(data), "users_email_key")
}

func TestMigrateFromDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "002_extra.sql"), []byte("ALTER TABLE posts ADD COLUMN x INT"), 0o600))

	mock := newMock(t)
	mock.ExpectExec(createTracking).WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectQuery(checkApplied).WithArgs("002").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	m := NewMigrator(mock, zerolog.Nop())
	require.NoError(t, m.MigrateFromDirectory(context.Background(), dir))
	assert.NoError(t, mock.ExpectationsWereMet())
}
