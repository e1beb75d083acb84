package database

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kycmint/internal/platform/config"
)

func TestApplyMigrationsSkipsRecorded(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	fsys := fstest.MapFS{
		"0001_contracts.sql":   {Data: []byte("CREATE TABLE contracts (contract_id TEXT PRIMARY KEY);")},
		"0002_credentials.sql": {Data: []byte("CREATE TABLE credentials (id NUMERIC(20));")},
		"README.md":            {Data: []byte("ignored")},
	}

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS schema_migrations")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT name FROM schema_migrations")).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("0001_contracts.sql"))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE credentials")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schema_migrations")).
		WithArgs("0002_credentials.sql").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	applied, err := ApplyMigrations(context.Background(), db, fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"0002_credentials.sql"}, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyMigrationsRollsBackFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	fsys := fstest.MapFS{"0001_bad.sql": {Data: []byte("CREATE TABLE broken (")}}

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS schema_migrations")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT name FROM schema_migrations")).
		WillReturnRows(sqlmock.NewRows([]string{"name"}))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE broken")).WillReturnError(errors.New("syntax error"))
	mock.ExpectRollback()

	applied, err := ApplyMigrations(context.Background(), db, fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "0001_bad.sql")
	assert.Empty(t, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPoolNilSafe(t *testing.T) {
	var p *Pool
	assert.Error(t, p.Health(context.Background()))
	assert.NoError(t, p.Close())

	pool, err := New(context.Background(), configWithoutURL())
	require.NoError(t, err)
	assert.Nil(t, pool)
}

func configWithoutURL() config.Database {
	return config.Database{}
}
