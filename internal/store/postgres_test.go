package store

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockPostgres(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresWithDB(sqlx.NewDb(db, "postgres")), mock
}

func TestPostgresGet(t *testing.T) {
	ps, mock := newMockPostgres(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM kv_collections WHERE key = $1 LIMIT 1`)).
		WithArgs("sfs_accounts").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow([]byte(`[{"id":1}]`)))

	got, err := ps.Get(context.Background(), "sfs_accounts")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"id":1}]`), got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetMissingKey(t *testing.T) {
	ps, mock := newMockPostgres(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM kv_collections WHERE key = $1 LIMIT 1`)).
		WithArgs("sfs_feedback").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	_, err := ps.Get(context.Background(), "sfs_feedback")
	assert.ErrorIs(t, err, ErrKeyNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSetUpserts(t *testing.T) {
	ps, mock := newMockPostgres(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO kv_collections (key, value, updated_at) VALUES ($1, $2, now())`)).
		WithArgs("sfs_accounts", []byte(`[]`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, ps.Set(context.Background(), "sfs_accounts", []byte(`[]`)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDelete(t *testing.T) {
	ps, mock := newMockPostgres(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM kv_collections WHERE key = $1`)).
		WithArgs("sfs_session").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, ps.Delete(context.Background(), "sfs_session"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
