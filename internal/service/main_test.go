package service

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// newMockDBAndTx hands tests an open sqlmock-backed transaction so repository
// mocks can receive a real *sqlx.Tx value.
func newMockDBAndTx(t *testing.T) (*sqlx.DB, *sqlx.Tx, sqlmock.Sqlmock) {
	t.Helper()

	rawDB, dbMock, err := sqlmock.New()
	require.NoError(t, err)

	db := sqlx.NewDb(rawDB, "sqlmock")
	t.Cleanup(func() { _ = db.Close() })

	dbMock.ExpectBegin()
	tx, err := db.Beginx()
	require.NoError(t, err)

	return db, tx, dbMock
}
