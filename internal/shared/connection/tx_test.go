package connection_test

import (
	"context"
	"testing"

	"go-payroll/internal/shared/connection"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestBindTxRunsStatementsOnTransaction(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE loans").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := sqlDB.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	bound := connection.BindTx(gdb, tx)
	require.NoError(t, bound.Exec("UPDATE loans SET status = ?", "defaulted").Error)
	require.NoError(t, tx.Commit())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBindTxLeavesRootHandleOnPool(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	rootPool := gdb.Statement.ConnPool

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE loans").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectExec("UPDATE loans").WillReturnResult(sqlmock.NewResult(0, 1))

	tx, err := sqlDB.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	bound := connection.BindTx(gdb, tx)
	require.NotSame(t, gdb.Statement, bound.Statement)
	require.NoError(t, bound.Exec("UPDATE loans SET status = ?", "defaulted").Error)
	require.NoError(t, tx.Commit())

	require.Equal(t, rootPool, gdb.Statement.ConnPool)
	require.NoError(t, gdb.Exec("UPDATE loans SET status = ?", "paid_off").Error)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBindTxWithoutTransactionReturnsSameHandle(t *testing.T) {
	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	require.Same(t, gdb, connection.BindTx(gdb, nil))
}
