package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexuscrm/persistence/internal/config"
	"github.com/nexuscrm/persistence/pkg/meta"
)

func TestBuildDSN(t *testing.T) {
	t.Run("explicit DSN wins", func(t *testing.T) {
		dsn, err := BuildDSN(config.DBConfig{DSN: "u:p@tcp(db:3306)/x", Host: "ignored"})
		require.NoError(t, err)
		assert.Equal(t, "u:p@tcp(db:3306)/x", dsn)
	})

	t.Run("local host without TLS", func(t *testing.T) {
		dsn, err := BuildDSN(config.DBConfig{Host: "127.0.0.1", Port: "4000", User: "root", Password: "pw", Database: "crm"})
		require.NoError(t, err)

		parsed, err := mysql.ParseDSN(dsn)
		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1:4000", parsed.Addr)
		assert.Equal(t, "crm", parsed.DBName)
		assert.Equal(t, "root", parsed.User)
		assert.True(t, parsed.ParseTime)
		assert.Empty(t, parsed.TLSConfig)
	})

	t.Run("remote host uses TLS", func(t *testing.T) {
		dsn, err := BuildDSN(config.DBConfig{Host: "gateway.tidbcloud.example", Port: "4000", Database: "crm"})
		require.NoError(t, err)

		parsed, err := mysql.ParseDSN(dsn)
		require.NoError(t, err)
		assert.Equal(t, tlsConfigName, parsed.TLSConfig)
	})

	t.Run("no host", func(t *testing.T) {
		_, err := BuildDSN(config.DBConfig{})
		assert.Error(t, err)
	})
}

func TestWithTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("commit", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM t")).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err = WithTransaction(ctx, db, func(tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, "DELETE FROM t")
			return err
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback on error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		err = WithTransaction(ctx, db, func(tx *sql.Tx) error { return boom })
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback on panic", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		assert.Panics(t, func() {
			_ = WithTransaction(ctx, db, func(tx *sql.Tx) error { panic("boom") })
		})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestWithRetry(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectCommit()

	attempts := 0
	err = WithRetry(ctx, db, func(tx *sql.Tx) error {
		attempts++
		if attempts == 1 {
			return &mysql.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock"}
		}
		return nil
	}, 3)
	assert.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsDeadlock(t *testing.T) {
	assert.False(t, IsDeadlock(nil))
	assert.True(t, IsDeadlock(&mysql.MySQLError{Number: 1205}))
	assert.True(t, IsDeadlock(fmt.Errorf("wrapped: %w", &mysql.MySQLError{Number: 1213})))
	assert.False(t, IsDeadlock(&mysql.MySQLError{Number: 1062}))
	assert.True(t, IsDeadlock(errors.New("Deadlock found")))
	assert.False(t, IsDeadlock(errors.New("duplicate entry")))
}

func TestLoadTable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(columnsQuery)).
		WithArgs("accounts").
		WillReturnRows(sqlmock.NewRows([]string{"COLUMN_NAME", "COLUMN_TYPE", "IS_NULLABLE", "EXTRA"}).
			AddRow("id", "bigint(20)", "NO", "auto_increment").
			AddRow("email", "varchar(255)", "NO", "").
			AddRow("active", "tinyint(1)", "YES", "").
			AddRow("shape", "geometry", "YES", ""))

	mock.ExpectQuery(regexp.QuoteMeta(keysQuery)).
		WithArgs("accounts").
		WillReturnRows(sqlmock.NewRows([]string{"INDEX_NAME", "COLUMN_NAME"}).
			AddRow("PRIMARY", "id").
			AddRow("uk_email", "email"))

	table, err := LoadTable(context.Background(), db, "accounts")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())

	require.Len(t, table.Columns, 4)
	assert.Equal(t, meta.TypeBigInt, table.Columns[0].Type)
	assert.True(t, table.Columns[0].Autoincrement)
	assert.False(t, table.Columns[0].Nullable)
	assert.Equal(t, meta.TypeVarChar, table.Columns[1].Type)
	assert.Equal(t, meta.TypeBoolean, table.Columns[2].Type)
	assert.True(t, table.Columns[2].Nullable)
	assert.False(t, table.Columns[3].Supported)

	require.True(t, table.HasPrimaryKey())
	assert.Equal(t, []string{"id"}, table.PrimaryKey.ColumnNames)
	require.Len(t, table.UniqueKeys, 1)
	assert.Equal(t, []string{"email"}, table.UniqueKeys[0].ColumnNames)
}

func TestLoadTableMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(columnsQuery)).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"COLUMN_NAME", "COLUMN_TYPE", "IS_NULLABLE", "EXTRA"}))

	table, err := LoadTable(context.Background(), db, "nope")
	require.NoError(t, err)
	assert.False(t, table.HasColumn())
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Integration test against a live database, skipped in short mode
func TestOpenIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	cfg, err := config.Load()
	if err != nil {
		t.Skipf("Skipping: %v", err)
	}

	db, err := Open(cfg.DB)
	require.NoError(t, err)
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, db.PingContext(ctx))
}
