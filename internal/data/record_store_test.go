package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/backup-audit/config"
	apperrors "github.com/target/backup-audit/internal/errors"
	"github.com/target/backup-audit/internal/testutil"
)

func newSQLiteStore(t *testing.T, connect Connector, opts ...func(*SQLRecordStoreOptions)) *SQLRecordStore {
	t.Helper()
	dialect, err := DialectFor(config.DriverSQLite)
	require.NoError(t, err)

	o := SQLRecordStoreOptions{
		Connect:  connect,
		Dialect:  dialect,
		Table:    "backups",
		Location: time.UTC,
		Clock:    NewFixedTimeProvider(testutil.TestTime()),
	}
	for _, fn := range opts {
		fn(&o)
	}
	store, err := NewSQLRecordStore(o)
	require.NoError(t, err)
	return store
}

func TestNewSQLRecordStore_Validation(t *testing.T) {
	_, err := NewSQLRecordStore(SQLRecordStoreOptions{Table: "backups"})
	require.ErrorIs(t, err, ErrConnectorRequired)

	_, err = NewSQLRecordStore(SQLRecordStoreOptions{Connect: testutil.SQLiteConnector("x"), Table: " "})
	require.ErrorIs(t, err, ErrTableRequired)
}

func TestSQLRecordStore_QueryToday(t *testing.T) {
	path := testutil.NewSQLiteBackupsDB(t, "backups", []testutil.BackupRow{
		testutil.NewBackupRow("db2").Build(),
		testutil.NewBackupRow("db1").WithDate("2026-10-14").Build(),
		testutil.NewBackupRow("db1").WithStatus("failed").Build(),
		testutil.NewBackupRow("db1").Build(),
	})
	store := newSQLiteStore(t, testutil.SQLiteConnector(path))

	set, err := store.QueryToday(context.Background())
	require.NoError(t, err)

	assert.Equal(t, testutil.Columns, set.Columns)
	require.Len(t, set.Records, 3, "yesterday's row is excluded")

	assert.Equal(t, "db2", set.Records[0].JobName)
	assert.Equal(t, "db1", set.Records[1].JobName)
	assert.Equal(t, "failed", set.Records[1].Status)
	assert.Equal(t, "success", set.Records[2].Status)
	for _, rec := range set.Records {
		assert.Equal(t, testutil.TestDay, rec.Date)
	}
	assert.Equal(t, []string{"1", testutil.TestDay, "db2", "backup-01", "1024", "success"}, set.Records[0].Values)
}

func TestSQLRecordStore_EmptyDay(t *testing.T) {
	path := testutil.NewSQLiteBackupsDB(t, "backups", []testutil.BackupRow{
		testutil.NewBackupRow("db1").WithDate("2026-10-14").Build(),
	})
	store := newSQLiteStore(t, testutil.SQLiteConnector(path))

	set, err := store.QueryToday(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testutil.Columns, set.Columns)
	assert.NotNil(t, set.Records)
	assert.Empty(t, set.Records)
}

func TestSQLRecordStore_TodayFollowsLocation(t *testing.T) {
	path := testutil.NewSQLiteBackupsDB(t, "backups", []testutil.BackupRow{
		testutil.NewBackupRow("db1").WithDate("2026-10-15").Build(),
		testutil.NewBackupRow("db9").WithDate("2026-10-16").Build(),
	})
	late := time.Date(2026, 10, 15, 20, 0, 0, 0, time.UTC)
	store := newSQLiteStore(t, testutil.SQLiteConnector(path), func(o *SQLRecordStoreOptions) {
		o.Clock = NewFixedTimeProvider(late)
		o.Location = time.FixedZone("UTC+8", 8*60*60)
	})

	set, err := store.QueryToday(context.Background())
	require.NoError(t, err)
	require.Len(t, set.Records, 1)
	assert.Equal(t, "db9", set.Records[0].JobName)
}

func TestSQLRecordStore_LegacyColumnPositions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE backups (id INTEGER, date TEXT, name TEXT, host TEXT, size INTEGER, result TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO backups VALUES (1, ?, 'db1', 'h', 1, 'success')`, testutil.TestDay)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	store := newSQLiteStore(t, testutil.SQLiteConnector(path))
	set, err := store.QueryToday(context.Background())
	require.NoError(t, err)
	require.Len(t, set.Records, 1)
	assert.Equal(t, "db1", set.Records[0].JobName)
	assert.Equal(t, "success", set.Records[0].Status)
}

func TestSQLRecordStore_ConfiguredColumnNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "named.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE runs (result TEXT, day TEXT, job TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO runs VALUES ('ok', ?, 'db1')`, testutil.TestDay)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	store := newSQLiteStore(t, testutil.SQLiteConnector(path), func(o *SQLRecordStoreOptions) {
		o.Table = "runs"
		o.DateColumn = "day"
		o.JobColumn = "JOB"
		o.StatusColumn = "result"
	})
	set, err := store.QueryToday(context.Background())
	require.NoError(t, err)
	require.Len(t, set.Records, 1)
	assert.Equal(t, "db1", set.Records[0].JobName)
	assert.Equal(t, "ok", set.Records[0].Status)
	assert.Equal(t, testutil.TestDay, set.Records[0].Date)
}

func TestSQLRecordStore_UnknownLayoutIsQueryError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "narrow.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE backups (date TEXT, name TEXT)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	store := newSQLiteStore(t, testutil.SQLiteConnector(path))
	_, err = store.QueryToday(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsQuery(err), "got %v", err)
	assert.Contains(t, err.Error(), `"job_name"`)
}

func TestSQLRecordStore_MissingTableIsQueryError(t *testing.T) {
	path := testutil.NewSQLiteBackupsDB(t, "other", nil)
	store := newSQLiteStore(t, testutil.SQLiteConnector(path))

	_, err := store.QueryToday(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsQuery(err), "got %v", err)
	assert.False(t, apperrors.IsConnection(err))
}

func TestSQLRecordStore_ConnectFailureIsConnectionError(t *testing.T) {
	refused := errors.New("dial tcp 10.0.0.1:3306: connect: connection refused")
	store := newSQLiteStore(t, func(context.Context) (*sql.DB, error) {
		return nil, refused
	})

	_, err := store.QueryToday(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsConnection(err))
	assert.ErrorIs(t, err, refused)
}

func TestSQLRecordStore_ClosesConnectionOnEveryPath(t *testing.T) {
	tests := []struct {
		name    string
		table   string
		wantErr bool
	}{
		{name: "success", table: "backups"},
		{name: "query failure", table: "missing", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.NewSQLiteBackupsDB(t, "backups", []testutil.BackupRow{
				testutil.NewBackupRow("db1").Build(),
			})
			var opened *sql.DB
			connect := func(ctx context.Context) (*sql.DB, error) {
				db, err := testutil.SQLiteConnector(path)(ctx)
				opened = db
				return db, err
			}
			store := newSQLiteStore(t, connect, func(o *SQLRecordStoreOptions) { o.Table = tt.table })

			_, err := store.QueryToday(context.Background())
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}

			require.NotNil(t, opened)
			pingErr := opened.PingContext(context.Background())
			require.Error(t, pingErr)
			assert.Contains(t, pingErr.Error(), "database is closed")
		})
	}
}

func TestSQLRecordStore_PostgresIntegration(t *testing.T) {
	db, table := testutil.SetupPostgresBackupsDB(t, []testutil.BackupRow{
		testutil.NewBackupRow("db1").Build(),
		testutil.NewBackupRow("db2").WithStatus("failed").Build(),
		testutil.NewBackupRow("db3").WithDate("2026-10-14").Build(),
	})
	dialect, err := DialectFor(config.DriverPostgres)
	require.NoError(t, err)

	store, err := NewSQLRecordStore(SQLRecordStoreOptions{
		Connect: func(ctx context.Context) (*sql.DB, error) {
			return sql.Open("pgx", testutil.DefaultTestDBConfig().PostgresDSN())
		},
		Dialect:  dialect,
		Table:    table,
		Location: time.UTC,
		Clock:    NewFixedTimeProvider(testutil.TestTime()),
	})
	require.NoError(t, err)

	set, err := store.QueryToday(context.Background())
	require.NoError(t, err)
	require.Len(t, set.Records, 2, fmt.Sprintf("rows in %s", table))
	assert.Equal(t, testutil.TestDay, set.Records[0].Date)
	assert.Equal(t, "failed", set.Records[1].Status)
	require.NoError(t, db.PingContext(context.Background()), "fixture handle stays open")
}
