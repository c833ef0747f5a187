package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/target/backup-audit/internal/domain/model"
	apperrors "github.com/target/backup-audit/internal/errors"
	"github.com/target/backup-audit/internal/util"
)

// Legacy column positions of the original backup table, used when the configured
// job-name or status column is not present in the result.
const (
	LegacyJobIndex    = 2
	LegacyStatusIndex = 5
)

// Connector opens a handle to the record store. The store closes it after each query.
type Connector func(ctx context.Context) (*sql.DB, error)

// SQLRecordStoreOptions configures a SQLRecordStore.
type SQLRecordStoreOptions struct {
	Connect      Connector
	Dialect      Dialect
	Table        string
	DateColumn   string
	JobColumn    string
	StatusColumn string
	// Location decides which calendar day is "today".
	Location     *time.Location
	Clock        TimeProvider
	QueryTimeout time.Duration
	Logger       *slog.Logger
}

// SQLRecordStore reads today's backup records from a SQL table.
type SQLRecordStore struct {
	connect      Connector
	dialect      Dialect
	table        string
	dateColumn   string
	jobColumn    string
	statusColumn string
	location     *time.Location
	clock        TimeProvider
	queryTimeout time.Duration
	logger       *slog.Logger
}

// NewSQLRecordStore constructs a SQLRecordStore.
func NewSQLRecordStore(opts SQLRecordStoreOptions) (*SQLRecordStore, error) {
	if opts.Connect == nil {
		return nil, ErrConnectorRequired
	}
	if strings.TrimSpace(opts.Table) == "" {
		return nil, ErrTableRequired
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := opts.Clock
	if clock == nil {
		clock = RealTimeProvider{}
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	timeout := opts.QueryTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &SQLRecordStore{
		connect:      opts.Connect,
		dialect:      opts.Dialect,
		table:        opts.Table,
		dateColumn:   fallback(opts.DateColumn, "date"),
		jobColumn:    fallback(opts.JobColumn, "job_name"),
		statusColumn: fallback(opts.StatusColumn, "status"),
		location:     loc,
		clock:        clock,
		queryTimeout: timeout,
		logger:       logger.With("component", "record_store"),
	}, nil
}

// QueryToday returns every row of the backup table dated today, in store order.
// The connection is opened for this call only and closed on every path.
func (s *SQLRecordStore) QueryToday(ctx context.Context) (model.RecordSet, error) {
	day := Today(s.clock, s.location)
	arg, err := s.dialect.DateArg(day)
	if err != nil {
		return model.RecordSet{}, apperrors.Wrap(err, apperrors.ErrCodeQuery, "query execution error")
	}

	db, err := s.connect(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "database connection error", "error", err)
		if apperrors.GetCode(err) != "" {
			return model.RecordSet{}, err
		}
		return model.RecordSet{}, apperrors.Wrap(err, apperrors.ErrCodeConnection, "database connection error")
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			s.logger.WarnContext(ctx, "close database failed", "error", cerr)
		}
	}()

	query := s.dialect.SelectByDate(s.table, s.dateColumn)
	s.logger.InfoContext(ctx, "executing query", "query", query, "date", day)

	qctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	set, err := s.fetch(qctx, db, query, arg, day)
	if err != nil {
		err = apperrors.MapDBError(err)
		s.logger.ErrorContext(ctx, "query execution error", "error", err)
		return model.RecordSet{}, err
	}

	s.logger.InfoContext(ctx, "fetched backup records", "date", day, "records", set.Len())
	return set, nil
}

func (s *SQLRecordStore) fetch(ctx context.Context, db *sql.DB, query string, arg any, day string) (set model.RecordSet, err error) {
	rows, err := db.QueryContext(ctx, query, arg)
	if err != nil {
		return set, fmt.Errorf("execute query: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", cerr)
		}
	}()

	cols, err := rows.Columns()
	if err != nil {
		return set, fmt.Errorf("read columns: %w", err)
	}
	layout, err := s.resolveLayout(ctx, cols)
	if err != nil {
		return set, err
	}

	set.Columns = cols
	set.Records = []model.BackupRecord{}
	for rows.Next() {
		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if scanErr := rows.Scan(ptrs...); scanErr != nil {
			return set, fmt.Errorf("scan row: %w", scanErr)
		}
		set.Records = append(set.Records, layout.record(raw, day))
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return set, fmt.Errorf("iterate rows: %w", rowsErr)
	}
	return set, nil
}

// columnLayout holds the indices of the named fields within a result row.
type columnLayout struct {
	job    int
	status int
	date   int
}

func (s *SQLRecordStore) resolveLayout(ctx context.Context, cols []string) (columnLayout, error) {
	layout := columnLayout{
		job:    indexOf(cols, s.jobColumn),
		status: indexOf(cols, s.statusColumn),
		date:   indexOf(cols, s.dateColumn),
	}

	if layout.job < 0 && len(cols) > LegacyJobIndex {
		s.logger.WarnContext(ctx, "job column not found, using legacy position",
			"column", s.jobColumn, "index", LegacyJobIndex)
		layout.job = LegacyJobIndex
	}
	if layout.status < 0 && len(cols) > LegacyStatusIndex {
		s.logger.WarnContext(ctx, "status column not found, using legacy position",
			"column", s.statusColumn, "index", LegacyStatusIndex)
		layout.status = LegacyStatusIndex
	}

	var missing []error
	if layout.job < 0 {
		missing = append(missing, fmt.Errorf("result has no %q column", s.jobColumn))
	}
	if layout.status < 0 {
		missing = append(missing, fmt.Errorf("result has no %q column", s.statusColumn))
	}
	if len(missing) > 0 {
		return layout, apperrors.Wrap(errors.Join(missing...), apperrors.ErrCodeQuery, "unexpected backup table layout")
	}
	return layout, nil
}

func (l columnLayout) record(raw []any, day string) model.BackupRecord {
	values := make([]string, len(raw))
	for i, v := range raw {
		values[i] = util.FormatCell(v)
	}
	rec := model.BackupRecord{
		Date:    day,
		JobName: values[l.job],
		Status:  values[l.status],
		Values:  values,
	}
	if l.date >= 0 && values[l.date] != "" {
		rec.Date = values[l.date]
	}
	return rec
}

func indexOf(cols []string, name string) int {
	for i, c := range cols {
		if strings.EqualFold(c, name) {
			return i
		}
	}
	return -1
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}
