// Package testutil provides testing utilities and helpers for the backup auditor.
package testutil

import (
	"strconv"

	"github.com/target/backup-audit/internal/domain/model"
)

// BackupRow is one fixture row of the backup table.
type BackupRow struct {
	Date      string
	JobName   string
	Host      string
	SizeBytes int64
	Status    string
}

// BackupRowBuilder provides a fluent interface for building fixture rows.
type BackupRowBuilder struct {
	row BackupRow
}

// NewBackupRow creates a BackupRowBuilder for a successful job dated TestDay.
func NewBackupRow(jobName string) *BackupRowBuilder {
	return &BackupRowBuilder{
		row: BackupRow{
			Date:      TestDay,
			JobName:   jobName,
			Host:      "backup-01",
			SizeBytes: 1024,
			Status:    model.StatusSuccess,
		},
	}
}

// WithDate sets the row date.
func (b *BackupRowBuilder) WithDate(date string) *BackupRowBuilder {
	b.row.Date = date
	return b
}

// WithStatus sets the row status.
func (b *BackupRowBuilder) WithStatus(status string) *BackupRowBuilder {
	b.row.Status = status
	return b
}

// WithHost sets the row host.
func (b *BackupRowBuilder) WithHost(host string) *BackupRowBuilder {
	b.row.Host = host
	return b
}

// Build returns the row.
func (b *BackupRowBuilder) Build() BackupRow {
	return b.row
}

// Columns are the column names of the fixture table, in order.
var Columns = []string{"id", "date", "job_name", "host", "size_bytes", "status"}

// RecordSet converts fixture rows into the RecordSet a store would return for them.
func RecordSet(rows ...BackupRow) model.RecordSet {
	set := model.RecordSet{Columns: Columns, Records: []model.BackupRecord{}}
	for i, r := range rows {
		set.Records = append(set.Records, r.Record(i+1))
	}
	return set
}

// Record renders the row as a BackupRecord with the given id.
func (r BackupRow) Record(id int) model.BackupRecord {
	return model.BackupRecord{
		Date:    r.Date,
		JobName: r.JobName,
		Status:  r.Status,
		Values: []string{
			strconv.Itoa(id), r.Date, r.JobName, r.Host, strconv.FormatInt(r.SizeBytes, 10), r.Status,
		},
	}
}
