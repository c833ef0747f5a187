package audit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/target/backup-audit/internal/domain/model"
	"github.com/target/backup-audit/internal/testutil"
)

func TestRender(t *testing.T) {
	records := []model.BackupRecord{
		{Values: []string{"1", "db1", "success"}},
		{Values: []string{"2", "mail-archive", "failed"}},
	}

	got := Render([]string{"id", "job_name", "status"}, records)
	want := strings.Join([]string{
		"+----+--------------+---------+",
		"| id |   job_name   | status  |",
		"+----+--------------+---------+",
		"| 1  |     db1      | success |",
		"| 2  | mail-archive | failed  |",
		"+----+--------------+---------+",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestRender_HeaderOnlyWhenEmpty(t *testing.T) {
	got := Render([]string{"id", "status"}, nil)
	want := strings.Join([]string{
		"+----+--------+",
		"| id | status |",
		"+----+--------+",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestRender_PadsShortRowsAndIgnoresExtra(t *testing.T) {
	records := []model.BackupRecord{
		{Values: []string{"1"}},
		{Values: []string{"2", "b", "extra"}},
	}
	got := Render([]string{"id", "name"}, records)
	lines := strings.Split(got, "\n")

	assert.Equal(t, "| 1  |      |", lines[3])
	assert.Equal(t, "| 2  |  b   |", lines[4])
	assert.NotContains(t, got, "extra")
}

func TestRender_WideRunesAndNewlines(t *testing.T) {
	records := []model.BackupRecord{{Values: []string{"日本", "a\nb"}}}
	got := Render([]string{"host", "note"}, records)
	lines := strings.Split(got, "\n")

	assert.Equal(t, "+------+------+", lines[0])
	assert.Equal(t, "| 日本 | a b  |", lines[3])
}

func TestRender_PreservesStoreOrder(t *testing.T) {
	set := testutil.RecordSet(
		testutil.NewBackupRow("zeta").Build(),
		testutil.NewBackupRow("alpha").Build(),
	)
	got := Render(set.Columns, set.Records)
	assert.Less(t, strings.Index(got, "zeta"), strings.Index(got, "alpha"))
}
