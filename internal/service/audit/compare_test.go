package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/target/backup-audit/internal/domain/model"
	"github.com/target/backup-audit/internal/testutil"
)

func TestDeriveDone(t *testing.T) {
	set := testutil.RecordSet(
		testutil.NewBackupRow("db2").Build(),
		testutil.NewBackupRow("db1").WithStatus("failed").Build(),
		testutil.NewBackupRow("db1").Build(),
		testutil.NewBackupRow("db3").WithStatus("running").Build(),
	)

	done := DeriveDone(set.Records, "")
	assert.Equal(t, []string{"db1", "db2"}, done.Sorted())
}

func TestDeriveDone_CustomSuccessLiteral(t *testing.T) {
	set := testutil.RecordSet(
		testutil.NewBackupRow("db1").WithStatus("OK").Build(),
		testutil.NewBackupRow("db2").Build(),
	)

	assert.Equal(t, []string{"db1"}, DeriveDone(set.Records, "OK").Sorted())
}

func TestDeriveDone_NoRecords(t *testing.T) {
	done := DeriveDone(nil, model.StatusSuccess)
	assert.NotNil(t, done)
	assert.Equal(t, 0, done.Len())
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name     string
		expected model.JobSet
		done     model.JobSet
		ok       bool
		diff     []string
	}{
		{"missing expected job", model.NewJobSet("db1", "db2"), model.NewJobSet("db1"), false, []string{"db2"}},
		{"order insensitive", model.NewJobSet("db1", "db2"), model.NewJobSet("db2", "db1"), true, []string{}},
		{"duplicates collapse", model.NewJobSet("db1", "db1"), model.NewJobSet("db1"), true, []string{}},
		{"unexpected done job", model.NewJobSet("db1"), model.NewJobSet("db1", "dbX"), false, []string{"dbX"}},
		{"both empty", model.NewJobSet(), model.NewJobSet(), true, []string{}},
		{"empty expected", model.NewJobSet(), model.NewJobSet("db1"), false, []string{"db1"}},
		{"nil sets", nil, nil, true, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Compare(tt.expected, tt.done)
			assert.Equal(t, tt.ok, result.OK)
			assert.Equal(t, tt.diff, result.Diff.Sorted())
			assert.Equal(t, result.OK, result.Expected.Equal(result.Done))
		})
	}
}

func TestMismatchMessage(t *testing.T) {
	result := Compare(model.NewJobSet("db2", "db1"), model.NewJobSet("db1"))
	want := "something went wrong\n" +
		"expected_backups and done_backups do not match:\n" +
		"expected backups: [db1 db2]\n" +
		"done backups: [db1]\n" +
		"diff: [db2]\n"
	assert.Equal(t, want, MismatchMessage(result))
}

func TestErrorBody(t *testing.T) {
	assert.Equal(t, "", ErrorBody(nil))
}
