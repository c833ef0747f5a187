package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewJobSet_CollapsesDuplicates(t *testing.T) {
	s := NewJobSet("db1", "db1", "db2")
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains("db1"))
	assert.False(t, s.Contains("db3"))
}

func TestJobSet_Equal(t *testing.T) {
	tests := []struct {
		name string
		a, b JobSet
		want bool
	}{
		{name: "both empty", a: NewJobSet(), b: NewJobSet(), want: true},
		{name: "nil and empty", a: nil, b: NewJobSet(), want: true},
		{name: "same members different order", a: NewJobSet("db1", "db2"), b: NewJobSet("db2", "db1"), want: true},
		{name: "missing member", a: NewJobSet("db1", "db2"), b: NewJobSet("db1"), want: false},
		{name: "same size different members", a: NewJobSet("db1"), b: NewJobSet("dbX"), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Equal(tt.b))
			assert.Equal(t, tt.want, tt.b.Equal(tt.a))
		})
	}
}

func TestJobSet_SymmetricDifference(t *testing.T) {
	a := NewJobSet("db1", "db2")
	b := NewJobSet("db1", "dbX")

	assert.Equal(t, []string{"db2", "dbX"}, a.SymmetricDifference(b).Sorted())
	assert.Equal(t, []string{"db2", "dbX"}, b.SymmetricDifference(a).Sorted())
	assert.Equal(t, 0, a.SymmetricDifference(a).Len())
}

func TestJobSet_String(t *testing.T) {
	assert.Equal(t, "[db1 db2]", NewJobSet("db2", "db1").String())
	assert.Equal(t, "[]", NewJobSet().String())
}

func TestBackupRecord_Succeeded(t *testing.T) {
	assert.True(t, BackupRecord{Status: "success"}.Succeeded())
	assert.False(t, BackupRecord{Status: "failed"}.Succeeded())
	assert.False(t, BackupRecord{Status: "Success"}.Succeeded())
	assert.True(t, BackupRecord{Status: "ok"}.SucceededWith("ok"))
}

func TestNotificationIntent_Success(t *testing.T) {
	assert.True(t, NotificationIntent{Message: MessageSuccess}.Success())
	assert.False(t, NotificationIntent{Message: MessageFailure}.Success())
	assert.False(t, NotificationIntent{}.Success())
}
