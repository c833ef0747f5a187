package audit

import (
	"strings"

	"github.com/target/backup-audit/internal/domain/model"
)

// MismatchMessage enumerates the expected, done and differing jobs, each list sorted.
func MismatchMessage(result model.MatchResult) string {
	var b strings.Builder
	b.WriteString(model.MessageFailure)
	b.WriteString("\nexpected_backups and done_backups do not match:\n")
	b.WriteString("expected backups: ")
	b.WriteString(result.Expected.String())
	b.WriteString("\ndone backups: ")
	b.WriteString(result.Done.String())
	b.WriteString("\ndiff: ")
	b.WriteString(result.Diff.String())
	b.WriteByte('\n')
	return b.String()
}

// ErrorBody is the notification body for a run that failed before comparing.
func ErrorBody(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
