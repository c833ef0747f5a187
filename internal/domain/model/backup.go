// Package model defines the core data types shared by the backup auditor.
package model

// StatusSuccess is the status literal recorded for a completed backup job.
const StatusSuccess = "success"

// Run verdict messages. Channels and operators match on these literals.
const (
	MessageSuccess = "everything is a-ok"
	MessageFailure = "something went wrong"
)

// BackupRecord is one row of the backup table: a single job attempt on a given day.
type BackupRecord struct {
	// Date is the calendar day of the attempt formatted as YYYY-MM-DD.
	Date string
	// JobName identifies the backup job.
	JobName string
	// Status is the recorded outcome; anything other than the success literal is a failure.
	Status string
	// Values holds every column of the row as text, in store column order.
	Values []string
}

// Succeeded reports whether the record's status is the default success literal.
func (r BackupRecord) Succeeded() bool {
	return r.SucceededWith(StatusSuccess)
}

// SucceededWith reports whether the record's status matches the given success literal.
func (r BackupRecord) SucceededWith(success string) bool {
	return r.Status == success
}

// RecordSet is the ordered result of a single query for today's records.
type RecordSet struct {
	Columns []string
	Records []BackupRecord
}

// Len returns the number of records.
func (s RecordSet) Len() int {
	return len(s.Records)
}

// MatchResult is the verdict of comparing the expected and done job sets.
type MatchResult struct {
	OK       bool
	Expected JobSet
	Done     JobSet
	// Diff is the symmetric difference of Expected and Done.
	Diff JobSet
}

// NotificationIntent is the single message a run hands to the notifier.
type NotificationIntent struct {
	Title   string
	Message string
	Body    string
}

// Success reports whether the intent announces a passing run.
func (n NotificationIntent) Success() bool {
	return n.Message == MessageSuccess
}
