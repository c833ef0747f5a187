package audit

import "github.com/target/backup-audit/internal/domain/model"

// DeriveDone returns the distinct job names with at least one record whose status equals
// success. An empty success literal falls back to model.StatusSuccess.
func DeriveDone(records []model.BackupRecord, success string) model.JobSet {
	if success == "" {
		success = model.StatusSuccess
	}
	done := model.NewJobSet()
	for _, r := range records {
		if r.SucceededWith(success) {
			done.Add(r.JobName)
		}
	}
	return done
}

// Compare reports whether expected and done hold the same names. It never fails.
func Compare(expected, done model.JobSet) model.MatchResult {
	if expected == nil {
		expected = model.NewJobSet()
	}
	if done == nil {
		done = model.NewJobSet()
	}
	diff := expected.SymmetricDifference(done)
	return model.MatchResult{
		OK:       diff.Len() == 0,
		Expected: expected,
		Done:     done,
		Diff:     diff,
	}
}
