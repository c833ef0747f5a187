// Package metrics emits the per-run audit metrics.
package metrics

import (
	"time"

	"github.com/target/backup-audit/internal/domain/model"
	apperrors "github.com/target/backup-audit/internal/errors"
	obserrors "github.com/target/backup-audit/internal/observability/errors"
	"github.com/target/backup-audit/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// RunMetric captures the outcome of one audit run.
type RunMetric struct {
	// Result is nil when the run failed before comparing.
	Result    *model.MatchResult
	Err       error
	Duration  time.Duration
	Delivered bool
}

// EmitRun emits the standard audit metrics for a finished run.
func EmitRun(sink statsd.Sink, in RunMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"result":    ResultFailure,
		"delivered": boolTag(in.Delivered),
	}

	switch {
	case in.Err != nil:
		tags["error_class"] = obserrors.Classify(in.Err)
	case in.Result != nil && in.Result.OK:
		tags["result"] = ResultSuccess
	case in.Result != nil:
		tags["error_class"] = string(apperrors.ErrCodeMismatch)
	}

	sink.Count("audit.run", 1, tags)

	if in.Result != nil {
		sink.Gauge("audit.expected", float64(in.Result.Expected.Len()), nil)
		sink.Gauge("audit.done", float64(in.Result.Done.Len()), nil)
		sink.Gauge("audit.diff", float64(in.Result.Diff.Len()), nil)
	}

	if in.Duration > 0 {
		sink.Timing("audit.duration", in.Duration, CloneTags(tags))
	}
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func boolTag(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
