package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/target/backup-audit/internal/bootstrap"
	"github.com/target/backup-audit/internal/data"
	"github.com/target/backup-audit/internal/domain/model"
	"github.com/target/backup-audit/internal/service/audit"
)

type dayOptions struct {
	Date string
	JSON bool
}

func parseDayOptions(ctx *commandContext, name string, args []string) (dayOptions, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(ctx.Err)

	var opts dayOptions
	fs.StringVar(&opts.Date, "date", "", "Audit this day (YYYY-MM-DD) instead of today")
	fs.BoolVar(&opts.JSON, "json", false, "Print machine-readable JSON")

	if err := fs.Parse(args); err != nil {
		return dayOptions{}, err
	}
	opts.Date = strings.TrimSpace(opts.Date)
	return opts, nil
}

// clockFor pins the store's clock to noon of day in the audit timezone. Empty day means today.
func clockFor(ctx *commandContext, day string) (data.TimeProvider, error) {
	if day == "" {
		return nil, nil //nolint:nilnil // nil selects the real clock
	}
	loc, err := ctx.Config.Location()
	if err != nil {
		return nil, err
	}
	t, err := time.ParseInLocation(data.DateLayout, day, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid --date %q: %w", day, err)
	}
	return data.NewFixedTimeProvider(t.Add(12 * time.Hour)), nil
}

func buildDryRunAuditor(ctx *commandContext, day string) (*bootstrap.Auditor, error) {
	clock, err := clockFor(ctx, day)
	if err != nil {
		return nil, err
	}
	return bootstrap.BuildAuditor(bootstrap.AuditorOptions{
		Config:       ctx.Config,
		Logger:       ctx.Logger,
		Clock:        clock,
		SkipNotifier: true,
	})
}

func runShowConfig(ctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("show-config", flag.ContinueOnError)
	fs.SetOutput(ctx.Err)
	asJSON := fs.Bool("json", false, "Print machine-readable JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := ctx.Config.Redacted()
	if *asJSON {
		return writeJSON(ctx.Out, cfg)
	}

	w := tabwriter.NewWriter(ctx.Out, 0, 4, 2, ' ', 0)
	rows := [][2]string{
		{"LOG_LEVEL", cfg.LogLevel},
		{"EXPECTED_BACKUPS_FILE", cfg.ExpectedBackupsFile},
		{"AUDIT_TIMEZONE", cfg.Timezone},
		{"DB_DRIVER", string(cfg.Store.Driver)},
		{"DB_HOST", cfg.Store.Host},
		{"DB_PORT", fmt.Sprint(cfg.Store.Port)},
		{"DB_USERNAME", cfg.Store.User},
		{"DB_PASSWORD", cfg.Store.Password},
		{"DB_NAME", cfg.Store.Name},
		{"DB_PATH", cfg.Store.Path},
		{"DB_TABLE", cfg.Store.Table},
		{"DB_DATE_COLUMN", cfg.Store.DateColumn},
		{"DB_JOB_COLUMN", cfg.Store.JobColumn},
		{"DB_STATUS_COLUMN", cfg.Store.StatusColumn},
		{"DB_SUCCESS_STATUS", cfg.Store.SuccessStatus},
		{"NOTIFY_CHANNEL", string(cfg.Notifications.Channel)},
		{"NOTIFY_TITLE", cfg.Notifications.Title},
		{"NOTIFY_RETRY_LIMIT", fmt.Sprint(cfg.Notifications.RetryLimit)},
		{"OBSERVABILITY_METRICS_ENABLED", fmt.Sprint(cfg.Observability.Metrics.IsEnabled())},
	}
	if err := writeln(w, "Setting\tValue"); err != nil {
		return fmt.Errorf("write config header: %w", err)
	}
	for _, row := range rows {
		if err := writef(w, "%s\t%s\n", row[0], row[1]); err != nil {
			return fmt.Errorf("write config row %s: %w", row[0], err)
		}
	}
	return w.Flush()
}

func runListExpected(ctx *commandContext, _ []string) error {
	src, err := data.NewFileExpectationSource(ctx.Config.ExpectedBackupsFile, ctx.Logger)
	if err != nil {
		return err
	}
	expected, err := src.Load(ctx.Ctx)
	if err != nil {
		return err
	}
	for _, name := range expected.Sorted() {
		if err := writeln(ctx.Out, name); err != nil {
			return err
		}
	}
	return nil
}

func runListRecords(ctx *commandContext, args []string) error {
	opts, err := parseDayOptions(ctx, "list-records", args)
	if err != nil {
		return err
	}
	a, err := buildDryRunAuditor(ctx, opts.Date)
	if err != nil {
		return err
	}
	defer a.Close()

	set, err := a.Store.QueryToday(ctx.Ctx)
	if err != nil {
		return err
	}
	if opts.JSON {
		return writeJSON(ctx.Out, recordsJSON(set))
	}
	return writeln(ctx.Out, audit.Render(set.Columns, set.Records))
}

func runCheck(ctx *commandContext, args []string) error {
	opts, err := parseDayOptions(ctx, "check", args)
	if err != nil {
		return err
	}
	a, err := buildDryRunAuditor(ctx, opts.Date)
	if err != nil {
		return err
	}
	defer a.Close()

	out := a.Pipeline.Check(ctx.Ctx)
	if opts.JSON {
		if err := writeJSON(ctx.Out, checkJSON(out)); err != nil {
			return err
		}
	} else if err := writef(ctx.Out, "%s\n%s\n", strings.TrimRight(out.Intent.Message, "\n"), out.Intent.Body); err != nil {
		return err
	}

	if out.ExitCode != audit.ExitSuccess {
		return errCheckFailed
	}
	return nil
}

func runSendTest(ctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("send-test", flag.ContinueOnError)
	fs.SetOutput(ctx.Err)
	message := fs.String("message", "backup-audit test notification", "Message text to send")
	if err := fs.Parse(args); err != nil {
		return err
	}

	svc, err := bootstrap.BuildNotifier(bootstrap.NotifierOptions{
		Config: ctx.Config.Notifications,
		Logger: ctx.Logger,
		RunID:  "send-test",
	})
	if err != nil {
		return err
	}

	intent := model.NotificationIntent{
		Title:   ctx.Config.Notifications.Title,
		Message: *message,
		Body:    "sent by backup-audit-admin send-test",
	}
	if err := svc.Send(ctx.Ctx, intent); err != nil {
		return err
	}
	return writef(ctx.Out, "test notification delivered via %s\n", svc.SinkName())
}

type recordsOutput struct {
	Columns []string            `json:"columns"`
	Rows    []map[string]string `json:"rows"`
}

func recordsJSON(set model.RecordSet) recordsOutput {
	out := recordsOutput{Columns: set.Columns, Rows: make([]map[string]string, 0, set.Len())}
	for _, r := range set.Records {
		row := make(map[string]string, len(set.Columns))
		for i, c := range set.Columns {
			if i < len(r.Values) {
				row[c] = r.Values[i]
			}
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

type checkOutput struct {
	OK       bool     `json:"ok"`
	ExitCode int      `json:"exit_code"`
	Expected []string `json:"expected,omitempty"`
	Done     []string `json:"done,omitempty"`
	Diff     []string `json:"diff,omitempty"`
	Error    string   `json:"error,omitempty"`
}

func checkJSON(out audit.Outcome) checkOutput {
	res := checkOutput{OK: out.Success, ExitCode: out.ExitCode}
	if out.Result != nil {
		res.Expected = out.Result.Expected.Sorted()
		res.Done = out.Result.Done.Sorted()
		res.Diff = out.Result.Diff.Sorted()
	}
	if out.Err != nil {
		res.Error = out.Err.Error()
	}
	return res
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func writeln(w io.Writer, args ...any) error {
	_, err := fmt.Fprintln(w, args...)
	return err
}
