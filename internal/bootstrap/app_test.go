package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/backup-audit/config"
	"github.com/target/backup-audit/internal/data"
	apperrors "github.com/target/backup-audit/internal/errors"
	"github.com/target/backup-audit/internal/service/audit"
	"github.com/target/backup-audit/internal/testutil"
)

type slackCapture struct {
	mu     sync.Mutex
	bodies []string
	status int
}

func (c *slackCapture) handler(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	c.mu.Lock()
	c.bodies = append(c.bodies, string(raw))
	status := c.status
	c.mu.Unlock()
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
}

func auditorConfig(t *testing.T, dbPath, webhook string, expected ...string) config.AppConfig {
	t.Helper()
	expectedFile := filepath.Join(t.TempDir(), "expected-backups")
	require.NoError(t, os.WriteFile(expectedFile, []byte(strings.Join(expected, "\n")+"\n"), 0o600))

	cfg := config.AppConfig{
		LogLevel:            "INFO",
		ExpectedBackupsFile: expectedFile,
		Timezone:            "UTC",
		Store: config.DBConfig{
			Driver: config.DriverSQLite,
			Path:   dbPath,
			Table:  "backups",
		},
		Notifications: config.NotificationsConfig{
			Channel: config.ChannelSlack,
			Title:   "nightly",
			Timeout: time.Second,
			Slack:   config.SlackConfig{WebhookURL: webhook},
		},
	}
	cfg.Sanitize()
	require.NoError(t, cfg.Validate())
	return cfg
}

func buildTestAuditor(t *testing.T, cfg config.AppConfig, hc *http.Client) *Auditor {
	t.Helper()
	a, err := BuildAuditor(AuditorOptions{
		Config:     cfg,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		RunID:      "run-1",
		Clock:      data.NewFixedTimeProvider(testutil.TestTime()),
		HTTPClient: hc,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestAuditorEndToEndSuccess(t *testing.T) {
	capture := &slackCapture{}
	srv := httptest.NewServer(http.HandlerFunc(capture.handler))
	defer srv.Close()

	dbPath := testutil.NewSQLiteBackupsDB(t, "backups", []testutil.BackupRow{
		testutil.NewBackupRow("db1").Build(),
		testutil.NewBackupRow("db2").WithStatus("failed").Build(),
		testutil.NewBackupRow("db2").Build(),
		testutil.NewBackupRow("db3").WithDate("2026-10-14").Build(),
	})

	a := buildTestAuditor(t, auditorConfig(t, dbPath, srv.URL, "db1", "db2"), srv.Client())
	out := a.Run(context.Background())

	assert.Equal(t, audit.ExitSuccess, out.ExitCode)
	require.NoError(t, out.NotifyErr)
	require.Len(t, capture.bodies, 1)
	assert.Contains(t, capture.bodies[0], "everything is a-ok")
	assert.Contains(t, capture.bodies[0], "run-1")
	assert.NotContains(t, out.Report, "db3")
}

func TestAuditorEndToEndMismatch(t *testing.T) {
	capture := &slackCapture{}
	srv := httptest.NewServer(http.HandlerFunc(capture.handler))
	defer srv.Close()

	dbPath := testutil.NewSQLiteBackupsDB(t, "backups", []testutil.BackupRow{
		testutil.NewBackupRow("db1").Build(),
	})

	a := buildTestAuditor(t, auditorConfig(t, dbPath, srv.URL, "db1", "db2"), srv.Client())
	out := a.Run(context.Background())

	assert.Equal(t, audit.ExitFailure, out.ExitCode)
	require.Len(t, capture.bodies, 1)
	assert.Contains(t, capture.bodies[0], "diff: [db2]")
}

func TestAuditorStoreUnavailable(t *testing.T) {
	capture := &slackCapture{}
	srv := httptest.NewServer(http.HandlerFunc(capture.handler))
	defer srv.Close()

	missing := filepath.Join(t.TempDir(), "gone", "backups.db")
	a := buildTestAuditor(t, auditorConfig(t, missing, srv.URL, "db1"), srv.Client())
	out := a.Run(context.Background())

	assert.Equal(t, audit.ExitFailure, out.ExitCode)
	assert.True(t, apperrors.IsConnection(out.Err))
	require.Len(t, capture.bodies, 1)
	assert.Contains(t, capture.bodies[0], "something went wrong")
}

func TestAuditorDeliveryFailureKeepsExitCode(t *testing.T) {
	capture := &slackCapture{status: http.StatusInternalServerError}
	srv := httptest.NewServer(http.HandlerFunc(capture.handler))
	defer srv.Close()

	dbPath := testutil.NewSQLiteBackupsDB(t, "backups", []testutil.BackupRow{
		testutil.NewBackupRow("db1").Build(),
	})

	a := buildTestAuditor(t, auditorConfig(t, dbPath, srv.URL, "db1"), srv.Client())
	out := a.Run(context.Background())

	assert.Equal(t, audit.ExitSuccess, out.ExitCode)
	assert.True(t, apperrors.IsDelivery(out.NotifyErr))
	assert.Len(t, capture.bodies, 1, "delivery is not retried by default")
}

func TestBuildAuditorRejectsBadTimezone(t *testing.T) {
	cfg := auditorConfig(t, "/tmp/x.db", "https://hooks.slack.com/services/x", "db1")
	cfg.Timezone = "Mars/Olympus"

	_, err := BuildAuditor(AuditorOptions{Config: cfg})
	require.Error(t, err)
	assert.True(t, apperrors.IsConfig(err))
}

func TestBuildAuditorSkipNotifier(t *testing.T) {
	cfg := auditorConfig(t, "/tmp/x.db", "https://hooks.slack.com/services/x", "db1")

	a, err := BuildAuditor(AuditorOptions{Config: cfg, SkipNotifier: true})
	require.NoError(t, err)
	assert.Nil(t, a.Notifier)
	assert.NotEmpty(t, a.RunID)
	require.NoError(t, a.Close())
}
