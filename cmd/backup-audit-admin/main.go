// Command backup-audit-admin offers operator tooling around the backup auditor:
// inspecting configuration, expected jobs and today's records, dry-run checks, and
// sending a test notification.
package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/target/backup-audit/config"
	"github.com/target/backup-audit/internal/bootstrap"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
	Out    io.Writer
	Err    io.Writer
}

// errCheckFailed signals a failed audit to the shell without logging it as a command error.
var errCheckFailed = errors.New("backup check failed")

func main() {
	os.Exit(run(os.Args[1:])) //nolint:forbidigo // CLI must propagate command status to callers
}

func run(args []string) int {
	logger := bootstrap.InitLogger(os.Getenv("LOG_LEVEL"))

	if len(args) < 1 {
		if err := printUsage(os.Stdout); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		return 2
	}

	cmdName := args[0]
	cmd, ok := commands()[cmdName]
	if !ok {
		if err := writef(os.Stderr, "unknown command %q\n\n", cmdName); err != nil {
			logger.Error("print unknown command message failed", "error", err)
		}
		if err := printUsage(os.Stderr); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		return 2
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.Error("load config", "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmdCtx := &commandContext{
		Ctx:    ctx,
		Logger: bootstrap.InitLogger(cfg.LogLevel),
		Config: cfg,
		Out:    os.Stdout,
		Err:    os.Stderr,
	}
	if runErr := cmd.run(cmdCtx, args[1:]); runErr != nil {
		if !errors.Is(runErr, errCheckFailed) {
			cmdCtx.Logger.ErrorContext(ctx, "command failed", "command", cmdName, "error", runErr)
		}
		return 1
	}
	return 0
}

func commands() map[string]command {
	return map[string]command{
		"show-config": {
			name:        "show-config",
			description: "Print the effective configuration with secrets masked",
			run:         runShowConfig,
		},
		"list-expected": {
			name:        "list-expected",
			description: "Print the expected backup jobs, sorted",
			run:         runListExpected,
		},
		"list-records": {
			name:        "list-records",
			description: "Query the backup table and print the report for a day",
			run:         runListRecords,
		},
		"check": {
			name:        "check",
			description: "Run the audit without notifying; exits 1 on failure",
			run:         runCheck,
		},
		"send-test": {
			name:        "send-test",
			description: "Deliver a test notification through the configured channel",
			run:         runSendTest,
		},
	}
}

func printUsage(w io.Writer) error {
	if err := writef(w, "Usage: backup-audit-admin <command> [flags]\n\n"); err != nil {
		return err
	}
	if err := writef(w, "Available commands:\n"); err != nil {
		return err
	}
	cmds := commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := writef(w, "  %-16s %s\n", name, cmds[name].description); err != nil {
			return err
		}
	}
	return nil
}
