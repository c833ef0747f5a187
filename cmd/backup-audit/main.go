// Command backup-audit checks that every expected backup job completed today and
// reports the verdict through the configured notification channel.
//
// It takes no arguments and exits 0 when all expected backups succeeded, 1 otherwise.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/target/backup-audit/internal/bootstrap"
	"github.com/target/backup-audit/internal/service/audit"
)

func main() {
	os.Exit(run()) //nolint:forbidigo // exit status is the audit verdict
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := bootstrap.InitLogger(os.Getenv("LOG_LEVEL"))

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.ErrorContext(ctx, "load config", "error", err)
		return audit.ExitFailure
	}
	// .env may have changed LOG_LEVEL.
	logger = bootstrap.InitLogger(cfg.LogLevel)
	bootstrap.LogConfig(logger, cfg)

	auditor, err := bootstrap.BuildAuditor(bootstrap.AuditorOptions{
		Config: cfg,
		Logger: logger,
	})
	if err != nil {
		logger.ErrorContext(ctx, "build auditor", "error", err)
		return audit.ExitFailure
	}
	defer func() {
		if cerr := auditor.Close(); cerr != nil {
			logger.WarnContext(ctx, "flush metrics failed", "error", cerr)
		}
	}()

	out := auditor.Run(ctx)
	auditor.Logger.InfoContext(ctx, "done, exiting", "exit_code", out.ExitCode)
	return out.ExitCode
}
