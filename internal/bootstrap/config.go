package bootstrap

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/target/backup-audit/config"
	apperrors "github.com/target/backup-audit/internal/errors"
)

// InitLogger initializes the JSON logger on stdout at the given level and installs it as default.
func InitLogger(level string) *slog.Logger {
	return initLogger(os.Stdout, level)
}

func initLogger(w io.Writer, level string) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	}))
	slog.SetDefault(logger)
	return logger
}

// ParseLevel maps DEBUG/INFO/WARN/WARNING/ERROR (any case) to a slog level. Unknown values are INFO.
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR", "CRITICAL":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LoadConfig loads configuration from an optional .env file and the environment.
// Any failure is returned as a config error.
func LoadConfig(envFiles ...string) (config.AppConfig, error) {
	// Load .env file if it exists (development)
	if err := godotenv.Load(envFiles...); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return config.AppConfig{}, apperrors.Wrap(err, apperrors.ErrCodeConfig, "load .env file")
		}
	}

	var cfg config.AppConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, apperrors.Wrap(err, apperrors.ErrCodeConfig, "parse config")
	}

	cfg.Sanitize()
	if err := cfg.Validate(); err != nil {
		return cfg, apperrors.Wrap(err, apperrors.ErrCodeConfig, "invalid configuration")
	}
	return cfg, nil
}

// LogConfig writes the effective configuration with secrets masked.
func LogConfig(logger *slog.Logger, cfg config.AppConfig) {
	r := cfg.Redacted()
	logger.Info("configuration loaded",
		"db_driver", string(r.Store.Driver),
		"db_host", r.Store.Host,
		"db_port", r.Store.Port,
		"db_user", r.Store.User,
		"db_password", r.Store.Password,
		"db_name", r.Store.Name,
		"db_table", r.Store.Table,
		"expected_backups_file", r.ExpectedBackupsFile,
		"timezone", r.Timezone,
		"notify_channel", string(r.Notifications.Channel),
		"notify_title", r.Notifications.Title,
		"metrics_enabled", r.Observability.Metrics.IsEnabled(),
	)
}

func describeStore(cfg config.DBConfig) string {
	if cfg.Driver == config.DriverSQLite {
		return fmt.Sprintf("sqlite:%s", cfg.Path)
	}
	return fmt.Sprintf("%s://%s@%s:%d/%s", cfg.Driver, cfg.User, cfg.Host, cfg.Port, cfg.Name)
}

func configError(err error, msg string) error {
	if apperrors.GetCode(err) != "" {
		return err
	}
	return apperrors.Wrap(err, apperrors.ErrCodeConfig, msg)
}
