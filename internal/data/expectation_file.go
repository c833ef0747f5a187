package data

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/target/backup-audit/internal/domain/model"
	apperrors "github.com/target/backup-audit/internal/errors"
)

// FileExpectationSource reads the declared list of expected backup jobs from a text file.
type FileExpectationSource struct {
	path   string
	logger *slog.Logger
}

// NewFileExpectationSource constructs a FileExpectationSource for path.
func NewFileExpectationSource(path string, logger *slog.Logger) (*FileExpectationSource, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrPathRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FileExpectationSource{path: path, logger: logger}, nil
}

// Path returns the file the source reads.
func (s *FileExpectationSource) Path() string {
	return s.path
}

// Load reads the file and returns its job names as a set.
func (s *FileExpectationSource) Load(ctx context.Context) (model.JobSet, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeRead, "read expected backups %s", s.path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			s.logger.WarnContext(ctx, "close expected backups file failed", "path", s.path, "error", cerr)
		}
	}()

	set, err := ParseExpectations(f)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeRead, "read expected backups %s", s.path)
	}
	s.logger.DebugContext(ctx, "loaded expected backups", "path", s.path, "count", set.Len())
	return set, nil
}

// ParseExpectations reads one job name per line. Surrounding whitespace is trimmed,
// blank lines are skipped and duplicates collapse.
func ParseExpectations(r io.Reader) (model.JobSet, error) {
	set := model.NewJobSet()
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		name := strings.TrimSpace(sc.Text())
		if name == "" {
			continue
		}
		set.Add(name)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan expectations: %w", err)
	}
	return set, nil
}
