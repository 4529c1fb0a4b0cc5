package batch

import (
	"context"
	"credit-report-engine/internal/infrastructure/monitoring"
	"credit-report-engine/internal/render"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// StaleReportSweepJob removes transient report files left behind by
// requests that never reached their cleanup, e.g. after a crash.
type StaleReportSweepJob struct {
	dir    string
	maxAge time.Duration
	now    func() time.Time
	logger *slog.Logger
}

type SweepOption func(*StaleReportSweepJob)

func WithSweepClock(now func() time.Time) SweepOption {
	return func(j *StaleReportSweepJob) {
		j.now = now
	}
}

func NewStaleReportSweepJob(dir string, maxAge time.Duration, logger *slog.Logger, opts ...SweepOption) *StaleReportSweepJob {
	if dir == "" || maxAge <= 0 || logger == nil {
		panic("StaleReportSweepJob requires a directory, a positive max age and a logger")
	}
	j := &StaleReportSweepJob{
		dir:    dir,
		maxAge: maxAge,
		now:    time.Now,
		logger: logger.With("job", "StaleReportSweep"),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

func (j *StaleReportSweepJob) Run(ctx context.Context) (int, error) {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting stale report sweep.", slog.String("dir", j.dir))

	entries, err := os.ReadDir(j.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			j.logger.InfoContext(ctx, "Report directory does not exist yet, nothing to sweep.")
			return 0, nil
		}
		j.logger.ErrorContext(ctx, "Failed to list report directory, aborting job.", slog.Any("error", err))
		return 0, fmt.Errorf("cannot run job, failed to list %s: %w", j.dir, err)
	}

	cutoff := j.now().Add(-j.maxAge)
	var removed, errorCount int
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			monitoring.RecordSweptFiles(removed)
			j.logger.WarnContext(ctx, "Stale report sweep interrupted.", slog.Int("removed", removed))
			return removed, err
		}
		if entry.IsDir() || !isReportFile(entry.Name()) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				j.logger.WarnContext(ctx, "Failed to stat report file", slog.String("file", entry.Name()), slog.Any("error", err))
				errorCount++
			}
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}

		path := filepath.Join(j.dir, entry.Name())
		if err := os.Remove(path); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				j.logger.ErrorContext(ctx, "Failed to remove stale report file", slog.String("file", path), slog.Any("error", err))
				errorCount++
			}
			continue
		}
		j.logger.DebugContext(ctx, "Removed stale report file.", slog.String("file", path), slog.Time("modified", info.ModTime()))
		removed++
	}

	monitoring.RecordSweptFiles(removed)
	summaryLog := j.logger.With(
		slog.Duration("duration", time.Since(startTime)),
		slog.Int("files_scanned", len(entries)),
		slog.Int("files_removed", removed),
		slog.Int("errors_encountered", errorCount),
	)
	if errorCount > 0 {
		summaryLog.WarnContext(ctx, "Stale report sweep finished with errors.")
		return removed, fmt.Errorf("job completed with %d errors", errorCount)
	}
	summaryLog.InfoContext(ctx, "Stale report sweep finished successfully.")
	return removed, nil
}

// isReportFile matches finished report files and the hidden temp files
// the renderers write before renaming them into place.
func isReportFile(name string) bool {
	if strings.HasPrefix(name, render.FilePrefix) {
		return true
	}
	return strings.HasPrefix(name, "."+render.FilePrefix) && strings.HasSuffix(name, ".tmp")
}
