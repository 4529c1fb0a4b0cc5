package batch_test

import (
	"context"
	"credit-report-engine/internal/batch"
	"credit-report-engine/internal/infrastructure/monitoring"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	now    = time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
)

func writeFile(t *testing.T, dir, name string, modTime time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	require.NoError(t, os.Chtimes(path, modTime, modTime))
	return path
}

func TestStaleReportSweepJob_Run(t *testing.T) {
	t.Run("Removes only stale report files", func(t *testing.T) {
		dir := t.TempDir()
		old := now.Add(-2 * time.Hour)
		fresh := now.Add(-10 * time.Minute)

		staleCSV := writeFile(t, dir, "credit-report-b1-20240630T100000Z-a.csv", old)
		stalePDF := writeFile(t, dir, "credit-report-b2-20240630T100000Z-b.pdf", old)
		staleTmp := writeFile(t, dir, ".credit-report-b3-20240630T100000Z-c.pdf.123.tmp", old)
		freshPDF := writeFile(t, dir, "credit-report-b4-20240630T115000Z-d.pdf", fresh)
		unrelated := writeFile(t, dir, "notes.txt", old)
		require.NoError(t, os.Mkdir(filepath.Join(dir, "credit-report-dir"), 0o755))

		before := testutil.ToFloat64(monitoring.Report.SweptFiles)
		job := batch.NewStaleReportSweepJob(dir, time.Hour, logger, batch.WithSweepClock(func() time.Time { return now }))

		removed, err := job.Run(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 3, removed)
		assert.NoFileExists(t, staleCSV)
		assert.NoFileExists(t, stalePDF)
		assert.NoFileExists(t, staleTmp)
		assert.FileExists(t, freshPDF)
		assert.FileExists(t, unrelated)
		assert.DirExists(t, filepath.Join(dir, "credit-report-dir"))
		assert.Equal(t, before+3, testutil.ToFloat64(monitoring.Report.SweptFiles))
	})

	t.Run("Missing directory is not an error", func(t *testing.T) {
		job := batch.NewStaleReportSweepJob(filepath.Join(t.TempDir(), "absent"), time.Hour, logger)

		removed, err := job.Run(context.Background())

		require.NoError(t, err)
		assert.Zero(t, removed)
	})

	t.Run("Cancelled context stops the sweep", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "credit-report-b1-20240630T100000Z-a.csv", now.Add(-2*time.Hour))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		job := batch.NewStaleReportSweepJob(dir, time.Hour, logger, batch.WithSweepClock(func() time.Time { return now }))
		removed, err := job.Run(ctx)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, removed)
		assert.FileExists(t, path)
	})
}

func TestNewStaleReportSweepJob_PanicsOnInvalidDependencies(t *testing.T) {
	assert.Panics(t, func() { batch.NewStaleReportSweepJob("", time.Hour, logger) })
	assert.Panics(t, func() { batch.NewStaleReportSweepJob(t.TempDir(), 0, logger) })
	assert.Panics(t, func() { batch.NewStaleReportSweepJob(t.TempDir(), time.Hour, nil) })
}
