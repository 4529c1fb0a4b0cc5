package render

import (
	"context"
	"credit-report-engine/internal/domain/report"
	"credit-report-engine/internal/infrastructure/monitoring"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FilePrefix starts the name of every transient report file.
const FilePrefix = "credit-report-"

const fileTimestampLayout = "20060102T150405Z"

// Exporter renders reports into uniquely named transient files under a
// working directory and removes each file once its consumer returns.
type Exporter struct {
	dir    string
	logger *slog.Logger
}

func NewExporter(dir string, logger *slog.Logger) *Exporter {
	return &Exporter{dir: dir, logger: logger.With("component", "ReportExporter")}
}

func (e *Exporter) Dir() string {
	return e.dir
}

// Export renders rep with r and hands the written path to use. The file is
// deleted on every exit path, including when use fails partway through.
func (e *Exporter) Export(ctx context.Context, r Renderer, rep *report.CreditReport, use func(path string) error) error {
	if err := checkRenderable(ctx, rep); err != nil {
		return err
	}

	start := time.Now()
	path, err := r.Render(ctx, rep, filepath.Join(e.dir, FileName(rep, r.Format())))
	monitoring.RecordRender(string(r.Format()), time.Since(start))
	if err != nil {
		return err
	}
	defer e.remove(ctx, path)

	return use(path)
}

func (e *Exporter) remove(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		e.logger.WarnContext(ctx, "Failed to remove transient report file", "path", path, "error", err)
	}
}

// FileName builds a collision free name embedding the borrower id and generation time.
func FileName(rep *report.CreditReport, f Format) string {
	return FilePrefix + sanitize(rep.Borrower.ID) + "-" +
		rep.GeneratedAt.UTC().Format(fileTimestampLayout) + "-" +
		uuid.NewString() + f.Extension()
}

func sanitize(id string) string {
	id = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, id)
	if id == "" {
		return "unknown"
	}
	return id
}
