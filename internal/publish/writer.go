package publish

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"VixPull/internal/domain/models"
	applogger "VixPull/pkg/logger"
)

const (
	reportFile  = "index.html"
	summaryFile = "summary.json"
	assetsDir   = "assets"
)

// Writer persists a rendered artifact under an output root. The bundle
// is staged in a temp directory on the same filesystem, then swapped
// into place file by file with the report last, so a reader following
// index.html never sees assets it references half-written. Any failure
// before the swap leaves the previously published bundle untouched.
type Writer struct {
	outputRoot string
	l          *applogger.Logger
}

// NewWriter creates a writer targeting outputRoot.
func NewWriter(outputRoot string, l *applogger.Logger) *Writer {
	return &Writer{outputRoot: outputRoot, l: l}
}

// Publish writes the artifact. On error the prior bundle is intact and
// the staging directory is removed.
func (w *Writer) Publish(artifact *models.ReportArtifact) error {
	if artifact == nil || len(artifact.Report) == 0 || len(artifact.Summary) == 0 {
		return models.WriteFailure(fmt.Errorf("artifact is incomplete"))
	}
	for name := range artifact.Assets {
		if name == "" || strings.Contains(name, "/") || strings.Contains(name, "\\") || name == "." || name == ".." {
			return models.WriteFailure(fmt.Errorf("asset name %q is not a plain file name", name))
		}
	}

	if err := os.MkdirAll(w.outputRoot, 0o755); err != nil {
		return models.WriteFailure(fmt.Errorf("create output root: %w", err))
	}

	stage, err := os.MkdirTemp(w.outputRoot, ".staging-*")
	if err != nil {
		return models.WriteFailure(fmt.Errorf("create staging dir: %w", err))
	}
	defer os.RemoveAll(stage)

	if err := w.stage(stage, artifact); err != nil {
		return err
	}
	if err := w.swap(stage, artifact); err != nil {
		return err
	}

	if w.l != nil {
		w.l.Info("artifact published",
			applogger.String("dir", w.outputRoot),
			applogger.Int("assets", len(artifact.Assets)),
		)
	}
	return nil
}

func (w *Writer) stage(stage string, artifact *models.ReportArtifact) error {
	if err := os.Mkdir(filepath.Join(stage, assetsDir), 0o755); err != nil {
		return models.WriteFailure(fmt.Errorf("stage assets dir: %w", err))
	}
	if err := os.WriteFile(filepath.Join(stage, reportFile), artifact.Report, 0o644); err != nil {
		return models.WriteFailure(fmt.Errorf("stage report: %w", err))
	}
	if err := os.WriteFile(filepath.Join(stage, summaryFile), artifact.Summary, 0o644); err != nil {
		return models.WriteFailure(fmt.Errorf("stage summary: %w", err))
	}
	for name, data := range artifact.Assets {
		if err := os.WriteFile(filepath.Join(stage, assetsDir, name), data, 0o644); err != nil {
			return models.WriteFailure(fmt.Errorf("stage asset %s: %w", name, err))
		}
	}
	return nil
}

// swap renames staged files into place. Assets and the summary go
// first, index.html last.
func (w *Writer) swap(stage string, artifact *models.ReportArtifact) error {
	final := filepath.Join(w.outputRoot, assetsDir)
	if err := os.MkdirAll(final, 0o755); err != nil {
		return models.WriteFailure(fmt.Errorf("create assets dir: %w", err))
	}
	for name := range artifact.Assets {
		src := filepath.Join(stage, assetsDir, name)
		dst := filepath.Join(final, name)
		if err := os.Rename(src, dst); err != nil {
			return models.WriteFailure(fmt.Errorf("publish asset %s: %w", name, err))
		}
	}
	if err := os.Rename(filepath.Join(stage, summaryFile), filepath.Join(w.outputRoot, summaryFile)); err != nil {
		return models.WriteFailure(fmt.Errorf("publish summary: %w", err))
	}
	if err := os.Rename(filepath.Join(stage, reportFile), filepath.Join(w.outputRoot, reportFile)); err != nil {
		return models.WriteFailure(fmt.Errorf("publish report: %w", err))
	}
	return nil
}
