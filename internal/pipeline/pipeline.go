// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline discovers thesis PDFs and drives each one through
// extraction, analysis, and rendering. Processing is strictly sequential:
// one document completes before the next begins, and per-document failures
// never abort the run.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/ppetrou/thesis-publisher/internal/analyze"
	"github.com/ppetrou/thesis-publisher/internal/history"
	"github.com/ppetrou/thesis-publisher/internal/render"
	"github.com/ppetrou/thesis-publisher/pkg/types"
)

const (
	entryFile  = "index.md"
	reportFile = "report.yaml"
)

// Pipeline stage names used in failure records and the ledger.
const (
	StageExtract = "extract"
	StageAnalyze = "analyze"
	StageRender  = "render"
	StageWrite   = "write"
)

// Reader extracts a SourceDocument from a PDF on disk.
type Reader interface {
	Read(path, relPath string, cfg types.ReaderConfig) (*types.SourceDocument, error)
}

// ReaderFunc adapts a function to the Reader interface.
type ReaderFunc func(path, relPath string, cfg types.ReaderConfig) (*types.SourceDocument, error)

func (f ReaderFunc) Read(path, relPath string, cfg types.ReaderConfig) (*types.SourceDocument, error) {
	return f(path, relPath, cfg)
}

// Runner owns one processing run. All collaborators are injected so each
// stage can be replaced in tests.
type Runner struct {
	Cfg     types.PipelineConfig
	Reader  Reader
	Backend analyze.Backend

	// History is the optional run ledger; nil disables recording.
	History *history.Store

	// Out receives per-document status lines and the final summary.
	Out io.Writer

	// Now supplies the entry date. Defaults to time.Now.
	Now func() time.Time
}

// Discover returns all PDF paths under baseFolder in lexicographic order,
// skipping the output tree so already-published copies are not reprocessed.
func Discover(baseFolder, outDir string) ([]string, error) {
	var files []string

	absOut, _ := filepath.Abs(outDir)
	err := filepath.WalkDir(baseFolder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if abs, _ := filepath.Abs(path); abs == absOut {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(d.Name()), ".pdf") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", baseFolder, err)
	}

	sort.Strings(files)
	return files, nil
}

// Run processes the base folder and returns the run report. It returns a
// non-nil error only for failures that abort the whole run: an invalid base
// folder or a rejected API key from the pre-run probe. Per-document
// failures are recorded in the report instead.
func (r *Runner) Run(ctx context.Context) (*types.RunReport, error) {
	now := r.Now
	if now == nil {
		now = time.Now
	}
	out := r.Out
	if out == nil {
		out = io.Discard
	}

	files, err := Discover(r.Cfg.BaseFolder, r.Cfg.OutDir)
	if err != nil {
		return nil, err
	}

	report := &types.RunReport{
		StartedAt:  now().UTC(),
		BaseFolder: r.Cfg.BaseFolder,
		TestMode:   r.Cfg.TestMode,
		Discovered: len(files),
	}

	if len(files) == 0 {
		fmt.Fprintln(out, "No PDF files found in the base folder.")
		return report, nil
	}

	if r.Cfg.TestMode {
		fmt.Fprintln(out, "Running in TEST mode - will process only one PDF file.")
		files = files[:1]
	} else {
		fmt.Fprintf(out, "Running in FULL mode - will process all %d PDF files.\n", len(files))
	}

	// Validate credentials before touching any document.
	if p, ok := r.Backend.(analyze.Prober); ok {
		if err := p.Probe(ctx); err != nil {
			return nil, err
		}
	}

	var runID int64
	if r.History != nil {
		runID, err = r.History.BeginRun(ctx, r.Cfg, report.StartedAt)
		if err != nil {
			fmt.Fprintf(out, "warning: run ledger unavailable: %v\n", err)
			r.History = nil
		}
	}

	for _, path := range files {
		slug, failure := r.processOne(ctx, path, now)

		relPath, _ := filepath.Rel(r.Cfg.BaseFolder, path)
		if failure == nil {
			report.Succeeded++
			fmt.Fprintf(out, "processed: %s\n", relPath)
		} else {
			report.Failed++
			report.Failures = append(report.Failures, *failure)
			fmt.Fprintf(out, "failed:  %s (%s: %s)\n", relPath, failure.Stage, failure.Reason)
		}

		if r.History != nil {
			doc := history.Document{
				Path:        relPath,
				Slug:        slug,
				Status:      types.StatusWritten,
				ProcessedAt: now().UTC(),
			}
			if failure != nil {
				doc.Status = types.StatusFailed
				doc.Stage = failure.Stage
				doc.Reason = failure.Reason
			}
			if err := r.History.RecordDocument(ctx, runID, doc); err != nil {
				fmt.Fprintf(out, "warning: recording %s in ledger: %v\n", relPath, err)
			}
		}
	}

	if r.History != nil {
		if err := r.History.FinishRun(ctx, runID, report); err != nil {
			fmt.Fprintf(out, "warning: finishing ledger run: %v\n", err)
		}
	}

	if err := r.writeReport(report); err != nil {
		fmt.Fprintf(out, "warning: writing %s: %v\n", reportFile, err)
	}

	fmt.Fprintf(out, "\nRun summary: %d succeeded, %d failed (discovered: %d)\n",
		report.Succeeded, report.Failed, report.Discovered)
	for _, f := range report.Failures {
		fmt.Fprintf(out, "  %s: %s: %s\n", f.Path, f.Stage, f.Reason)
	}

	return report, nil
}

// processOne drives a single document through the per-file state machine:
// discovered → extracted → analyzed → rendered → written, or failed from
// any stage. It returns the entry slug (when known) and a failure record,
// nil on success.
func (r *Runner) processOne(ctx context.Context, path string, now func() time.Time) (string, *types.Failure) {
	relPath, err := filepath.Rel(r.Cfg.BaseFolder, path)
	if err != nil {
		relPath = path
	}

	fail := func(stage string, err error) (string, *types.Failure) {
		return "", &types.Failure{Path: relPath, Stage: stage, Reason: err.Error()}
	}

	doc, err := r.Reader.Read(path, relPath, r.Cfg.Reader)
	if err != nil {
		return fail(StageExtract, err)
	}

	result, err := analyze.AnalyzeDocument(ctx, r.Backend, doc, r.Cfg.Analysis)
	if err != nil {
		return fail(StageAnalyze, err)
	}

	date := now()
	slug := render.Slugify(result.Title)
	if slug == "" {
		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		slug = render.Slugify(base)
	}
	if slug == "" {
		slug = "thesis"
	}

	dirName := render.UniqueDir(r.Cfg.OutDir, fmt.Sprintf("%d_%s", date.Year(), slug))
	entry := types.ThesisEntry{
		AnalysisResult: result,
		SourceFile:     filepath.Base(path),
		SourceRelPath:  relPath,
		Slug:           slug,
		PDFName:        dirName + ".pdf",
		Date:           date,
	}

	content, err := render.Render(entry)
	if err != nil {
		return slug, &types.Failure{Path: relPath, Stage: StageRender, Reason: err.Error()}
	}

	if err := r.writeEntry(filepath.Join(r.Cfg.OutDir, dirName), path, entry.PDFName, content); err != nil {
		return slug, &types.Failure{Path: relPath, Stage: StageWrite, Reason: err.Error()}
	}

	return slug, nil
}

// writeEntry creates the entry directory, copies the source PDF into it,
// and writes index.md last so a failed document never leaves a partial
// entry behind. On failure the half-built directory is removed.
func (r *Runner) writeEntry(entryDir, pdfPath, pdfName, content string) error {
	if err := os.MkdirAll(entryDir, 0o755); err != nil {
		return &types.WriteError{Path: entryDir, Err: err}
	}

	cleanup := func(err error) error {
		os.RemoveAll(entryDir)
		return err
	}

	if err := copyFile(pdfPath, filepath.Join(entryDir, pdfName)); err != nil {
		return cleanup(&types.WriteError{Path: filepath.Join(entryDir, pdfName), Err: err})
	}

	indexPath := filepath.Join(entryDir, entryFile)
	if err := os.WriteFile(indexPath, []byte(content), 0o644); err != nil {
		return cleanup(&types.WriteError{Path: indexPath, Err: err})
	}

	return nil
}

// writeReport marshals the run report to OutDir/report.yaml.
func (r *Runner) writeReport(report *types.RunReport) error {
	if err := os.MkdirAll(r.Cfg.OutDir, 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(report)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(r.Cfg.OutDir, reportFile), data, 0o644)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
