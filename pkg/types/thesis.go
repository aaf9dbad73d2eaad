// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// DocumentStatus tracks a document through the processing pipeline. A
// document moves discovered → extracted → analyzed → rendered → written,
// or to failed from any state. written and failed are terminal.
type DocumentStatus string

const (
	StatusDiscovered DocumentStatus = "discovered"
	StatusExtracted  DocumentStatus = "extracted"
	StatusAnalyzed   DocumentStatus = "analyzed"
	StatusRendered   DocumentStatus = "rendered"
	StatusWritten    DocumentStatus = "written"
	StatusFailed     DocumentStatus = "failed"
)

// SourceDocument is one PDF discovered under the base folder, together
// with its extracted content. It is created per file, consumed once, and
// discarded after rendering.
type SourceDocument struct {
	// Path is the absolute path to the PDF.
	Path string `json:"path" yaml:"path"`

	// RelPath is the path relative to the base folder.
	RelPath string `json:"rel_path" yaml:"rel_path"`

	// Text is the extracted text, first pages concatenated in order.
	Text string `json:"-" yaml:"-"`

	// Metadata holds fields from the PDF Info dictionary when present
	// (Title, Author, Subject, Creator).
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// AnalysisResult is the parsed output of the summarization API for one
// document. After normalization all fields are non-empty.
type AnalysisResult struct {
	Title    string   `json:"title" yaml:"title"`
	Author   string   `json:"author" yaml:"author"`
	Summary  string   `json:"summary" yaml:"summary"`
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// ThesisEntry is the rendering-ready combination of an AnalysisResult and
// the source document's identity. Written once, never mutated.
type ThesisEntry struct {
	AnalysisResult `yaml:",inline"`

	// SourceFile is the original PDF filename.
	SourceFile string `json:"source_file" yaml:"source_file"`

	// SourceRelPath is the PDF path relative to the base folder.
	SourceRelPath string `json:"source_rel_path" yaml:"source_rel_path"`

	// Slug is the filesystem-safe entry name derived from the title.
	Slug string `json:"slug" yaml:"slug"`

	// PDFName is the renamed PDF placed inside the entry directory.
	PDFName string `json:"pdf_name" yaml:"pdf_name"`

	// Date is the entry date stamped into the front matter.
	Date time.Time `json:"date" yaml:"date"`
}

// Failure records one document that could not be processed.
type Failure struct {
	// Path is the source PDF path relative to the base folder.
	Path string `json:"path" yaml:"path"`

	// Stage names the pipeline stage that failed (extract, analyze,
	// render, write).
	Stage string `json:"stage" yaml:"stage"`

	// Reason is the error message.
	Reason string `json:"reason" yaml:"reason"`
}

// RunReport aggregates per-document outcomes for one run. The orchestrator
// builds it incrementally and emits it at the end of the run.
type RunReport struct {
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	BaseFolder string    `json:"base_folder" yaml:"base_folder"`
	TestMode   bool      `json:"test_mode" yaml:"test_mode"`

	Discovered int       `json:"discovered" yaml:"discovered"`
	Succeeded  int       `json:"succeeded" yaml:"succeeded"`
	Failed     int       `json:"failed" yaml:"failed"`
	Failures   []Failure `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// Total returns the number of documents processed.
func (r RunReport) Total() int {
	return r.Succeeded + r.Failed
}

// HasFailures reports whether any documents failed.
func (r RunReport) HasFailures() bool {
	return r.Failed > 0
}
