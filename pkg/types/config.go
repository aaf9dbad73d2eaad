package types

import "time"

// HTTPConfig holds shared HTTP settings for stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "thesis-publisher/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ReaderConfig holds settings for PDF text extraction.
type ReaderConfig struct {
	// MaxPages bounds how many pages are read from each PDF (default 5).
	// The opening pages carry the title page and abstract, which is all
	// the analyzer needs.
	MaxPages int `json:"max_pages" yaml:"max_pages"`
}

// AnalysisConfig holds settings for the content analysis stage.
type AnalysisConfig struct {
	HTTPConfig `yaml:",inline"`

	// Model is the summarization model identifier (e.g. "sonar-pro").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the summarization API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts on rate-limited API
	// calls. Default 0: one request per document.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// MaxInputBytes bounds the extracted text embedded in the prompt
	// (default 160000).
	MaxInputBytes int `json:"max_input_bytes" yaml:"max_input_bytes"`
}

// PipelineConfig groups all settings for a processing run.
type PipelineConfig struct {
	// BaseFolder is the directory searched recursively for PDF files.
	BaseFolder string `json:"base_folder" yaml:"base_folder"`

	// OutDir is the root directory for rendered entries (default
	// BaseFolder/out).
	OutDir string `json:"out_dir" yaml:"out_dir"`

	// TestMode restricts the run to the first discovered PDF.
	TestMode bool `json:"test_mode" yaml:"test_mode"`

	// HistoryDB is the path to the SQLite run ledger. Empty disables
	// recording.
	HistoryDB string `json:"history_db,omitempty" yaml:"history_db,omitempty"`

	Reader   ReaderConfig   `json:"reader" yaml:"reader"`
	Analysis AnalysisConfig `json:"analysis" yaml:"analysis"`
}
