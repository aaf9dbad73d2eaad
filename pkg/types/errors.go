// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// ConfigurationError reports invalid run configuration (bad flags, missing
// base folder, rejected API key). It is fatal: the run aborts before any
// document is processed.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// ExtractionError reports a PDF that could not be opened, parsed, or that
// yielded no extractable text. The document is skipped.
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting %s: %v", e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// AnalysisError reports a failed summarization call or an unparseable
// response. The document is skipped.
type AnalysisError struct {
	Err error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis failed: %v", e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// AuthError reports a rejected API key. Unlike AnalysisError it aborts the
// whole run when returned from the pre-run probe.
type AuthError struct {
	StatusCode int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("summarization API rejected credentials (HTTP %d)", e.StatusCode)
}

// WriteError reports a filesystem failure while persisting a rendered
// entry. The document is skipped.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
