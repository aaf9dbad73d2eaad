// Package analyze sends extracted thesis text to a summarization service
// and parses the response into a typed record.
package analyze

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/ppetrou/thesis-publisher/pkg/types"
)

// defaultMaxInputBytes bounds the text embedded in the prompt, matching the
// service's input limits.
const defaultMaxInputBytes = 160000

// Request carries one document's content to the backend.
type Request struct {
	// Text is the extracted PDF text, already truncated.
	Text string

	// Metadata holds PDF Info dictionary fields (Title, Author, Subject,
	// Creator) when present.
	Metadata map[string]string
}

// Backend abstracts the summarization API so tests can supply a mock.
// One synchronous call per document; the backend owns the retry policy.
type Backend interface {
	Analyze(ctx context.Context, req Request) (types.AnalysisResult, error)
}

// Prober is implemented by backends that can validate credentials before
// any document is processed.
type Prober interface {
	Probe(ctx context.Context) error
}

// AnalyzeDocument truncates the document text, issues one request through
// the backend, and normalizes the result. Backend failures surface as
// AnalysisError (or AuthError) from the backend itself.
func AnalyzeDocument(ctx context.Context, backend Backend, doc *types.SourceDocument, cfg types.AnalysisConfig) (types.AnalysisResult, error) {
	maxBytes := cfg.MaxInputBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxInputBytes
	}

	res, err := backend.Analyze(ctx, Request{
		Text:     Truncate(doc.Text, maxBytes),
		Metadata: doc.Metadata,
	})
	if err != nil {
		return types.AnalysisResult{}, err
	}

	return Normalize(res, doc.Metadata), nil
}

// Truncate cuts s to at most maxBytes bytes without splitting a rune.
func Truncate(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// Normalize fills missing fields of a partial analysis result with defined
// fallbacks: PDF metadata first, then fixed defaults. After Normalize all
// four fields are non-empty.
func Normalize(res types.AnalysisResult, meta map[string]string) types.AnalysisResult {
	res.Title = strings.TrimSpace(res.Title)
	if res.Title == "" {
		res.Title = meta["Title"]
	}
	if res.Title == "" {
		res.Title = "Untitled Thesis"
	}

	res.Author = strings.TrimSpace(res.Author)
	if res.Author == "" {
		res.Author = meta["Author"]
	}
	if res.Author == "" {
		res.Author = "Unknown Author"
	}

	res.Summary = strings.TrimSpace(res.Summary)
	if res.Summary == "" {
		res.Summary = "This document requires manual review for proper summarization."
	}

	keywords := res.Keywords[:0]
	for _, k := range res.Keywords {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}
	res.Keywords = keywords
	if len(res.Keywords) == 0 {
		res.Keywords = []string{"thesis"}
	}

	return res
}
