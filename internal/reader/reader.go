// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reader extracts text and embedded metadata from thesis PDFs.
// Only the embedded text layer is read; scanned (image-only) PDFs have no
// extractable text and are reported as extraction failures.
package reader

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/ppetrou/thesis-publisher/pkg/types"
)

// defaultMaxPages bounds extraction to the opening pages, which carry the
// title page and abstract.
const defaultMaxPages = 5

// metadataKeys lists the Info dictionary fields surfaced to the analyzer.
var metadataKeys = []string{"Title", "Author", "Subject", "Creator"}

// Read opens the PDF at path and returns a SourceDocument with the
// concatenated plain text of the first cfg.MaxPages pages and any Info
// dictionary metadata. It returns an ExtractionError when the file cannot
// be opened, is not a valid PDF, or yields no extractable text.
func Read(path, relPath string, cfg types.ReaderConfig) (*types.SourceDocument, error) {
	text, meta, err := extract(path, cfg)
	if err != nil {
		return nil, &types.ExtractionError{Path: relPath, Err: err}
	}
	return &types.SourceDocument{
		Path:     path,
		RelPath:  relPath,
		Text:     text,
		Metadata: meta,
	}, nil
}

func extract(path string, cfg types.ReaderConfig) (text string, meta map[string]string, err error) {
	// The parser panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parsing PDF: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	maxPages := cfg.MaxPages
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}
	numPages := r.NumPage()
	if numPages < maxPages {
		maxPages = numPages
	}

	var sb strings.Builder
	for i := 1; i <= maxPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() || page.V.Key("Contents").Kind() == pdf.Null {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			// Image-only or damaged pages are skipped, not fatal.
			continue
		}
		sb.WriteString(content)
		sb.WriteString("\n")
	}

	text = strings.TrimSpace(sb.String())
	if text == "" {
		return "", nil, fmt.Errorf("no extractable text (scanned or image-only PDF)")
	}

	return text, infoMetadata(r), nil
}

// infoMetadata reads the trailer Info dictionary. Absent or non-string
// fields are omitted.
func infoMetadata(r *pdf.Reader) map[string]string {
	meta := make(map[string]string)
	info := r.Trailer().Key("Info")
	if info.IsNull() {
		return meta
	}
	for _, key := range metadataKeys {
		v := info.Key(key)
		if v.Kind() != pdf.String {
			continue
		}
		if s := strings.TrimSpace(v.Text()); s != "" {
			meta[key] = s
		}
	}
	return meta
}
