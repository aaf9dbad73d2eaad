// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render turns analysis results into Hugo Blox publication entries.
// Rendering is pure: the same entry always yields the same markdown.
package render

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"unicode"

	"github.com/ppetrou/thesis-publisher/pkg/types"
)

// entryTmpl is the index.md layout consumed by the static-site generator.
// The front-matter keys are fixed; the site's publication archetype expects
// exactly this shape.
var entryTmpl = template.Must(template.New("entry").Parse(`+++
title = "{{.Title}}"
date = "{{.Date}}"
authors = ["{{.Author}}"]
tags = [{{.Tags}}]
publication_types = ["thesis"]
publication = "_Cyprus University of Technology_"
publication_short = ""
abstract = ""
summary = "{{.Summary}}"
featured = false
projects = []
slides = ""
url_code = ""
url_dataset = ""
url_pdf = "{{.PDFName}}"
url_poster = ""
url_slides = ""
url_source = "{{.SourcePath}}"
url_video = ""
math = true
highlight = true
[image]
image = ""
caption = ""
+++

{{.Body}}
`))

// Render produces the index.md content for one entry. The date comes from
// the entry itself, so output is byte-identical for identical entries.
func Render(entry types.ThesisEntry) (string, error) {
	data := struct {
		Title, Date, Author, Tags, Summary, PDFName, SourcePath, Body string
	}{
		Title:      escapeTOML(entry.Title),
		Date:       entry.Date.Format("2006-01-02"),
		Author:     escapeTOML(entry.Author),
		Tags:       tagList(entry.Keywords),
		Summary:    escapeTOML(firstLine(entry.Summary)),
		PDFName:    escapeTOML(entry.PDFName),
		SourcePath: escapeTOML(filepath.ToSlash(entry.SourceRelPath)),
		Body:       strings.TrimSpace(entry.Summary),
	}

	var buf bytes.Buffer
	if err := entryTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering entry template: %w", err)
	}
	return buf.String(), nil
}

// Slugify transforms a string into a filesystem-safe identifier: lowercase,
// runs of non-alphanumerics collapsed to a single hyphen. Idempotent.
func Slugify(s string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}

// UniqueDir returns the first directory name under root, starting from
// base, that does not exist yet: base, base-2, base-3, ...
func UniqueDir(root, base string) string {
	name := base
	for n := 2; ; n++ {
		if _, err := os.Stat(filepath.Join(root, name)); os.IsNotExist(err) {
			return name
		}
		name = fmt.Sprintf("%s-%d", base, n)
	}
}

// tagList renders keywords as a TOML array body.
func tagList(keywords []string) string {
	quoted := make([]string, len(keywords))
	for i, k := range keywords {
		quoted[i] = `"` + escapeTOML(k) + `"`
	}
	return strings.Join(quoted, ", ")
}

// escapeTOML makes a string safe inside a TOML basic string.
func escapeTOML(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", "", "\t", " ")
	return r.Replace(s)
}

// firstLine returns the first non-empty, non-heading line of the summary
// for the short front-matter field.
func firstLine(summary string) string {
	for _, line := range strings.Split(summary, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "# "))
		if line != "" {
			return line
		}
	}
	return summary
}
