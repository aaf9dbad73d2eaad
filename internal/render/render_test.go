// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppetrou/thesis-publisher/pkg/types"
)

func sampleEntry() types.ThesisEntry {
	return types.ThesisEntry{
		AnalysisResult: types.AnalysisResult{
			Title:    "Anomaly Detection in Smart Grids",
			Author:   "Andreas Kyriakou",
			Summary:  "## Overview\n\nThis thesis studies anomaly detection.\n\n## Key Contributions\n\nA new detector.",
			Keywords: []string{"anomaly detection", "smart grids", "machine learning"},
		},
		SourceFile:    "thesis_final_v2.pdf",
		SourceRelPath: "2025/thesis_final_v2.pdf",
		Slug:          "anomaly-detection-in-smart-grids",
		PDFName:       "2025_anomaly-detection-in-smart-grids.pdf",
		Date:          time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestRenderFrontMatter(t *testing.T) {
	got, err := Render(sampleEntry())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	for _, want := range []string{
		`title = "Anomaly Detection in Smart Grids"`,
		`date = "2025-06-01"`,
		`authors = ["Andreas Kyriakou"]`,
		`tags = ["anomaly detection", "smart grids", "machine learning"]`,
		`publication_types = ["thesis"]`,
		`url_pdf = "2025_anomaly-detection-in-smart-grids.pdf"`,
		`url_source = "2025/thesis_final_v2.pdf"`,
		"## Key Contributions",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("rendered entry missing %q\n%s", want, got)
		}
	}

	if !strings.HasPrefix(got, "+++\n") {
		t.Error("entry does not start with a front-matter delimiter")
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	entry := sampleEntry()

	a, err := Render(entry)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Render(entry)
	if err != nil {
		t.Fatal(err)
	}

	if a != b {
		t.Error("two renders of the same entry differ")
	}
}

func TestRenderEscapesQuotes(t *testing.T) {
	entry := sampleEntry()
	entry.Title = `A "quoted" title`

	got, err := Render(entry)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, `title = "A \"quoted\" title"`) {
		t.Errorf("quotes not escaped:\n%s", got)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Anomaly Detection in Smart Grids", "anomaly-detection-in-smart-grids"},
		{"  Lots   of---punctuation!!  ", "lots-of-punctuation"},
		{"already-a-slug", "already-a-slug"},
		{"Ünïcode Tïtle", "ünïcode-tïtle"},
		{"", ""},
		{"!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Slugify(tt.in)
			if got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
			// Slugify is idempotent.
			if again := Slugify(got); again != got {
				t.Errorf("Slugify(Slugify(%q)) = %q, want %q", tt.in, again, got)
			}
		})
	}
}

func TestUniqueDir(t *testing.T) {
	root := t.TempDir()

	if got := UniqueDir(root, "2025_entry"); got != "2025_entry" {
		t.Errorf("UniqueDir on empty root = %q, want %q", got, "2025_entry")
	}

	if err := os.Mkdir(filepath.Join(root, "2025_entry"), 0o755); err != nil {
		t.Fatal(err)
	}
	if got := UniqueDir(root, "2025_entry"); got != "2025_entry-2" {
		t.Errorf("UniqueDir with one collision = %q, want %q", got, "2025_entry-2")
	}

	if err := os.Mkdir(filepath.Join(root, "2025_entry-2"), 0o755); err != nil {
		t.Fatal(err)
	}
	if got := UniqueDir(root, "2025_entry"); got != "2025_entry-3" {
		t.Errorf("UniqueDir with two collisions = %q, want %q", got, "2025_entry-3")
	}
}
