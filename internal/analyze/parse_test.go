// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"reflect"
	"testing"
)

func TestParseContent(t *testing.T) {
	tests := []struct {
		name         string
		content      string
		wantErr      bool
		wantTitle    string
		wantAuthor   string
		wantKeywords []string
	}{
		{
			name:         "clean JSON object",
			content:      `{"title": "Graph Databases", "author": "Nikos Ioannou", "keywords": "graphs, \"query optimization\", storage", "summary": "A study."}`,
			wantTitle:    "Graph Databases",
			wantAuthor:   "Nikos Ioannou",
			wantKeywords: []string{"graphs", "query optimization", "storage"},
		},
		{
			name:         "JSON wrapped in prose",
			content:      "Here is the requested analysis:\n\n{\"title\": \"T\", \"author\": \"A\", \"keywords\": \"k1, k2\", \"summary\": \"S\"}\n\nLet me know if you need more.",
			wantTitle:    "T",
			wantAuthor:   "A",
			wantKeywords: []string{"k1", "k2"},
		},
		{
			name:         "keywords as JSON array",
			content:      `{"title": "T", "author": "A", "keywords": ["alpha", "beta"], "summary": "S"}`,
			wantTitle:    "T",
			wantAuthor:   "A",
			wantKeywords: []string{"alpha", "beta"},
		},
		{
			name: "line-based fallback",
			content: `TITLE: Sensor Networks
AUTHOR: "Elena Christou"
KEYWORDS: sensors, "wireless networks"
SUMMARY: An overview of the field.`,
			wantTitle:    "Sensor Networks",
			wantAuthor:   "Elena Christou",
			wantKeywords: []string{"sensors", "wireless networks"},
		},
		{
			name: "numbered fallback labels",
			content: `1. TITLE: Numbered
2. AUTHOR: Someone`,
			wantTitle:  "Numbered",
			wantAuthor: "Someone",
		},
		{
			name:    "no recognizable fields",
			content: "I could not process this document.",
			wantErr: true,
		},
		{
			name:    "empty response",
			content: "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseContent(tt.content)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseContent(%q) succeeded, want error", tt.content)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseContent: %v", err)
			}
			if got.Title != tt.wantTitle {
				t.Errorf("title = %q, want %q", got.Title, tt.wantTitle)
			}
			if got.Author != tt.wantAuthor {
				t.Errorf("author = %q, want %q", got.Author, tt.wantAuthor)
			}
			if tt.wantKeywords != nil && !reflect.DeepEqual(got.Keywords, tt.wantKeywords) {
				t.Errorf("keywords = %v, want %v", got.Keywords, tt.wantKeywords)
			}
		})
	}
}

func TestSplitKeywords(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"plain", "a, b, c", []string{"a", "b", "c"}},
		{"quoted multi-word", `graphs, "query optimization", storage`, []string{"graphs", "query optimization", "storage"}},
		{"comma inside quotes", `"attention, explained", nlp`, []string{"attention, explained", "nlp"}},
		{"extra whitespace", "  a ,b  ", []string{"a", "b"}},
		{"empty segments dropped", "a,, ,b", []string{"a", "b"}},
		{"empty string", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitKeywords(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitKeywords(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
