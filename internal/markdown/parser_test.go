package markdown

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-cms-delivery/pkg/interfaces"
)

const basicDocument = `---
title: Finn the Human
slug: finn
type: page
tags:
  - hero
  - ooo
custom_flag: true
pageContent:
  description: Fearless adventurer!
---
# Finn the Human

Defender of **pancakes**.
`

func TestParseFrontMatter(t *testing.T) {
	fm, body, err := ParseFrontMatter([]byte(basicDocument))
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}

	if fm.Title != "Finn the Human" || fm.Slug != "finn" || fm.Type != "page" {
		t.Fatalf("unexpected typed fields %#v", fm)
	}
	if len(fm.Tags) != 2 || fm.Tags[0] != "hero" {
		t.Fatalf("FrontMatter Tags mismatch: %#v", fm.Tags)
	}
	if fm.Custom["custom_flag"] != true {
		t.Fatalf("FrontMatter Custom flag missing: %#v", fm.Custom)
	}
	nested, ok := fm.Raw["pageContent"].(map[string]any)
	if !ok || nested["description"] != "Fearless adventurer!" {
		t.Fatalf("expected nested map with string keys, got %#v", fm.Raw["pageContent"])
	}
	if fm.Raw["type"] != "page" {
		t.Fatalf("expected type in raw view: %#v", fm.Raw)
	}
	if _, ok := fm.Raw["draft"]; ok {
		t.Fatalf("expected draft to be omitted when false")
	}
	if !strings.Contains(string(body), "# Finn the Human") {
		t.Fatalf("Markdown body not returned correctly: %q", string(body))
	}
}

func TestParseFrontMatterWithoutDelimiters(t *testing.T) {
	fm, body, err := ParseFrontMatter([]byte("Just text"))
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}
	if fm.Title != "" || len(fm.Raw) != 0 {
		t.Fatalf("expected empty frontmatter, got %#v", fm)
	}
	if string(body) != "Just text" {
		t.Fatalf("expected body to be the whole source, got %q", body)
	}
}

func TestBuildDocument(t *testing.T) {
	modified := time.Now().UTC()

	doc, err := BuildDocument("page/finn.md", "en", []byte(basicDocument), modified)
	if err != nil {
		t.Fatalf("BuildDocument: %v", err)
	}
	if doc.FilePath != "page/finn.md" || doc.Locale != "en" {
		t.Fatalf("unexpected document identity %q %q", doc.FilePath, doc.Locale)
	}
	if !doc.LastModified.Equal(modified) {
		t.Fatalf("expected LastModified to equal the provided timestamp")
	}
	if len(doc.Body) == 0 {
		t.Fatalf("expected Body to contain markdown content")
	}
}

func TestGoldmarkParser_Parse(t *testing.T) {
	parser := NewGoldmarkParser(interfaces.ParseOptions{})

	html, err := parser.Parse([]byte("# Heading\n\nHello **world**"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	got := string(html)
	if !strings.Contains(got, "<h1") || !strings.Contains(got, "Heading</h1>") {
		t.Fatalf("expected rendered HTML to include <h1>Heading</h1>, got %q", got)
	}
	if !strings.Contains(got, "<strong>world</strong>") {
		t.Fatalf("expected rendered HTML to include <strong>, got %q", got)
	}
}

func TestGoldmarkParser_ParseWithOptions(t *testing.T) {
	parser := NewGoldmarkParser(interfaces.ParseOptions{})

	html, err := parser.ParseWithOptions([]byte("line one\nline two"), interfaces.ParseOptions{
		HardWraps: true,
	})
	if err != nil {
		t.Fatalf("ParseWithOptions: %v", err)
	}
	if !strings.Contains(string(html), "line one<br>") {
		t.Fatalf("expected hard wraps in HTML output, got %q", string(html))
	}
}

func TestGoldmarkParser_SafeModeDropsRawHTML(t *testing.T) {
	parser := NewGoldmarkParser(interfaces.ParseOptions{SafeMode: true})

	html, err := parser.Parse([]byte("<script>alert(1)</script>\n\ntext"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if strings.Contains(string(html), "<script>") {
		t.Fatalf("expected raw HTML to be omitted, got %q", string(html))
	}
}

func TestGoldmarkParser_RejectsUnknownExtensions(t *testing.T) {
	parser := NewGoldmarkParser(interfaces.ParseOptions{Extensions: []string{"gfm", "mermaid"}})

	if _, err := parser.Parse([]byte("text")); !errors.Is(err, ErrUnknownExtension) {
		t.Fatalf("expected ErrUnknownExtension, got %v", err)
	}
	if _, err := parser.ParseWithOptions([]byte("text"), interfaces.ParseOptions{Extensions: []string{" Footnote "}}); err != nil {
		t.Fatalf("expected known extension to render, got %v", err)
	}
}

func TestGoldmarkParser_ReusesEnginePerOptionSet(t *testing.T) {
	parser := NewGoldmarkParser(interfaces.ParseOptions{})

	for _, src := range []string{"**Held** von Ooo", "Fearless *adventurer*"} {
		if _, err := parser.Parse([]byte(src)); err != nil {
			t.Fatalf("Parse: %v", err)
		}
	}
	if _, err := parser.ParseWithOptions([]byte("a\nb"), interfaces.ParseOptions{Extensions: []string{"GFM", "gfm"}}); err != nil {
		t.Fatalf("ParseWithOptions: %v", err)
	}
	if len(parser.engines) != 1 {
		t.Fatalf("expected one engine for equivalent options, got %d", len(parser.engines))
	}

	if _, err := parser.ParseWithOptions([]byte("a"), interfaces.ParseOptions{SafeMode: true}); err != nil {
		t.Fatalf("ParseWithOptions: %v", err)
	}
	if len(parser.engines) != 2 {
		t.Fatalf("expected a second engine for safe mode, got %d", len(parser.engines))
	}
}

func TestUnknownExtensions(t *testing.T) {
	got := UnknownExtensions([]string{" GFM ", "footnote", "", "mermaid", "Typographer", "katex"})
	want := []string{"mermaid", "katex"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
