package markdown

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-cms-delivery/pkg/interfaces"
)

func contentFS() fstest.MapFS {
	return fstest.MapFS{
		"content/page/finn.md": {Data: []byte(`---
title: Finn
description: Fearless Abenteurer! Verteidiger von Pfannkuchen.
---
Held von Ooo.
`)},
		"content/page/finn.en.md": {Data: []byte(`---
title: Finn
description: Fearless adventurer! Defender of pancakes.
---
Hero of Ooo.
`)},
		"content/en/page/jacke.md": {Data: []byte(`---
title: Jake
image: //images.example.com/jake.png
---
Dog.
`)},
		"content/page/wip.md": {Data: []byte(`---
title: Work in progress
draft: true
---
`)},
		"content/notes/today.md": {Data: []byte(`---
type: article
slug: today-in-ooo
---
News.
`)},
	}
}

func newBackend(cfg Config) *Backend {
	if cfg.Dir == "" {
		cfg.Dir = "content"
	}
	cfg.DefaultLocale = "de-DE"
	cfg.Locales = []string{"de-DE", "en"}
	cfg.Recursive = true
	return New(contentFS(), cfg)
}

func query(t *testing.T, backend *Backend, contentType, value string) []interfaces.Entry {
	t.Helper()
	entries, err := backend.QueryEntries(context.Background(), interfaces.EntryQuery{
		ContentType: contentType,
		Field:       SlugField,
		Value:       value,
	})
	if err != nil {
		t.Fatalf("QueryEntries: %v", err)
	}
	return entries
}

func TestBackendMergesTranslations(t *testing.T) {
	entries := query(t, newBackend(Config{}), "page", "finn")
	if len(entries) != 1 {
		t.Fatalf("expected one finn entry, got %d", len(entries))
	}
	finn := entries[0]

	if finn.ID != "page/finn" || finn.ContentType != "page" {
		t.Fatalf("unexpected entry identity %q %q", finn.ID, finn.ContentType)
	}
	if len(finn.Locales) != 2 || finn.Locales[0] != "de-DE" || finn.Locales[1] != "en" {
		t.Fatalf("unexpected locales %v", finn.Locales)
	}
	if finn.Fields["title"] != "Finn" {
		t.Fatalf("expected shared title to stay plain, got %#v", finn.Fields["title"])
	}

	description, ok := finn.Fields["description"].(interfaces.Localized)
	if !ok {
		t.Fatalf("expected localized description, got %#v", finn.Fields["description"])
	}
	if description["en"] != "Fearless adventurer! Defender of pancakes." {
		t.Fatalf("unexpected english description %#v", description["en"])
	}
	if description["de-DE"] != "Fearless Abenteurer! Verteidiger von Pfannkuchen." {
		t.Fatalf("unexpected german description %#v", description["de-DE"])
	}

	body, ok := finn.Fields[BodyField].(interfaces.Localized)
	english, _ := body["en"].(string)
	if !ok || strings.TrimSpace(english) != "Hero of Ooo." {
		t.Fatalf("expected localized body, got %#v", finn.Fields[BodyField])
	}
}

func TestBackendSingleDocumentStaysPlain(t *testing.T) {
	entries := query(t, newBackend(Config{}), "page", "jacke")
	if len(entries) != 1 {
		t.Fatalf("expected jacke entry, got %d", len(entries))
	}
	jake := entries[0]

	if jake.Fields["image"] != "//images.example.com/jake.png" {
		t.Fatalf("unexpected image %#v", jake.Fields["image"])
	}
	if len(jake.Locales) != 1 || jake.Locales[0] != "en" {
		t.Fatalf("expected locale from directory, got %v", jake.Locales)
	}
}

func TestBackendContentTypeFromFrontMatter(t *testing.T) {
	backend := newBackend(Config{})

	if entries := query(t, backend, "article", "today-in-ooo"); len(entries) != 1 {
		t.Fatalf("expected article entry, got %d", len(entries))
	}
	if entries := query(t, backend, "notes", "today-in-ooo"); len(entries) != 0 {
		t.Fatalf("expected frontmatter type to override the directory")
	}
}

func TestBackendSkipsDrafts(t *testing.T) {
	if entries := query(t, newBackend(Config{}), "page", "wip"); len(entries) != 0 {
		t.Fatalf("expected draft to be skipped")
	}
	if entries := query(t, newBackend(Config{IncludeDrafts: true}), "page", "wip"); len(entries) != 1 {
		t.Fatalf("expected draft to be served when enabled")
	}
}

func TestBackendReload(t *testing.T) {
	fsys := contentFS()
	backend := New(fsys, Config{Dir: "content", DefaultLocale: "de-DE", Recursive: true})

	if entries := query(t, backend, "page", "marceline"); len(entries) != 0 {
		t.Fatalf("expected no marceline yet")
	}

	fsys["content/page/marceline.md"] = &fstest.MapFile{Data: []byte("---\ntitle: Marceline\n---\n")}
	if entries := query(t, backend, "page", "marceline"); len(entries) != 0 {
		t.Fatalf("expected loaded content to be cached")
	}

	if err := backend.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if entries := query(t, backend, "page", "marceline"); len(entries) != 1 {
		t.Fatalf("expected reload to pick up new file")
	}
}

func TestBackendMissingDirectory(t *testing.T) {
	backend := New(contentFS(), Config{Dir: "missing"})

	_, err := backend.QueryEntries(context.Background(), interfaces.EntryQuery{ContentType: "page"})
	if err == nil {
		t.Fatalf("expected load error")
	}
	var typed *goerrors.Error
	if !goerrors.As(err, &typed) || typed.TextCode != textCodeLoad {
		t.Fatalf("expected load text code, got %v", err)
	}
}

func TestBackendWithoutFilesystem(t *testing.T) {
	_, err := New(nil, Config{}).QueryEntries(context.Background(), interfaces.EntryQuery{})
	if !errors.Is(err, ErrFilesystemRequired) {
		t.Fatalf("expected ErrFilesystemRequired, got %v", err)
	}
}
