package cms_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-cms-delivery"
)

const fixtureFile = "internal/backends/memory/testdata/adventure.json"

func adventureModule(t *testing.T, opts ...cms.Option) *cms.Module {
	t.Helper()
	cfg := cms.DefaultConfig()
	cfg.DefaultLocale = "de-DE"
	cfg.Locales = []string{"de-DE", "en"}
	cfg.Backend.FixtureFile = fixtureFile

	module, err := cms.New(cfg, opts...)
	if err != nil {
		t.Fatalf("cms.New returned error: %v", err)
	}
	return module
}

func awaitPage(t *testing.T, pages cms.PageService, pageID string, locales []string) (*cms.Page, bool, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return pages.Page(ctx, pageID, locales).Await(ctx)
}

func TestModuleResolvesLocalizedDescription(t *testing.T) {
	pages := adventureModule(t).Pages()

	cases := []struct {
		name    string
		locales []string
		want    string
		present bool
	}{
		{name: "default locale", locales: []string{"de-DE"}, want: "Fearless Abenteurer! Verteidiger von Pfannkuchen.", present: true},
		{name: "no preference", locales: nil, want: "Fearless Abenteurer! Verteidiger von Pfannkuchen.", present: true},
		{name: "english", locales: []string{"en"}, want: "Fearless adventurer! Defender of pancakes.", present: true},
		{name: "unconfigured locale", locales: []string{"it"}, present: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page, found, err := awaitPage(t, pages, "finn", tc.locales)
			if err != nil || !found {
				t.Fatalf("expected finn page, got found=%v err=%v", found, err)
			}
			got, ok := page.Field("pageContent.description")
			if ok != tc.present {
				t.Fatalf("expected present=%v, got %v (%q)", tc.present, ok, got)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestModuleResolvesAssetURL(t *testing.T) {
	page, found, err := awaitPage(t, adventureModule(t).Pages(), "jacke", []string{"de-DE"})
	if err != nil || !found {
		t.Fatalf("expected jacke page, got found=%v err=%v", found, err)
	}

	url, ok := page.Field("pageContent.image")
	if !ok {
		t.Fatalf("expected image field")
	}
	want := "//images.contentful.com/l6chdlzlf8jn/2iVeCh1FGoy00Oq8WEI2aI/93c3f0841fcf59743f57e238f6ed67aa/jake.png"
	if !strings.EqualFold(url, want) {
		t.Fatalf("expected %q, got %q", want, url)
	}

	asset, ok := page.Asset("pageContent.image")
	if !ok || asset.ContentType != "image/png" {
		t.Fatalf("expected png asset, got %+v ok=%v", asset, ok)
	}
}

func TestModuleMissingPageIsNotAnError(t *testing.T) {
	page, found, err := awaitPage(t, adventureModule(t).Pages(), "marceline", nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if found || page != nil {
		t.Fatalf("expected no page, got %+v", page)
	}
}

func TestModuleSurfacesBackendFailures(t *testing.T) {
	cfg := cms.DefaultConfig()
	cfg.Backend.Provider = cms.BackendMemory
	cfg.Backend.SpaceID = "wrong"
	cfg.Backend.Token = "wrong"

	backend := cms.NewMemoryBackend(cms.WithCredentials("space", "token"))
	module, err := cms.New(cfg, cms.WithBackend(backend))
	if err != nil {
		t.Fatalf("cms.New returned error: %v", err)
	}

	_, found, err := awaitPage(t, module.Pages(), "finn", nil)
	if found {
		t.Fatalf("expected no page on failure")
	}
	var fetchErr *cms.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *cms.FetchError, got %T", err)
	}
	if fetchErr.PageID != "finn" {
		t.Fatalf("expected page id finn, got %q", fetchErr.PageID)
	}
	if !errors.Is(err, cms.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed match")
	}
	if !goerrors.HasCategory(err, goerrors.CategoryAuth) {
		t.Fatalf("expected auth category in chain, got %v", err)
	}
}

func TestModuleMarkdownBackend(t *testing.T) {
	cfg := cms.DefaultConfig()
	cfg.Backend.Provider = cms.BackendMarkdown
	cfg.Markdown.ContentDir = "site"
	cfg.Locales = []string{"en", "de"}
	cfg.Features.Markdown = true

	fsys := fstest.MapFS{
		"site/en/page/about.md": {Data: []byte("---\ntitle: About\n---\nHello **world**\n")},
		"site/de/page/about.md": {Data: []byte("---\ntitle: Über\n---\nHallo **Welt**\n")},
	}

	module, err := cms.New(cfg, cms.WithContentFS(fsys))
	if err != nil {
		t.Fatalf("cms.New returned error: %v", err)
	}
	if module.Markdown() == nil {
		t.Fatalf("expected markdown parser when feature enabled")
	}

	page, found, err := awaitPage(t, module.Pages(), "about", []string{"de"})
	if err != nil || !found {
		t.Fatalf("expected about page, got found=%v err=%v", found, err)
	}
	if got := page.FieldOrEmpty("title"); got != "Über" {
		t.Fatalf("expected german title, got %q", got)
	}
	html, ok, err := page.FieldHTML("body")
	if err != nil || !ok {
		t.Fatalf("expected rendered body, got ok=%v err=%v", ok, err)
	}
	if !strings.Contains(html, "<strong>Welt</strong>") {
		t.Fatalf("expected rendered markdown, got %q", html)
	}
}

func TestModuleRejectsInvalidConfig(t *testing.T) {
	cfg := cms.DefaultConfig()
	cfg.Backend.Provider = cms.BackendCustom

	if _, err := cms.New(cfg); !errors.Is(err, cms.ErrCustomBackendRequired) {
		t.Fatalf("expected ErrCustomBackendRequired, got %v", err)
	}

	cfg = cms.DefaultConfig()
	cfg.Backend.Provider = cms.BackendMarkdown
	cfg.Markdown.ContentDir = " "
	if _, err := cms.New(cfg); !errors.Is(err, cms.ErrMarkdownContentDirRequired) {
		t.Fatalf("expected ErrMarkdownContentDirRequired, got %v", err)
	}
}

func TestPageServiceWithoutContainer(t *testing.T) {
	backend := cms.NewMemoryBackend()
	backend.Put(cms.Entry{
		ID:          "bmo-entry",
		ContentType: "page",
		Fields: map[string]any{
			"slug":  "bmo",
			"title": cms.Localized{"en": "BMO"},
		},
	})

	pages := cms.NewPageService(backend, cms.DeliveryConfig{
		PageTypeName:        "page",
		PageTypeIDFieldName: "slug",
		DefaultLocale:       "en",
	}, cms.WithFetchTimeout(time.Second))

	page, found, err := pages.Fetch(context.Background(), "bmo", nil)
	if err != nil || !found {
		t.Fatalf("expected bmo page, got found=%v err=%v", found, err)
	}
	if got := page.FieldOrEmpty("title"); got != "BMO" {
		t.Fatalf("expected title BMO, got %q", got)
	}
}
