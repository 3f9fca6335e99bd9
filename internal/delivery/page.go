package delivery

import (
	"github.com/goliatone/go-cms-delivery/internal/entry"
	"github.com/goliatone/go-cms-delivery/pkg/interfaces"
)

// Page is one fetched content entry with the locale preferences captured at
// fetch time. Pages are immutable and safe for concurrent use.
type Page struct {
	pageID      string
	entryID     string
	contentType string
	fields      entry.Fields
	locales     entry.Locales
	markdown    interfaces.MarkdownParser
}

type pageInput struct {
	pageID        string
	raw           interfaces.Entry
	requested     []string
	defaultLocale string
	configured    []string
	markdown      interfaces.MarkdownParser
}

func newPage(in pageInput) *Page {
	known := make([]string, 0, len(in.configured)+len(in.raw.Locales)+1)
	known = append(known, in.configured...)
	known = append(known, in.raw.Locales...)
	known = append(known, in.defaultLocale)

	decoded := entry.Decode(in.raw.Fields, known)

	locales := entry.NewLocales(in.requested, in.defaultLocale, nil)
	if len(in.configured) > 0 || len(in.raw.Locales) > 0 || len(decoded.Locales) > 0 {
		locales = locales.WithAvailable(known...).WithAvailable(decoded.Locales...)
	}

	return &Page{
		pageID:      in.pageID,
		entryID:     in.raw.ID,
		contentType: in.raw.ContentType,
		fields:      decoded.Fields,
		locales:     locales,
		markdown:    in.markdown,
	}
}

// PageID returns the identifier the page was requested with.
func (p *Page) PageID() string { return p.pageID }

// EntryID returns the backend identifier of the entry.
func (p *Page) EntryID() string { return p.entryID }

// ContentType returns the backend content type of the entry.
func (p *Page) ContentType() string { return p.contentType }

// DefaultLocale returns the locale used as the last fallback.
func (p *Page) DefaultLocale() string { return p.locales.Default() }

// Locales returns the locales tried, in order, for localized fields. It is
// empty when none of the requested locales is configured for the entry.
func (p *Page) Locales() []string { return p.locales.Candidates() }

// Field resolves a dotted field path. The second result is false when the
// path does not exist or has no value for any applicable locale.
func (p *Page) Field(path string) (string, bool) {
	if p == nil {
		return "", false
	}
	return entry.Resolve(p.fields, path, p.locales)
}

// FieldOrEmpty is Field without the presence flag.
func (p *Page) FieldOrEmpty(path string) string {
	value, _ := p.Field(path)
	return value
}

// Asset returns the asset referenced by path.
func (p *Page) Asset(path string) (interfaces.Asset, bool) {
	if p == nil {
		return interfaces.Asset{}, false
	}
	value, ok := entry.Lookup(p.fields, path, p.locales)
	if !ok {
		return interfaces.Asset{}, false
	}
	asset, ok := value.(entry.Asset)
	if !ok {
		return interfaces.Asset{}, false
	}
	return asset.Asset, true
}

// FieldHTML renders the field addressed by path as HTML. Text is treated as
// Markdown; rich text documents render their own structure. Assets, field
// groups and lists are reported as absent.
func (p *Page) FieldHTML(path string) (string, bool, error) {
	if p == nil {
		return "", false, nil
	}
	value, ok := entry.Lookup(p.fields, path, p.locales)
	if !ok {
		return "", false, nil
	}

	switch typed := value.(type) {
	case entry.RichText:
		return typed.HTML(), true, nil
	case entry.Text:
		if p.markdown == nil {
			return "", false, ErrMarkdownUnavailable
		}
		rendered, err := p.markdown.Parse([]byte(typed))
		if err != nil {
			return "", false, err
		}
		return string(rendered), true, nil
	}
	return "", false, nil
}
