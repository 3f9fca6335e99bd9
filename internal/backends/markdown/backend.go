// Package markdown serves content entries from Markdown files. Every file
// is one locale of one entry: frontmatter keys become fields and the body
// becomes the "body" field. Translations of the same file merge into
// localized fields.
package markdown

import (
	"context"
	"errors"
	"io/fs"
	"path"
	"reflect"
	"sort"
	"strings"
	"sync"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-slug"

	"github.com/goliatone/go-cms-delivery/internal/backends/memory"
	"github.com/goliatone/go-cms-delivery/internal/entry"
	"github.com/goliatone/go-cms-delivery/internal/logging"
	cmsmarkdown "github.com/goliatone/go-cms-delivery/internal/markdown"
	"github.com/goliatone/go-cms-delivery/pkg/interfaces"
)

const (
	// BodyField holds the Markdown body of each document.
	BodyField = "body"
	// SlugField is filled from the file name when the frontmatter has no slug.
	SlugField = "slug"

	textCodeLoad = "CMS_MARKDOWN_LOAD"
)

// ErrFilesystemRequired reports a backend built without a filesystem.
var ErrFilesystemRequired = errors.New("cms: markdown filesystem required")

// Config configures discovery and locale detection.
type Config struct {
	// Dir is the directory inside the filesystem holding the content.
	Dir            string
	DefaultLocale  string
	Locales        []string
	LocalePatterns map[string]string
	Pattern        string
	Recursive      bool
	// IncludeDrafts serves documents whose frontmatter sets draft: true.
	IncludeDrafts bool
}

// Option customises the backend.
type Option func(*Backend)

// WithLogger sets the logger used for load events.
func WithLogger(logger interfaces.Logger) Option {
	return func(b *Backend) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// Backend implements interfaces.ContentBackend over an fs.FS. Files are
// read on the first query and cached until Reload.
type Backend struct {
	loader  *cmsmarkdown.Loader
	cfg     Config
	logger  interfaces.Logger
	rootErr error

	mu     sync.Mutex
	store  *memory.Backend
	loaded bool
}

var _ interfaces.ContentBackend = (*Backend)(nil)

// New constructs a backend reading from filesystem.
func New(filesystem fs.FS, cfg Config, opts ...Option) *Backend {
	cfg.Dir = path.Clean(strings.Trim(strings.TrimSpace(cfg.Dir), "/"))
	if cfg.Dir == "" {
		cfg.Dir = "."
	}

	root := filesystem
	var rootErr error
	switch {
	case filesystem == nil:
		rootErr = ErrFilesystemRequired
	case cfg.Dir != ".":
		root, rootErr = fs.Sub(filesystem, cfg.Dir)
	}

	b := &Backend{
		loader: cmsmarkdown.NewLoader(root, cmsmarkdown.LoaderConfig{
			DefaultLocale:  cfg.DefaultLocale,
			Locales:        cfg.Locales,
			LocalePatterns: cfg.LocalePatterns,
			Pattern:        cfg.Pattern,
			Recursive:      cfg.Recursive,
		}),
		cfg:     cfg,
		logger:  logging.NoOp(),
		rootErr: rootErr,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// QueryEntries loads the content on first use and answers the query from
// the loaded entries.
func (b *Backend) QueryEntries(ctx context.Context, query interfaces.EntryQuery) ([]interfaces.Entry, error) {
	store, err := b.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	return store.QueryEntries(ctx, query)
}

// Reload discards the loaded entries and reads the filesystem again.
func (b *Backend) Reload(ctx context.Context) error {
	b.mu.Lock()
	b.loaded = false
	b.store = nil
	b.mu.Unlock()
	_, err := b.ensureLoaded(ctx)
	return err
}

func (b *Backend) ensureLoaded(ctx context.Context) (*memory.Backend, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.loaded {
		return b.store, nil
	}

	if b.rootErr != nil {
		return nil, goerrors.Wrap(b.rootErr, goerrors.CategoryInternal, "open markdown content").
			WithTextCode(textCodeLoad)
	}

	docs, err := b.loader.LoadDirectory(ctx, ".")
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		b.logger.Error("markdown.load.failed", "dir", b.cfg.Dir, "error", err)
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "load markdown content").
			WithTextCode(textCodeLoad)
	}

	entries := b.buildEntries(docs)
	store := memory.New(memory.WithLogger(b.logger))
	store.Put(entries...)

	b.store = store
	b.loaded = true
	b.logger.Debug("markdown.load.completed", "dir", b.cfg.Dir, "documents", len(docs), "entries", len(entries))
	return store, nil
}

type document struct {
	locale string
	fields map[string]any
}

type group struct {
	id          string
	contentType string
	docs        []document
}

func (b *Backend) buildEntries(docs []*interfaces.Document) []interfaces.Entry {
	groups := map[string]*group{}
	var order []string

	for _, doc := range docs {
		if doc.FrontMatter.Draft && !b.cfg.IncludeDrafts {
			continue
		}
		logical := b.loader.LogicalPath(doc.FilePath)

		g, ok := groups[logical]
		if !ok {
			g = &group{id: logical}
			groups[logical] = g
			order = append(order, logical)
		}
		if g.contentType == "" {
			g.contentType = contentType(doc.FrontMatter, logical)
		}
		g.docs = append(g.docs, document{
			locale: doc.Locale,
			fields: documentFields(doc, logical),
		})
	}

	entries := make([]interfaces.Entry, 0, len(order))
	for _, key := range order {
		g := groups[key]
		entries = append(entries, interfaces.Entry{
			ID:          g.id,
			ContentType: g.contentType,
			Locales:     groupLocales(g.docs),
			Fields:      mergeFields(g.docs),
		})
	}
	return entries
}

func documentFields(doc *interfaces.Document, logical string) map[string]any {
	fields := make(map[string]any, len(doc.FrontMatter.Raw)+2)
	for key, value := range doc.FrontMatter.Raw {
		fields[key] = value
	}
	delete(fields, "type")
	delete(fields, "content_type")
	delete(fields, "draft")

	if _, ok := fields[SlugField]; !ok {
		if derived, err := slug.Normalize(path.Base(logical)); err == nil && derived != "" {
			fields[SlugField] = derived
		}
	}
	fields[BodyField] = string(doc.Body)
	return fields
}

// contentType reads the type from frontmatter, falling back to the first
// directory of the file path.
func contentType(fm interfaces.FrontMatter, logical string) string {
	if value := strings.TrimSpace(fm.Type); value != "" {
		return value
	}
	for _, key := range []string{"content_type", "contentType"} {
		if value, ok := fm.Custom[key].(string); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	if dir, _, found := strings.Cut(logical, "/"); found {
		return dir
	}
	return ""
}

func groupLocales(docs []document) []string {
	locales := make([]string, 0, len(docs))
	for _, doc := range docs {
		if doc.locale != "" {
			locales = append(locales, doc.locale)
		}
	}
	locales = entry.NormalizeLocales(locales)
	sort.Strings(locales)
	return locales
}

// mergeFields collapses the documents of one entry. A key holding the same
// value in every document stays plain; any other key becomes a localized
// value keyed by document locale.
func mergeFields(docs []document) map[string]any {
	if len(docs) == 1 {
		return docs[0].fields
	}

	keys := map[string]struct{}{}
	for _, doc := range docs {
		for key := range doc.fields {
			keys[key] = struct{}{}
		}
	}

	merged := make(map[string]any, len(keys))
	for key := range keys {
		if value, ok := sharedValue(docs, key); ok {
			merged[key] = value
			continue
		}
		localized := interfaces.Localized{}
		for _, doc := range docs {
			if value, ok := doc.fields[key]; ok && doc.locale != "" {
				localized[doc.locale] = value
			}
		}
		merged[key] = localized
	}
	return merged
}

func sharedValue(docs []document, key string) (any, bool) {
	first, ok := docs[0].fields[key]
	if !ok {
		return nil, false
	}
	for _, doc := range docs[1:] {
		value, ok := doc.fields[key]
		if !ok || !reflect.DeepEqual(first, value) {
			return nil, false
		}
	}
	return first, true
}
