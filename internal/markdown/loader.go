package markdown

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/goliatone/go-cms-delivery/internal/entry"
	"github.com/goliatone/go-cms-delivery/pkg/interfaces"
)

const defaultPattern = "*.md"

// LoaderConfig configures how Markdown files are discovered.
type LoaderConfig struct {
	// DefaultLocale is used when no locale can be inferred from the file path.
	DefaultLocale string
	// Locales enumerates the known locales for directory and suffix matching.
	Locales []string
	// LocalePatterns maps locale identifiers to globs relative to the root.
	LocalePatterns map[string]string
	// Pattern limits discovered files (defaults to "*.md").
	Pattern string
	// Recursive controls whether sub-directories are traversed.
	Recursive bool
}

// Loader turns files of an fs.FS into Markdown documents.
type Loader struct {
	fs             fs.FS
	defaultLocale  string
	locales        []string
	localePatterns map[string]string
	pattern        string
	recursive      bool
}

// NewLoader constructs a Loader reading from filesystem.
func NewLoader(filesystem fs.FS, cfg LoaderConfig) *Loader {
	pattern := strings.TrimSpace(cfg.Pattern)
	if pattern == "" {
		pattern = defaultPattern
	}

	defaultLocale := entry.NormalizeLocale(cfg.DefaultLocale)
	locales := entry.NormalizeLocales(append(append([]string(nil), cfg.Locales...), defaultLocale))

	return &Loader{
		fs:             filesystem,
		defaultLocale:  defaultLocale,
		locales:        locales,
		localePatterns: cloneStringMap(cfg.LocalePatterns),
		pattern:        pattern,
		recursive:      cfg.Recursive,
	}
}

// LoadFile reads and parses a single Markdown document. name is slash
// separated and relative to the loader root.
func (l *Loader) LoadFile(ctx context.Context, name string) (*interfaces.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name = path.Clean(strings.TrimPrefix(name, "/"))

	data, err := fs.ReadFile(l.fs, name)
	if err != nil {
		return nil, fmt.Errorf("markdown loader read %s: %w", name, err)
	}

	info, err := fs.Stat(l.fs, name)
	if err != nil {
		return nil, fmt.Errorf("markdown loader stat %s: %w", name, err)
	}

	doc, err := BuildDocument(name, l.DetectLocale(name), data, info.ModTime())
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(data)
	doc.Checksum = sum[:]

	return doc, nil
}

// LoadDirectory discovers Markdown files under dir and returns the parsed
// documents sorted by path.
func (l *Loader) LoadDirectory(ctx context.Context, dir string) ([]*interfaces.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root := path.Clean(strings.TrimPrefix(dir, "/"))
	if root == "" {
		root = "."
	}

	var docs []*interfaces.Document
	walkErr := fs.WalkDir(l.fs, root, func(current string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if !l.recursive && current != root {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !l.matchesPattern(current) {
			return nil
		}

		doc, err := l.LoadFile(ctx, current)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].FilePath < docs[j].FilePath
	})
	return docs, nil
}

// DetectLocale infers the locale of name. Explicit locale patterns win, then
// a leading locale directory ("en/about.md"), then a locale suffix
// ("about.en.md"), then the default locale.
func (l *Loader) DetectLocale(name string) string {
	name = path.Clean(name)

	if locale := matchLocalePattern(name, l.localePatterns); locale != "" {
		return locale
	}
	if locale, ok := l.directoryLocale(name); ok {
		return locale
	}
	if locale, ok := l.suffixLocale(name); ok {
		return locale
	}
	return l.defaultLocale
}

// LogicalPath strips the locale markers and the extension from name so
// translations of the same document share one path: "en/blog/post.md" and
// "blog/post.de-DE.md" both become "blog/post".
func (l *Loader) LogicalPath(name string) string {
	name = path.Clean(name)
	if _, ok := l.directoryLocale(name); ok {
		name = name[strings.Index(name, "/")+1:]
	}
	trimmed := strings.TrimSuffix(name, path.Ext(name))
	if _, ok := l.suffixLocale(name); ok {
		trimmed = strings.TrimSuffix(trimmed, path.Ext(trimmed))
	}
	return trimmed
}

func (l *Loader) directoryLocale(name string) (string, bool) {
	first, _, found := strings.Cut(name, "/")
	if !found {
		return "", false
	}
	return l.knownLocale(first)
}

func (l *Loader) suffixLocale(name string) (string, bool) {
	stem := strings.TrimSuffix(path.Base(name), path.Ext(name))
	ext := path.Ext(stem)
	if ext == "" {
		return "", false
	}
	return l.knownLocale(strings.TrimPrefix(ext, "."))
}

func (l *Loader) knownLocale(candidate string) (string, bool) {
	code := entry.NormalizeLocale(candidate)
	if code == "" {
		return "", false
	}
	for _, locale := range l.locales {
		if locale == code {
			return locale, true
		}
	}
	return "", false
}

func (l *Loader) matchesPattern(name string) bool {
	pattern := strings.ReplaceAll(l.pattern, "**/", "")
	target := name
	if !strings.Contains(pattern, "/") {
		target = path.Base(name)
	}
	match, err := path.Match(pattern, target)
	if err != nil {
		return false
	}
	return match
}

func matchLocalePattern(name string, patterns map[string]string) string {
	locales := make([]string, 0, len(patterns))
	for locale := range patterns {
		locales = append(locales, locale)
	}
	sort.Strings(locales)

	for _, locale := range locales {
		pattern := strings.TrimSpace(patterns[locale])
		if pattern == "" {
			continue
		}
		pattern = strings.ReplaceAll(pattern, "**/", "")
		if match, err := path.Match(pattern, name); err == nil && match {
			return entry.NormalizeLocale(locale)
		}
	}
	return ""
}

func cloneStringMap(input map[string]string) map[string]string {
	out := make(map[string]string, len(input))
	for key, value := range input {
		out[key] = value
	}
	return out
}
