package markdown

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/goliatone/go-cms-delivery/pkg/interfaces"
)

// ErrUnknownExtension reports an extension name missing from the registry.
var ErrUnknownExtension = errors.New("markdown: unknown extension")

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
	"typographer":   extension.Typographer,
}

// defaultExtensions apply when ParseOptions names none.
var defaultExtensions = []string{"gfm"}

// GoldmarkParser renders Markdown field values to HTML. Engines are built
// once per distinct option set and shared by concurrent pages.
type GoldmarkParser struct {
	defaults interfaces.ParseOptions

	mu      sync.Mutex
	engines map[string]goldmark.Markdown
}

// NewGoldmarkParser constructs a parser. Zero options mean GFM, no hard
// wraps and raw HTML passed through.
func NewGoldmarkParser(defaults interfaces.ParseOptions) *GoldmarkParser {
	defaults.Extensions = append([]string(nil), defaults.Extensions...)
	return &GoldmarkParser{
		defaults: defaults,
		engines:  map[string]goldmark.Markdown{},
	}
}

// Parse renders Markdown with the parser defaults.
func (p *GoldmarkParser) Parse(markdown []byte) ([]byte, error) {
	return p.ParseWithOptions(markdown, p.defaults)
}

// ParseWithOptions renders Markdown with opts instead of the defaults.
// Unknown extension names fail with ErrUnknownExtension.
func (p *GoldmarkParser) ParseWithOptions(markdown []byte, opts interfaces.ParseOptions) ([]byte, error) {
	if unknown := UnknownExtensions(opts.Extensions); len(unknown) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownExtension, strings.Join(unknown, ", "))
	}

	var buf bytes.Buffer
	if err := p.engine(opts).Convert(markdown, &buf); err != nil {
		return nil, fmt.Errorf("markdown parse: %w", err)
	}
	return buf.Bytes(), nil
}

// UnknownExtensions returns the names in names that the parser cannot
// enable, in input order. Blank names are ignored.
func UnknownExtensions(names []string) []string {
	var unknown []string
	for _, name := range names {
		key := extensionKey(name)
		if key == "" {
			continue
		}
		if _, ok := extensionRegistry[key]; !ok {
			unknown = append(unknown, strings.TrimSpace(name))
		}
	}
	return unknown
}

func (p *GoldmarkParser) engine(opts interfaces.ParseOptions) goldmark.Markdown {
	names := extensionNames(opts.Extensions)
	key := fmt.Sprintf("%s|hard=%t|raw=%t", strings.Join(names, ","), opts.HardWraps, allowsRawHTML(opts))

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.engines == nil {
		p.engines = map[string]goldmark.Markdown{}
	}
	if engine, ok := p.engines[key]; ok {
		return engine
	}
	engine := newGoldmarkEngine(names, opts)
	p.engines[key] = engine
	return engine
}

func newGoldmarkEngine(names []string, opts interfaces.ParseOptions) goldmark.Markdown {
	extenders := make([]goldmark.Extender, 0, len(names))
	for _, name := range names {
		extenders = append(extenders, extensionRegistry[name])
	}

	var rendererOptions []renderer.Option
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if allowsRawHTML(opts) {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	return goldmark.New(
		goldmark.WithExtensions(extenders...),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(rendererOptions...),
	)
}

// extensionNames normalizes names, drops unknown and repeated entries and
// falls back to defaultExtensions.
func extensionNames(names []string) []string {
	if len(names) == 0 {
		return defaultExtensions
	}
	out := make([]string, 0, len(names))
	seen := map[string]struct{}{}
	for _, name := range names {
		key := extensionKey(name)
		if _, ok := extensionRegistry[key]; !ok {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}

func extensionKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// allowsRawHTML is false when either SafeMode or Sanitize is set.
func allowsRawHTML(opts interfaces.ParseOptions) bool {
	return !opts.SafeMode && !opts.Sanitize
}
