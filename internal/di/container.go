package di

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-cms-delivery/internal/backends/markdown"
	"github.com/goliatone/go-cms-delivery/internal/backends/memory"
	"github.com/goliatone/go-cms-delivery/internal/delivery"
	"github.com/goliatone/go-cms-delivery/internal/logging"
	"github.com/goliatone/go-cms-delivery/internal/logging/gologger"
	cmsmarkdown "github.com/goliatone/go-cms-delivery/internal/markdown"
	"github.com/goliatone/go-cms-delivery/internal/runtimeconfig"
	"github.com/goliatone/go-cms-delivery/pkg/interfaces"
)

const textCodeContainerInit = "CMS_CONTAINER_INIT"

// ErrCustomBackendRequired reports the custom provider without WithBackend.
var ErrCustomBackendRequired = errors.New("cms: custom backend provider requires WithBackend")

// Container wires the delivery module: logger provider, content backend,
// markdown parser and the page service built on top of them.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	backend        interfaces.ContentBackend
	markdown       interfaces.MarkdownParser
	contentFS      fs.FS
	requestIDs     func() string

	pageSvc delivery.Service
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBackend overrides the backend selected by Config.Backend.Provider.
func WithBackend(backend interfaces.ContentBackend) Option {
	return func(c *Container) {
		c.backend = backend
	}
}

// WithLoggerProvider overrides the logger provider built from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithMarkdownParser overrides the goldmark parser used for FieldHTML.
func WithMarkdownParser(parser interfaces.MarkdownParser) Option {
	return func(c *Container) {
		c.markdown = parser
	}
}

// WithRequestIDs overrides the per-fetch request id generator.
func WithRequestIDs(next func() string) Option {
	return func(c *Container) {
		c.requestIDs = next
	}
}

// WithContentFS supplies the filesystem read by the markdown backend.
// Config.Markdown.ContentDir is then a directory inside fsys instead of a
// directory on disk.
func WithContentFS(fsys fs.FS) Option {
	return func(c *Container) {
		c.contentFS = fsys
	}
}

// NewContainer validates cfg and wires the module.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLogger(); err != nil {
		return nil, err
	}
	if err := c.configureBackend(); err != nil {
		return nil, err
	}
	c.configureMarkdown()
	c.configurePageService()

	logging.ModuleLogger(c.loggerProvider, "").Debug("container.ready",
		"backend", c.Config.NormalizedBackend(),
		"markdown", c.markdown != nil,
	)
	return c, nil
}

func (c *Container) configureLogger() error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}
	provider, err := gologger.NewProvider(c.Config.Logging)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "configure logger").WithTextCode(textCodeContainerInit)
	}
	c.loggerProvider = provider
	return nil
}

func (c *Container) configureBackend() error {
	if c.backend != nil {
		return nil
	}

	backendLogger := logging.BackendLogger(c.loggerProvider)
	switch c.Config.NormalizedBackend() {
	case runtimeconfig.BackendMemory:
		backend, err := c.memoryBackend(backendLogger)
		if err != nil {
			return err
		}
		c.backend = backend
	case runtimeconfig.BackendMarkdown:
		c.backend = c.markdownBackend(backendLogger)
	default:
		return goerrors.Wrap(ErrCustomBackendRequired, goerrors.CategoryValidation, "content backend missing").
			WithTextCode(textCodeContainerInit)
	}
	return nil
}

func (c *Container) memoryBackend(logger interfaces.Logger) (*memory.Backend, error) {
	opts := []memory.Option{memory.WithLogger(logger)}
	if c.Config.Backend.RequireCredentials {
		opts = append(opts, memory.WithCredentials(c.Config.Backend.SpaceID, c.Config.Backend.Token))
	}
	backend := memory.New(opts...)

	fixture := strings.TrimSpace(c.Config.Backend.FixtureFile)
	if fixture == "" {
		return backend, nil
	}
	data, err := os.ReadFile(fixture)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "read content fixture "+fixture).
			WithTextCode(textCodeContainerInit)
	}
	if err := backend.LoadJSON(data); err != nil {
		return nil, err
	}
	return backend, nil
}

func (c *Container) markdownBackend(logger interfaces.Logger) *markdown.Backend {
	fsys := c.contentFS
	dir := c.Config.Markdown.ContentDir
	if fsys == nil {
		fsys = os.DirFS(dir)
		dir = "."
	}
	return markdown.New(fsys, markdown.Config{
		Dir:            dir,
		DefaultLocale:  c.Config.DefaultLocale,
		Locales:        c.Config.Locales,
		LocalePatterns: c.Config.Markdown.LocalePatterns,
		Pattern:        c.Config.Markdown.Pattern,
		Recursive:      c.Config.Markdown.Recursive,
		IncludeDrafts:  c.Config.Markdown.IncludeDrafts,
	}, markdown.WithLogger(logger))
}

func (c *Container) configureMarkdown() {
	if c.markdown != nil || !c.Config.Features.Markdown {
		return
	}
	parser := c.Config.Markdown.Parser
	c.markdown = cmsmarkdown.NewGoldmarkParser(interfaces.ParseOptions{
		Extensions: parser.Extensions,
		Sanitize:   parser.Sanitize,
		HardWraps:  parser.HardWraps,
		SafeMode:   parser.SafeMode,
	})
}

func (c *Container) configurePageService() {
	opts := []delivery.ServiceOption{
		delivery.WithLogger(logging.DeliveryLogger(c.loggerProvider)),
		delivery.WithFetchTimeout(c.Config.Fetch.Timeout),
	}
	if c.markdown != nil {
		opts = append(opts, delivery.WithMarkdownParser(c.markdown))
	}
	if c.requestIDs != nil {
		opts = append(opts, delivery.WithRequestIDs(c.requestIDs))
	}

	c.pageSvc = delivery.NewService(c.backend, delivery.Config{
		SpaceID:             c.Config.Backend.SpaceID,
		Token:               c.Config.Backend.Token,
		PageTypeName:        c.Config.Backend.PageTypeName,
		PageTypeIDFieldName: c.Config.Backend.PageTypeIDFieldName,
		DefaultLocale:       c.Config.DefaultLocale,
		Locales:             c.Config.Locales,
	}, opts...)
}

// PageService returns the configured page delivery service.
func (c *Container) PageService() delivery.Service {
	return c.pageSvc
}

// Backend returns the content backend the page service queries.
func (c *Container) Backend() interfaces.ContentBackend {
	return c.backend
}

// LoggerProvider returns the configured logger provider, if any.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// MarkdownParser returns the parser used by Page.FieldHTML, if any.
func (c *Container) MarkdownParser() interfaces.MarkdownParser {
	return c.markdown
}
