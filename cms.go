package cms

import (
	"github.com/goliatone/go-cms-delivery/internal/backends/markdown"
	"github.com/goliatone/go-cms-delivery/internal/backends/memory"
	"github.com/goliatone/go-cms-delivery/internal/delivery"
	"github.com/goliatone/go-cms-delivery/internal/di"
	"github.com/goliatone/go-cms-delivery/pkg/interfaces"
)

// PageService exports the page delivery service contract.
type PageService = delivery.Service

// Page exports the locale-resolved view of one fetched entry.
type Page = delivery.Page

// PageFuture exports the pending result of PageService.Page.
type PageFuture = delivery.PageFuture

// FetchError exports the error returned for failed page fetches.
type FetchError = delivery.FetchError

// DeliveryConfig exports the page service query configuration.
type DeliveryConfig = delivery.Config

// ServiceOption exports page service options.
type ServiceOption = delivery.ServiceOption

type (
	ContentBackend = interfaces.ContentBackend
	EntryQuery     = interfaces.EntryQuery
	Entry          = interfaces.Entry
	Localized      = interfaces.Localized
	Asset          = interfaces.Asset
	MarkdownParser = interfaces.MarkdownParser
	ParseOptions   = interfaces.ParseOptions
	Logger         = interfaces.Logger
	LoggerProvider = interfaces.LoggerProvider
)

// MemoryBackend exports the in-process content backend.
type MemoryBackend = memory.Backend

// MemoryOption exports memory backend options.
type MemoryOption = memory.Option

// MarkdownBackend exports the Markdown filesystem content backend.
type MarkdownBackend = markdown.Backend

// MarkdownBackendConfig exports the Markdown backend configuration.
type MarkdownBackendConfig = markdown.Config

// Option customises module wiring.
type Option = di.Option

var (
	NewPageService       = delivery.NewService
	WithServiceLogger    = delivery.WithLogger
	WithServiceMarkdown  = delivery.WithMarkdownParser
	WithFetchTimeout     = delivery.WithFetchTimeout
	WithServiceRequestID = delivery.WithRequestIDs

	NewMemoryBackend   = memory.New
	WithCredentials    = memory.WithCredentials
	NewMarkdownBackend = markdown.New
	WithBackend        = di.WithBackend
	WithLoggerProvider = di.WithLoggerProvider
	WithMarkdownParser = di.WithMarkdownParser
	WithRequestIDs     = di.WithRequestIDs
	WithContentFS      = di.WithContentFS
)

// Module represents the top level delivery runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a delivery module using the provided configuration and
// optional wiring overrides.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Pages returns the configured page delivery service.
func (m *Module) Pages() PageService {
	return m.container.PageService()
}

// Backend returns the content backend the page service reads from.
func (m *Module) Backend() ContentBackend {
	return m.container.Backend()
}

// Markdown returns the parser behind Page.FieldHTML, or nil when the
// markdown feature is disabled.
func (m *Module) Markdown() MarkdownParser {
	return m.container.MarkdownParser()
}
