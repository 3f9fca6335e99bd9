package delivery

import (
	"context"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/goliatone/go-cms-delivery/internal/entry"
	"github.com/goliatone/go-cms-delivery/internal/logging"
	"github.com/goliatone/go-cms-delivery/pkg/interfaces"
)

const (
	textCodeBackendUnavailable = "CMS_BACKEND_UNAVAILABLE"
	textCodePageIDRequired     = "CMS_PAGE_ID_REQUIRED"
	textCodeBackendPanic       = "CMS_BACKEND_PANIC"
	textCodeConfigInvalid      = "CMS_SERVICE_CONFIG_INVALID"
)

// Config determines how page identifiers translate into backend queries.
type Config struct {
	SpaceID             string
	Token               string
	PageTypeName        string
	PageTypeIDFieldName string
	DefaultLocale       string
	// Locales lists the locales configured for the space. Backends that
	// report entry locales extend this set per entry.
	Locales []string
}

// Validate checks the fields required to build a query.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.PageTypeName, validation.Required),
		validation.Field(&c.PageTypeIDFieldName, validation.Required),
	)
}

// Service fetches pages from the content backend.
type Service interface {
	// Page starts an asynchronous fetch and returns immediately. Failures,
	// including backend errors, surface through the returned future.
	Page(ctx context.Context, pageID string, locales []string) *PageFuture
	// Fetch runs the same fetch synchronously. A missing page is reported as
	// (nil, false, nil); failures are *FetchError values.
	Fetch(ctx context.Context, pageID string, locales []string) (*Page, bool, error)
}

// ServiceOption customises the delivery service.
type ServiceOption func(*service)

// WithLogger sets the logger used for fetch events.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMarkdownParser sets the parser used by Page.FieldHTML.
func WithMarkdownParser(parser interfaces.MarkdownParser) ServiceOption {
	return func(s *service) {
		s.markdown = parser
	}
}

// WithFetchTimeout bounds each backend call. Zero disables the bound.
func WithFetchTimeout(timeout time.Duration) ServiceOption {
	return func(s *service) {
		if timeout >= 0 {
			s.timeout = timeout
		}
	}
}

// WithRequestIDs overrides the generator of per-fetch request identifiers.
func WithRequestIDs(next func() string) ServiceOption {
	return func(s *service) {
		if next != nil {
			s.requestID = next
		}
	}
}

type service struct {
	backend   interfaces.ContentBackend
	cfg       Config
	logger    interfaces.Logger
	markdown  interfaces.MarkdownParser
	timeout   time.Duration
	requestID func() string
	// cfgErr is reported by every fetch of a service built from an invalid
	// Config.
	cfgErr error
}

// NewService builds a delivery service reading from backend.
func NewService(backend interfaces.ContentBackend, cfg Config, opts ...ServiceOption) Service {
	s := &service{
		backend:   backend,
		cfg:       cfg,
		logger:    logging.NoOp(),
		requestID: uuid.NewString,
	}
	s.cfg.Locales = append([]string(nil), cfg.Locales...)
	if err := cfg.Validate(); err != nil {
		s.cfgErr = goerrors.Wrap(err, goerrors.CategoryValidation, "page service config invalid").
			WithTextCode(textCodeConfigInvalid)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Page(ctx context.Context, pageID string, locales []string) *PageFuture {
	future := newPageFuture()
	requested := append([]string(nil), locales...)
	go func() {
		page, found, err := s.Fetch(ctx, pageID, requested)
		future.complete(page, found, err)
	}()
	return future
}

func (s *service) Fetch(ctx context.Context, pageID string, locales []string) (*Page, bool, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	requestID := s.requestID()
	requested := entry.NormalizeLocales(locales)
	logger := logging.WithFetchContext(logging.WithContext(s.logger, ctx), pageID, requestID, s.cfg.PageTypeName, requested)

	if s.backend == nil {
		err := goerrors.Wrap(ErrBackendUnavailable, goerrors.CategoryInternal, "content backend not configured").
			WithTextCode(textCodeBackendUnavailable)
		logger.Error("delivery.fetch.failed", "error", err)
		return nil, false, newFetchError(pageID, requestID, err)
	}
	if s.cfgErr != nil {
		logger.Error("delivery.fetch.failed", "error", s.cfgErr)
		return nil, false, newFetchError(pageID, requestID, s.cfgErr)
	}
	if strings.TrimSpace(pageID) == "" {
		err := goerrors.Wrap(ErrPageIDRequired, goerrors.CategoryValidation, "page id is blank").
			WithTextCode(textCodePageIDRequired)
		logger.Error("delivery.fetch.failed", "error", err)
		return nil, false, newFetchError(pageID, requestID, err)
	}

	fetchCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	logger.Debug("delivery.fetch.start")
	entries, err := s.query(fetchCtx, interfaces.EntryQuery{
		SpaceID:     s.cfg.SpaceID,
		AccessToken: s.cfg.Token,
		ContentType: s.cfg.PageTypeName,
		Field:       s.cfg.PageTypeIDFieldName,
		Value:       pageID,
		Limit:       1,
	})
	if err != nil {
		logger.Error("delivery.fetch.failed", "error", err)
		return nil, false, newFetchError(pageID, requestID, err)
	}
	if len(entries) == 0 {
		logger.Debug("delivery.fetch.not_found")
		return nil, false, nil
	}

	page := newPage(pageInput{
		pageID:        pageID,
		raw:           entries[0],
		requested:     requested,
		defaultLocale: s.cfg.DefaultLocale,
		configured:    s.cfg.Locales,
		markdown:      s.markdown,
	})
	logger.Debug("delivery.fetch.resolved", "entry_id", page.EntryID(), "candidates", strings.Join(page.Locales(), ","))
	return page, true, nil
}

// query shields callers from backend panics so every failure reaches them
// as an error.
func (s *service) query(ctx context.Context, q interfaces.EntryQuery) (entries []interfaces.Entry, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			entries = nil
			err = goerrors.New(fmt.Sprintf("content backend panic: %v", recovered), goerrors.CategoryInternal).
				WithTextCode(textCodeBackendPanic)
		}
	}()
	return s.backend.QueryEntries(ctx, q)
}
