package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"golang.org/x/text/language"

	"github.com/goliatone/go-cms-delivery/internal/markdown"
)

const textCodeConfigInvalid = "CMS_CONFIG_INVALID"

// Backend providers.
const (
	BackendMemory   = "memory"
	BackendMarkdown = "markdown"
	BackendCustom   = "custom"
)

var ErrMarkdownContentDirRequired = errors.New("cms config: markdown content directory is required for the markdown backend")
var ErrLoggingProviderRequired = errors.New("cms config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("cms config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("cms config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("cms config: logging format is invalid")
var ErrMarkdownExtensionUnknown = errors.New("cms config: markdown parser extension is unknown")
var ErrCredentialsRequired = errors.New("cms config: space id and token are required when credentials are enforced")

// Config aggregates backend bindings and feature flags for the delivery
// module.
type Config struct {
	DefaultLocale string
	// Locales lists the locales configured for the content space.
	Locales  []string
	Backend  BackendConfig
	Fetch    FetchConfig
	Markdown MarkdownConfig
	Features Features
	Logging  LoggingConfig
}

// BackendConfig selects the content backend and describes how page
// identifiers map onto entries.
type BackendConfig struct {
	Provider            string
	SpaceID             string
	Token               string
	PageTypeName        string
	PageTypeIDFieldName string
	// FixtureFile is a JSON fixture loaded into the memory backend.
	FixtureFile string
	// RequireCredentials makes the memory backend reject queries carrying a
	// different space id or token.
	RequireCredentials bool
}

// FetchConfig bounds backend calls. Zero disables the bound.
type FetchConfig struct {
	Timeout time.Duration
}

// MarkdownConfig captures filesystem and parser behaviour for Markdown
// content.
type MarkdownConfig struct {
	ContentDir     string
	Pattern        string
	Recursive      bool
	LocalePatterns map[string]string
	IncludeDrafts  bool
	Parser         MarkdownParserConfig
}

// MarkdownParserConfig mirrors interfaces.ParseOptions for runtime configuration.
type MarkdownParserConfig struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
}

// Features toggles module functionality.
type Features struct {
	// Markdown enables Page.FieldHTML rendering of text fields.
	Markdown bool
	Logger   bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns defaults for an in-memory backend serving "page"
// entries addressed by their "slug" field.
func DefaultConfig() Config {
	return Config{
		DefaultLocale: "en",
		Locales:       []string{"en"},
		Backend: BackendConfig{
			Provider:            BackendMemory,
			PageTypeName:        "page",
			PageTypeIDFieldName: "slug",
		},
		Markdown: MarkdownConfig{
			ContentDir:     "content",
			Pattern:        "*.md",
			Recursive:      true,
			LocalePatterns: map[string]string{},
		},
		Logging: LoggingConfig{
			Provider: "gologger",
			Level:    "info",
			Format:   "",
		},
	}
}

// Validate checks required fields and cross-field consistency. Field
// errors are reported as one go-errors validation error; consistency errors
// wrap the sentinel values above.
func (cfg Config) Validate() error {
	err := validation.ValidateStruct(&cfg,
		validation.Field(&cfg.DefaultLocale, validation.Required, validation.By(localeTag)),
		validation.Field(&cfg.Locales, validation.Each(validation.By(localeTag))),
		validation.Field(&cfg.Backend),
		validation.Field(&cfg.Fetch),
	)
	if err != nil {
		return goerrors.FromOzzoValidation(err, "cms config invalid").WithTextCode(textCodeConfigInvalid)
	}

	if normalizeProvider(cfg.Backend.Provider) == BackendMarkdown && strings.TrimSpace(cfg.Markdown.ContentDir) == "" {
		return invalid(ErrMarkdownContentDirRequired, "")
	}
	if cfg.Backend.RequireCredentials && (strings.TrimSpace(cfg.Backend.SpaceID) == "" || strings.TrimSpace(cfg.Backend.Token) == "") {
		return invalid(ErrCredentialsRequired, "")
	}
	if cfg.Features.Markdown {
		if unknown := markdown.UnknownExtensions(cfg.Markdown.Parser.Extensions); len(unknown) > 0 {
			return invalid(ErrMarkdownExtensionUnknown, strings.Join(unknown, ", "))
		}
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return invalid(ErrLoggingProviderRequired, "")
		}
		if !isSupportedLogger(provider) {
			return invalid(ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return invalid(ErrLoggingLevelInvalid, level)
		}
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return invalid(ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

// Validate implements validation.Validatable.
func (b BackendConfig) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.Provider, validation.Required, validation.By(backendProvider)),
		validation.Field(&b.PageTypeName, validation.Required),
		validation.Field(&b.PageTypeIDFieldName, validation.Required),
	)
}

// Validate implements validation.Validatable.
func (f FetchConfig) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Timeout, validation.Min(time.Duration(0))),
	)
}

// NormalizedBackend returns the lower-cased backend provider.
func (cfg Config) NormalizedBackend() string {
	return normalizeProvider(cfg.Backend.Provider)
}

func invalid(sentinel error, detail string) error {
	message := sentinel.Error()
	if detail != "" {
		message = fmt.Sprintf("%s: %s", message, detail)
	}
	return goerrors.Wrap(sentinel, goerrors.CategoryValidation, message).WithTextCode(textCodeConfigInvalid)
}

func backendProvider(value any) error {
	provider, _ := value.(string)
	if !isSupportedBackend(normalizeProvider(provider)) {
		return errors.New("must be one of memory, markdown, custom")
	}
	return nil
}

func localeTag(value any) error {
	tag, _ := value.(string)
	if strings.TrimSpace(tag) == "" {
		return nil
	}
	if _, err := language.Parse(strings.ReplaceAll(strings.TrimSpace(tag), "_", "-")); err != nil {
		return errors.New("must be a valid locale tag")
	}
	return nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedBackend(provider string) bool {
	switch provider {
	case BackendMemory, BackendMarkdown, BackendCustom:
		return true
	default:
		return false
	}
}

func isSupportedLogger(provider string) bool {
	return provider == "gologger"
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
