package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-cms-delivery/pkg/interfaces"
)

const (
	rootModule     = "cms"
	deliveryModule = "cms.delivery"
	backendModule  = "cms.backend"
)

const (
	fieldPageID      = "page_id"
	fieldRequestID   = "request_id"
	fieldContentType = "content_type"
	fieldLocales     = "locales"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The module identifier is
// attached as a structured field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// DeliveryLogger returns the logger namespace reserved for the page delivery service.
func DeliveryLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, deliveryModule)
}

// BackendLogger returns the logger namespace reserved for content backends.
func BackendLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, backendModule)
}

// WithFetchContext enriches logger with the fields identifying one page
// fetch. Empty values are skipped.
func WithFetchContext(logger interfaces.Logger, pageID, requestID, contentType string, locales []string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(pageID); trimmed != "" {
		fields[fieldPageID] = trimmed
	}
	if trimmed := strings.TrimSpace(requestID); trimmed != "" {
		fields[fieldRequestID] = trimmed
	}
	if trimmed := strings.TrimSpace(contentType); trimmed != "" {
		fields[fieldContentType] = trimmed
	}
	if len(locales) > 0 {
		fields[fieldLocales] = strings.Join(locales, ",")
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
