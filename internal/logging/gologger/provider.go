package gologger

import (
	"context"
	"sort"
	"strings"
	"sync"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-cms-delivery/internal/logging"
	"github.com/goliatone/go-cms-delivery/internal/runtimeconfig"
	"github.com/goliatone/go-cms-delivery/pkg/interfaces"
)

const textCodeLoggerInit = "CMS_LOGGER_INIT"

var levels = map[string]string{
	"trace":   glog.Trace,
	"debug":   glog.Debug,
	"info":    glog.Info,
	"warn":    glog.Warn,
	"warning": glog.Warn,
	"error":   glog.Error,
	"fatal":   glog.Fatal,
}

// Provider hands out go-logger children named after runtime modules
// ("cms.delivery", "cms.backend"). Children are created once per name.
type Provider struct {
	root *glog.BaseLogger

	mu      sync.Mutex
	modules map[string]interfaces.Logger
}

// NewProvider builds the root go-logger instance from the runtime logging
// configuration. Unknown levels and formats are rejected with the matching
// runtimeconfig sentinel.
func NewProvider(cfg runtimeconfig.LoggingConfig) (*Provider, error) {
	options, err := loggerOptions(cfg)
	if err != nil {
		return nil, err
	}

	root := glog.NewLogger(options...)
	if focus := normalizeFocus(cfg.Focus); len(focus) > 0 {
		root.Focus(focus...)
	}

	return &Provider{
		root:    root,
		modules: map[string]interfaces.Logger{},
	}, nil
}

func loggerOptions(cfg runtimeconfig.LoggingConfig) ([]glog.Option, error) {
	var options []glog.Option

	if level := strings.ToLower(strings.TrimSpace(cfg.Level)); level != "" {
		mapped, ok := levels[level]
		if !ok {
			return nil, invalid(runtimeconfig.ErrLoggingLevelInvalid, cfg.Level)
		}
		options = append(options, glog.WithLevel(mapped))
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "json":
		options = append(options, glog.WithLoggerTypeJSON())
	case "console":
		options = append(options, glog.WithLoggerTypeConsole())
	case "pretty":
		options = append(options, glog.WithLoggerTypePretty())
	default:
		return nil, invalid(runtimeconfig.ErrLoggingFormatInvalid, cfg.Format)
	}

	if cfg.AddSource {
		options = append(options, glog.WithAddSource(true))
	}
	return options, nil
}

func invalid(sentinel error, value string) error {
	return goerrors.Wrap(sentinel, goerrors.CategoryValidation, "go-logger: "+sentinel.Error()+": "+value).
		WithTextCode(textCodeLoggerInit)
}

// GetLogger returns the logger for module name. The empty name is the root.
func (p *Provider) GetLogger(name string) interfaces.Logger {
	if p == nil || p.root == nil {
		return logging.NoOp()
	}
	name = strings.TrimSpace(name)

	p.mu.Lock()
	defer p.mu.Unlock()
	if logger, ok := p.modules[name]; ok {
		return logger
	}

	var inner glog.Logger = p.root
	if name != "" {
		inner = p.root.GetLogger(name)
	}
	logger := wrap(inner)
	p.modules[name] = logger
	return logger
}

func wrap(inner glog.Logger) interfaces.Logger {
	if inner == nil {
		return logging.NoOp()
	}
	return &adapter{inner: inner}
}

type adapter struct {
	inner glog.Logger
}

func (l *adapter) Trace(msg string, args ...any) { l.inner.Trace(msg, args...) }
func (l *adapter) Debug(msg string, args ...any) { l.inner.Debug(msg, args...) }
func (l *adapter) Info(msg string, args ...any)  { l.inner.Info(msg, args...) }
func (l *adapter) Warn(msg string, args ...any)  { l.inner.Warn(msg, args...) }
func (l *adapter) Error(msg string, args ...any) { l.inner.Error(msg, args...) }
func (l *adapter) Fatal(msg string, args ...any) { l.inner.Fatal(msg, args...) }

// WithFields attaches fetch fields such as page_id and request_id.
func (l *adapter) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	switch inner := l.inner.(type) {
	case glog.FieldsLogger:
		copied := make(map[string]any, len(fields))
		for key, value := range fields {
			copied[key] = value
		}
		return wrap(inner.WithFields(copied))
	case interface{ With(...any) *glog.BaseLogger }:
		return wrap(inner.With(fieldArgs(fields)...))
	default:
		return l
	}
}

func (l *adapter) WithContext(ctx context.Context) interfaces.Logger {
	if ctx == nil {
		return l
	}
	return wrap(l.inner.WithContext(ctx))
}

// fieldArgs flattens fields into key/value pairs sorted by key.
func fieldArgs(fields map[string]any) []any {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	args := make([]any, 0, len(keys)*2)
	for _, key := range keys {
		args = append(args, key, fields[key])
	}
	return args
}

func normalizeFocus(names []string) []string {
	out := make([]string, 0, len(names))
	seen := map[string]struct{}{}
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}
