// Package memory provides an in-process content backend. It serves entries
// registered with Put or loaded from a JSON fixture document.
package memory

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-cms-delivery/internal/entry"
	"github.com/goliatone/go-cms-delivery/internal/logging"
	"github.com/goliatone/go-cms-delivery/internal/validation"
	"github.com/goliatone/go-cms-delivery/pkg/interfaces"
)

const (
	textCodeCredentials = "CMS_BACKEND_CREDENTIALS"
	textCodeFixture     = "CMS_FIXTURE_INVALID"
)

//go:embed fixture.schema.json
var fixtureSchemaDocument []byte

var fixtureSchema = validation.MustCompile("fixture.schema.json", fixtureSchemaDocument)

// Option customises the backend.
type Option func(*Backend)

// WithCredentials makes the backend reject queries whose space id or access
// token differ from the supplied values.
func WithCredentials(spaceID, token string) Option {
	return func(b *Backend) {
		b.spaceID = spaceID
		b.token = token
		b.checkCredentials = true
	}
}

// WithLogger sets the logger used for backend events.
func WithLogger(logger interfaces.Logger) Option {
	return func(b *Backend) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// Backend is a concurrency-safe in-memory interfaces.ContentBackend.
type Backend struct {
	mu      sync.RWMutex
	entries []interfaces.Entry
	index   map[string]int
	locales []string

	spaceID          string
	token            string
	checkCredentials bool
	logger           interfaces.Logger
}

var _ interfaces.ContentBackend = (*Backend)(nil)

// New constructs an empty backend.
func New(opts ...Option) *Backend {
	b := &Backend{
		index:  map[string]int{},
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Put stores entries, replacing any stored entry with the same id.
func (b *Backend) Put(entries ...interfaces.Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, item := range entries {
		stored := cloneEntry(item)
		if pos, ok := b.index[stored.ID]; ok {
			b.entries[pos] = stored
			continue
		}
		b.index[stored.ID] = len(b.entries)
		b.entries = append(b.entries, stored)
	}
}

// Len reports the number of stored entries.
func (b *Backend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}

// Locales returns the space-wide locales declared by loaded fixtures.
func (b *Backend) Locales() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]string(nil), b.locales...)
}

type fixtureDocument struct {
	Locales []string       `json:"locales"`
	Entries []fixtureEntry `json:"entries"`
}

type fixtureEntry struct {
	ID          string         `json:"id"`
	ContentType string         `json:"contentType"`
	Locales     []string       `json:"locales"`
	Fields      map[string]any `json:"fields"`
}

// LoadJSON validates a fixture document against the embedded schema and
// stores its entries. The document shape is
// {"locales": [...], "entries": [{"id", "contentType", "locales", "fields"}]}.
// Plain objects whose keys are all fixture locales decode as localized
// values.
func (b *Backend) LoadJSON(data []byte) error {
	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "decode content fixture").
			WithTextCode(textCodeFixture)
	}
	if err := fixtureSchema.Validate(payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "content fixture does not match schema").
			WithTextCode(textCodeFixture)
	}

	var doc fixtureDocument
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&doc); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "decode content fixture").
			WithTextCode(textCodeFixture)
	}

	locales := entry.NormalizeLocales(doc.Locales)
	entries := make([]interfaces.Entry, 0, len(doc.Entries))
	for _, item := range doc.Entries {
		entryLocales := item.Locales
		if len(entryLocales) == 0 {
			entryLocales = locales
		}
		entries = append(entries, interfaces.Entry{
			ID:          item.ID,
			ContentType: item.ContentType,
			Locales:     entry.NormalizeLocales(entryLocales),
			Fields:      item.Fields,
		})
	}

	b.mu.Lock()
	b.locales = entry.NormalizeLocales(append(b.locales, locales...))
	b.mu.Unlock()

	b.Put(entries...)
	b.logger.Debug("memory.fixture.loaded", "entries", len(entries), "locales", strings.Join(locales, ","))
	return nil
}

// QueryEntries returns the stored entries of query.ContentType whose
// query.Field equals query.Value. Localized fields match when any locale
// holds the value.
func (b *Backend) QueryEntries(ctx context.Context, query interfaces.EntryQuery) ([]interfaces.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if b.checkCredentials && (query.SpaceID != b.spaceID || query.AccessToken != b.token) {
		b.logger.Warn("memory.query.unauthorized", "space_id", query.SpaceID)
		return nil, goerrors.New(fmt.Sprintf("access denied to space %q", query.SpaceID), goerrors.CategoryAuth).
			WithTextCode(textCodeCredentials)
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	var matches []interfaces.Entry
	for _, item := range b.entries {
		if query.ContentType != "" && item.ContentType != query.ContentType {
			continue
		}
		if query.Field != "" && !fieldEquals(item.Fields[query.Field], query.Value) {
			continue
		}
		matches = append(matches, cloneEntry(item))
		if query.Limit > 0 && len(matches) >= query.Limit {
			break
		}
	}
	return matches, nil
}

func fieldEquals(raw any, want string) bool {
	switch typed := raw.(type) {
	case nil:
		return false
	case string:
		return typed == want
	case interfaces.Localized:
		return localizedEquals(typed, want)
	case map[string]any:
		return localizedEquals(typed, want)
	case json.Number:
		return typed.String() == want
	case fmt.Stringer:
		return typed.String() == want
	default:
		return fmt.Sprint(typed) == want
	}
}

func localizedEquals(values map[string]any, want string) bool {
	for _, value := range values {
		switch value.(type) {
		case map[string]any, interfaces.Localized:
			continue
		}
		if fieldEquals(value, want) {
			return true
		}
	}
	return false
}

func cloneEntry(in interfaces.Entry) interfaces.Entry {
	out := interfaces.Entry{
		ID:          in.ID,
		ContentType: in.ContentType,
		Locales:     append([]string(nil), in.Locales...),
	}
	if in.Fields != nil {
		out.Fields = make(map[string]any, len(in.Fields))
		for key, value := range in.Fields {
			out.Fields[key] = value
		}
	}
	return out
}
