package interfaces

import "context"

// ContentBackend is the remote content-management system the delivery
// service reads from. Implementations own transport, authentication and
// request signing; the delivery layer only needs a "find entries of a type
// where field == value" capability.
type ContentBackend interface {
	// QueryEntries returns the entries of query.ContentType whose
	// query.Field equals query.Value. An empty result is not an error.
	QueryEntries(ctx context.Context, query EntryQuery) ([]Entry, error)
}

// EntryQuery describes a single field-equality lookup.
type EntryQuery struct {
	SpaceID     string
	AccessToken string
	ContentType string
	Field       string
	Value       string
	// Limit caps the number of returned entries. Zero means no limit.
	Limit int
}

// Entry is the backend-native representation of one content record.
//
// Fields holds the raw field tree. Values may be scalars (string, bool,
// numbers, time.Time), Localized maps, Asset references, rich text
// documents (maps with "nodeType": "document"), lists, or nested field maps
// for linked entries. Plain map[string]any values whose keys are all locale
// tags of the entry are treated as localized.
type Entry struct {
	ID          string
	ContentType string
	// Locales lists the locales configured for the entry's space, when the
	// backend knows them.
	Locales []string
	Fields  map[string]any
}

// Localized marks a raw field value as a locale -> value mapping.
type Localized map[string]any

// Asset is a referenced media file.
type Asset struct {
	URL         string
	Title       string
	Description string
	ContentType string
	FileName    string
	Size        int64
	Width       int
	Height      int
}
