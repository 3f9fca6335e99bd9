package entry

import "github.com/goliatone/go-cms-delivery/pkg/interfaces"

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindText Kind = iota + 1
	KindLocalized
	KindAsset
	KindRichText
	KindList
	KindFields
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindLocalized:
		return "localized"
	case KindAsset:
		return "asset"
	case KindRichText:
		return "rich_text"
	case KindList:
		return "list"
	case KindFields:
		return "fields"
	default:
		return "unknown"
	}
}

// Value is one node of an entry's field tree. The set of implementations is
// closed: Text, Localized, Asset, RichText, List and Fields.
type Value interface {
	Kind() Kind
	// empty reports whether the value carries no content. Locale fallback
	// skips empty values.
	empty() bool
}

// Text is a plain scalar. Non-string scalars are stored in their canonical
// string form.
type Text string

func (Text) Kind() Kind       { return KindText }
func (t Text) empty() bool    { return t == "" }
func (t Text) String() string { return string(t) }

// Localized maps canonical locale tags to per-locale values.
type Localized map[string]Value

func (Localized) Kind() Kind { return KindLocalized }

func (l Localized) empty() bool {
	for _, value := range l {
		if value != nil && !value.empty() {
			return false
		}
	}
	return true
}

// Asset references a media file. Its resolved string form is the URL.
type Asset struct {
	interfaces.Asset
}

func (Asset) Kind() Kind       { return KindAsset }
func (a Asset) empty() bool    { return a.URL == "" }
func (a Asset) String() string { return a.URL }

// RichText is a structured document made of nested nodes.
type RichText struct {
	Root Node
}

func (RichText) Kind() Kind { return KindRichText }

func (r RichText) empty() bool { return r.PlainText() == "" }

// List is an ordered sequence of values.
type List []Value

func (List) Kind() Kind    { return KindList }
func (l List) empty() bool { return len(l) == 0 }

// Fields maps field names to values. Entries and linked entries are Fields.
type Fields map[string]Value

func (Fields) Kind() Kind    { return KindFields }
func (f Fields) empty() bool { return len(f) == 0 }

// Lookup returns the value stored under key.
func (f Fields) Lookup(key string) (Value, bool) {
	if f == nil {
		return nil, false
	}
	value, ok := f[key]
	if !ok || value == nil {
		return nil, false
	}
	return value, true
}
