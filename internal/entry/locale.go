package entry

import (
	"strings"

	"golang.org/x/text/language"
)

// NormalizeLocale canonicalizes a BCP 47 locale tag ("de_de" -> "de-DE").
// Tags that do not parse are returned trimmed but otherwise untouched.
func NormalizeLocale(tag string) string {
	if code, ok := ParseLocale(tag); ok {
		return code
	}
	return strings.TrimSpace(tag)
}

// ParseLocale canonicalizes tag and reports whether it is a well-formed,
// known BCP 47 tag.
func ParseLocale(tag string) (string, bool) {
	trimmed := strings.TrimSpace(tag)
	if trimmed == "" {
		return "", false
	}
	parsed, err := language.Parse(strings.ReplaceAll(trimmed, "_", "-"))
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}

// NormalizeLocales canonicalizes tags, dropping blanks and duplicates while
// keeping the first occurrence order.
func NormalizeLocales(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		code := NormalizeLocale(tag)
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Locales captures the locale preferences used to resolve localized values:
// the caller's ordered request, the default locale and, when known, the set
// of locales configured for the entry.
type Locales struct {
	requested []string
	fallback  string
	available map[string]struct{}
}

// NewLocales builds locale preferences. A nil or empty requested list means
// "default locale only". A nil or empty available list means the configured
// locale set is unknown, so every requested locale is considered.
func NewLocales(requested []string, defaultLocale string, available []string) Locales {
	l := Locales{
		requested: NormalizeLocales(requested),
		fallback:  NormalizeLocale(defaultLocale),
	}
	return l.WithAvailable(available...)
}

// WithAvailable returns a copy whose configured locale set also contains
// codes.
func (l Locales) WithAvailable(codes ...string) Locales {
	normalized := NormalizeLocales(codes)
	if len(normalized) == 0 {
		return l
	}
	available := make(map[string]struct{}, len(l.available)+len(normalized))
	for code := range l.available {
		available[code] = struct{}{}
	}
	for _, code := range normalized {
		available[code] = struct{}{}
	}
	l.available = available
	return l
}

// Requested returns the normalized requested locales.
func (l Locales) Requested() []string {
	return append([]string(nil), l.requested...)
}

// Default returns the normalized default locale.
func (l Locales) Default() string {
	return l.fallback
}

// Available reports whether code belongs to the configured locale set. It
// always reports true when the set is unknown.
func (l Locales) Available(code string) bool {
	if l.available == nil {
		return true
	}
	_, ok := l.available[NormalizeLocale(code)]
	return ok
}

// Candidates returns the locales tried, in order, when resolving a localized
// value. Requested locales come first, the default last. When locales were
// requested but none of them is configured the result is empty: the default
// only backs up configured locales.
func (l Locales) Candidates() []string {
	if len(l.requested) == 0 {
		if l.fallback == "" {
			return nil
		}
		return []string{l.fallback}
	}

	out := make([]string, 0, len(l.requested)+1)
	for _, code := range l.requested {
		if l.Available(code) {
			out = append(out, code)
		}
	}
	if len(out) == 0 {
		return nil
	}
	if l.fallback == "" {
		return out
	}
	for _, code := range out {
		if code == l.fallback {
			return out
		}
	}
	return append(out, l.fallback)
}

// Resolve picks the first candidate locale holding a non-empty value.
func (l Locales) Resolve(values Localized) (Value, string, bool) {
	if len(values) == 0 {
		return nil, "", false
	}
	for _, code := range l.Candidates() {
		value, ok := values[code]
		if !ok || value == nil || value.empty() {
			continue
		}
		return value, code, true
	}
	return nil, "", false
}
