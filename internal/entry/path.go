package entry

import (
	"strconv"
	"strings"
)

// PathSeparator splits field path segments.
const PathSeparator = "."

// SplitPath splits a dotted field path. It reports false for empty paths and
// paths containing empty segments.
func SplitPath(path string) ([]string, bool) {
	if path == "" {
		return nil, false
	}
	segments := strings.Split(path, PathSeparator)
	for _, segment := range segments {
		if segment == "" {
			return nil, false
		}
	}
	return segments, true
}

// Lookup walks path through fields and returns the terminal value after
// locale resolution. Localized values met along the way are resolved with
// locales before the walk continues. Missing segments yield false.
func Lookup(fields Fields, path string, locales Locales) (Value, bool) {
	segments, ok := SplitPath(path)
	if !ok {
		return nil, false
	}

	var current Value = fields
	for _, segment := range segments {
		current, ok = localize(current, locales)
		if !ok {
			return nil, false
		}
		current, ok = child(current, segment)
		if !ok {
			return nil, false
		}
	}
	return localize(current, locales)
}

// Resolve returns the string form of the value addressed by path: text as
// is, asset URLs verbatim and rich text flattened to plain text. Nested
// field groups, lists and values missing for every candidate locale resolve
// to false.
func Resolve(fields Fields, path string, locales Locales) (string, bool) {
	value, ok := Lookup(fields, path, locales)
	if !ok {
		return "", false
	}
	return Scalar(value)
}

// Scalar converts a terminal value into its string form.
func Scalar(value Value) (string, bool) {
	switch typed := value.(type) {
	case Text:
		return string(typed), true
	case Asset:
		if typed.URL == "" {
			return "", false
		}
		return typed.URL, true
	case RichText:
		return typed.PlainText(), true
	case Localized, List, Fields:
		return "", false
	}
	return "", false
}

func localize(value Value, locales Locales) (Value, bool) {
	for {
		localized, ok := value.(Localized)
		if !ok {
			return value, value != nil
		}
		resolved, _, found := locales.Resolve(localized)
		if !found {
			return nil, false
		}
		value = resolved
	}
}

func child(value Value, segment string) (Value, bool) {
	switch typed := value.(type) {
	case Fields:
		return typed.Lookup(segment)
	case List:
		index, err := strconv.Atoi(segment)
		if err != nil || index < 0 || index >= len(typed) {
			return nil, false
		}
		item := typed[index]
		return item, item != nil
	default:
		return nil, false
	}
}
