package entry

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-cms-delivery/pkg/interfaces"
)

// Decoded is the typed view of a raw backend field tree.
type Decoded struct {
	Fields Fields
	// Locales lists every locale observed in localized values, sorted.
	Locales []string
}

// Decode converts a raw field tree into typed values. knownLocales anchors
// the detection of plain maps that are keyed by locale; it should hold at
// least the default locale. Explicit interfaces.Localized values are always
// localized.
func Decode(raw map[string]any, knownLocales []string) Decoded {
	d := &decoder{
		known:    map[string]struct{}{},
		observed: map[string]struct{}{},
	}
	for _, code := range NormalizeLocales(knownLocales) {
		d.known[code] = struct{}{}
	}

	fields := d.fields(raw)
	locales := make([]string, 0, len(d.observed))
	for code := range d.observed {
		locales = append(locales, code)
	}
	sort.Strings(locales)

	return Decoded{Fields: fields, Locales: locales}
}

type decoder struct {
	known    map[string]struct{}
	observed map[string]struct{}
}

func (d *decoder) fields(raw map[string]any) Fields {
	out := make(Fields, len(raw))
	for key, value := range raw {
		if decoded := d.value(value); decoded != nil {
			out[key] = decoded
		}
	}
	return out
}

func (d *decoder) value(raw any) Value {
	switch typed := raw.(type) {
	case nil:
		return nil
	case Value:
		return typed
	case string:
		return Text(typed)
	case bool:
		return Text(strconv.FormatBool(typed))
	case int:
		return Text(strconv.Itoa(typed))
	case int32:
		return Text(strconv.FormatInt(int64(typed), 10))
	case int64:
		return Text(strconv.FormatInt(typed, 10))
	case uint:
		return Text(strconv.FormatUint(uint64(typed), 10))
	case uint64:
		return Text(strconv.FormatUint(typed, 10))
	case float32:
		return Text(strconv.FormatFloat(float64(typed), 'f', -1, 32))
	case float64:
		return Text(strconv.FormatFloat(typed, 'f', -1, 64))
	case json.Number:
		return Text(typed.String())
	case time.Time:
		return Text(typed.Format(time.RFC3339))
	case interfaces.Asset:
		return Asset{Asset: typed}
	case *interfaces.Asset:
		if typed == nil {
			return nil
		}
		return Asset{Asset: *typed}
	case interfaces.Localized:
		return d.localized(typed)
	case interfaces.Entry:
		return d.fields(typed.Fields)
	case *interfaces.Entry:
		if typed == nil {
			return nil
		}
		return d.fields(typed.Fields)
	case map[string]any:
		return d.object(typed)
	case map[string]string:
		converted := make(map[string]any, len(typed))
		for key, value := range typed {
			converted[key] = value
		}
		return d.object(converted)
	case []any:
		return d.list(typed)
	case []string:
		items := make([]any, len(typed))
		for i, item := range typed {
			items[i] = item
		}
		return d.list(items)
	case []map[string]any:
		items := make([]any, len(typed))
		for i, item := range typed {
			items[i] = item
		}
		return d.list(items)
	case fmt.Stringer:
		return Text(typed.String())
	default:
		return Text(fmt.Sprint(typed))
	}
}

func (d *decoder) object(raw map[string]any) Value {
	if nodeType, _ := raw["nodeType"].(string); nodeType == nodeDocument {
		return RichText{Root: decodeNode(raw)}
	}
	if asset, ok := decodeAsset(raw); ok {
		return asset
	}
	if d.localeKeyed(raw) {
		return d.localized(raw)
	}
	return d.fields(raw)
}

func (d *decoder) localized(raw map[string]any) Localized {
	out := make(Localized, len(raw))
	for key, value := range raw {
		code := NormalizeLocale(key)
		if code == "" {
			continue
		}
		d.observed[code] = struct{}{}
		if decoded := d.value(value); decoded != nil {
			out[code] = decoded
		}
	}
	return out
}

// localeKeyed reports whether raw is a locale -> value map: every key must
// be a valid locale tag and at least one of them a known locale. The second
// condition keeps field groups such as {"id": ...} out.
func (d *decoder) localeKeyed(raw map[string]any) bool {
	if len(raw) == 0 || len(d.known) == 0 {
		return false
	}
	anchored := false
	for key := range raw {
		code, ok := ParseLocale(key)
		if !ok {
			return false
		}
		if _, known := d.known[code]; known {
			anchored = true
		}
	}
	return anchored
}

func (d *decoder) list(raw []any) List {
	out := make(List, 0, len(raw))
	for _, item := range raw {
		if decoded := d.value(item); decoded != nil {
			out = append(out, decoded)
		}
	}
	return out
}

// decodeAsset recognizes maps shaped as {"type": "asset", "url": ...}. The
// type marker may also live under "sys".
func decodeAsset(raw map[string]any) (Asset, bool) {
	kind, _ := raw["type"].(string)
	if kind == "" {
		if sys, ok := raw["sys"].(map[string]any); ok {
			kind, _ = sys["type"].(string)
		}
	}
	if !strings.EqualFold(kind, "asset") {
		return Asset{}, false
	}
	url, _ := raw["url"].(string)
	if url == "" {
		return Asset{}, false
	}
	return Asset{Asset: interfaces.Asset{
		URL:         url,
		Title:       stringValue(raw, "title"),
		Description: stringValue(raw, "description"),
		ContentType: stringValue(raw, "contentType", "content_type"),
		FileName:    stringValue(raw, "fileName", "file_name"),
		Size:        intValue(raw["size"]),
		Width:       int(intValue(raw["width"])),
		Height:      int(intValue(raw["height"])),
	}}, true
}

func decodeNode(raw map[string]any) Node {
	node := Node{}
	node.Type, _ = raw["nodeType"].(string)
	node.Value, _ = raw["value"].(string)
	if data, ok := raw["data"].(map[string]any); ok {
		node.Data = data
	}
	if marks, ok := raw["marks"].([]any); ok {
		for _, mark := range marks {
			switch typed := mark.(type) {
			case string:
				node.Marks = append(node.Marks, typed)
			case map[string]any:
				if name, ok := typed["type"].(string); ok {
					node.Marks = append(node.Marks, name)
				}
			}
		}
	}
	if content, ok := raw["content"].([]any); ok {
		for _, child := range content {
			if childMap, ok := child.(map[string]any); ok {
				node.Content = append(node.Content, decodeNode(childMap))
			}
		}
	}
	return node
}

func stringValue(raw map[string]any, keys ...string) string {
	for _, key := range keys {
		if value, ok := raw[key].(string); ok && value != "" {
			return value
		}
	}
	return ""
}

func intValue(raw any) int64 {
	switch typed := raw.(type) {
	case int:
		return int64(typed)
	case int64:
		return typed
	case float64:
		return int64(typed)
	case json.Number:
		value, _ := typed.Int64()
		return value
	default:
		return 0
	}
}
