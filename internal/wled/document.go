package wled

import (
	"regexp"
	"strconv"
	"strings"
)

// Document is a decoded JSON object from a controller (state or info).
// WLED documents nest freely, so values are accessed by path rather than
// through a rigid struct; firmware adds keys between releases and this tool
// should not care.
type Document map[string]any

// indexedSegment matches a path segment carrying a single list index,
// e.g. "seg[0]".
var indexedSegment = regexp.MustCompile(`^(.+?)\[(\d+)\]$`)

// Field resolves a dot-separated path inside the document. Each segment is a
// map key, optionally followed by one bracketed list index ("seg[0].bri").
// A path that does not resolve returns found == false; it is never an error,
// because fields legitimately differ across firmware versions.
func (d Document) Field(path string) (any, bool) {
	var current any = map[string]any(d)

	for _, segment := range strings.Split(path, ".") {
		key := segment
		index := -1
		if m := indexedSegment.FindStringSubmatch(segment); m != nil {
			key = m[1]
			index, _ = strconv.Atoi(m[2])
		}

		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = obj[key]
		if !ok {
			return nil, false
		}

		if index >= 0 {
			list, ok := current.([]any)
			if !ok || index >= len(list) {
				return nil, false
			}
			current = list[index]
		}
	}

	return current, true
}

// Bool resolves a path and asserts the value is a boolean.
func (d Document) Bool(path string) (bool, bool) {
	value, ok := d.Field(path)
	if !ok {
		return false, false
	}
	b, ok := value.(bool)
	return b, ok
}

// Number resolves a path and asserts the value is numeric.
// encoding/json decodes all JSON numbers as float64.
func (d Document) Number(path string) (float64, bool) {
	value, ok := d.Field(path)
	if !ok {
		return 0, false
	}
	n, ok := value.(float64)
	return n, ok
}

// Uint8 resolves a path to a small unsigned integer, as used by the sync
// group bitmask fields.
func (d Document) Uint8(path string) (uint8, bool) {
	n, ok := d.Number(path)
	if !ok || n < 0 || n > 255 || n != float64(uint8(n)) {
		return 0, false
	}
	return uint8(n), true
}
