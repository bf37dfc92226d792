// Package codec converts the JSON-encoded columns of the store into typed
// values. Encoded strings never travel past the repository boundary.
package codec

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
)

// CountMap maps a non-empty name (location, certification) to a non-negative count.
type CountMap map[string]int

// DecodeCountMap parses a stored JSON object. Empty, malformed or
// non-object input yields an empty map; invalid entries are dropped.
func DecodeCountMap(raw string) CountMap {
	out := CountMap{}
	if strings.TrimSpace(raw) == "" {
		return out
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return out
	}
	for k, v := range decoded {
		key := strings.TrimSpace(k)
		n, ok := v.(float64)
		if key == "" || !ok || !validCount(n) {
			continue
		}
		out[key] += int(n)
	}
	return out
}

// maxCount is the largest count a JSON number carries exactly.
const maxCount = 1 << 53

func validCount(n float64) bool {
	return n >= 0 && n <= maxCount && n == math.Trunc(n)
}

// EncodeCountMap validates and serializes m. Keys are trimmed.
func EncodeCountMap(m CountMap) (string, error) {
	clean, err := Normalize(m)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(clean)
	if err != nil {
		return "", fmt.Errorf("failed to encode counts: %w", err)
	}
	return string(data), nil
}

// Normalize trims keys and rejects empty keys, negative values and keys
// that collide after trimming.
func Normalize(m CountMap) (CountMap, error) {
	clean := make(CountMap, len(m))
	for k, v := range m {
		key := strings.TrimSpace(k)
		if key == "" {
			return nil, fmt.Errorf("name cannot be empty")
		}
		if v < 0 {
			return nil, fmt.Errorf("count for %q cannot be negative", key)
		}
		if _, dup := clean[key]; dup {
			return nil, fmt.Errorf("duplicate name %q", key)
		}
		clean[key] = v
	}
	return clean, nil
}

// Sum adds every count in the map.
func (m CountMap) Sum() int {
	total := 0
	for _, v := range m {
		total += v
	}
	return total
}

// Keys returns the names in sorted order.
func (m CountMap) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DecodeNameList parses the client capability column. A JSON array keeps its
// order; a legacy plain string becomes a one-element list.
func DecodeNameList(raw string) []string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return []string{}
	}

	var list []string
	if err := json.Unmarshal([]byte(trimmed), &list); err == nil {
		out := make([]string, 0, len(list))
		for _, name := range list {
			if name = strings.TrimSpace(name); name != "" {
				out = append(out, name)
			}
		}
		return out
	}

	var single string
	if err := json.Unmarshal([]byte(trimmed), &single); err == nil {
		if single = strings.TrimSpace(single); single != "" {
			return []string{single}
		}
		return []string{}
	}

	return []string{trimmed}
}

// EncodeNameList serializes names as a JSON array, preserving order.
func EncodeNameList(names []string) (string, error) {
	if names == nil {
		names = []string{}
	}
	data, err := json.Marshal(names)
	if err != nil {
		return "", fmt.Errorf("failed to encode names: %w", err)
	}
	return string(data), nil
}

// Primary returns the first name of a list, or "".
func Primary(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return names[0]
}
