package canon

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
)

// CanonicalJSON produces the deterministic encoding used for hashing:
// object keys sorted lexicographically, no insignificant whitespace, no HTML
// escaping, and nulls, empty strings, empty lists and empty objects dropped.
// Zero numbers and false are kept.
func CanonicalJSON(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	canonical, _ := canonicalize(raw)
	if canonical == nil {
		return []byte("null"), nil
	}
	return encodeWithoutHTMLEscape(canonical)
}

// Hash returns the hex SHA-256 digest of canonical JSON bytes
func Hash(canonical []byte) string {
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:])
}

// ContentHash canonicalizes a value and hashes it
func ContentHash(v any) (string, error) {
	data, err := CanonicalJSON(v)
	if err != nil {
		return "", fmt.Errorf("canonical json: %w", err)
	}
	return Hash(data), nil
}

// canonicalize sorts object keys and prunes empty values. The bool reports
// whether the value survived.
func canonicalize(v any) (any, bool) {
	switch val := v.(type) {
	case nil:
		return nil, false
	case string:
		return val, val != ""
	case map[string]any:
		keys := make([]string, 0, len(val))
		values := make(map[string]any, len(val))
		for k, item := range val {
			c, keep := canonicalize(item)
			if !keep {
				continue
			}
			keys = append(keys, k)
			values[k] = c
		}
		if len(keys) == 0 {
			return nil, false
		}
		sort.Strings(keys)
		return orderedMap{keys: keys, values: values}, true
	case []any:
		out := make([]any, 0, len(val))
		for _, item := range val {
			c, keep := canonicalize(item)
			if !keep {
				// Dropping an element would shift positions; keep an explicit null.
				c = nil
			}
			out = append(out, c)
		}
		if len(out) == 0 {
			return nil, false
		}
		return out, true
	default:
		return v, true
	}
}

// orderedMap marshals its keys in sorted order
type orderedMap struct {
	keys   []string
	values map[string]any
}

// MarshalJSON implements json.Marshaler with sorted keys
func (o orderedMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyJSON, err := encodeWithoutHTMLEscape(k)
		if err != nil {
			return nil, err
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')

		valJSON, err := encodeWithoutHTMLEscape(o.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(valJSON)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func encodeWithoutHTMLEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
