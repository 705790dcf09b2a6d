package store

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Sanitize walks a document and replaces untyped nil values with a
// type-appropriate zero before it reaches the wire: nil map entries become
// empty strings, nil slice elements are dropped. Nested maps and slices are
// sanitized in place. The walk also reports the first field holding the
// literal string "undefined", which the destination store rejects outright.
func Sanitize(data map[string]interface{}) (map[string]interface{}, error) {
	if data == nil {
		return map[string]interface{}{}, nil
	}
	out := make(map[string]interface{}, len(data))
	for k, v := range data {
		clean, err := sanitizeValue(k, v)
		if err != nil {
			return nil, err
		}
		out[k] = clean
	}
	return out, nil
}

func sanitizeValue(field string, v interface{}) (interface{}, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		if val == "undefined" {
			return nil, &MalformedPayloadError{Field: field}
		}
		return val, nil
	case map[string]interface{}:
		return Sanitize(val)
	case []interface{}:
		out := make([]interface{}, 0, len(val))
		for _, el := range val {
			if el == nil {
				continue
			}
			clean, err := sanitizeValue(field, el)
			if err != nil {
				return nil, err
			}
			out = append(out, clean)
		}
		return out, nil
	default:
		return val, nil
	}
}

// Encode turns a typed model into a sanitized document via its JSON shape.
// This is the one serialization boundary between models and the store.
func Encode(v interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("store: encode: %w", err)
	}
	var doc map[string]interface{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("store: encode: %w", err)
	}
	// Numbers come back as json.Number; widen to float64 so documents look
	// the same whether they were encoded here or read back from the store.
	return Sanitize(widenNumbers(doc).(map[string]interface{}))
}

// Decode fills a typed model from a document.
func Decode(data map[string]interface{}, v interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("store: decode: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("store: decode: %w", err)
	}
	return nil
}

func widenNumbers(v interface{}) interface{} {
	switch val := v.(type) {
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case map[string]interface{}:
		for k, el := range val {
			val[k] = widenNumbers(el)
		}
		return val
	case []interface{}:
		for i, el := range val {
			val[i] = widenNumbers(el)
		}
		return val
	default:
		return val
	}
}
