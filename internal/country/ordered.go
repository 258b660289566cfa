package country

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type entry[V any] struct {
	Key   string
	Value V
}

// orderedMap decodes a JSON object into its entries in document order.
// Go maps do not keep insertion order, and the formatter relies on the
// order the API delivers (first native name, currency listing).
type orderedMap[V any] []entry[V]

func (m *orderedMap[V]) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*m = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}

	out := orderedMap[V]{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		var v V
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("value for %q: %w", key, err)
		}
		out = append(out, entry[V]{Key: key, Value: v})
	}

	// closing '}'
	if _, err := dec.Token(); err != nil {
		return err
	}

	*m = out
	return nil
}
