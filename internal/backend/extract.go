package backend

import "fmt"

// Extractor pulls Markdown text out of a decoded library result. It
// reports false when raw does not have the shape it understands.
type Extractor func(raw any) (string, bool)

// PlainString accepts a bare string result.
func PlainString(raw any) (string, bool) {
	s, ok := raw.(string)
	return s, ok
}

// Field accepts an object exposing a string attribute called name.
func Field(name string) Extractor {
	return func(raw any) (string, bool) {
		m, ok := raw.(map[string]any)
		if !ok {
			return "", false
		}
		s, ok := m[name].(string)
		return s, ok
	}
}

// AnyKey accepts a mapping holding a string under the first present key.
func AnyKey(keys ...string) Extractor {
	return func(raw any) (string, bool) {
		m, ok := raw.(map[string]any)
		if !ok {
			return "", false
		}
		for _, k := range keys {
			if s, ok := m[k].(string); ok {
				return s, true
			}
		}
		return "", false
	}
}

// FirstString accepts a non-empty sequence whose first element is a string.
func FirstString(raw any) (string, bool) {
	list, ok := raw.([]any)
	if !ok || len(list) == 0 {
		return "", false
	}
	s, ok := list[0].(string)
	return s, ok
}

// Extract applies strategies in order and returns the first match.
func Extract(raw any, strategies ...Extractor) (string, error) {
	for _, fn := range strategies {
		if s, ok := fn(raw); ok {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnexpectedResult, describe(raw))
}

func describe(raw any) string {
	switch v := raw.(type) {
	case nil:
		return "null"
	case map[string]any:
		return fmt.Sprintf("object with %d keys", len(v))
	case []any:
		return fmt.Sprintf("list of %d items", len(v))
	default:
		return fmt.Sprintf("%T", v)
	}
}
