package jsonmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var (
	ErrMalformedJSON = errors.New("malformed JSON")
	ErrNotObject     = errors.New("Top-level JSON must be an object")
	ErrMissingData   = errors.New("JSON missing 'data' list")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode parses raw as a JSON object. A leading UTF-8 byte order mark is
// ignored. Numbers are kept as json.Number so identifiers keep their digits.
func Decode(raw []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(bytes.TrimPrefix(raw, utf8BOM)))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after top-level value", ErrMalformedJSON)
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return obj, nil
}
