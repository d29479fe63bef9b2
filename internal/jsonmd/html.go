package jsonmd

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var previewEngine = goldmark.New(goldmark.WithExtensions(extension.GFM))

// RenderHTML renders generated Markdown to an HTML fragment for previewing.
func RenderHTML(markdown string) ([]byte, error) {
	var buf bytes.Buffer
	if err := previewEngine.Convert([]byte(markdown), &buf); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return buf.Bytes(), nil
}
