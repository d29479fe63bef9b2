package backend

import "context"

var markitdownExtractors = []Extractor{
	PlainString,
	Field("text_content"),
	Field("content"),
	AnyKey("markdown", "text_content", "content", "text"),
	FirstString,
}

// Markitdown converts through the markitdown document-intelligence library.
type Markitdown struct {
	lib Library
}

// NewMarkitdown returns the markitdown backend.
func NewMarkitdown(lib Library) *Markitdown {
	return &Markitdown{lib: lib}
}

func (m *Markitdown) Name() string { return NameMarkitdown }

func (m *Markitdown) Convert(ctx context.Context, job Job) error {
	raw, err := m.lib.Call(ctx, "markitdown", "MarkItDown.convert", job.Input)
	if err != nil {
		return relabel(NameMarkitdown, err)
	}

	text, err := Extract(raw, markitdownExtractors...)
	if err != nil {
		return &Error{
			Backend: NameMarkitdown,
			Kind:    KindUnexpectedResult,
			Detail:  "unexpected result from markitdown: " + describe(raw),
			Err:     err,
		}
	}
	return writeMarkdown(job.Markdown, text)
}
