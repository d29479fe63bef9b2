package backend

import "context"

// Entry point names differ across pptx_to_md releases.
var pptxToMdFunctions = []string{"convert", "pptx_to_md", "convert_pptx"}

var pptxToMdExtractors = []Extractor{
	PlainString,
	AnyKey("markdown", "content"),
	FirstString,
}

var pptxToMdInvocations = []Invocation{
	{Bin: "pptx-to-md", Args: []string{"{input}", "-o", "{output}"}},
	{Bin: "{python}", Args: []string{"-m", "pptx_to_md", "{input}", "{output}"}},
}

// PptxToMd tries the pptx_to_md library in-process first and falls back to
// its command-line entry points.
type PptxToMd struct {
	exec Executor
	lib  Library
	base Vars
}

// NewPptxToMd returns the pptx_to_md backend.
func NewPptxToMd(ex Executor, lib Library, base Vars) *PptxToMd {
	return &PptxToMd{exec: ex, lib: lib, base: base}
}

func (p *PptxToMd) Name() string { return NamePptxToMd }

func (p *PptxToMd) Convert(ctx context.Context, job Job) error {
	for _, fn := range pptxToMdFunctions {
		raw, err := p.lib.Call(ctx, "pptx_to_md", fn, job.Input)
		if err != nil {
			if ctx.Err() != nil {
				return relabel(NamePptxToMd, err)
			}
			continue
		}
		text, err := Extract(raw, pptxToMdExtractors...)
		if err != nil {
			continue
		}
		return writeMarkdown(job.Markdown, text)
	}

	return RunFirst(ctx, p.exec, NamePptxToMd, pptxToMdInvocations, mergeVars(p.base, job))
}
