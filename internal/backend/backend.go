// Package backend drives the external presentation-to-Markdown converters.
//
// Each backend probes a fixed, ordered list of invocation shapes (CLI
// argument layouts, library entry points, result shapes) and accepts the
// first that works. There is no retry beyond one attempt per candidate.
package backend

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// MarkdownName is the canonical Markdown file name inside an output directory.
const MarkdownName = "slides.md"

// Backend names, also used as route suffixes.
const (
	NamePptx2md    = "pptx2md"
	NameMarkitdown = "markitdown"
	NamePandoc     = "pandoc"
	NamePptxToMd   = "pptx_to_md"
	NameAspose     = "aspose"
)

// Job is a single conversion request: one input, one output directory.
type Job struct {
	Input     string
	OutputDir string
	Markdown  string
}

// NewJob builds a Job writing OutputDir/slides.md.
func NewJob(input, outputDir string) Job {
	return Job{
		Input:     input,
		OutputDir: outputDir,
		Markdown:  filepath.Join(outputDir, MarkdownName),
	}
}

// Backend converts a presentation into Markdown plus assets under the job's
// output directory.
type Backend interface {
	Name() string
	Convert(ctx context.Context, job Job) error
}

// Options carries settings shared by the backends.
type Options struct {
	Python        string
	AsposeLicense string
}

func (o Options) vars() Vars {
	python := o.Python
	if python == "" {
		python = "python3"
	}
	return Vars{VarPython: python, VarLicense: o.AsposeLicense}
}

// Registry holds the configured backends by name.
type Registry struct {
	exec     Executor
	opts     Options
	backends map[string]Backend
}

// NewRegistry builds all five backends on top of ex and lib.
func NewRegistry(ex Executor, lib Library, opts Options) *Registry {
	base := opts.vars()
	r := &Registry{exec: ex, opts: opts, backends: map[string]Backend{}}
	r.Register(NewPptx2md(ex, base))
	r.Register(NewMarkitdown(lib))
	r.Register(NewPandoc(ex, base))
	r.Register(NewPptxToMd(ex, lib, base))
	r.Register(NewAspose(ex, base))
	return r
}

// Register adds or replaces a backend.
func (r *Registry) Register(b Backend) {
	r.backends[b.Name()] = b
}

// Get returns the named backend.
func (r *Registry) Get(name string) (Backend, error) {
	b, ok := r.backends[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, name)
	}
	return b, nil
}

// Names lists registered backends in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.backends))
	for n := range r.backends {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Tools reports which external executables are reachable on PATH.
func (r *Registry) Tools() map[string]bool {
	bins := []string{"pptx2md", "pandoc", "pptx-to-md", r.opts.vars()[VarPython]}
	out := make(map[string]bool, len(bins))
	for _, b := range bins {
		_, err := r.exec.LookPath(b)
		out[b] = err == nil
	}
	return out
}

func writeMarkdown(path, text string) error {
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}
