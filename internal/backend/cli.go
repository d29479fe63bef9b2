package backend

import "context"

var pptx2mdInvocations = []Invocation{
	{Bin: "pptx2md", Args: []string{"{input}", "-o", "{output}"}},
	{Bin: "pptx2md", Args: []string{"-f", "{input}", "-o", "{output}"}},
	{Bin: "pptx2md", Args: []string{"--input", "{input}", "--output", "{output}"}},
	{Bin: "{python}", Args: []string{"-m", "pptx2md", "{input}", "-o", "{output}"}},
}

// pandoc picks the reader from the extension first, then is told explicitly.
// It runs inside the output directory so image links stay relative
// (./media/...) and resolve once the archive is unpacked.
var pandocInvocations = []Invocation{
	{Dir: "{outdir}", Bin: "pandoc", Args: []string{"{input}", "--extract-media", ".", "-o", "{outname}"}},
	{Dir: "{outdir}", Bin: "pandoc", Args: []string{"-f", "pptx", "-t", "gfm", "{input}", "--extract-media", ".", "-o", "{outname}"}},
}

// CLIBackend converts by running a tool with the first invocation shape it accepts.
type CLIBackend struct {
	name        string
	exec        Executor
	invocations []Invocation
	base        Vars
}

// NewCLIBackend returns a backend trying invs in order.
func NewCLIBackend(name string, ex Executor, invs []Invocation, base Vars) *CLIBackend {
	return &CLIBackend{name: name, exec: ex, invocations: invs, base: base}
}

// NewPptx2md returns the primary pptx2md backend.
func NewPptx2md(ex Executor, base Vars) *CLIBackend {
	return NewCLIBackend(NamePptx2md, ex, pptx2mdInvocations, base)
}

// NewPandoc returns the pandoc backend.
func NewPandoc(ex Executor, base Vars) *CLIBackend {
	return NewCLIBackend(NamePandoc, ex, pandocInvocations, base)
}

func (b *CLIBackend) Name() string { return b.name }

func (b *CLIBackend) Convert(ctx context.Context, job Job) error {
	return RunFirst(ctx, b.exec, b.name, b.invocations, mergeVars(b.base, job))
}
