package backend

import (
	"context"
	"path/filepath"
	"strings"
)

// Template variables understood by Invocation.
const (
	VarInput   = "input"
	VarOutput  = "output"
	VarOutName = "outname"
	VarOutDir  = "outdir"
	VarPython  = "python"
	VarLicense = "license"
)

// Vars maps template variable names to values.
type Vars map[string]string

// Invocation describes one command-line shape a tool may accept. Bin, Args
// and Dir may reference variables as {name}. Supporting a new tool release
// means appending another Invocation, not changing code.
type Invocation struct {
	Bin  string
	Args []string
	// Dir is the working directory; empty inherits the service's.
	Dir string
}

// Expand substitutes vars into the binary and argument templates.
func (inv Invocation) Expand(vars Vars) (string, []string) {
	r := vars.replacer()
	args := make([]string, len(inv.Args))
	for i, a := range inv.Args {
		args[i] = r.Replace(a)
	}
	return r.Replace(inv.Bin), args
}

// WorkDir substitutes vars into the Dir template.
func (inv Invocation) WorkDir(vars Vars) string {
	return vars.replacer().Replace(inv.Dir)
}

func (v Vars) replacer() *strings.Replacer {
	pairs := make([]string, 0, len(v)*2)
	for k, val := range v {
		pairs = append(pairs, "{"+k+"}", val)
	}
	return strings.NewReplacer(pairs...)
}

// RunFirst tries each invocation once, in order, and returns nil on the
// first zero exit. When all fail, the last failure is returned as *Error.
func RunFirst(ctx context.Context, ex Executor, backend string, invs []Invocation, vars Vars) error {
	var last *Error
	for _, inv := range invs {
		name, args := inv.Expand(vars)
		out, err := ex.Run(ctx, inv.WorkDir(vars), name, args)
		if err == nil {
			return nil
		}
		last = classify(backend, out, err)
		if ctx.Err() != nil {
			break
		}
	}
	if last == nil {
		return &Error{Backend: backend, Kind: KindExecution, Detail: "no invocation configured"}
	}
	return last
}

func mergeVars(base Vars, job Job) Vars {
	v := make(Vars, len(base)+4)
	for k, val := range base {
		v[k] = val
	}
	v[VarInput] = job.Input
	v[VarOutput] = job.Markdown
	v[VarOutName] = filepath.Base(job.Markdown)
	v[VarOutDir] = job.OutputDir
	return v
}
