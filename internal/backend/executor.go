package backend

import (
	"bytes"
	"context"
	"os/exec"
)

// Output holds what a finished process wrote.
type Output struct {
	Stdout []byte
	Stderr []byte
}

// Executor abstracts process execution so backends can be tested without
// the real conversion tools installed.
type Executor interface {
	// LookPath reports where an executable lives on PATH.
	LookPath(file string) (string, error)
	// Run executes name with args in dir (the current directory when dir is
	// empty) and captures both output streams. A binary missing from PATH
	// yields an error wrapping exec.ErrNotFound.
	Run(ctx context.Context, dir, name string, args []string) (Output, error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

// NewExecutor returns the os/exec backed Executor.
func NewExecutor() Executor { return osExecutor{} }

func (osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (osExecutor) Run(ctx context.Context, dir, name string, args []string) (Output, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return Output{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}, err
}
