package backend

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

var (
	ErrMissingDependency = errors.New("missing dependency")
	ErrExecution         = errors.New("backend execution failed")
	ErrUnexpectedResult  = errors.New("unexpected result")
	ErrUnknownBackend    = errors.New("unknown backend")
)

// Kind classifies a backend failure.
type Kind int

const (
	// KindExecution: the tool ran but exited non-zero or could not be started.
	KindExecution Kind = iota
	// KindMissingDependency: the executable or Python module is not installed.
	KindMissingDependency
	// KindUnexpectedResult: the tool succeeded but its output was not recognized.
	KindUnexpectedResult
)

func (k Kind) sentinel() error {
	switch k {
	case KindMissingDependency:
		return ErrMissingDependency
	case KindUnexpectedResult:
		return ErrUnexpectedResult
	default:
		return ErrExecution
	}
}

func (k Kind) String() string {
	switch k {
	case KindMissingDependency:
		return "missing_dependency"
	case KindUnexpectedResult:
		return "unexpected_result"
	default:
		return "execution"
	}
}

// Error is the uniform failure a backend reports once every candidate has
// been tried. Detail carries the tool's own diagnostic text.
type Error struct {
	Backend string
	Kind    Kind
	Detail  string
	Err     error
}

func (e *Error) Error() string {
	if e.Kind == KindMissingDependency {
		return fmt.Sprintf("%s dependency not found: %s", e.Backend, e.Detail)
	}
	return fmt.Sprintf("%s failed: %s", e.Backend, e.Detail)
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.sentinel()}
	}
	return []error{e.Kind.sentinel(), e.Err}
}

// classify turns a failed run into an *Error. Diagnostic text prefers
// stderr, then stdout, then the error itself.
func classify(backend string, out Output, err error) *Error {
	kind := KindExecution
	if errors.Is(err, exec.ErrNotFound) || bytes.Contains(out.Stderr, []byte("No module named")) {
		kind = KindMissingDependency
	}
	return &Error{Backend: backend, Kind: kind, Detail: diagnostic(out, err), Err: err}
}

func diagnostic(out Output, err error) string {
	if s := strings.TrimSpace(string(out.Stderr)); s != "" {
		return s
	}
	if s := strings.TrimSpace(string(out.Stdout)); s != "" {
		return s
	}
	if err != nil {
		return err.Error()
	}
	return "unknown error"
}

// relabel reports err under backend, keeping its kind when it already is an *Error.
func relabel(backend string, err error) error {
	var be *Error
	if errors.As(err, &be) {
		cp := *be
		cp.Backend = backend
		return &cp
	}
	return &Error{Backend: backend, Kind: KindExecution, Detail: err.Error(), Err: err}
}
