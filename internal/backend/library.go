package backend

import (
	"context"
	"encoding/json"
	"fmt"
)

// Library calls a conversion entry point inside a language runtime and
// returns its result decoded from JSON.
type Library interface {
	Call(ctx context.Context, module, function, input string) (any, error)
}

// bridgeScript imports module, resolves function (Class.method instantiates
// Class first), calls it on the input path and prints the result as JSON.
// Objects are reduced to their known text attributes. Library prints are
// redirected to stderr so stdout only carries the JSON document.
const bridgeScript = `import importlib
import json
import sys

out = sys.stdout
sys.stdout = sys.stderr

module, function, path = sys.argv[1], sys.argv[2], sys.argv[3]
target = importlib.import_module(module)
parts = function.split(".")
for i, part in enumerate(parts):
    target = getattr(target, part)
    if isinstance(target, type) and i < len(parts) - 1:
        target = target()
result = target(path)


def shape(value):
    if value is None or isinstance(value, (str, int, float, bool)):
        return value
    if isinstance(value, dict):
        return {str(k): shape(v) for k, v in value.items()}
    if isinstance(value, (list, tuple)):
        return [shape(v) for v in value]
    attrs = {}
    for attr in ("text_content", "content", "markdown", "text"):
        if hasattr(value, attr):
            attrs[attr] = shape(getattr(value, attr))
    return attrs


out.write(json.dumps(shape(result)))
`

// PythonLibrary runs library calls through a Python interpreter.
type PythonLibrary struct {
	exec   Executor
	python string
}

// NewPythonLibrary returns a Library using the given interpreter binary.
func NewPythonLibrary(ex Executor, python string) *PythonLibrary {
	return &PythonLibrary{exec: ex, python: python}
}

func (p *PythonLibrary) Call(ctx context.Context, module, function, input string) (any, error) {
	out, err := p.exec.Run(ctx, "", p.python, []string{"-c", bridgeScript, module, function, input})
	if err != nil {
		return nil, classify(module, out, err)
	}

	var raw any
	if err := json.Unmarshal(out.Stdout, &raw); err != nil {
		return nil, &Error{
			Backend: module,
			Kind:    KindUnexpectedResult,
			Detail:  fmt.Sprintf("%s.%s output is not JSON", module, function),
			Err:     err,
		}
	}
	return raw, nil
}
