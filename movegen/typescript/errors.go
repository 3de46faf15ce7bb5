package typescript

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Error markers. Test for them with errors.Is.
var (
	// ErrUnresolvableType marks a type expression with no TypeScript
	// rendering: an invalid primitive kind or an unregistered struct.
	ErrUnresolvableType = errors.New("unresolvable type")

	// ErrInconsistentContext marks a type parameter reference the
	// enclosing declaration does not bind.
	ErrInconsistentContext = errors.New("inconsistent codegen context")

	// ErrComposition marks a failure to assemble declarations into a file,
	// such as two declarations claiming the same name.
	ErrComposition = errors.New("composition failed")
)

// FunctionError reports a failure generating one script function.
type FunctionError struct {
	Module   string
	Function string
	Argument string // empty when the failure is not tied to an argument
	Err      error
}

func (e *FunctionError) Error() string {
	var b strings.Builder
	b.WriteString(e.Module)
	b.WriteString("::")
	b.WriteString(e.Function)
	if e.Argument != "" {
		b.WriteString(": argument ")
		b.WriteString(e.Argument)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *FunctionError) Unwrap() error { return e.Err }
