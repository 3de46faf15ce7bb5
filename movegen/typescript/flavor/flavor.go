// Package flavor provides the SDK wrapper classes emitted next to the
// payload builders. Each flavor targets one execution environment.
package flavor

import (
	"bytes"
	"fmt"
	"strings"
)

// Target selects the execution environment wrappers are generated for.
type Target string

const (
	// TargetNone emits no wrapper class.
	TargetNone Target = "none"

	// TargetAptos emits a class that builds, signs and submits transactions
	// through an AptosClient.
	TargetAptos Target = "aptos"

	// TargetSui emits a class that issues Move calls through a RawSigner.
	TargetSui Target = "sui"
)

// Targets lists every supported target.
var Targets = []Target{TargetNone, TargetAptos, TargetSui}

// ParseTarget parses a target name. The empty string is TargetNone.
func ParseTarget(s string) (Target, error) {
	switch t := Target(strings.ToLower(strings.TrimSpace(s))); t {
	case "":
		return TargetNone, nil
	case TargetNone, TargetAptos, TargetSui:
		return t, nil
	default:
		return "", fmt.Errorf("unknown target %q (want one of none, aptos, sui)", s)
	}
}

func (t Target) String() string {
	if t == "" {
		return string(TargetNone)
	}
	return string(t)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Target) UnmarshalText(text []byte) error {
	parsed, err := ParseTarget(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (t Target) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Function describes one script function as seen by a wrapper class.
type Function struct {
	// Name is the Move function name, used verbatim in call targets.
	Name string

	// Method is the lowerCamel method name on the wrapper class.
	Method string

	// Builder is the payload builder exported from entry.ts.
	Builder string

	// ArgsType is the payload arguments type exported from mod.ts. Empty
	// when the builder takes no input.
	ArgsType string

	// Doc is the function's documentation, if any.
	Doc string
}

// Module describes the module a wrapper class is generated for.
type Module struct {
	// ID is the fully-qualified module identifier (e.g., "0x1::coin").
	ID string

	// TypeName is the PascalCase module name the class name is derived from.
	TypeName string

	// Functions are the script functions in IDL order.
	Functions []Function
}

// Flavor represents a wrapper class shape for one target environment.
type Flavor interface {
	// Name returns the flavor identifier (e.g., "aptos").
	Name() string

	// Target returns the target this flavor emits for.
	Target() Target

	// ClassName returns the name of the wrapper class for a module.
	ClassName(m Module) string

	// EmitModule generates the complete client.ts body for a module.
	EmitModule(ctx *EmitContext, m Module) ([]byte, error)
}

// EmitContext provides shared context for flavor emission.
type EmitContext struct {
	IndentStr    string
	EmitComments bool

	// Warnings collects non-fatal issues during generation.
	Warnings []string
}

// AddWarning adds a warning message to the context.
func (ctx *EmitContext) AddWarning(format string, args ...any) {
	ctx.Warnings = append(ctx.Warnings, fmt.Sprintf(format, args...))
}

// Get returns the flavor for a target. TargetNone has no flavor and
// returns nil.
func Get(t Target) (Flavor, error) {
	switch t {
	case TargetNone, "":
		return nil, nil
	case TargetAptos:
		return &AptosFlavor{}, nil
	case TargetSui:
		return &SuiFlavor{}, nil
	default:
		return nil, fmt.Errorf("unknown target: %q", string(t))
	}
}

// Generate runs a flavor against a module. A nil flavor or a module without
// script functions yields no output.
func Generate(f Flavor, ctx *EmitContext, m Module) ([]byte, error) {
	if f == nil || len(m.Functions) == 0 {
		return nil, nil
	}
	out, err := f.EmitModule(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("emit %s wrapper for %s: %w", f.Name(), m.ID, err)
	}
	return out, nil
}

// methodNames resolves wrapper method names. Names that collide with a class
// member or with an earlier method get an underscore appended.
func methodNames(ctx *EmitContext, m Module, members map[string]bool) []string {
	taken := make(map[string]bool, len(members)+len(m.Functions))
	for name := range members {
		taken[name] = true
	}
	names := make([]string, len(m.Functions))
	for i, fn := range m.Functions {
		name := fn.Method
		for taken[name] {
			name += "_"
		}
		if name != fn.Method {
			ctx.AddWarning("%s::%s: wrapper method renamed to %s", m.ID, fn.Name, name)
		}
		taken[name] = true
		names[i] = name
	}
	return names
}

// writeDoc writes a JSDoc block at the given indentation.
func writeDoc(buf *bytes.Buffer, ctx *EmitContext, indent, doc string) {
	if !ctx.EmitComments || strings.TrimSpace(doc) == "" {
		return
	}
	lines := strings.Split(strings.TrimSpace(doc), "\n")
	if len(lines) == 1 {
		fmt.Fprintf(buf, "%s/** %s */\n", indent, EscapeComment(lines[0]))
		return
	}
	fmt.Fprintf(buf, "%s/**\n", indent)
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			fmt.Fprintf(buf, "%s *\n", indent)
			continue
		}
		fmt.Fprintf(buf, "%s * %s\n", indent, EscapeComment(line))
	}
	fmt.Fprintf(buf, "%s */\n", indent)
}

// EscapeComment trims s and keeps it from terminating an enclosing block
// comment.
func EscapeComment(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "*/", "*\\/")
}

// needsMod reports whether any method signature references mod.ts.
func needsMod(m Module) bool {
	for _, fn := range m.Functions {
		if fn.ArgsType != "" {
			return true
		}
	}
	return false
}
