package typescript

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/movets/movets/idl"
	"github.com/movets/movets/movegen/typescript/flavor"
)

// PayloadTag is the discriminant every script function payload carries.
const PayloadTag = "script_function_payload"

// scriptFunction holds everything needed to emit the declarations of one
// script function: its payload arguments type (mod.ts), its payload record
// type (payloads.ts) and its builder (entry.ts).
type scriptFunction struct {
	module idl.ModuleID
	fn     *idl.ScriptFunction
	cfg    GeneratorConfig

	typeName string // PascalCase payload type name
	builder  string // exported builder binding
	args     []scriptArg
}

type scriptArg struct {
	arg   idl.Argument
	key   string  // property name in the args object
	label string  // tuple label in the payload type
	decl  Lowered // rendering as seen from mod.ts
	call  Lowered // rendering as seen from entry.ts
}

func newScriptFunction(ctx Context, fn *idl.ScriptFunction, cfg GeneratorConfig) (*scriptFunction, error) {
	s := &scriptFunction{
		module:   ctx.module,
		fn:       fn,
		cfg:      cfg,
		typeName: declarationName(toPascalCase(fn.Name)),
		builder:  declarationName(fn.Name),
	}

	ctx = ctx.WithTypeParams(fn.TypeParams, false)
	keys := make(map[string]string, len(fn.Args))
	for _, arg := range fn.Args {
		decl, err := ctx.Lower(arg.Type)
		if err != nil {
			return nil, s.errorf(arg.Name, err)
		}
		call, err := ctx.qualified("mod").Lower(arg.Type)
		if err != nil {
			return nil, s.errorf(arg.Name, err)
		}

		key := applyCaseTransform(arg.Name, cfg.FieldCase)
		if prev, dup := keys[key]; dup {
			return nil, s.errorf(arg.Name, errors.Mark(
				errors.Newf("property %q collides with argument %q", key, prev), ErrComposition))
		}
		keys[key] = arg.Name

		s.args = append(s.args, scriptArg{
			arg:   arg,
			key:   key,
			label: sanitizeIdentifier(arg.Name),
			decl:  decl,
			call:  call,
		})
	}
	return s, nil
}

func (s *scriptFunction) errorf(arg string, err error) error {
	return &FunctionError{Module: s.module.String(), Function: s.fn.Name, Argument: arg, Err: err}
}

// fullName is the on-chain call target, e.g. 0x1::coin::transfer.
func (s *scriptFunction) fullName() string {
	return s.module.String() + "::" + s.fn.Name
}

// hasInput reports whether the builder takes a payload arguments object.
// A function with neither arguments nor type parameters takes none.
func (s *scriptFunction) hasInput() bool {
	return len(s.fn.Args) > 0 || len(s.fn.TypeParams) > 0
}

func (s *scriptFunction) argsTypeName() string {
	return s.typeName + "Args"
}

// writeArgsType emits the payload arguments type into mod.ts.
func (s *scriptFunction) writeArgsType(w *codeWriter, imports *fileImports) {
	if !s.hasInput() {
		return
	}
	useInterface := s.cfg.TypeScript.UseInterface

	doc := "Payload arguments for {@link entry." + s.builder + "}."
	if s.fn.Doc != "" {
		doc += "\n\n" + s.fn.Doc
	}
	w.doc(0, doc)
	w.openObject(s.argsTypeName(), useInterface)
	if len(s.args) > 0 {
		w.line(1, "args: {")
		for _, a := range s.args {
			imports.types.merge(a.decl.typeRefs)
			w.doc(2, "IDL type: `"+describe(a.arg.Type, s.fn.TypeParams)+"`")
			w.line(2, "%s: %s;", propertyKey(a.key), a.decl.Type)
		}
		w.line(1, "};")
	}
	if len(s.fn.TypeParams) > 0 {
		w.line(1, "typeArgs: {")
		for _, tp := range s.fn.TypeParams {
			w.line(2, "%s: string;", propertyKey(tp))
		}
		w.line(1, "};")
	}
	w.closeObject(useInterface)
}

// writePayloadType emits the payload record type into payloads.ts.
func (s *scriptFunction) writePayloadType(w *codeWriter, imports *fileImports) {
	useInterface := s.cfg.TypeScript.UseInterface

	typeArgs := make([]string, len(s.fn.TypeParams))
	for i, tp := range s.fn.TypeParams {
		typeArgs[i] = sanitizeIdentifier(tp) + ": string"
	}
	args := make([]string, len(s.args))
	for i, a := range s.args {
		imports.types.merge(a.call.wireRefs)
		args[i] = a.label + ": " + a.call.Wire
	}

	doc := "Script function payload for `" + s.fullName() + "`."
	if s.fn.Doc != "" {
		doc += "\n\n" + s.fn.Doc
	}
	w.doc(0, doc)
	w.openObject(s.typeName, useInterface)
	w.line(1, "readonly type: %s;", strconv.Quote(PayloadTag))
	w.line(1, "readonly function: %s;", strconv.Quote(s.fullName()))
	w.line(1, "readonly type_arguments: [%s];", strings.Join(typeArgs, ", "))
	w.line(1, "readonly arguments: [%s];", strings.Join(args, ", "))
	w.closeObject(useInterface)
}

// writeBuilder emits the payload builder into entry.ts.
func (s *scriptFunction) writeBuilder(w *codeWriter, imports *fileImports) {
	var params string
	if s.hasInput() {
		var destructure []string
		if len(s.fn.Args) > 0 {
			destructure = append(destructure, "args")
		}
		if len(s.fn.TypeParams) > 0 {
			destructure = append(destructure, "typeArgs")
		}
		params = "{ " + strings.Join(destructure, ", ") + " }: mod." + s.argsTypeName()
	}

	typeArgs := make([]string, len(s.fn.TypeParams))
	for i, tp := range s.fn.TypeParams {
		typeArgs[i] = propertyAccess("typeArgs", tp)
	}
	args := make([]string, len(s.args))
	for i, a := range s.args {
		imports.values.merge(a.call.serializeRefs)
		args[i] = a.call.Serialize(propertyAccess("args", a.key))
	}

	w.doc(0, s.fn.Doc)
	w.line(0, "export const %s = (%s): payloads.%s => ({", s.builder, params, s.typeName)
	w.line(1, "type: %s,", strconv.Quote(PayloadTag))
	w.line(1, "function: %s,", strconv.Quote(s.fullName()))
	w.line(1, "type_arguments: [%s],", strings.Join(typeArgs, ", "))
	w.line(1, "arguments: [%s],", strings.Join(args, ", "))
	w.line(0, "});")
}

// usesModValues reports whether the builder calls into mod.ts at runtime.
func (s *scriptFunction) usesModValues() bool {
	for _, a := range s.args {
		if a.call.serializeRefs.self {
			return true
		}
	}
	return false
}

func (s *scriptFunction) flavorFunction() flavor.Function {
	f := flavor.Function{
		Name:    s.fn.Name,
		Method:  escapeReservedWord(toCamelCase(s.fn.Name)),
		Builder: s.builder,
		Doc:     s.fn.Doc,
	}
	if s.hasInput() {
		f.ArgsType = s.argsTypeName()
	}
	return f
}
