package idl

import "fmt"

// ValidationError represents a structural defect in an IDL package.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validation error codes.
const (
	CodeDuplicateModule    = "duplicate_module"
	CodeDuplicateFunction  = "duplicate_function"
	CodeDuplicateStruct    = "duplicate_struct"
	CodeDuplicateArgument  = "duplicate_argument"
	CodeDuplicateTypeParam = "duplicate_type_param"
	CodeEmptyName          = "empty_name"
	CodeMissingType        = "missing_type"
	CodeInvalidPrimitive   = "invalid_primitive"
	CodeUnknownTypeParam   = "unknown_type_param"
	CodeUnresolvedStruct   = "unresolved_struct"
	CodeTypeArgCount       = "type_arg_count"
)

// Validate checks the package for structural issues.
// Returns all validation errors found (not just the first).
func Validate(p *Package) []error {
	v := &validator{pkg: p}

	seenModules := make(map[ModuleID]bool)
	for _, m := range append(append([]Module(nil), p.Modules...), p.Dependencies...) {
		if seenModules[m.ID] {
			v.add(CodeDuplicateModule, "duplicate module: %s", m.ID)
		}
		seenModules[m.ID] = true
	}

	for i := range p.Modules {
		v.module(&p.Modules[i])
	}

	var result []error
	for _, e := range v.errors {
		result = append(result, e)
	}
	return result
}

type validator struct {
	pkg    *Package
	errors []*ValidationError
}

func (v *validator) add(code, format string, args ...any) {
	v.errors = append(v.errors, &ValidationError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	})
}

func (v *validator) module(m *Module) {
	structNames := make(map[string]bool)
	for _, s := range m.Structs {
		where := m.ID.String() + "::" + s.Name
		if s.Name == "" {
			v.add(CodeEmptyName, "struct with empty name in module %s", m.ID)
		}
		if structNames[s.Name] {
			v.add(CodeDuplicateStruct, "duplicate struct in module %s: %s", m.ID, s.Name)
		}
		structNames[s.Name] = true

		v.typeParams(where, s.TypeParams)
		fieldNames := make(map[string]bool)
		for _, f := range s.Fields {
			if fieldNames[f.Name] {
				v.add(CodeDuplicateArgument, "duplicate field in struct %s: %s", where, f.Name)
			}
			fieldNames[f.Name] = true
			v.expr(where+"."+f.Name, f.Type, s.TypeParams)
		}
	}

	fnNames := make(map[string]bool)
	for _, fn := range m.ScriptFunctions {
		where := m.ID.String() + "::" + fn.Name
		if fn.Name == "" {
			v.add(CodeEmptyName, "script function with empty name in module %s", m.ID)
		}
		if fnNames[fn.Name] {
			v.add(CodeDuplicateFunction, "duplicate script function in module %s: %s", m.ID, fn.Name)
		}
		fnNames[fn.Name] = true

		v.typeParams(where, fn.TypeParams)
		argNames := make(map[string]bool)
		for i, arg := range fn.Args {
			if arg.Name == "" {
				v.add(CodeEmptyName, "argument %d of %s has an empty name", i, where)
			}
			if argNames[arg.Name] {
				v.add(CodeDuplicateArgument, "duplicate argument in %s: %s", where, arg.Name)
			}
			argNames[arg.Name] = true
			v.expr(where+"("+arg.Name+")", arg.Type, fn.TypeParams)
		}
	}
}

func (v *validator) typeParams(where string, params []string) {
	seen := make(map[string]bool)
	for _, tp := range params {
		if tp == "" {
			v.add(CodeEmptyName, "empty type parameter name in %s", where)
		}
		if seen[tp] {
			v.add(CodeDuplicateTypeParam, "duplicate type parameter in %s: %s", where, tp)
		}
		seen[tp] = true
	}
}

// expr recursively walks a type expression and checks that every leaf
// resolves against the closed primitive set, the enclosing type parameters
// and the package's struct declarations.
func (v *validator) expr(where string, t TypeExpr, params []string) {
	switch e := t.(type) {
	case nil:
		v.add(CodeMissingType, "%s has no type", where)
	case *Primitive:
		if !e.PrimitiveKind.Valid() {
			v.add(CodeInvalidPrimitive, "%s uses invalid primitive kind %d", where, int(e.PrimitiveKind))
		}
	case *Vector:
		v.expr(where, e.Element, params)
	case *Reference:
		v.expr(where, e.Inner, params)
	case *TypeParam:
		if _, ok := ResolveTypeParam(e, params); !ok {
			v.add(CodeUnknownTypeParam, "%s references unknown type parameter %s", where, e)
		}
	case *StructRef:
		for _, arg := range e.TypeArgs {
			v.expr(where, arg, params)
		}
		if IsWellKnown(e) {
			return
		}
		def := v.pkg.FindStruct(e.Module, e.Name)
		if def == nil {
			v.add(CodeUnresolvedStruct, "%s references unknown struct %s", where, e.QualifiedName())
			return
		}
		if len(def.TypeParams) != len(e.TypeArgs) {
			v.add(CodeTypeArgCount, "%s instantiates %s with %d type arguments, want %d",
				where, e.QualifiedName(), len(e.TypeArgs), len(def.TypeParams))
		}
	default:
		v.add(CodeMissingType, "%s has unsupported type expression %T", where, t)
	}
}

// ResolveTypeParam returns the name a TypeParam refers to within params.
func ResolveTypeParam(t *TypeParam, params []string) (string, bool) {
	if t.Name != "" {
		for _, p := range params {
			if p == t.Name {
				return p, true
			}
		}
		return "", false
	}
	if t.Index < 0 || t.Index >= len(params) {
		return "", false
	}
	return params[t.Index], true
}

// Well-known framework structs that have a native wire representation and
// need no declaration in the package.
var (
	StringModule = ModuleID{Address: "0x1", Name: "string"}
	ObjectModule = ModuleID{Address: "0x1", Name: "object"}
	OptionModule = ModuleID{Address: "0x1", Name: "option"}
)

// IsWellKnown reports whether s is 0x1::string::String,
// 0x1::object::Object<T> or 0x1::option::Option<T>.
func IsWellKnown(s *StructRef) bool {
	switch {
	case s.Module == StringModule && s.Name == "String" && len(s.TypeArgs) == 0:
		return true
	case s.Module == ObjectModule && s.Name == "Object" && len(s.TypeArgs) == 1:
		return true
	case s.Module == OptionModule && s.Name == "Option" && len(s.TypeArgs) == 1:
		return true
	}
	return false
}
