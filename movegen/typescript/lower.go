package typescript

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/movets/movets/idl"
)

// Lowered is the TypeScript rendering of one IDL type expression.
//
// Type is what callers supply, Wire is what a payload carries, and
// Serialize turns an expression of Type into an expression of Wire. All
// three come from the same recursion, so they always describe the same
// shape.
type Lowered struct {
	Type string
	Wire string

	typeRefs      refs
	wireRefs      refs
	serializeRefs refs

	serialize func(expr string) string // nil for identity
}

// Serialize returns the serializer expression applied to expr.
func (l Lowered) Serialize(expr string) string {
	if l.serialize == nil {
		return expr
	}
	return l.serialize(expr)
}

// Identity reports whether serialization leaves values unchanged.
func (l Lowered) Identity() bool {
	return l.serialize == nil
}

// callback renders the serializer as a one-argument arrow function.
func (l Lowered) callback(variable string) string {
	return "(" + variable + ") => " + l.Serialize(variable)
}

type primitiveMapping struct {
	typ, wire string
	named     bool   // typ is imported by name from the prelude
	helper    string // prelude serializer, empty for identity
}

// primitiveMappings covers every idl.PrimitiveKind. Integers wider than 32
// bits exceed the safe integer range of a JS number and travel as decimal
// strings.
var primitiveMappings = map[idl.PrimitiveKind]primitiveMapping{
	idl.PrimitiveBool:    {typ: "boolean", wire: "boolean"},
	idl.PrimitiveU8:      {typ: "number", wire: "number"},
	idl.PrimitiveU16:     {typ: "number", wire: "number"},
	idl.PrimitiveU32:     {typ: "number", wire: "number"},
	idl.PrimitiveU64:     {typ: "string", wire: "string"},
	idl.PrimitiveU128:    {typ: "string", wire: "string"},
	idl.PrimitiveU256:    {typ: "string", wire: "string"},
	idl.PrimitiveAddress: {typ: "address", wire: "string", named: true, helper: "address"},
	idl.PrimitiveSigner:  {typ: "signer", wire: "string", named: true},
}

// Lower renders a type expression. It fails rather than emit a placeholder
// for anything it cannot render.
func (c Context) Lower(t idl.TypeExpr) (Lowered, error) {
	switch t := t.(type) {
	case *idl.Primitive:
		return c.lowerPrimitive(t)
	case *idl.Vector:
		return c.lowerVector(t)
	case *idl.TypeParam:
		return c.lowerTypeParam(t)
	case *idl.StructRef:
		return c.lowerStruct(t)
	case *idl.Reference:
		if t.Inner == nil {
			return Lowered{}, errors.Mark(errors.New("reference has no target type"), ErrUnresolvableType)
		}
		return c.Lower(t.Inner)
	case nil:
		return Lowered{}, errors.Mark(errors.New("missing type expression"), ErrUnresolvableType)
	default:
		return Lowered{}, errors.Mark(errors.Newf("unsupported type expression %T", t), ErrUnresolvableType)
	}
}

func (c Context) lowerPrimitive(t *idl.Primitive) (Lowered, error) {
	m, ok := primitiveMappings[t.PrimitiveKind]
	if !ok {
		return Lowered{}, errors.Mark(errors.Newf("unknown primitive kind %d", int(t.PrimitiveKind)), ErrUnresolvableType)
	}
	l := Lowered{Type: m.typ, Wire: m.wire}
	if m.named {
		l.typeRefs.useType(m.typ)
	}
	if m.helper != "" {
		helper := "p.serializers." + m.helper
		l.serializeRefs.usePrelude()
		l.serialize = func(expr string) string { return helper + "(" + expr + ")" }
	}
	return l, nil
}

func (c Context) lowerVector(t *idl.Vector) (Lowered, error) {
	if p, ok := t.Element.(*idl.Primitive); ok && p.PrimitiveKind == idl.PrimitiveU8 {
		l := Lowered{
			Type:      "p.ByteString",
			Wire:      "string",
			serialize: func(expr string) string { return "p.serializers.hexString(" + expr + ")" },
		}
		l.typeRefs.usePrelude()
		l.serializeRefs.usePrelude()
		return l, nil
	}

	elem, err := c.nested().Lower(t.Element)
	if err != nil {
		return Lowered{}, errors.Wrap(err, "vector element")
	}

	l := Lowered{
		Type:     c.arrayOf(elem.Type),
		Wire:     arrayOf(elem.Wire),
		typeRefs: elem.typeRefs,
		wireRefs: elem.wireRefs,
	}
	if !elem.Identity() {
		v := c.variable()
		l.serializeRefs = elem.serializeRefs
		l.serialize = func(expr string) string {
			return expr + ".map(" + elem.callback(v) + ")"
		}
	}
	return l, nil
}

func (c Context) lowerTypeParam(t *idl.TypeParam) (Lowered, error) {
	name, ok := idl.ResolveTypeParam(t, c.params)
	if !ok {
		return Lowered{}, errors.Mark(
			errors.Newf("type parameter %s is not bound (in scope: %s)", t, strings.Join(c.params, ", ")),
			ErrInconsistentContext)
	}

	if c.generic {
		cb := serializerParam(name)
		return Lowered{
			Type:      name,
			Wire:      "unknown",
			serialize: func(expr string) string { return cb + "(" + expr + ")" },
		}, nil
	}

	l := Lowered{Type: "p.TypeParam<" + strconv.Quote(name) + ">"}
	l.Wire = l.Type
	l.typeRefs.usePrelude()
	l.wireRefs.usePrelude()
	return l, nil
}

func (c Context) lowerStruct(t *idl.StructRef) (Lowered, error) {
	if idl.IsWellKnown(t) {
		return c.lowerWellKnown(t)
	}

	var def *idl.StructDef
	if c.pkg != nil {
		def = c.pkg.FindStruct(t.Module, t.Name)
	}
	if def == nil {
		return Lowered{}, errors.Mark(errors.Newf("unknown struct %s", t.QualifiedName()), ErrUnresolvableType)
	}
	if len(def.TypeParams) != len(t.TypeArgs) {
		return Lowered{}, errors.Mark(
			errors.Newf("struct %s takes %d type arguments, got %d", t.QualifiedName(), len(def.TypeParams), len(t.TypeArgs)),
			ErrUnresolvableType)
	}

	var qualifier string
	var l Lowered
	if t.Module == c.module {
		qualifier = c.self
		if c.self != "" {
			l.typeRefs.self = true
			l.serializeRefs.self = true
		}
	} else {
		if _, ok := c.layout.dir(t.Module); !ok {
			return Lowered{}, errors.Mark(errors.Newf("module %s is not part of the package", t.Module), ErrUnresolvableType)
		}
		qualifier = c.layout.alias(t.Module) + "."
		l.typeRefs.useModule(t.Module)
		l.serializeRefs.useModule(t.Module)
	}

	name := declarationName(t.Name)
	args := make([]Lowered, len(t.TypeArgs))
	for i, arg := range t.TypeArgs {
		a, err := c.nested().Lower(arg)
		if err != nil {
			return Lowered{}, errors.Wrapf(err, "type argument %d of %s", i, t.QualifiedName())
		}
		args[i] = a
		l.typeRefs.merge(a.typeRefs)
		l.serializeRefs.merge(a.serializeRefs)
	}

	l.Type = qualifier + name
	if len(args) > 0 {
		types := make([]string, len(args))
		for i, a := range args {
			types[i] = a.Type
		}
		l.Type += "<" + strings.Join(types, ", ") + ">"
	}
	l.Wire = "Record<string, unknown>"

	fn := qualifier + "serialize" + name
	v := c.variable()
	l.serialize = func(expr string) string {
		var b strings.Builder
		b.WriteString(fn)
		b.WriteString("(")
		b.WriteString(expr)
		for _, a := range args {
			b.WriteString(", ")
			b.WriteString(a.callback(v))
		}
		b.WriteString(")")
		return b.String()
	}
	return l, nil
}

func (c Context) lowerWellKnown(t *idl.StructRef) (Lowered, error) {
	switch t.Name {
	case "String":
		return Lowered{Type: "string", Wire: "string"}, nil

	case "Object":
		l := Lowered{
			Type:      "address",
			Wire:      "string",
			serialize: func(expr string) string { return "p.serializers.address(" + expr + ")" },
		}
		l.typeRefs.useType("address")
		l.serializeRefs.usePrelude()
		return l, nil

	case "Option":
		inner, err := c.nested().Lower(t.TypeArgs[0])
		if err != nil {
			return Lowered{}, errors.Wrapf(err, "type argument 0 of %s", t.QualifiedName())
		}
		l := Lowered{
			Type:          inner.Type + " | null",
			Wire:          arrayOf(inner.Wire),
			typeRefs:      inner.typeRefs,
			wireRefs:      inner.wireRefs,
			serializeRefs: inner.serializeRefs,
		}
		l.serialize = func(expr string) string {
			return "(" + expr + " == null ? [] : [" + inner.Serialize(expr) + "])"
		}
		return l, nil
	}
	return Lowered{}, errors.Mark(errors.Newf("unsupported well-known struct %s", t.QualifiedName()), ErrUnresolvableType)
}

// variable names the lambda parameter introduced at this depth.
func (c Context) variable() string {
	return "e" + strconv.Itoa(c.depth)
}

func (c Context) arrayOf(elem string) string {
	if c.readonlyArrays {
		return "readonly " + arrayOf(elem)
	}
	return arrayOf(elem)
}

// arrayOf renders elem[], parenthesizing compound element types such as
// unions and readonly arrays.
func arrayOf(elem string) string {
	depth := 0
	for _, r := range elem {
		switch r {
		case '<', '(', '[', '{':
			depth++
		case '>', ')', ']', '}':
			depth--
		case ' ':
			if depth == 0 {
				return "(" + elem + ")[]"
			}
		}
	}
	return elem + "[]"
}

// serializerParam names the callback a generic declaration receives for a
// type parameter.
func serializerParam(param string) string {
	return "serialize" + toPascalCase(sanitizeIdentifier(param))
}

// describe renders a type expression in Move syntax for documentation.
// Positional type parameters are shown by their name in params.
func describe(t idl.TypeExpr, params []string) string {
	switch t := t.(type) {
	case nil:
		return "<missing>"
	case *idl.TypeParam:
		if t.Name == "" && t.Index >= 0 && t.Index < len(params) {
			return params[t.Index]
		}
		return t.String()
	case *idl.Vector:
		return "vector<" + describe(t.Element, params) + ">"
	case *idl.StructRef:
		if len(t.TypeArgs) == 0 {
			return t.QualifiedName()
		}
		args := make([]string, len(t.TypeArgs))
		for i, a := range t.TypeArgs {
			args[i] = describe(a, params)
		}
		return t.QualifiedName() + "<" + strings.Join(args, ", ") + ">"
	case *idl.Reference:
		if t.Mutable {
			return "&mut " + describe(t.Inner, params)
		}
		return "&" + describe(t.Inner, params)
	default:
		return t.String()
	}
}
