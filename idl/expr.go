package idl

import (
	"strconv"
	"strings"
)

// Kind identifies the variant of a type expression.
type Kind int

const (
	KindPrimitive Kind = iota // Built-in type (bool, u64, address, ...)
	KindVector                // vector<T>
	KindTypeParam             // Reference to an enclosing generic parameter
	KindStruct                // Struct with type arguments
	KindReference             // &T or &mut T
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "Primitive"
	case KindVector:
		return "Vector"
	case KindTypeParam:
		return "TypeParam"
	case KindStruct:
		return "Struct"
	case KindReference:
		return "Reference"
	default:
		return "Unknown"
	}
}

// TypeExpr is a Move type expression.
//
// The variant set is closed: *Primitive, *Vector, *TypeParam, *StructRef and
// *Reference. Consumers switch on the concrete type and must fail on
// anything else.
type TypeExpr interface {
	// Kind returns the variant for type switching.
	Kind() Kind

	// String renders the expression in Move syntax.
	String() string

	// Ensure only types in this package can implement TypeExpr.
	sealed()
}

// Vector represents vector<T>.
type Vector struct {
	Element TypeExpr
}

// Kind returns KindVector.
func (v *Vector) Kind() Kind { return KindVector }

// String renders vector<T>.
func (v *Vector) String() string { return "vector<" + exprString(v.Element) + ">" }

func (*Vector) sealed() {}

// VectorOf returns a Vector of the given element type.
func VectorOf(element TypeExpr) *Vector {
	return &Vector{Element: element}
}

// TypeParam references a generic type parameter of the enclosing function or
// struct. Move bytecode refers to parameters by position; hand-written IDL may
// use the name instead. When Name is set it takes precedence over Index.
type TypeParam struct {
	Index int
	Name  string
}

// Kind returns KindTypeParam.
func (t *TypeParam) Kind() Kind { return KindTypeParam }

// String renders the parameter name, or T<index> when unnamed.
func (t *TypeParam) String() string {
	if t.Name != "" {
		return t.Name
	}
	return "T" + strconv.Itoa(t.Index)
}

func (*TypeParam) sealed() {}

// TypeParamAt returns a positional type parameter reference.
func TypeParamAt(index int) *TypeParam {
	return &TypeParam{Index: index}
}

// TypeParamNamed returns a named type parameter reference.
func TypeParamNamed(name string) *TypeParam {
	return &TypeParam{Name: name}
}

// StructRef references a struct declared in some module, instantiated with
// type arguments.
type StructRef struct {
	Module   ModuleID
	Name     string
	TypeArgs []TypeExpr
}

// Kind returns KindStruct.
func (s *StructRef) Kind() Kind { return KindStruct }

// QualifiedName returns "address::module::Name" without type arguments.
func (s *StructRef) QualifiedName() string {
	return s.Module.String() + "::" + s.Name
}

// String renders address::module::Name<Args>.
func (s *StructRef) String() string {
	if len(s.TypeArgs) == 0 {
		return s.QualifiedName()
	}
	args := make([]string, len(s.TypeArgs))
	for i, a := range s.TypeArgs {
		args[i] = exprString(a)
	}
	return s.QualifiedName() + "<" + strings.Join(args, ", ") + ">"
}

func (*StructRef) sealed() {}

// Struct returns a StructRef.
func Struct(module ModuleID, name string, typeArgs ...TypeExpr) *StructRef {
	return &StructRef{Module: module, Name: name, TypeArgs: typeArgs}
}

// Reference represents &T or &mut T.
type Reference struct {
	Mutable bool
	Inner   TypeExpr
}

// Kind returns KindReference.
func (r *Reference) Kind() Kind { return KindReference }

// String renders &T or &mut T.
func (r *Reference) String() string {
	if r.Mutable {
		return "&mut " + exprString(r.Inner)
	}
	return "&" + exprString(r.Inner)
}

func (*Reference) sealed() {}

// Ref returns an immutable reference to t.
func Ref(t TypeExpr) *Reference {
	return &Reference{Inner: t}
}

// MutRef returns a mutable reference to t.
func MutRef(t TypeExpr) *Reference {
	return &Reference{Mutable: true, Inner: t}
}

func exprString(t TypeExpr) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
