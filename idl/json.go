package idl

import (
	"bytes"
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// JSON serialization support for IDL types.
// Type expressions carry a "kind" field for discrimination. A bare JSON
// string is accepted as shorthand for a primitive ("u64").

// MarshalJSON implements json.Marshaler for Primitive.
func (p *Primitive) MarshalJSON() ([]byte, error) {
	if !p.PrimitiveKind.Valid() {
		return nil, errors.Newf("invalid primitive kind %d", int(p.PrimitiveKind))
	}
	return json.Marshal(&struct {
		Kind string `json:"kind"`
		Name string `json:"name"`
	}{
		Kind: "primitive",
		Name: p.PrimitiveKind.String(),
	})
}

// MarshalJSON implements json.Marshaler for Vector.
func (v *Vector) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind    string   `json:"kind"`
		Element TypeExpr `json:"element"`
	}{
		Kind:    "vector",
		Element: v.Element,
	})
}

// MarshalJSON implements json.Marshaler for TypeParam.
func (t *TypeParam) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind  string `json:"kind"`
		Index int    `json:"index"`
		Name  string `json:"name,omitempty"`
	}{
		Kind:  "typeParam",
		Index: t.Index,
		Name:  t.Name,
	})
}

// MarshalJSON implements json.Marshaler for StructRef.
func (s *StructRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind     string     `json:"kind"`
		Module   ModuleID   `json:"module"`
		Name     string     `json:"name"`
		TypeArgs []TypeExpr `json:"typeArgs,omitempty"`
	}{
		Kind:     "struct",
		Module:   s.Module,
		Name:     s.Name,
		TypeArgs: s.TypeArgs,
	})
}

// MarshalJSON implements json.Marshaler for Reference.
func (r *Reference) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind    string   `json:"kind"`
		Mutable bool     `json:"mutable,omitempty"`
		Inner   TypeExpr `json:"inner"`
	}{
		Kind:    "reference",
		Mutable: r.Mutable,
		Inner:   r.Inner,
	})
}

// typeExprJSON is the union of all variant fields on the wire.
type typeExprJSON struct {
	Kind     string            `json:"kind"`
	Name     string            `json:"name"`
	Element  json.RawMessage   `json:"element"`
	Index    int               `json:"index"`
	Module   string            `json:"module"`
	TypeArgs []json.RawMessage `json:"typeArgs"`
	Mutable  bool              `json:"mutable"`
	Inner    json.RawMessage   `json:"inner"`
}

// UnmarshalTypeExpr decodes a type expression. Unknown kinds are an error.
func UnmarshalTypeExpr(data []byte) (TypeExpr, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, errors.New("missing type expression")
	}

	if data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return nil, err
		}
		return primitiveFromName(name)
	}

	var w typeExprJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, errors.Wrap(err, "decode type expression")
	}

	switch w.Kind {
	case "primitive":
		return primitiveFromName(w.Name)
	case "vector":
		elem, err := UnmarshalTypeExpr(w.Element)
		if err != nil {
			return nil, errors.Wrap(err, "vector element")
		}
		return VectorOf(elem), nil
	case "typeParam":
		if w.Index < 0 {
			return nil, errors.Newf("negative type parameter index %d", w.Index)
		}
		return &TypeParam{Index: w.Index, Name: w.Name}, nil
	case "struct":
		mod, err := ParseModuleID(w.Module)
		if err != nil {
			return nil, err
		}
		if w.Name == "" {
			return nil, errors.Newf("struct reference in %s has no name", mod)
		}
		ref := &StructRef{Module: mod, Name: w.Name}
		for i, raw := range w.TypeArgs {
			arg, err := UnmarshalTypeExpr(raw)
			if err != nil {
				return nil, errors.Wrapf(err, "type argument %d of %s", i, ref.QualifiedName())
			}
			ref.TypeArgs = append(ref.TypeArgs, arg)
		}
		return ref, nil
	case "reference":
		inner, err := UnmarshalTypeExpr(w.Inner)
		if err != nil {
			return nil, errors.Wrap(err, "reference target")
		}
		return &Reference{Mutable: w.Mutable, Inner: inner}, nil
	case "":
		return nil, errors.New("type expression has no kind")
	default:
		return nil, errors.Newf("unknown type expression kind %q", w.Kind)
	}
}

func primitiveFromName(name string) (*Primitive, error) {
	k, ok := ParsePrimitiveKind(name)
	if !ok {
		return nil, errors.Newf("unknown primitive type %q", name)
	}
	return &Primitive{PrimitiveKind: k}, nil
}

type argumentJSON struct {
	Name string          `json:"name"`
	Type json.RawMessage `json:"type"`
	Doc  string          `json:"doc,omitempty"`
}

// MarshalJSON implements json.Marshaler for Argument.
func (a Argument) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Name string   `json:"name"`
		Type TypeExpr `json:"type"`
	}{
		Name: a.Name,
		Type: a.Type,
	})
}

// UnmarshalJSON implements json.Unmarshaler for Argument.
func (a *Argument) UnmarshalJSON(data []byte) error {
	var w argumentJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	t, err := UnmarshalTypeExpr(w.Type)
	if err != nil {
		return errors.Wrapf(err, "argument %q", w.Name)
	}
	*a = Argument{Name: w.Name, Type: t}
	return nil
}

// MarshalJSON implements json.Marshaler for Field.
func (f Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Name string   `json:"name"`
		Type TypeExpr `json:"type"`
		Doc  string   `json:"doc,omitempty"`
	}{
		Name: f.Name,
		Type: f.Type,
		Doc:  f.Doc,
	})
}

// UnmarshalJSON implements json.Unmarshaler for Field.
func (f *Field) UnmarshalJSON(data []byte) error {
	var w argumentJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	t, err := UnmarshalTypeExpr(w.Type)
	if err != nil {
		return errors.Wrapf(err, "field %q", w.Name)
	}
	*f = Field{Name: w.Name, Type: t, Doc: w.Doc}
	return nil
}

type scriptFunctionJSON struct {
	Name       string     `json:"name"`
	Doc        string     `json:"doc,omitempty"`
	TypeParams []string   `json:"typeParams,omitempty"`
	Args       []Argument `json:"args"`
}

// MarshalJSON implements json.Marshaler for ScriptFunction.
func (f ScriptFunction) MarshalJSON() ([]byte, error) {
	args := f.Args
	if args == nil {
		args = []Argument{}
	}
	return json.Marshal(&scriptFunctionJSON{
		Name:       f.Name,
		Doc:        f.Doc,
		TypeParams: f.TypeParams,
		Args:       args,
	})
}

// UnmarshalJSON implements json.Unmarshaler for ScriptFunction.
func (f *ScriptFunction) UnmarshalJSON(data []byte) error {
	var w scriptFunctionJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return errors.Wrap(err, "script function")
	}
	*f = ScriptFunction{Name: w.Name, Doc: w.Doc, TypeParams: w.TypeParams, Args: w.Args}
	return nil
}

type structDefJSON struct {
	Name       string   `json:"name"`
	Doc        string   `json:"doc,omitempty"`
	TypeParams []string `json:"typeParams,omitempty"`
	Fields     []Field  `json:"fields"`
}

// MarshalJSON implements json.Marshaler for StructDef.
func (s StructDef) MarshalJSON() ([]byte, error) {
	return json.Marshal(&structDefJSON{
		Name:       s.Name,
		Doc:        s.Doc,
		TypeParams: s.TypeParams,
		Fields:     s.Fields,
	})
}

// UnmarshalJSON implements json.Unmarshaler for StructDef.
func (s *StructDef) UnmarshalJSON(data []byte) error {
	var w structDefJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return errors.Wrap(err, "struct")
	}
	*s = StructDef{Name: w.Name, Doc: w.Doc, TypeParams: w.TypeParams, Fields: w.Fields}
	return nil
}

type moduleJSON struct {
	ID              ModuleID         `json:"id"`
	Doc             string           `json:"doc,omitempty"`
	Structs         []StructDef      `json:"structs,omitempty"`
	ScriptFunctions []ScriptFunction `json:"functions"`
}

// MarshalJSON implements json.Marshaler for Module.
func (m Module) MarshalJSON() ([]byte, error) {
	return json.Marshal(&moduleJSON{
		ID:              m.ID,
		Doc:             m.Doc,
		Structs:         m.Structs,
		ScriptFunctions: m.ScriptFunctions,
	})
}

// UnmarshalJSON implements json.Unmarshaler for Module.
func (m *Module) UnmarshalJSON(data []byte) error {
	var w moduleJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.ID.IsZero() {
		return errors.New("module has no id")
	}
	*m = Module{ID: w.ID, Doc: w.Doc, Structs: w.Structs, ScriptFunctions: w.ScriptFunctions}
	return nil
}

type packageJSON struct {
	Name         string   `json:"name"`
	Modules      []Module `json:"modules"`
	Dependencies []Module `json:"dependencies,omitempty"`
}

// MarshalJSON implements json.Marshaler for Package.
func (p Package) MarshalJSON() ([]byte, error) {
	return json.Marshal(&packageJSON{
		Name:         p.Name,
		Modules:      p.Modules,
		Dependencies: p.Dependencies,
	})
}

// UnmarshalJSON implements json.Unmarshaler for Package.
func (p *Package) UnmarshalJSON(data []byte) error {
	var w packageJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*p = Package{Name: w.Name, Modules: w.Modules, Dependencies: w.Dependencies}
	return nil
}
