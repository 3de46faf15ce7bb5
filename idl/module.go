package idl

// Argument is a named script function parameter.
type Argument struct {
	Name string
	Type TypeExpr
}

// ScriptFunction is an on-chain callable entry point.
type ScriptFunction struct {
	// Name is the Move function name (snake_case by convention).
	Name string

	// Doc is the documentation comment. Empty means none.
	Doc string

	// Args are the parameters in declaration order.
	Args []Argument

	// TypeParams are the generic parameter names in declaration order.
	TypeParams []string
}

// IsGeneric reports whether the function declares type parameters.
func (f *ScriptFunction) IsGeneric() bool {
	return len(f.TypeParams) > 0
}

// Field is a struct field.
type Field struct {
	Name string
	Type TypeExpr
	Doc  string
}

// StructDef is a struct declared by a module.
type StructDef struct {
	Name       string
	Doc        string
	TypeParams []string
	Fields     []Field
}

// Module is a Move module and the declarations the generator consumes.
type Module struct {
	ID              ModuleID
	Doc             string
	Structs         []StructDef
	ScriptFunctions []ScriptFunction
}

// FindStruct looks up a struct by name. Returns nil if not found.
func (m *Module) FindStruct(name string) *StructDef {
	for i := range m.Structs {
		if m.Structs[i].Name == name {
			return &m.Structs[i]
		}
	}
	return nil
}

// FindFunction looks up a script function by name. Returns nil if not found.
func (m *Module) FindFunction(name string) *ScriptFunction {
	for i := range m.ScriptFunctions {
		if m.ScriptFunctions[i].Name == name {
			return &m.ScriptFunctions[i]
		}
	}
	return nil
}

// Package is a complete IDL document: the modules to generate plus the
// dependency modules whose structs they may reference.
type Package struct {
	// Name is the package name.
	Name string

	// Modules are generated, in order.
	Modules []Module

	// Dependencies are consulted for struct resolution. Their struct
	// declarations are generated, their script functions are not.
	Dependencies []Module
}

// FindModule looks up a module in Modules, then Dependencies.
// Returns nil if not found.
func (p *Package) FindModule(id ModuleID) *Module {
	for i := range p.Modules {
		if p.Modules[i].ID == id {
			return &p.Modules[i]
		}
	}
	for i := range p.Dependencies {
		if p.Dependencies[i].ID == id {
			return &p.Dependencies[i]
		}
	}
	return nil
}

// FindStruct resolves a struct declaration across all modules.
// Returns nil if not found.
func (p *Package) FindStruct(id ModuleID, name string) *StructDef {
	m := p.FindModule(id)
	if m == nil {
		return nil
	}
	return m.FindStruct(name)
}

// IsGenerated reports whether id is one of the modules that will be generated.
func (p *Package) IsGenerated(id ModuleID) bool {
	for i := range p.Modules {
		if p.Modules[i].ID == id {
			return true
		}
	}
	return false
}
