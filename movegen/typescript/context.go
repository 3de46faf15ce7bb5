package typescript

import (
	"sort"
	"strings"

	"github.com/movets/movets/idl"
)

// Context carries what a type lowering needs to know about its surroundings:
// the package it resolves structs against, the module whose file is being
// written, and the type parameters in scope.
//
// Context is a value. The With* methods return modified copies, so lowering
// one argument never affects its siblings.
type Context struct {
	pkg    *idl.Package
	layout *layout

	module idl.ModuleID
	self   string // qualifier for structs of the current module ("" or "mod.")

	params  []string
	generic bool // declaring a generic struct rather than a concrete payload
	depth   int  // nesting depth, used to name lambda variables

	readonlyArrays bool
}

// NewContext returns a context for generating code for module within pkg.
func NewContext(pkg *idl.Package, module idl.ModuleID, cfg GeneratorConfig) Context {
	return Context{
		pkg:            pkg,
		layout:         newLayout(pkg),
		module:         module,
		readonlyArrays: cfg.TypeScript.UseReadonlyArrays,
	}
}

// WithTypeParams binds the type parameters of the declaration being
// generated. In a generic declaration, parameters render as type variables
// with forwarded serializers; otherwise they render as opaque placeholders.
func (c Context) WithTypeParams(params []string, generic bool) Context {
	c.params = params
	c.generic = generic
	return c
}

// qualified returns a copy that references the current module's structs
// through the given namespace (e.g., "mod").
func (c Context) qualified(namespace string) Context {
	if namespace == "" {
		c.self = ""
	} else {
		c.self = namespace + "."
	}
	return c
}

func (c Context) nested() Context {
	c.depth++
	return c
}

// layout assigns every module of a package its output directory and the
// namespace other modules import it under.
type layout struct {
	dirs map[idl.ModuleID]string
}

func newLayout(pkg *idl.Package) *layout {
	l := &layout{dirs: make(map[idl.ModuleID]string)}
	if pkg == nil {
		return l
	}

	all := append(append([]idl.Module(nil), pkg.Modules...), pkg.Dependencies...)
	seen := make(map[string]int)
	for _, m := range all {
		seen[baseDir(m.ID)]++
	}
	for _, m := range all {
		dir := baseDir(m.ID)
		if seen[dir] > 1 {
			dir += "_" + strings.TrimPrefix(m.ID.Address, "0x")
		}
		l.dirs[m.ID] = dir
	}
	return l
}

func baseDir(id idl.ModuleID) string {
	return strings.TrimSuffix(sanitizeIdentifier(toSnakeCase(id.Name)), "_")
}

// dir returns the output directory of a module.
func (l *layout) dir(id idl.ModuleID) (string, bool) {
	d, ok := l.dirs[id]
	return d, ok
}

// alias returns the namespace a module's mod.ts is imported under by
// other modules.
func (l *layout) alias(id idl.ModuleID) string {
	return l.dirs[id] + "_mod"
}

// refs records the imports a fragment of generated text depends on.
type refs struct {
	prelude bool            // the p namespace
	self    bool            // the current module through the mod namespace
	types   map[string]bool // types imported by name from the prelude
	modules map[idl.ModuleID]bool
}

func (r *refs) usePrelude() { r.prelude = true }

func (r *refs) useType(name string) {
	if r.types == nil {
		r.types = make(map[string]bool)
	}
	r.types[name] = true
}

func (r *refs) useModule(id idl.ModuleID) {
	if r.modules == nil {
		r.modules = make(map[idl.ModuleID]bool)
	}
	r.modules[id] = true
}

func (r *refs) merge(o refs) {
	if o.prelude {
		r.prelude = true
	}
	if o.self {
		r.self = true
	}
	for name := range o.types {
		r.useType(name)
	}
	for id := range o.modules {
		r.useModule(id)
	}
}

// typeNames returns the named prelude imports in sorted order.
func (r *refs) typeNames() []string {
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// moduleIDs returns the referenced modules in sorted order.
func (r *refs) moduleIDs() []idl.ModuleID {
	ids := make([]idl.ModuleID, 0, len(r.modules))
	for id := range r.modules {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}
