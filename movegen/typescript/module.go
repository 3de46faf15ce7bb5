package typescript

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/movets/movets/idl"
	"github.com/movets/movets/movegen/typescript/flavor"
)

// File is one generated file.
type File struct {
	// Path is relative to the output root and uses forward slashes.
	Path    string
	Content []byte
}

// ModuleOutput is everything generated for one module.
type ModuleOutput struct {
	Module idl.ModuleID

	// Dir is the module's directory under the output root.
	Dir string

	// Export is the name the root index re-exports the module under.
	Export string

	// Imports lists the other modules the files import, sorted. The files
	// are only usable when every one of them is written too.
	Imports []idl.ModuleID

	Files     []File
	Functions int
	Warnings  []idl.Warning
}

// fileImports collects the imports of one file. Imports used only in type
// positions are emitted as type-only imports.
type fileImports struct {
	types  refs
	values refs
}

// write emits the import block. preludePath and modulePath locate the
// prelude and other modules' mod.ts relative to the file.
func (fi *fileImports) write(w *codeWriter, preludePath string, modulePath func(idl.ModuleID) string, alias func(idl.ModuleID) string) {
	wrote := false
	if names := fi.types.typeNames(); len(names) > 0 {
		w.line(0, "import type { %s } from %s;", strings.Join(names, ", "), strconv.Quote(preludePath))
		wrote = true
	}
	switch {
	case fi.values.prelude:
		w.line(0, "import * as p from %s;", strconv.Quote(preludePath))
		wrote = true
	case fi.types.prelude:
		w.line(0, "import type * as p from %s;", strconv.Quote(preludePath))
		wrote = true
	}

	var all refs
	all.merge(fi.types)
	all.merge(fi.values)
	for _, id := range all.moduleIDs() {
		kw := "import type"
		if fi.values.modules[id] {
			kw = "import"
		}
		w.line(0, "%s * as %s from %s;", kw, alias(id), strconv.Quote(modulePath(id)))
		wrote = true
	}
	if wrote {
		w.blank()
	}
}

// moduleRenderer renders the files of one module.
type moduleRenderer struct {
	pkg    *idl.Package
	module *idl.Module
	cfg    GeneratorConfig
	ctx    Context
	dir    string

	functions []*scriptFunction
	warnings  []idl.Warning
	imported  refs
}

// RenderModule renders every file of a module. Modules listed as package
// dependencies get declarations only. The result is a pure function of its
// inputs.
func RenderModule(pkg *idl.Package, m *idl.Module, cfg GeneratorConfig) (*ModuleOutput, error) {
	ctx := NewContext(pkg, m.ID, cfg)
	dir, ok := ctx.layout.dir(m.ID)
	if !ok {
		return nil, errors.Mark(errors.Newf("module %s is not part of package %q", m.ID, pkg.Name), ErrComposition)
	}

	r := &moduleRenderer{pkg: pkg, module: m, cfg: cfg, ctx: ctx, dir: dir}
	if pkg.IsGenerated(m.ID) {
		for i := range m.ScriptFunctions {
			fn, err := newScriptFunction(ctx, &m.ScriptFunctions[i], cfg)
			if err != nil {
				return nil, err
			}
			r.functions = append(r.functions, fn)
		}
	}
	if err := r.checkNames(); err != nil {
		return nil, err
	}

	out := &ModuleOutput{
		Module:    m.ID,
		Dir:       dir,
		Export:    declarationName(dir),
		Functions: len(r.functions),
	}

	modFile, err := r.renderMod()
	if err != nil {
		return nil, err
	}
	out.Files = append(out.Files, r.file("mod.ts", modFile))

	var client []byte
	if len(r.functions) > 0 {
		out.Files = append(out.Files,
			r.file("payloads.ts", r.renderPayloads()),
			r.file("entry.ts", r.renderEntry()))

		client, err = r.renderClient()
		if err != nil {
			return nil, err
		}
		if len(client) > 0 {
			out.Files = append(out.Files, r.file("client.ts", client))
		}
	}
	out.Files = append(out.Files, r.file("index.ts", r.renderIndex(len(client) > 0)))
	out.Warnings = r.warnings
	for _, id := range r.imported.moduleIDs() {
		if id != m.ID {
			out.Imports = append(out.Imports, id)
		}
	}
	return out, nil
}

func (r *moduleRenderer) file(name string, body []byte) File {
	return File{Path: path.Join(r.dir, name), Content: finishFile(body, r.cfg)}
}

// checkNames rejects two top-level declarations with the same name in one file.
func (r *moduleRenderer) checkNames() error {
	mod := map[string]string{"ADDRESS": "module constant", "NAME": "module constant", "FULL_NAME": "module constant"}
	claim := func(names map[string]string, name, owner string) error {
		if prev, dup := names[name]; dup {
			return errors.Mark(
				errors.Newf("%s and %s both declare %s", prev, owner, name),
				ErrComposition)
		}
		names[name] = owner
		return nil
	}

	for _, s := range r.structs() {
		owner := "struct " + s.Name
		name := declarationName(s.Name)
		if err := claim(mod, name, owner); err != nil {
			return err
		}
		if err := claim(mod, "serialize"+name, owner); err != nil {
			return err
		}
	}

	payloads := map[string]string{}
	entry := map[string]string{}
	for _, fn := range r.functions {
		owner := "function " + fn.fn.Name
		if fn.hasInput() {
			if err := claim(mod, fn.argsTypeName(), owner); err != nil {
				return err
			}
		}
		if err := claim(payloads, fn.typeName, owner); err != nil {
			return err
		}
		if err := claim(entry, fn.builder, owner); err != nil {
			return err
		}
	}

	// Struct type parameters are in scope in the declaration and its
	// serializer, both of which refer to module-level names.
	for _, s := range r.structs() {
		for _, tp := range s.TypeParams {
			for _, local := range []string{tp, serializerParam(tp)} {
				if prev, taken := mod[local]; taken {
					return errors.Mark(
						errors.Newf("struct %s: type parameter %s hides %s, declared by %s", s.Name, tp, local, prev),
						ErrComposition)
				}
			}
		}
	}
	return nil
}

// structs returns the struct declarations this module emits. Framework
// structs with a native rendering are skipped.
func (r *moduleRenderer) structs() []*idl.StructDef {
	var defs []*idl.StructDef
	for i := range r.module.Structs {
		s := &r.module.Structs[i]
		args := make([]idl.TypeExpr, len(s.TypeParams))
		for j := range args {
			args[j] = idl.TypeParamAt(j)
		}
		if idl.IsWellKnown(idl.Struct(r.module.ID, s.Name, args...)) {
			continue
		}
		defs = append(defs, s)
	}
	return defs
}

func (r *moduleRenderer) preludePath() string {
	if r.cfg.TypeScript.PreludeImport != "" {
		return r.cfg.TypeScript.PreludeImport
	}
	return "../prelude"
}

// writeImports writes a file's import block and records the modules it
// imports.
func (r *moduleRenderer) writeImports(w *codeWriter, imports *fileImports) {
	r.imported.merge(imports.types)
	r.imported.merge(imports.values)
	imports.write(w, r.preludePath(), r.modulePath, r.ctx.layout.alias)
}

func (r *moduleRenderer) modulePath(id idl.ModuleID) string {
	dir, _ := r.ctx.layout.dir(id)
	return "../" + dir + "/mod"
}

// renderMod renders mod.ts: module constants, struct declarations with
// their serializers, and payload arguments types.
func (r *moduleRenderer) renderMod() ([]byte, error) {
	var imports fileImports
	body := newCodeWriter(r.cfg)

	id := r.module.ID
	body.doc(0, "Address the module is published at.")
	body.line(0, "export const ADDRESS = %s as const;", strconv.Quote(id.Address))
	body.blank()
	body.doc(0, "Module name.")
	body.line(0, "export const NAME = %s as const;", strconv.Quote(id.Name))
	body.blank()
	fullDoc := "Fully-qualified module identifier."
	if r.module.Doc != "" {
		fullDoc += "\n\n" + r.module.Doc
	}
	body.doc(0, fullDoc)
	body.line(0, "export const FULL_NAME = %s as const;", strconv.Quote(id.String()))

	for _, s := range r.structs() {
		body.blank()
		if err := r.writeStruct(body, &imports, s); err != nil {
			return nil, err
		}
	}

	for _, fn := range r.functions {
		if !fn.hasInput() {
			continue
		}
		body.blank()
		fn.writeArgsType(body, &imports)
	}

	head := newCodeWriter(r.cfg)
	r.writeImports(head, &imports)
	return append(head.bytes(), body.bytes()...), nil
}

// writeStruct emits a struct's type declaration and its serializer.
func (r *moduleRenderer) writeStruct(w *codeWriter, imports *fileImports, s *idl.StructDef) error {
	ctx := r.ctx.WithTypeParams(s.TypeParams, true)
	name := declarationName(s.Name)
	qualified := r.module.ID.String() + "::" + s.Name

	type field struct {
		def  idl.Field
		key  string
		l    Lowered
		wire string
	}
	fields := make([]field, len(s.Fields))
	keys := make(map[string]bool, len(s.Fields))
	for i, f := range s.Fields {
		l, err := ctx.Lower(f.Type)
		if err != nil {
			return errors.Wrapf(err, "struct %s: field %s", qualified, f.Name)
		}
		key := applyCaseTransform(f.Name, r.cfg.FieldCase)
		if keys[key] {
			return errors.Mark(errors.Newf("struct %s: property %q declared twice", qualified, key), ErrComposition)
		}
		keys[key] = true
		fields[i] = field{def: f, key: key, l: l}
		imports.types.merge(l.typeRefs)
		imports.values.merge(l.serializeRefs)
	}

	typeParams := ""
	if len(s.TypeParams) > 0 {
		typeParams = "<" + strings.Join(s.TypeParams, ", ") + ">"
	}

	doc := "IDL struct: `" + qualified + "`"
	if s.Doc != "" {
		doc += "\n\n" + s.Doc
	}
	w.doc(0, doc)
	w.openObject(name+typeParams, r.cfg.TypeScript.UseInterface)
	for _, f := range fields {
		if f.def.Doc != "" {
			w.doc(1, f.def.Doc+"\n\nIDL type: `"+describe(f.def.Type, s.TypeParams)+"`")
		} else {
			w.doc(1, "IDL type: `"+describe(f.def.Type, s.TypeParams)+"`")
		}
		w.line(1, "%s: %s;", propertyKey(f.key), f.l.Type)
	}
	w.closeObject(r.cfg.TypeScript.UseInterface)
	w.blank()

	w.doc(0, fmt.Sprintf("Serializes a {@link %s} into its wire form.", name))
	w.line(0, "export function serialize%s%s(", name, typeParams)
	w.line(1, "value: %s%s,", name, typeParams)
	for _, tp := range s.TypeParams {
		w.line(1, "%s: (value: %s) => unknown,", serializerParam(tp), tp)
	}
	w.line(0, "): Record<string, unknown> {")
	if len(fields) == 0 {
		w.line(1, "return {};")
	} else {
		w.line(1, "return {")
		for _, f := range fields {
			w.line(2, "%s: %s,", propertyKey(f.def.Name), f.l.Serialize(propertyAccess("value", f.key)))
		}
		w.line(1, "};")
	}
	w.line(0, "}")
	return nil
}

// renderPayloads renders payloads.ts: one payload record type per function.
func (r *moduleRenderer) renderPayloads() []byte {
	var imports fileImports
	body := newCodeWriter(r.cfg)
	for i, fn := range r.functions {
		if i > 0 {
			body.blank()
		}
		fn.writePayloadType(body, &imports)
	}

	head := newCodeWriter(r.cfg)
	r.writeImports(head, &imports)
	return append(head.bytes(), body.bytes()...)
}

// renderEntry renders entry.ts: one payload builder per function.
func (r *moduleRenderer) renderEntry() []byte {
	var imports fileImports
	body := newCodeWriter(r.cfg)
	needsMod, modValues := false, false
	for i, fn := range r.functions {
		if i > 0 {
			body.blank()
		}
		fn.writeBuilder(body, &imports)
		needsMod = needsMod || fn.hasInput()
		modValues = modValues || fn.usesModValues()
	}

	head := newCodeWriter(r.cfg)
	r.writeImports(head, &imports)
	switch {
	case modValues:
		head.line(0, "import * as mod from \"./mod\";")
	case needsMod:
		head.line(0, "import type * as mod from \"./mod\";")
	}
	head.line(0, "import type * as payloads from \"./payloads\";")
	head.blank()
	return append(head.bytes(), body.bytes()...)
}

// renderClient renders client.ts for the configured target. It returns no
// output for TargetNone.
func (r *moduleRenderer) renderClient() ([]byte, error) {
	f, err := flavor.Get(r.cfg.Target)
	if err != nil {
		return nil, errors.Mark(err, ErrComposition)
	}
	if f == nil {
		return nil, nil
	}

	m := flavor.Module{
		ID:       r.module.ID.String(),
		TypeName: declarationName(toPascalCase(r.module.ID.Name)),
	}
	for _, fn := range r.functions {
		m.Functions = append(m.Functions, fn.flavorFunction())
	}

	ectx := &flavor.EmitContext{IndentStr: indentString(r.cfg), EmitComments: r.cfg.EmitComments}
	out, err := flavor.Generate(f, ectx, m)
	if err != nil {
		return nil, errors.Mark(err, ErrComposition)
	}
	for _, msg := range ectx.Warnings {
		r.warnings = append(r.warnings, idl.Warning{
			Code:    "method_renamed",
			Message: msg,
			Module:  r.module.ID.String(),
		})
	}
	return out, nil
}

// renderIndex renders the module barrel.
func (r *moduleRenderer) renderIndex(hasClient bool) []byte {
	w := newCodeWriter(r.cfg)
	w.line(0, "export * as mod from \"./mod\";")
	if len(r.functions) > 0 {
		w.line(0, "export * as payloads from \"./payloads\";")
		w.line(0, "export * as entry from \"./entry\";")
	}
	if hasClient {
		w.line(0, "export * from \"./client\";")
	}
	return w.bytes()
}
