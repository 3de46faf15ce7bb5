package flavor

import (
	"bytes"
	"fmt"
	"strconv"
)

// DefaultSuiGasBudget is the gas budget used when a call passes no override.
const DefaultSuiGasBudget = 1000

// SuiFlavor emits a class that issues Move calls through the sui SDK's
// RawSigner.
type SuiFlavor struct{}

var suiMembers = map[string]bool{
	"constructor":      true,
	"signer":           true,
	"defaultGasBudget": true,
}

// Name returns "sui".
func (f *SuiFlavor) Name() string { return "sui" }

// Target returns TargetSui.
func (f *SuiFlavor) Target() Target { return TargetSui }

// ClassName returns <Module>SuiModule.
func (f *SuiFlavor) ClassName(m Module) string { return m.TypeName + "SuiModule" }

// EmitModule generates the Sui wrapper for a module.
func (f *SuiFlavor) EmitModule(ctx *EmitContext, m Module) ([]byte, error) {
	if m.TypeName == "" {
		return nil, fmt.Errorf("module %s has no type name", m.ID)
	}
	i := ctx.IndentStr
	var buf bytes.Buffer

	buf.WriteString("import type { ObjectId, RawSigner } from \"@mysten/sui.js\";\n\n")
	buf.WriteString("import * as entry from \"./entry\";\n")
	buf.WriteString("import * as mod from \"./mod\";\n\n")

	writeDoc(&buf, ctx, "", "Per-call overrides for Move calls.")
	buf.WriteString("export type SuiCallOverrides = {\n")
	fmt.Fprintf(&buf, "%sgasBudget?: number;\n", i)
	fmt.Fprintf(&buf, "%sgasPayment?: ObjectId;\n", i)
	buf.WriteString("};\n\n")

	writeDoc(&buf, ctx, "", fmt.Sprintf("Calls `%s` script functions through one signer.", m.ID))
	fmt.Fprintf(&buf, "export class %s {\n", f.ClassName(m))
	fmt.Fprintf(&buf, "%sprivate readonly defaultGasBudget = %d;\n\n", i, DefaultSuiGasBudget)
	fmt.Fprintf(&buf, "%sconstructor(private readonly signer: RawSigner) {}\n", i)

	methods := methodNames(ctx, m, suiMembers)
	for n, fn := range m.Functions {
		buf.WriteString("\n")
		writeDoc(&buf, ctx, i, fn.Doc)
		if fn.ArgsType != "" {
			fmt.Fprintf(&buf, "%sasync %s(args: mod.%s, overrides?: SuiCallOverrides) {\n", i, methods[n], fn.ArgsType)
			fmt.Fprintf(&buf, "%s%sconst payload = entry.%s(args);\n", i, i, fn.Builder)
		} else {
			fmt.Fprintf(&buf, "%sasync %s(overrides?: SuiCallOverrides) {\n", i, methods[n])
			fmt.Fprintf(&buf, "%s%sconst payload = entry.%s();\n", i, i, fn.Builder)
		}
		fmt.Fprintf(&buf, "%s%sreturn this.signer.executeMoveCall({\n", i, i)
		fmt.Fprintf(&buf, "%s%s%spackageObjectId: mod.ADDRESS,\n", i, i, i)
		fmt.Fprintf(&buf, "%s%s%smodule: mod.NAME,\n", i, i, i)
		fmt.Fprintf(&buf, "%s%s%sfunction: %s,\n", i, i, i, strconv.Quote(fn.Name))
		fmt.Fprintf(&buf, "%s%s%stypeArguments: [...payload.type_arguments],\n", i, i, i)
		fmt.Fprintf(&buf, "%s%s%sarguments: [...payload.arguments],\n", i, i, i)
		fmt.Fprintf(&buf, "%s%s%sgasBudget: overrides?.gasBudget ?? this.defaultGasBudget,\n", i, i, i)
		fmt.Fprintf(&buf, "%s%s%sgasPayment: overrides?.gasPayment,\n", i, i, i)
		fmt.Fprintf(&buf, "%s%s});\n", i, i)
		fmt.Fprintf(&buf, "%s}\n", i)
	}
	buf.WriteString("}\n")

	return buf.Bytes(), nil
}
