package flavor

import (
	"bytes"
	"fmt"
)

// AptosFlavor emits a class that turns payloads into signed, submitted
// transactions through the aptos SDK's AptosClient.
type AptosFlavor struct{}

var aptosMembers = map[string]bool{
	"constructor":         true,
	"client":              true,
	"account":             true,
	"sendTransaction":     true,
	"transformTxnPayload": true,
}

// Name returns "aptos".
func (f *AptosFlavor) Name() string { return "aptos" }

// Target returns TargetAptos.
func (f *AptosFlavor) Target() Target { return TargetAptos }

// ClassName returns <Module>AptosModule.
func (f *AptosFlavor) ClassName(m Module) string { return m.TypeName + "AptosModule" }

// EmitModule generates the Aptos wrapper for a module.
func (f *AptosFlavor) EmitModule(ctx *EmitContext, m Module) ([]byte, error) {
	if m.TypeName == "" {
		return nil, fmt.Errorf("module %s has no type name", m.ID)
	}
	i := ctx.IndentStr
	var buf bytes.Buffer

	buf.WriteString("import type { AptosAccount, AptosClient, Types } from \"aptos\";\n\n")
	buf.WriteString("import * as entry from \"./entry\";\n")
	if needsMod(m) {
		buf.WriteString("import type * as mod from \"./mod\";\n")
	}
	buf.WriteString("\n")

	buf.WriteString("type TransactionPayload = {\n")
	fmt.Fprintf(&buf, "%sreadonly type: string;\n", i)
	fmt.Fprintf(&buf, "%sreadonly function: string;\n", i)
	fmt.Fprintf(&buf, "%sreadonly type_arguments: readonly string[];\n", i)
	fmt.Fprintf(&buf, "%sreadonly arguments: readonly unknown[];\n", i)
	buf.WriteString("};\n\n")

	writeDoc(&buf, ctx, "", fmt.Sprintf("Submits `%s` script functions as transactions signed by one account.", m.ID))
	fmt.Fprintf(&buf, "export class %s {\n", f.ClassName(m))
	fmt.Fprintf(&buf, "%sconstructor(\n", i)
	fmt.Fprintf(&buf, "%s%sprivate readonly client: AptosClient,\n", i, i)
	fmt.Fprintf(&buf, "%s%sprivate readonly account: AptosAccount,\n", i, i)
	fmt.Fprintf(&buf, "%s) {}\n", i)

	methods := methodNames(ctx, m, aptosMembers)
	for n, fn := range m.Functions {
		buf.WriteString("\n")
		writeDoc(&buf, ctx, i, fn.Doc)
		if fn.ArgsType != "" {
			fmt.Fprintf(&buf, "%sasync %s(args: mod.%s) {\n", i, methods[n], fn.ArgsType)
			fmt.Fprintf(&buf, "%s%sreturn this.sendTransaction(entry.%s(args));\n", i, i, fn.Builder)
		} else {
			fmt.Fprintf(&buf, "%sasync %s() {\n", i, methods[n])
			fmt.Fprintf(&buf, "%s%sreturn this.sendTransaction(entry.%s());\n", i, i, fn.Builder)
		}
		fmt.Fprintf(&buf, "%s}\n", i)
	}

	buf.WriteString("\n")
	fmt.Fprintf(&buf, "%sprivate async sendTransaction(payload: TransactionPayload) {\n", i)
	fmt.Fprintf(&buf, "%s%sconst txnRequest = await this.client.generateTransaction(\n", i, i)
	fmt.Fprintf(&buf, "%s%s%sthis.account.address(),\n", i, i, i)
	fmt.Fprintf(&buf, "%s%s%sthis.transformTxnPayload(payload),\n", i, i, i)
	fmt.Fprintf(&buf, "%s%s);\n", i, i)
	fmt.Fprintf(&buf, "%s%sconst signedTxn = await this.client.signTransaction(this.account, txnRequest);\n", i, i)
	fmt.Fprintf(&buf, "%s%sconst txnResponse = await this.client.submitTransaction(signedTxn);\n", i, i)
	fmt.Fprintf(&buf, "%s%sreturn {\n", i, i)
	fmt.Fprintf(&buf, "%s%s%s...txnResponse,\n", i, i, i)
	fmt.Fprintf(&buf, "%s%s%swait: async () => this.client.waitForTransaction(txnResponse.hash),\n", i, i, i)
	fmt.Fprintf(&buf, "%s%s};\n", i, i)
	fmt.Fprintf(&buf, "%s}\n\n", i)

	fmt.Fprintf(&buf, "%sprivate transformTxnPayload(payload: TransactionPayload): Types.TransactionPayload {\n", i)
	fmt.Fprintf(&buf, "%s%sconst [moduleAddress, moduleName, functionName] = payload.function.split(\"::\");\n", i, i)
	fmt.Fprintf(&buf, "%s%sreturn {\n", i, i)
	fmt.Fprintf(&buf, "%s%s%stype: payload.type,\n", i, i, i)
	fmt.Fprintf(&buf, "%s%s%sfunction: {\n", i, i, i)
	fmt.Fprintf(&buf, "%s%s%s%sname: functionName,\n", i, i, i, i)
	fmt.Fprintf(&buf, "%s%s%s%smodule: { address: moduleAddress, name: moduleName },\n", i, i, i, i)
	fmt.Fprintf(&buf, "%s%s%s},\n", i, i, i)
	fmt.Fprintf(&buf, "%s%s%stype_arguments: [...payload.type_arguments],\n", i, i, i)
	fmt.Fprintf(&buf, "%s%s%sarguments: [...payload.arguments],\n", i, i, i)
	fmt.Fprintf(&buf, "%s%s};\n", i, i)
	fmt.Fprintf(&buf, "%s}\n", i)
	buf.WriteString("}\n")

	return buf.Bytes(), nil
}
