package typescript

import (
	"sort"
	"strconv"
	"strings"
)

// preludeSource is the runtime support every generated module imports as p.
// Lines are indented with tabs and re-indented per configuration.
const preludeSource = `/** Raw bytes: a hex string, with or without 0x, or a byte array. */
export type ByteString = string | Uint8Array;

/** An account address in hex. */
export type address = string;

/** A signer argument. The submitting account supplies it. */
export type signer = string;

/**
 * A value of the generic type parameter Name. Its shape is fixed by the
 * type argument passed alongside it.
 */
// eslint-disable-next-line @typescript-eslint/no-unused-vars
export type TypeParam<Name extends string> = unknown;

const HEX_DIGITS = /^[0-9a-f]*$/;

export const serializers = {
	/** Normalizes an address to lower-case 0x-prefixed hex. */
	address(value: address): string {
		const hex = value.toLowerCase().replace(/^0x/, "");
		if (hex.length === 0 || !HEX_DIGITS.test(hex)) {
			throw new Error("invalid address: " + value);
		}
		return "0x" + hex;
	},

	/** Encodes bytes as 0x-prefixed hex. Strings are taken to be hex already. */
	hexString(value: ByteString): string {
		if (typeof value === "string") {
			const hex = value.toLowerCase().replace(/^0x/, "");
			if (hex.length % 2 !== 0 || !HEX_DIGITS.test(hex)) {
				throw new Error("invalid hex string: " + value);
			}
			return "0x" + hex;
		}
		return "0x" + Array.from(value, (b) => b.toString(16).padStart(2, "0")).join("");
	},
};
`

// renderPrelude renders prelude.ts.
func renderPrelude(cfg GeneratorConfig) []byte {
	indent := indentString(cfg)
	lines := strings.Split(preludeSource, "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, "\t")
		if depth := len(line) - len(trimmed); depth > 0 {
			lines[i] = strings.Repeat(indent, depth) + trimmed
		}
	}
	return []byte(strings.Join(lines, "\n"))
}

// renderRootIndex renders the barrel that re-exports every module under
// its own namespace, sorted by export name.
func renderRootIndex(cfg GeneratorConfig, modules []*ModuleOutput) []byte {
	sorted := append([]*ModuleOutput(nil), modules...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Export < sorted[j].Export })

	w := newCodeWriter(cfg)
	if cfg.TypeScript.PreludeImport == "" {
		w.line(0, "export * as p from \"./prelude\";")
	}
	for _, m := range sorted {
		w.line(0, "export * as %s from %s;", m.Export, strconv.Quote("./"+m.Dir))
	}
	return w.bytes()
}

// RenderRoot renders the files at the output root: the prelude (unless an
// external one is configured) and the index barrel.
func RenderRoot(cfg GeneratorConfig, modules []*ModuleOutput) []File {
	var files []File
	if cfg.TypeScript.PreludeImport == "" {
		files = append(files, File{Path: "prelude.ts", Content: finishFile(renderPrelude(cfg), cfg)})
	}
	files = append(files, File{Path: "index.ts", Content: finishFile(renderRootIndex(cfg, modules), cfg)})
	return files
}
