package typescript

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/movets/movets/movegen/typescript/flavor"
)

// Header is written at the top of every generated file.
const Header = "// Code generated by movets. DO NOT EDIT."

// codeWriter accumulates the body of one generated file.
type codeWriter struct {
	buf      bytes.Buffer
	indent   string
	comments bool
}

func newCodeWriter(cfg GeneratorConfig) *codeWriter {
	return &codeWriter{indent: indentString(cfg), comments: cfg.EmitComments}
}

// line writes one line at the given indentation level.
func (w *codeWriter) line(level int, format string, args ...any) {
	w.buf.WriteString(strings.Repeat(w.indent, level))
	if len(args) == 0 {
		w.buf.WriteString(format)
	} else {
		fmt.Fprintf(&w.buf, format, args...)
	}
	w.buf.WriteByte('\n')
}

// blank separates declarations.
func (w *codeWriter) blank() {
	w.buf.WriteByte('\n')
}

// doc writes a JSDoc comment. A single-line body is written inline.
func (w *codeWriter) doc(level int, body string) {
	if !w.comments {
		return
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return
	}
	prefix := strings.Repeat(w.indent, level)

	lines := strings.Split(body, "\n")
	if len(lines) == 1 {
		w.buf.WriteString(prefix)
		w.buf.WriteString("/** ")
		w.buf.WriteString(escapeComment(lines[0]))
		w.buf.WriteString(" */\n")
		return
	}

	w.buf.WriteString(prefix)
	w.buf.WriteString("/**\n")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		w.buf.WriteString(prefix)
		if line == "" {
			w.buf.WriteString(" *\n")
			continue
		}
		w.buf.WriteString(" * ")
		w.buf.WriteString(escapeComment(line))
		w.buf.WriteString("\n")
	}
	w.buf.WriteString(prefix)
	w.buf.WriteString(" */\n")
}

// escapeComment keeps IDL text from terminating the enclosing comment.
func escapeComment(s string) string {
	return flavor.EscapeComment(s)
}

// openObject starts an object type declaration named name.
func (w *codeWriter) openObject(name string, useInterface bool) {
	if useInterface {
		w.line(0, "export interface %s {", name)
	} else {
		w.line(0, "export type %s = {", name)
	}
}

// closeObject ends a declaration started with openObject.
func (w *codeWriter) closeObject(useInterface bool) {
	if useInterface {
		w.line(0, "}")
	} else {
		w.line(0, "};")
	}
}

func (w *codeWriter) bytes() []byte {
	return w.buf.Bytes()
}

func indentString(cfg GeneratorConfig) string {
	if cfg.IndentStyle == "tab" {
		return "\t"
	}
	size := cfg.IndentSize
	if size <= 0 {
		size = 2
	}
	return strings.Repeat(" ", size)
}

// finishFile prepends the frontmatter and header to a file body and applies
// the configured line endings.
func finishFile(body []byte, cfg GeneratorConfig) []byte {
	var buf bytes.Buffer
	if fm := strings.TrimSpace(cfg.Frontmatter); fm != "" {
		buf.WriteString(fm)
		buf.WriteString("\n\n")
	}
	buf.WriteString(Header)
	buf.WriteString("\n")
	if len(bytes.TrimSpace(body)) > 0 {
		buf.WriteString("\n")
		buf.Write(bytes.TrimRight(body, "\n"))
		buf.WriteString("\n")
	}

	out := buf.Bytes()
	if !cfg.TrailingNewline {
		out = bytes.TrimRight(out, "\n")
	}
	if cfg.LineEnding == "crlf" {
		out = bytes.ReplaceAll(out, []byte("\n"), []byte("\r\n"))
	}
	return out
}

// joinNonEmpty joins the non-empty sections with a blank line between them.
func joinNonEmpty(sections ...[]byte) []byte {
	var buf bytes.Buffer
	for _, s := range sections {
		s = bytes.Trim(s, "\n")
		if len(s) == 0 {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString("\n\n")
		}
		buf.Write(s)
	}
	if buf.Len() > 0 {
		buf.WriteString("\n")
	}
	return buf.Bytes()
}
