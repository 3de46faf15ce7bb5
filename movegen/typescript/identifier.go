package typescript

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// reservedWords holds the TypeScript reserved words plus the strict-mode
// restrictions generated ES modules are subject to.
var reservedWords = wordSet(`
	break case catch class const continue debugger default delete do else
	enum export extends false finally for function if import in instanceof
	new null return super switch this throw true try typeof var void while
	with
	implements interface let package private protected public static yield
	arguments await eval type
`)

// importAliases are the namespace bindings generated module files import.
// A top-level declaration with one of these names would shadow the import.
var importAliases = wordSet("p mod payloads entry")

func wordSet(words string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(words) {
		set[w] = true
	}
	return set
}

func isIdentRune(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// escapeReservedWord appends an underscore to reserved words.
func escapeReservedWord(name string) string {
	if reservedWords[name] {
		return name + "_"
	}
	return name
}

// declarationName returns a safe top-level binding name.
func declarationName(name string) string {
	name = sanitizeIdentifier(name)
	if importAliases[name] {
		return name + "_"
	}
	return name
}

// isIdentifierName reports whether name can be written bare as a property
// key. Reserved words are allowed there.
func isIdentifierName(name string) bool {
	first, _ := utf8.DecodeRuneInString(name)
	if name == "" || unicode.IsDigit(first) {
		return false
	}
	return strings.IndexFunc(name, func(r rune) bool { return !isIdentRune(r) }) < 0
}

// propertyKey renders name as an object property key.
func propertyKey(name string) string {
	if isIdentifierName(name) {
		return name
	}
	return strconv.Quote(name)
}

// propertyAccess renders obj.name, or obj["name"] when name is not an identifier.
func propertyAccess(obj, name string) string {
	if isIdentifierName(name) {
		return obj + "." + name
	}
	return obj + "[" + strconv.Quote(name) + "]"
}

// sanitizeIdentifier maps name onto a binding name: invalid runes become
// underscores, a leading digit gains one, reserved words are escaped.
func sanitizeIdentifier(name string) string {
	if name == "" {
		return "_"
	}
	mapped := strings.Map(func(r rune) rune {
		if isIdentRune(r) {
			return r
		}
		return '_'
	}, name)
	if first, _ := utf8.DecodeRuneInString(mapped); unicode.IsDigit(first) {
		mapped = "_" + mapped
	}
	return escapeReservedWord(mapped)
}
