// Package idl defines the in-memory model of a Move interface description.
// The model is read-only input to the code generators: a closed set of type
// expressions plus the modules, structs and script functions that use them.
package idl

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// ModuleID identifies a Move module by its account address and name.
type ModuleID struct {
	// Address is the account address in its short hex form (e.g., "0x1").
	Address string

	// Name is the module name (e.g., "coin").
	Name string
}

// String returns the canonical "address::name" form.
func (id ModuleID) String() string {
	return id.Address + "::" + id.Name
}

// IsZero returns true if the identifier is empty.
func (id ModuleID) IsZero() bool {
	return id.Address == "" && id.Name == ""
}

// MarshalText implements encoding.TextMarshaler.
func (id ModuleID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ModuleID) UnmarshalText(text []byte) error {
	parsed, err := ParseModuleID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ParseModuleID parses "0x1::coin" into a ModuleID.
func ParseModuleID(s string) (ModuleID, error) {
	addr, name, ok := strings.Cut(s, "::")
	if !ok || addr == "" || name == "" || strings.Contains(name, "::") {
		return ModuleID{}, errors.Newf("invalid module id %q: expected address::name", s)
	}
	return ModuleID{Address: NormalizeAddress(addr), Name: name}, nil
}

// NormalizeAddress returns the short lowercase form of a hex account
// address: "0x0001" and "0X1" both become "0x1". Non-hex input is returned
// unchanged.
func NormalizeAddress(addr string) string {
	lower := strings.ToLower(addr)
	if !strings.HasPrefix(lower, "0x") {
		return addr
	}
	digits := strings.TrimLeft(lower[2:], "0")
	for _, r := range digits {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return addr
		}
	}
	if digits == "" {
		digits = "0"
	}
	return "0x" + digits
}

// Warning represents a non-fatal issue encountered while loading or generating.
type Warning struct {
	// Code is a machine-readable warning identifier.
	Code string

	// Message is a human-readable description.
	Message string

	// Module is the module that triggered the warning, if applicable.
	Module string

	// Function is the script function that triggered the warning, if applicable.
	Function string
}
