package idl

// PrimitiveKind identifies a built-in Move type.
// The set is closed; the zero value is not a valid kind.
type PrimitiveKind int

const (
	PrimitiveBool PrimitiveKind = iota + 1
	PrimitiveU8
	PrimitiveU16
	PrimitiveU32
	PrimitiveU64
	PrimitiveU128
	PrimitiveU256
	PrimitiveAddress
	PrimitiveSigner
)

var primitiveNames = map[PrimitiveKind]string{
	PrimitiveBool:    "bool",
	PrimitiveU8:      "u8",
	PrimitiveU16:     "u16",
	PrimitiveU32:     "u32",
	PrimitiveU64:     "u64",
	PrimitiveU128:    "u128",
	PrimitiveU256:    "u256",
	PrimitiveAddress: "address",
	PrimitiveSigner:  "signer",
}

// String returns the Move spelling of the primitive kind.
func (k PrimitiveKind) String() string {
	if name, ok := primitiveNames[k]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether k belongs to the closed primitive set.
func (k PrimitiveKind) Valid() bool {
	_, ok := primitiveNames[k]
	return ok
}

// ParsePrimitiveKind returns the kind for a Move primitive name.
func ParsePrimitiveKind(name string) (PrimitiveKind, bool) {
	for k, n := range primitiveNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// Primitive represents a built-in Move type.
type Primitive struct {
	PrimitiveKind PrimitiveKind
}

// Kind returns KindPrimitive.
func (p *Primitive) Kind() Kind { return KindPrimitive }

// String returns the Move spelling.
func (p *Primitive) String() string { return p.PrimitiveKind.String() }

func (*Primitive) sealed() {}

// Convenience constructors for the primitive kinds.

// Bool returns a Primitive for bool.
func Bool() *Primitive { return &Primitive{PrimitiveKind: PrimitiveBool} }

// U8 returns a Primitive for u8.
func U8() *Primitive { return &Primitive{PrimitiveKind: PrimitiveU8} }

// U16 returns a Primitive for u16.
func U16() *Primitive { return &Primitive{PrimitiveKind: PrimitiveU16} }

// U32 returns a Primitive for u32.
func U32() *Primitive { return &Primitive{PrimitiveKind: PrimitiveU32} }

// U64 returns a Primitive for u64.
func U64() *Primitive { return &Primitive{PrimitiveKind: PrimitiveU64} }

// U128 returns a Primitive for u128.
func U128() *Primitive { return &Primitive{PrimitiveKind: PrimitiveU128} }

// U256 returns a Primitive for u256.
func U256() *Primitive { return &Primitive{PrimitiveKind: PrimitiveU256} }

// Address returns a Primitive for address.
func Address() *Primitive { return &Primitive{PrimitiveKind: PrimitiveAddress} }

// Signer returns a Primitive for signer.
func Signer() *Primitive { return &Primitive{PrimitiveKind: PrimitiveSigner} }
