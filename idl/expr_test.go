package idl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var coinModule = ModuleID{Address: "0x1", Name: "coin"}

func TestTypeExprString(t *testing.T) {
	tests := []struct {
		name string
		expr TypeExpr
		want string
	}{
		{"bool", Bool(), "bool"},
		{"u64", U64(), "u64"},
		{"address", Address(), "address"},
		{"vector of u8", VectorOf(U8()), "vector<u8>"},
		{"nested vector", VectorOf(VectorOf(U128())), "vector<vector<u128>>"},
		{"positional param", TypeParamAt(1), "T1"},
		{"named param", TypeParamNamed("CoinType"), "CoinType"},
		{"struct", Struct(coinModule, "Coin", TypeParamAt(0)), "0x1::coin::Coin<T0>"},
		{"struct without args", Struct(StringModule, "String"), "0x1::string::String"},
		{"reference", Ref(Signer()), "&signer"},
		{"mutable reference", MutRef(VectorOf(U8())), "&mut vector<u8>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.expr.String())
		})
	}
}

func TestTypeExprKind(t *testing.T) {
	assert.Equal(t, KindPrimitive, U8().Kind())
	assert.Equal(t, KindVector, VectorOf(U8()).Kind())
	assert.Equal(t, KindTypeParam, TypeParamAt(0).Kind())
	assert.Equal(t, KindStruct, Struct(coinModule, "Coin").Kind())
	assert.Equal(t, KindReference, Ref(U8()).Kind())
	assert.Equal(t, "Unknown", Kind(99).String())
}

func TestPrimitiveKind(t *testing.T) {
	for _, name := range []string{"bool", "u8", "u16", "u32", "u64", "u128", "u256", "address", "signer"} {
		k, ok := ParsePrimitiveKind(name)
		require.True(t, ok, name)
		assert.True(t, k.Valid())
		assert.Equal(t, name, k.String())
	}

	_, ok := ParsePrimitiveKind("u512")
	assert.False(t, ok)
	assert.False(t, PrimitiveKind(0).Valid())
	assert.Equal(t, "unknown", PrimitiveKind(42).String())
}

func TestParseModuleID(t *testing.T) {
	tests := []struct {
		in      string
		want    ModuleID
		wantErr bool
	}{
		{in: "0x1::coin", want: ModuleID{Address: "0x1", Name: "coin"}},
		{in: "0x0001::coin", want: ModuleID{Address: "0x1", Name: "coin"}},
		{in: "0XAB::dex", want: ModuleID{Address: "0xab", Name: "dex"}},
		{in: "0x0::genesis", want: ModuleID{Address: "0x0", Name: "genesis"}},
		{in: "std::vector", want: ModuleID{Address: "std", Name: "vector"}},
		{in: "coin", wantErr: true},
		{in: "::coin", wantErr: true},
		{in: "0x1::", wantErr: true},
		{in: "0x1::coin::Coin", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseModuleID(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveTypeParam(t *testing.T) {
	params := []string{"X", "Y"}

	name, ok := ResolveTypeParam(TypeParamAt(1), params)
	assert.True(t, ok)
	assert.Equal(t, "Y", name)

	name, ok = ResolveTypeParam(TypeParamNamed("X"), params)
	assert.True(t, ok)
	assert.Equal(t, "X", name)

	_, ok = ResolveTypeParam(TypeParamAt(2), params)
	assert.False(t, ok)

	_, ok = ResolveTypeParam(TypeParamNamed("Z"), params)
	assert.False(t, ok)

	_, ok = ResolveTypeParam(TypeParamAt(0), nil)
	assert.False(t, ok)
}

func TestIsWellKnown(t *testing.T) {
	assert.True(t, IsWellKnown(Struct(StringModule, "String")))
	assert.True(t, IsWellKnown(Struct(ObjectModule, "Object", TypeParamAt(0))))
	assert.True(t, IsWellKnown(Struct(OptionModule, "Option", U64())))
	assert.False(t, IsWellKnown(Struct(OptionModule, "Option")))
	assert.False(t, IsWellKnown(Struct(coinModule, "Coin")))
}
