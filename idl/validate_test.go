package idl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func errorCodes(errs []error) []string {
	var codes []string
	for _, err := range errs {
		if ve, ok := err.(*ValidationError); ok {
			codes = append(codes, ve.Code)
		}
	}
	return codes
}

func TestValidate_Valid(t *testing.T) {
	pkg := &Package{
		Modules: []Module{
			{
				ID: coinModule,
				Structs: []StructDef{
					{Name: "Coin", TypeParams: []string{"T"}, Fields: []Field{{Name: "value", Type: U64()}}},
				},
				ScriptFunctions: []ScriptFunction{
					{
						Name:       "deposit",
						TypeParams: []string{"T"},
						Args: []Argument{
							{Name: "account", Type: Ref(Signer())},
							{Name: "coin", Type: Struct(coinModule, "Coin", TypeParamAt(0))},
							{Name: "memo", Type: Struct(StringModule, "String")},
							{Name: "maybe", Type: Struct(OptionModule, "Option", VectorOf(U8()))},
						},
					},
				},
			},
		},
	}

	assert.Empty(t, Validate(pkg))
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name string
		pkg  *Package
		want []string
	}{
		{
			name: "duplicate module",
			pkg: &Package{
				Modules:      []Module{{ID: coinModule}},
				Dependencies: []Module{{ID: coinModule}},
			},
			want: []string{CodeDuplicateModule},
		},
		{
			name: "duplicate function",
			pkg: &Package{Modules: []Module{{
				ID:              coinModule,
				ScriptFunctions: []ScriptFunction{{Name: "a"}, {Name: "a"}},
			}}},
			want: []string{CodeDuplicateFunction},
		},
		{
			name: "duplicate argument",
			pkg: &Package{Modules: []Module{{
				ID: coinModule,
				ScriptFunctions: []ScriptFunction{{Name: "a", Args: []Argument{
					{Name: "x", Type: U8()},
					{Name: "x", Type: U8()},
				}}},
			}}},
			want: []string{CodeDuplicateArgument},
		},
		{
			name: "duplicate type parameter",
			pkg: &Package{Modules: []Module{{
				ID:              coinModule,
				ScriptFunctions: []ScriptFunction{{Name: "a", TypeParams: []string{"T", "T"}}},
			}}},
			want: []string{CodeDuplicateTypeParam},
		},
		{
			name: "type parameter out of range",
			pkg: &Package{Modules: []Module{{
				ID: coinModule,
				ScriptFunctions: []ScriptFunction{{Name: "a", TypeParams: []string{"T"}, Args: []Argument{
					{Name: "x", Type: VectorOf(TypeParamAt(1))},
				}}},
			}}},
			want: []string{CodeUnknownTypeParam},
		},
		{
			name: "invalid primitive",
			pkg: &Package{Modules: []Module{{
				ID: coinModule,
				ScriptFunctions: []ScriptFunction{{Name: "a", Args: []Argument{
					{Name: "x", Type: &Primitive{PrimitiveKind: 99}},
				}}},
			}}},
			want: []string{CodeInvalidPrimitive},
		},
		{
			name: "unresolved struct",
			pkg: &Package{Modules: []Module{{
				ID: coinModule,
				ScriptFunctions: []ScriptFunction{{Name: "a", Args: []Argument{
					{Name: "x", Type: Struct(coinModule, "Missing")},
				}}},
			}}},
			want: []string{CodeUnresolvedStruct},
		},
		{
			name: "type argument count",
			pkg: &Package{Modules: []Module{{
				ID:      coinModule,
				Structs: []StructDef{{Name: "Coin", TypeParams: []string{"T"}}},
				ScriptFunctions: []ScriptFunction{{Name: "a", Args: []Argument{
					{Name: "x", Type: Struct(coinModule, "Coin")},
				}}},
			}}},
			want: []string{CodeTypeArgCount},
		},
		{
			name: "missing type",
			pkg: &Package{Modules: []Module{{
				ID:              coinModule,
				ScriptFunctions: []ScriptFunction{{Name: "a", Args: []Argument{{Name: "x"}}}},
			}}},
			want: []string{CodeMissingType},
		},
		{
			name: "struct field errors",
			pkg: &Package{Modules: []Module{{
				ID: coinModule,
				Structs: []StructDef{
					{Name: "Pair", Fields: []Field{{Name: "a", Type: TypeParamNamed("K")}}},
					{Name: "Pair"},
				},
			}}},
			want: []string{CodeUnknownTypeParam, CodeDuplicateStruct},
		},
		{
			name: "collects every error",
			pkg: &Package{Modules: []Module{{
				ID: coinModule,
				ScriptFunctions: []ScriptFunction{
					{Name: "", Args: []Argument{{Name: "x", Type: TypeParamAt(0)}}},
					{Name: "b", Args: []Argument{{Name: "y", Type: Struct(coinModule, "Nope")}}},
				},
			}}},
			want: []string{CodeEmptyName, CodeUnknownTypeParam, CodeUnresolvedStruct},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(tt.pkg)
			require.NotEmpty(t, errs)
			assert.Equal(t, tt.want, errorCodes(errs))
		})
	}
}

func TestValidate_StructFromDependency(t *testing.T) {
	dex := ModuleID{Address: "0xcafe", Name: "dex"}
	pkg := &Package{
		Modules: []Module{{
			ID: dex,
			ScriptFunctions: []ScriptFunction{{
				Name:       "swap",
				TypeParams: []string{"X"},
				Args:       []Argument{{Name: "c", Type: Struct(coinModule, "Coin", TypeParamNamed("X"))}},
			}},
		}},
		Dependencies: []Module{{
			ID:      coinModule,
			Structs: []StructDef{{Name: "Coin", TypeParams: []string{"T"}}},
		}},
	}

	assert.Empty(t, Validate(pkg))
	assert.True(t, pkg.IsGenerated(dex))
	assert.False(t, pkg.IsGenerated(coinModule))
}
