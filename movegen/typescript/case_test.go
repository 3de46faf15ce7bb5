package typescript

import (
	"testing"
)

func TestToCamelCase(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"simple", "simple"},
		{"Simple", "simple"},
		{"transfer_coins", "transferCoins"},
		{"MY_FIELD", "myField"},
		{"mintTo", "mintTo"},
		{"swap_exact_x_for_y", "swapExactXForY"},
		{"__private", "private"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := toCamelCase(tt.input)
			if got != tt.want {
				t.Errorf("toCamelCase(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestToPascalCase(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"simple", "Simple"},
		{"Simple", "Simple"},
		{"transfer", "Transfer"},
		{"register_account", "RegisterAccount"},
		{"MY_FIELD", "MyField"},
		{"mintTo", "MintTo"},
		{"v2_swap", "V2Swap"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := toPascalCase(tt.input)
			if got != tt.want {
				t.Errorf("toPascalCase(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"simple", "simple"},
		{"Simple", "simple"},
		{"MyField", "my_field"},
		{"myField", "my_field"},
		{"already_snake", "already_snake"},
		{"HTTPResponse", "http_response"},
		{"AptosCoin", "aptos_coin"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := toSnakeCase(tt.input)
			if got != tt.want {
				t.Errorf("toSnakeCase(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestApplyCaseTransform(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		caseStyle string
		want      string
	}{
		{"preserve", "coin_type", "preserve", "coin_type"},
		{"preserve empty", "coin_type", "", "coin_type"},
		{"camel", "coin_type", "camel", "coinType"},
		{"pascal", "coin_type", "pascal", "CoinType"},
		{"snake", "coinType", "snake", "coin_type"},
		{"unknown style", "coin_type", "kebab", "coin_type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := applyCaseTransform(tt.input, tt.caseStyle)
			if got != tt.want {
				t.Errorf("applyCaseTransform(%q, %q) = %q, want %q", tt.input, tt.caseStyle, got, tt.want)
			}
		})
	}
}
