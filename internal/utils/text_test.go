package utils

import (
	"reflect"
	"testing"
)

func TestNormalizeSearchTerm(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Azúcar", "azucar"},
		{"AZÚCAR", "azucar"},
		{"  Café con Leche  ", "cafe con leche"},
		{"niño", "nino"},
		{"plain", "plain"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := NormalizeSearchTerm(tt.in); got != tt.want {
			t.Errorf("NormalizeSearchTerm(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSplitSearchTerms(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"azúcar, harina", []string{"azucar", "harina"}},
		{"Leche", []string{"leche"}},
		{" , ,, ", nil},
		{"", nil},
		{"a,,b", []string{"a", "b"}},
	}
	for _, tt := range tests {
		got := SplitSearchTerms(tt.in)
		if len(got) == 0 && len(tt.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitSearchTerms(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestEscapeLikePattern(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"%", `\%`},
		{"_", `\_`},
		{`\`, `\\`},
		{"100% cacao", `100\% cacao`},
		{"a_b%c", `a\_b\%c`},
		{"azucar", "azucar"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := EscapeLikePattern(tt.in); got != tt.want {
			t.Errorf("EscapeLikePattern(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
