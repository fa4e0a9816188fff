package agent

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/DistriaGit/distria_api/internal/utils"
)

func TestGetStringArg(t *testing.T) {
	args := map[string]any{"query": "  azúcar  ", "num": float64(3)}

	if got, ok := getStringArg(args, "query"); !ok || got != "azúcar" {
		t.Errorf("getStringArg(query) = %q, %v", got, ok)
	}
	if _, ok := getStringArg(args, "missing"); ok {
		t.Error("missing key must report ok=false")
	}
	if got, _ := getStringArg(args, "num"); got != "3" {
		t.Errorf("non-string value coerced to %q, want \"3\"", got)
	}
}

func TestGetIntArg(t *testing.T) {
	args := map[string]any{
		"float":  float64(5),
		"int":    7,
		"number": json.Number("9"),
		"string": "11",
		"junk":   "not a number",
	}

	tests := []struct {
		key  string
		want int
	}{
		{"float", 5},
		{"int", 7},
		{"number", 9},
		{"string", 11},
		{"junk", -1},
		{"missing", -1},
	}
	for _, tt := range tests {
		if got := getIntArg(args, tt.key, -1); got != tt.want {
			t.Errorf("getIntArg(%q) = %d, want %d", tt.key, got, tt.want)
		}
	}
}

func TestGetItemsArg(t *testing.T) {
	items, err := getItemsArg(map[string]any{
		"items": []any{
			map[string]any{"sku": "SKU-A", "quantity": float64(3)},
			map[string]any{"sku": "SKU-B", "quantity": float64(1)},
		},
	})
	if err != nil {
		t.Fatalf("getItemsArg: %v", err)
	}
	if len(items) != 2 || items[0].SKU != "SKU-A" || items[0].Quantity != 3 {
		t.Errorf("items = %+v", items)
	}
}

func TestGetItemsArgRejections(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
	}{
		{"missing", map[string]any{}},
		{"empty array", map[string]any{"items": []any{}}},
		{"not an array", map[string]any{"items": "SKU-A"}},
		{"entry not an object", map[string]any{"items": []any{"SKU-A"}}},
		{"missing sku", map[string]any{"items": []any{map[string]any{"quantity": float64(1)}}}},
		{"zero quantity", map[string]any{"items": []any{map[string]any{"sku": "A", "quantity": float64(0)}}}},
		{"negative quantity", map[string]any{"items": []any{map[string]any{"sku": "A", "quantity": float64(-2)}}}},
		{"fractional quantity", map[string]any{"items": []any{map[string]any{"sku": "A", "quantity": 2.5}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := getItemsArg(tt.args)
			if err == nil {
				t.Fatal("expected validation error")
			}
			var validation *utils.ValidationError
			if !errors.As(err, &validation) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
}
