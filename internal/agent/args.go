package agent

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/DistriaGit/distria_api/internal/service"
	"github.com/DistriaGit/distria_api/internal/utils"
)

// Argument coercion helpers. Model-produced JSON arrives as map[string]any
// with float64 numbers; these normalize the common shapes.

func getStringArg(args map[string]any, key string) (string, bool) {
	value, ok := args[key]
	if !ok {
		return "", false
	}
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v), true
	default:
		return fmt.Sprintf("%v", v), true
	}
}

func getIntArg(args map[string]any, key string, fallback int) int {
	value, ok := args[key]
	if !ok {
		return fallback
	}
	switch v := value.(type) {
	case float64:
		return int(v)
	case int:
		return v
	case json.Number:
		if parsed, err := v.Int64(); err == nil {
			return int(parsed)
		}
	case string:
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

// getItemsArg validates the crearOrden items array: non-empty, each with a
// SKU and a positive integer quantity.
func getItemsArg(args map[string]any) ([]service.OrderItemRequest, error) {
	raw, ok := args["items"]
	if !ok {
		return nil, &utils.ValidationError{Field: "items", Message: "is required"}
	}
	list, ok := raw.([]any)
	if !ok || len(list) == 0 {
		return nil, &utils.ValidationError{Field: "items", Message: "must be a non-empty array"}
	}

	items := make([]service.OrderItemRequest, 0, len(list))
	for i, entry := range list {
		obj, ok := entry.(map[string]any)
		if !ok {
			return nil, &utils.ValidationError{Field: fmt.Sprintf("items[%d]", i), Message: "must be an object"}
		}
		sku, _ := getStringArg(obj, "sku")
		if sku == "" {
			return nil, &utils.ValidationError{Field: fmt.Sprintf("items[%d].sku", i), Message: "is required"}
		}
		qty := getIntArg(obj, "quantity", 0)
		if qty <= 0 {
			return nil, &utils.ValidationError{Field: fmt.Sprintf("items[%d].quantity", i), Message: "must be a positive integer"}
		}
		// Reject fractional quantities that float64 coercion would truncate.
		if f, isFloat := obj["quantity"].(float64); isFloat && f != float64(qty) {
			return nil, &utils.ValidationError{Field: fmt.Sprintf("items[%d].quantity", i), Message: "must be a positive integer"}
		}
		items = append(items, service.OrderItemRequest{SKU: sku, Quantity: qty})
	}
	return items, nil
}
