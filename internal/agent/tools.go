package agent

import openrouter "github.com/revrost/go-openrouter"

// ToolSchemas declares the tool surface exposed to the model. Tenant
// identifiers (distributor, salesperson) are never part of any schema; they
// come from the authenticated session only.
func ToolSchemas() []openrouter.Tool {
	return []openrouter.Tool{
		consultarStockTool(),
		sugerirProductosTool(),
		crearOrdenTool(),
		confirmarOrdenTool(),
		obtenerOrdenTool(),
		listarClientesTool(),
	}
}

func consultarStockTool() openrouter.Tool {
	return openrouter.Tool{
		Type: openrouter.ToolTypeFunction,
		Function: &openrouter.FunctionDefinition{
			Name:        "consultarStock",
			Description: "Search the catalog by free text and return matching products with sku, name, price, and availableStock. Matching is case and accent insensitive over name and SKU; separate multiple terms with commas.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "Text to search for, e.g. 'arroz' or 'arroz, azucar'.",
					},
				},
				"required":             []string{"query"},
				"additionalProperties": false,
			},
		},
	}
}

func sugerirProductosTool() openrouter.Tool {
	return openrouter.Tool{
		Type: openrouter.ToolTypeFunction,
		Function: &openrouter.FunctionDefinition{
			Name:        "sugerirProductos",
			Description: "Get ranked product recommendations for a client, based on their purchase history, overall popularity, novelty, and expiry urgency. Each entry carries the raw features (clientBoughtBefore, hasStock, expiringSoon, etc.) so you can explain the recommendation. Entries with hasStock=false are habitual purchases currently out of stock; tell the user instead of offering them.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"clientId": map[string]any{
						"type":        "integer",
						"description": "Client to recommend for. Omit when the conversation already has a resolved client.",
					},
					"topN": map[string]any{
						"type":        "integer",
						"description": "Maximum suggestions to return (default 5).",
					},
				},
				"additionalProperties": false,
			},
		},
	}
}

func crearOrdenTool() openrouter.Tool {
	return openrouter.Tool{
		Type: openrouter.ToolTypeFunction,
		Function: &openrouter.FunctionDefinition{
			Name:        "crearOrden",
			Description: "Create a DRAFT order for a client. Validates every SKU and checks current stock, but does not reserve it; the order must be confirmed separately. Returns the created order with items, unit prices, and total.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"clientId": map[string]any{
						"type":        "integer",
						"description": "Client the order is for. Omit when the conversation already has a resolved client.",
					},
					"items": map[string]any{
						"type":        "array",
						"description": "Requested lines; quantity must be a positive integer.",
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"sku":      map[string]any{"type": "string"},
								"quantity": map[string]any{"type": "integer", "minimum": 1},
							},
							"required":             []string{"sku", "quantity"},
							"additionalProperties": false,
						},
					},
					"deliveryAddress": map[string]any{"type": "string"},
					"notes":           map[string]any{"type": "string"},
				},
				"required":             []string{"items"},
				"additionalProperties": false,
			},
		},
	}
}

func confirmarOrdenTool() openrouter.Tool {
	return openrouter.Tool{
		Type: openrouter.ToolTypeFunction,
		Function: &openrouter.FunctionDefinition{
			Name:        "confirmarOrden",
			Description: "Confirm a DRAFT order, committing the stock decrement for all items atomically. Fails with the offending SKU and available quantity when stock is no longer sufficient; in that case the order stays DRAFT and nothing is decremented.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"orderId": map[string]any{
						"type":        "integer",
						"description": "Internal id of the order to confirm.",
					},
				},
				"required":             []string{"orderId"},
				"additionalProperties": false,
			},
		},
	}
}

func obtenerOrdenTool() openrouter.Tool {
	return openrouter.Tool{
		Type: openrouter.ToolTypeFunction,
		Function: &openrouter.FunctionDefinition{
			Name:        "obtenerOrden",
			Description: "Fetch one order with its items, status, and total.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"orderId": map[string]any{
						"type":        "integer",
						"description": "Internal id of the order.",
					},
				},
				"required":             []string{"orderId"},
				"additionalProperties": false,
			},
		},
	}
}

func listarClientesTool() openrouter.Tool {
	return openrouter.Tool{
		Type: openrouter.ToolTypeFunction,
		Function: &openrouter.FunctionDefinition{
			Name:        "listarClientes",
			Description: "List the distributor's clients with id, name, phone, and city, optionally filtered by a name substring (case and accent insensitive). Use this to resolve which client the user means before creating orders or asking for suggestions.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name": map[string]any{
						"type":        "string",
						"description": "Optional name filter.",
					},
				},
				"additionalProperties": false,
			},
		},
	}
}
