package mcptools

import (
	"github.com/mark3labs/mcp-go/mcp"
)

func crmStatsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "crm_stats",
		Description: "Total customers, total orders and total revenue of the CRM",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

func listLowStockTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_low_stock_products",
		Description: "List products whose stock is below the threshold",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"threshold": map[string]interface{}{
					"type":        "integer",
					"description": "Stock strictly below this value counts as low",
					"default":     10,
					"minimum":     1,
				},
			},
		},
	}
}

func replenishTool() mcp.Tool {
	return mcp.Tool{
		Name:        "replenish_low_stock",
		Description: "Raise stock of low-stock products to the floor (or add increment). Safe to re-run",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"threshold": map[string]interface{}{
					"type":        "integer",
					"description": "Products with stock below this value are replenished",
					"default":     10,
					"minimum":     1,
				},
				"floor": map[string]interface{}{
					"type":        "integer",
					"description": "Target stock level, must be >= threshold",
					"default":     10,
				},
				"increment": map[string]interface{}{
					"type":        "integer",
					"description": "If set, add this amount instead of raising to floor",
					"minimum":     1,
				},
			},
		},
	}
}

func getOrderTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_order",
		Description: "Fetch an order with its customer and line items",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"id": map[string]interface{}{
					"type":        "string",
					"description": "Order UUID",
				},
			},
			Required: []string{"id"},
		},
	}
}
