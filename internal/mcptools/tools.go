package mcptools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Deglobeal/alx-backend-graphql-crm/internal/dto"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/service"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/validation"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
)

// MCP error codes
const (
	ErrorCodeInvalidParams = -32602
	ErrorCodeInternalError = -32603
)

type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{Code: code, Message: message, Data: data}
}

func (s *Server) handleStats(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sum, err := s.reports.Summary(ctx)
	if err != nil {
		return s.toolError(err)
	}
	return jsonResult(dto.ToStatsResponse(sum))
}

func (s *Server) handleListLowStock(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	threshold, err := getInt32(args, "threshold")
	if err != nil {
		return nil, err
	}
	t := validation.DefaultReplenishThreshold
	if threshold != nil {
		t = *threshold
	}
	if t < 1 {
		return nil, newMCPError(ErrorCodeInvalidParams, "threshold must be at least 1", map[string]interface{}{
			"param": "threshold",
			"value": t,
		})
	}

	list, err := s.products.ListLowStock(ctx, t)
	if err != nil {
		return s.toolError(err)
	}
	return jsonResult(map[string]interface{}{
		"threshold": t,
		"count":     len(list),
		"products":  dto.ToProductList(list),
	})
}

func (s *Server) handleReplenish(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	var in service.ReplenishInput
	var err error
	if in.Threshold, err = getInt32(args, "threshold"); err != nil {
		return nil, err
	}
	if in.Floor, err = getInt32(args, "floor"); err != nil {
		return nil, err
	}
	if in.Increment, err = getInt32(args, "increment"); err != nil {
		return nil, err
	}

	res, err := s.products.ReplenishLowStock(ctx, in)
	if err != nil {
		return s.toolError(err)
	}
	return jsonResult(dto.ToReplenishResponse(res))
}

func (s *Server) handleGetOrder(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	raw, ok := args["id"].(string)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "id parameter is required", map[string]interface{}{
			"param":  "id",
			"reason": "missing or empty",
		})
	}
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "id must be a UUID", map[string]interface{}{
			"param": "id",
			"value": raw,
		})
	}

	o, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return s.toolError(err)
	}
	return jsonResult(dto.ToOrderResponse(o))
}

// toolError: ошибки домена отдаём модели как результат инструмента, сбои хранилища — как протокольную ошибку.
func (s *Server) toolError(err error) (*mcp.CallToolResult, error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		return mcp.NewToolResultError(ve.Error()), nil
	case errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrCustomerNotFound):
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.log.Error("MCP tool failed", zap.Error(err))
	return nil, newMCPError(ErrorCodeInternalError, "internal error", map[string]interface{}{
		"error": err.Error(),
	})
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return map[string]interface{}{}
	}
	return args
}

// getInt32 — nil если параметр не передан. JSON-числа приходят как float64.
func getInt32(args map[string]interface{}, key string) (*int32, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return nil, nil
	}
	var n int32
	switch x := v.(type) {
	case float64:
		if x != float64(int32(x)) {
			return nil, newMCPError(ErrorCodeInvalidParams, key+" must be an integer", map[string]interface{}{"param": key, "value": v})
		}
		n = int32(x)
	case int:
		n = int32(x)
	default:
		return nil, newMCPError(ErrorCodeInvalidParams, key+" must be an integer", map[string]interface{}{"param": key, "value": v})
	}
	return &n, nil
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to encode result", nil)
	}
	return mcp.NewToolResultText(string(b)), nil
}
