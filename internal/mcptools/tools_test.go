package mcptools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/Deglobeal/alx-backend-graphql-crm/internal/dto"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/models"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/service"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubProducts struct {
	service.ProductService
	lowStock  []models.Product
	gotLow    int32
	gotInput  service.ReplenishInput
	replenish *service.ReplenishResult
	replErr   error
}

func (s *stubProducts) ListLowStock(_ context.Context, threshold int32) ([]models.Product, error) {
	s.gotLow = threshold
	return s.lowStock, nil
}

func (s *stubProducts) ReplenishLowStock(_ context.Context, in service.ReplenishInput) (*service.ReplenishResult, error) {
	s.gotInput = in
	return s.replenish, s.replErr
}

type stubOrders struct {
	service.OrderService
	orders map[uuid.UUID]*models.Order
}

func (s *stubOrders) GetOrder(_ context.Context, id uuid.UUID) (*models.Order, error) {
	if o, ok := s.orders[id]; ok {
		return o, nil
	}
	return nil, service.ErrOrderNotFound
}

type stubReports struct {
	service.ReportService
	sum *service.Summary
	err error
}

func (s *stubReports) Summary(context.Context) (*service.Summary, error) { return s.sum, s.err }

func newTestServer(p *stubProducts, o *stubOrders, r *stubReports) *Server {
	return NewServer(&service.Services{Products: p, Orders: o, Reports: r}, zap.NewNop())
}

func call(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{Params: mcp.CallToolParams{Name: name, Arguments: args}}
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return tc.Text
}

func TestStats(t *testing.T) {
	s := newTestServer(&stubProducts{}, &stubOrders{}, &stubReports{sum: &service.Summary{TotalCustomers: 2, TotalOrders: 1, TotalRevenueCents: 102549}})

	res, err := s.handleStats(context.Background(), call("crm_stats", nil))
	require.NoError(t, err)

	var out dto.StatsResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
	assert.Equal(t, int64(2), out.TotalCustomers)
	assert.Equal(t, "1025.49", out.TotalRevenue)
}

func TestStats_StorageFailure(t *testing.T) {
	s := newTestServer(&stubProducts{}, &stubOrders{}, &stubReports{err: fmt.Errorf("%w: conn refused", service.ErrStorage)})

	_, err := s.handleStats(context.Background(), call("crm_stats", nil))
	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeInternalError, mcpErr.Code)
}

func TestListLowStock(t *testing.T) {
	p := &stubProducts{lowStock: []models.Product{{ID: uuid.New(), Name: "Laptop", PriceCents: 99999, Stock: 3}}}
	s := newTestServer(p, &stubOrders{}, &stubReports{})

	res, err := s.handleListLowStock(context.Background(), call("list_low_stock_products", nil))
	require.NoError(t, err)
	assert.Equal(t, int32(10), p.gotLow)
	assert.Contains(t, resultText(t, res), `"Laptop"`)

	_, err = s.handleListLowStock(context.Background(), call("list_low_stock_products", map[string]interface{}{"threshold": float64(5)}))
	require.NoError(t, err)
	assert.Equal(t, int32(5), p.gotLow)

	_, err = s.handleListLowStock(context.Background(), call("list_low_stock_products", map[string]interface{}{"threshold": 2.5}))
	assert.Error(t, err)

	_, err = s.handleListLowStock(context.Background(), call("list_low_stock_products", map[string]interface{}{"threshold": float64(0)}))
	assert.Error(t, err)
}

func TestReplenish(t *testing.T) {
	p := &stubProducts{replenish: &service.ReplenishResult{UpdatedCount: 1, Products: []models.Product{{Name: "Mouse", Stock: 20}}, Threshold: 10, Floor: 20}}
	s := newTestServer(p, &stubOrders{}, &stubReports{})

	res, err := s.handleReplenish(context.Background(), call("replenish_low_stock", map[string]interface{}{"floor": float64(20)}))
	require.NoError(t, err)
	assert.Nil(t, p.gotInput.Threshold)
	require.NotNil(t, p.gotInput.Floor)
	assert.Equal(t, int32(20), *p.gotInput.Floor)

	var out dto.ReplenishResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
	assert.Equal(t, int64(1), out.UpdatedCount)
}

func TestReplenish_ValidationIsToolError(t *testing.T) {
	p := &stubProducts{replErr: &service.ValidationError{}}
	s := newTestServer(p, &stubOrders{}, &stubReports{})

	res, err := s.handleReplenish(context.Background(), call("replenish_low_stock", map[string]interface{}{"threshold": float64(10), "floor": float64(5)}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestGetOrder(t *testing.T) {
	id := uuid.New()
	o := &stubOrders{orders: map[uuid.UUID]*models.Order{
		id: {ID: id, CustomerID: uuid.New(), TotalAmountCents: 7500},
	}}
	s := newTestServer(&stubProducts{}, o, &stubReports{})

	res, err := s.handleGetOrder(context.Background(), call("get_order", map[string]interface{}{"id": id.String()}))
	require.NoError(t, err)
	var out dto.OrderResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
	assert.Equal(t, "75.00", out.TotalAmount)

	res, err = s.handleGetOrder(context.Background(), call("get_order", map[string]interface{}{"id": uuid.NewString()}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	_, err = s.handleGetOrder(context.Background(), call("get_order", map[string]interface{}{"id": "abc"}))
	var mcpErr *MCPError
	require.True(t, errors.As(err, &mcpErr))
	assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)

	_, err = s.handleGetOrder(context.Background(), call("get_order", nil))
	assert.Error(t, err)
}
