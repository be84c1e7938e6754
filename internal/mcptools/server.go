// Package mcptools exposes a small read/replenish surface of the CRM as MCP tools over stdio.
package mcptools

import (
	"context"

	"github.com/Deglobeal/alx-backend-graphql-crm/internal/service"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

const (
	ServerName    = "crm-mcp"
	ServerVersion = "1.0.0"
)

type Server struct {
	mcp      *server.MCPServer
	products service.ProductService
	orders   service.OrderService
	reports  service.ReportService
	log      *zap.Logger
}

func NewServer(svcs *service.Services, log *zap.Logger) *Server {
	s := &Server{
		mcp:      server.NewMCPServer(ServerName, ServerVersion),
		products: svcs.Products,
		orders:   svcs.Orders,
		reports:  svcs.Reports,
		log:      log,
	}
	s.registerTools()
	return s
}

// Serve блокируется до закрытия stdin.
func (s *Server) Serve(ctx context.Context) error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) registerTools() {
	s.mcp.AddTool(crmStatsTool(), s.handleStats)
	s.mcp.AddTool(listLowStockTool(), s.handleListLowStock)
	s.mcp.AddTool(replenishTool(), s.handleReplenish)
	s.mcp.AddTool(getOrderTool(), s.handleGetOrder)
}
