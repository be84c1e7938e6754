package dto

import (
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/service"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/validation"
)

type StatsResponse struct {
	TotalCustomers    int64  `json:"total_customers"`
	TotalOrders       int64  `json:"total_orders"`
	TotalRevenue      string `json:"total_revenue" example:"1025.49"`
	TotalRevenueCents int64  `json:"total_revenue_cents"`
}

type CountResponse struct {
	Count int64 `json:"count"`
}

type RevenueResponse struct {
	TotalRevenue      string `json:"total_revenue" example:"0.00"`
	TotalRevenueCents int64  `json:"total_revenue_cents"`
}

func ToStatsResponse(s *service.Summary) StatsResponse {
	return StatsResponse{
		TotalCustomers:    s.TotalCustomers,
		TotalOrders:       s.TotalOrders,
		TotalRevenue:      validation.FormatCents(s.TotalRevenueCents),
		TotalRevenueCents: s.TotalRevenueCents,
	}
}

func ToRevenueResponse(cents int64) RevenueResponse {
	return RevenueResponse{TotalRevenue: validation.FormatCents(cents), TotalRevenueCents: cents}
}
