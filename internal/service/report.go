package service

import "context"

type Summary struct {
	TotalCustomers    int64
	TotalOrders       int64
	TotalRevenueCents int64
}

// ReportService — агрегаты, каждый вызов читает хранилище заново.
type ReportService interface {
	TotalCustomers(ctx context.Context) (int64, error)
	TotalOrders(ctx context.Context) (int64, error)
	TotalRevenue(ctx context.Context) (int64, error)
	Summary(ctx context.Context) (*Summary, error)
}
