package service

import (
	"context"

	"github.com/Deglobeal/alx-backend-graphql-crm/internal/repository"

	"golang.org/x/sync/errgroup"
)

type reportService struct {
	repo *repository.Repository
}

func NewReportService(repo *repository.Repository) ReportService {
	return &reportService{repo: repo}
}

func (s *reportService) TotalCustomers(ctx context.Context) (int64, error) {
	n, err := s.repo.Customers.Count(ctx)
	return n, classify(err)
}

func (s *reportService) TotalOrders(ctx context.Context) (int64, error) {
	n, err := s.repo.Orders.Count(ctx)
	return n, classify(err)
}

// TotalRevenue в центах; пустое хранилище даёт 0 (COALESCE в запросе).
func (s *reportService) TotalRevenue(ctx context.Context) (int64, error) {
	n, err := s.repo.Orders.SumTotal(ctx)
	return n, classify(err)
}

func (s *reportService) Summary(ctx context.Context) (*Summary, error) {
	var sum Summary
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		sum.TotalCustomers, err = s.TotalCustomers(gctx)
		return err
	})
	g.Go(func() (err error) {
		sum.TotalOrders, err = s.TotalOrders(gctx)
		return err
	})
	g.Go(func() (err error) {
		sum.TotalRevenueCents, err = s.TotalRevenue(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &sum, nil
}
