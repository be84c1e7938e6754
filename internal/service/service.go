package service

import (
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/repository"

	"go.uber.org/zap"
)

type Services struct {
	Customers CustomerService
	Products  ProductService
	Orders    OrderService
	Reports   ReportService
}

func New(repo *repository.Repository, events EventBus, log *zap.Logger) *Services {
	return &Services{
		Customers: NewCustomerService(repo, repo, events, log),
		Products:  NewProductService(repo, repo, events, log),
		Orders:    NewOrderService(repo, repo, events, log),
		Reports:   NewReportService(repo),
	}
}
