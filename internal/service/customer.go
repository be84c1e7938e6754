package service

import (
	"context"
	"time"

	"github.com/Deglobeal/alx-backend-graphql-crm/internal/models"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/repository"

	"github.com/google/uuid"
)

const DefaultInactiveFor = 365 * 24 * time.Hour

type CreateCustomerInput struct {
	Name  string
	Email string
	Phone string
}

// BulkCustomerError — ошибка одной строки пакета; остальные строки не откатываются.
type BulkCustomerError struct {
	Index    int
	Email    string
	Messages []string
}

type BulkCreateResult struct {
	Customers []models.Customer
	Errors    []BulkCustomerError
}

type CleanupInput struct {
	InactiveFor time.Duration
	DryRun      bool
}

type CleanupResult struct {
	Cutoff       time.Time
	DeletedCount int64
	CustomerIDs  []uuid.UUID
	DryRun       bool
}

type CustomerService interface {
	CreateCustomer(ctx context.Context, in CreateCustomerInput) (*models.Customer, error)
	BulkCreateCustomers(ctx context.Context, in []CreateCustomerInput) (*BulkCreateResult, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	ListCustomers(ctx context.Context, f repository.CustomerListFilter) ([]models.Customer, int64, error)
	DeleteCustomer(ctx context.Context, id uuid.UUID) error
	CleanupInactiveCustomers(ctx context.Context, in CleanupInput) (*CleanupResult, error)
}
