package service

import (
	"context"

	"github.com/Deglobeal/alx-backend-graphql-crm/internal/models"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/repository"

	"github.com/google/uuid"
)

type CreateProductInput struct {
	Name       string
	PriceCents int64
	Stock      *int32
}

// ReplenishInput — nil означает значение по умолчанию (порог 10, floor 10).
// Increment переключает на аддитивный режим: stock += increment.
type ReplenishInput struct {
	Threshold *int32
	Floor     *int32
	Increment *int32
}

type ReplenishResult struct {
	UpdatedCount int64
	Products     []models.Product
	Threshold    int32
	Floor        int32
	Increment    int32
}

type ProductService interface {
	CreateProduct(ctx context.Context, in CreateProductInput) (*models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, f repository.ProductListFilter) ([]models.Product, int64, error)
	ListLowStock(ctx context.Context, threshold int32) ([]models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	ReplenishLowStock(ctx context.Context, in ReplenishInput) (*ReplenishResult, error)
}
