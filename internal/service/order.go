package service

import (
	"context"
	"time"

	"github.com/Deglobeal/alx-backend-graphql-crm/internal/models"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/repository"

	"github.com/google/uuid"
)

type CreateOrderItem struct {
	ProductID uuid.UUID
	Quantity  int32
}

// CreateOrderInput принимает либо плоский список product_ids (по одной штуке),
// либо позиции с количеством; оба списка складываются.
type CreateOrderInput struct {
	CustomerID uuid.UUID
	ProductIDs []uuid.UUID
	Items      []CreateOrderItem
}

type OrderService interface {
	CreateOrder(ctx context.Context, in CreateOrderInput) (*models.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, f repository.OrderListFilter) ([]models.Order, int64, error)
	ListRecentOrders(ctx context.Context, since time.Time) ([]models.Order, error)
}
