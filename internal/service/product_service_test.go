package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Deglobeal/alx-backend-graphql-crm/internal/models"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/repository"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func i32(v int32) *int32 { return &v }

// memStock моделирует таблицу products: LockLowStock/RaiseStockTo/IncrementStock работают по карте.
func memStock(m *mocks, rows ...models.Product) map[uuid.UUID]*models.Product {
	store := make(map[uuid.UUID]*models.Product, len(rows))
	order := make([]uuid.UUID, 0, len(rows))
	for i := range rows {
		p := rows[i]
		store[p.ID] = &p
		order = append(order, p.ID)
	}

	m.products.LockLowStockFunc = func(_ context.Context, threshold int32) ([]uuid.UUID, error) {
		var ids []uuid.UUID
		for _, id := range order {
			if store[id].Stock < threshold {
				ids = append(ids, id)
			}
		}
		return ids, nil
	}
	m.products.RaiseStockToFunc = func(_ context.Context, ids []uuid.UUID, threshold, floor int32) (int64, error) {
		var n int64
		for _, id := range ids {
			if p := store[id]; p.Stock < threshold && p.Stock < floor {
				p.Stock = floor
				n++
			}
		}
		return n, nil
	}
	m.products.IncrementStockFunc = func(_ context.Context, ids []uuid.UUID, threshold, delta int32) (int64, error) {
		var n int64
		for _, id := range ids {
			if p := store[id]; p.Stock < threshold {
				p.Stock += delta
				n++
			}
		}
		return n, nil
	}
	m.products.BatchGetByIDsFunc = func(_ context.Context, ids []uuid.UUID) ([]models.Product, error) {
		out := make([]models.Product, 0, len(ids))
		for _, id := range ids {
			out = append(out, *store[id])
		}
		return out, nil
	}
	return store
}

func TestReplenishLowStock_SetToFloorIsIdempotent(t *testing.T) {
	m := newMocks()
	low := models.Product{ID: uuid.New(), Name: "Laptop", PriceCents: 99999, Stock: 3}
	ok := models.Product{ID: uuid.New(), Name: "Mouse", PriceCents: 2550, Stock: 100}
	store := memStock(m, low, ok)

	bus := &MockEventBus{}
	bus.On("PublishStockReplenished", mock.Anything, mock.MatchedBy(func(e service.StockReplenishedEvent) bool {
		return e.UpdatedCount == 1 && len(e.ProductIDs) == 1 && e.ProductIDs[0] == low.ID
	})).Return(nil).Once()

	svc := service.NewProductService(m.repo, m.tx, bus, zap.NewNop())

	res, err := svc.ReplenishLowStock(context.Background(), service.ReplenishInput{Threshold: i32(10), Floor: i32(10)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.UpdatedCount)
	require.Len(t, res.Products, 1)
	assert.Equal(t, int32(10), res.Products[0].Stock)
	assert.Equal(t, int32(10), store[low.ID].Stock)
	assert.Equal(t, int32(100), store[ok.ID].Stock)

	res, err = svc.ReplenishLowStock(context.Background(), service.ReplenishInput{Threshold: i32(10), Floor: i32(10)})
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.UpdatedCount)
	assert.Empty(t, res.Products)

	bus.AssertExpectations(t)
}

func TestReplenishLowStock_Defaults(t *testing.T) {
	m := newMocks()
	memStock(m, models.Product{ID: uuid.New(), Name: "Keyboard", PriceCents: 7500, Stock: 0})
	svc := service.NewProductService(m.repo, m.tx, nil, zap.NewNop())

	res, err := svc.ReplenishLowStock(context.Background(), service.ReplenishInput{})
	require.NoError(t, err)
	assert.Equal(t, int32(10), res.Threshold)
	assert.Equal(t, int32(10), res.Floor)
	assert.Equal(t, int64(1), res.UpdatedCount)
}

func TestReplenishLowStock_Increment(t *testing.T) {
	m := newMocks()
	p := models.Product{ID: uuid.New(), Name: "Keyboard", PriceCents: 7500, Stock: 4}
	store := memStock(m, p)
	svc := service.NewProductService(m.repo, m.tx, nil, zap.NewNop())

	res, err := svc.ReplenishLowStock(context.Background(), service.ReplenishInput{Increment: i32(10)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.UpdatedCount)
	assert.Equal(t, int32(14), store[p.ID].Stock)
}

func TestReplenishLowStock_FloorBelowThreshold(t *testing.T) {
	m := newMocks()
	svc := service.NewProductService(m.repo, m.tx, nil, zap.NewNop())

	_, err := svc.ReplenishLowStock(context.Background(), service.ReplenishInput{Threshold: i32(10), Floor: i32(5)})
	var ve *service.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, 0, m.tx.calls)
}

func TestReplenishLowStock_StorageFailureAbortsBatch(t *testing.T) {
	m := newMocks()
	memStock(m, models.Product{ID: uuid.New(), Name: "Keyboard", PriceCents: 7500, Stock: 1})
	m.products.RaiseStockToFunc = func(context.Context, []uuid.UUID, int32, int32) (int64, error) {
		return 0, errors.New("deadlock detected")
	}
	svc := service.NewProductService(m.repo, m.tx, nil, zap.NewNop())

	_, err := svc.ReplenishLowStock(context.Background(), service.ReplenishInput{})
	assert.ErrorIs(t, err, service.ErrStorage)
	assert.True(t, m.tx.rolledBack)
}

func TestCreateProduct(t *testing.T) {
	m := newMocks()
	var saved *models.Product
	m.products.CreateFunc = func(_ context.Context, p *models.Product) error {
		p.ID = uuid.New()
		saved = p
		return nil
	}
	svc := service.NewProductService(m.repo, m.tx, nil, zap.NewNop())

	p, err := svc.CreateProduct(context.Background(), service.CreateProductInput{Name: "Laptop", PriceCents: 99999})
	require.NoError(t, err)
	assert.Equal(t, int32(0), p.Stock)
	assert.Same(t, saved, p)

	_, err = svc.CreateProduct(context.Background(), service.CreateProductInput{Name: "Free", PriceCents: 0, Stock: i32(-1)})
	var ve *service.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Violations, 2)
}

func TestGetProduct_NotFound(t *testing.T) {
	m := newMocks()
	svc := service.NewProductService(m.repo, m.tx, nil, zap.NewNop())
	_, err := svc.GetProduct(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrProductNotFound)
}

func TestListLowStock_PagesThroughCatalogue(t *testing.T) {
	m := newMocks()
	var offsets []int
	m.products.ListFunc = func(_ context.Context, f repository.ProductListFilter) ([]models.Product, int64, error) {
		offsets = append(offsets, f.Offset)
		require.NotNil(t, f.StockLT)
		assert.Equal(t, int32(10), *f.StockLT)
		assert.Equal(t, "stock", f.OrderBy)
		if f.Offset < 2*f.Limit {
			return make([]models.Product, f.Limit), int64(2*f.Limit + 3), nil
		}
		return make([]models.Product, 3), int64(2*f.Limit + 3), nil
	}
	svc := service.NewProductService(m.repo, m.tx, nil, zap.NewNop())

	list, err := svc.ListLowStock(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 500, 1000}, offsets)
	assert.Len(t, list, 1003)
}

func TestListLowStock_StorageFailure(t *testing.T) {
	m := newMocks()
	m.products.ListFunc = func(context.Context, repository.ProductListFilter) ([]models.Product, int64, error) {
		return nil, 0, errors.New("conn reset")
	}
	svc := service.NewProductService(m.repo, m.tx, nil, zap.NewNop())

	_, err := svc.ListLowStock(context.Background(), 5)
	assert.ErrorIs(t, err, service.ErrStorage)
}
