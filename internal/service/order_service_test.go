package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Deglobeal/alx-backend-graphql-crm/internal/models"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/repository"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// orderFixture — клиент и товары в "базе", Create/BulkCreate пишут в память.
type orderFixture struct {
	*mocks
	customer models.Customer
	catalog  map[uuid.UUID]models.Product
	created  *models.Order
	items    []models.OrderItem
	total    int64
}

func newOrderFixture(products ...models.Product) *orderFixture {
	f := &orderFixture{
		mocks:    newMocks(),
		customer: models.Customer{ID: uuid.New(), Name: "Alice", Email: "alice@example.com"},
		catalog:  map[uuid.UUID]models.Product{},
	}
	for _, p := range products {
		f.catalog[p.ID] = p
	}

	f.customers.GetByIDFunc = func(_ context.Context, id uuid.UUID) (*models.Customer, error) {
		if id == f.customer.ID {
			c := f.customer
			return &c, nil
		}
		return nil, nil
	}
	f.products.BatchGetByIDsFunc = func(_ context.Context, ids []uuid.UUID) ([]models.Product, error) {
		var out []models.Product
		for _, id := range ids {
			if p, ok := f.catalog[id]; ok {
				out = append(out, p)
			}
		}
		return out, nil
	}
	f.orders.CreateFunc = func(_ context.Context, o *models.Order) error {
		o.ID = uuid.New()
		f.created = o
		return nil
	}
	f.orderItems.BulkCreateFunc = func(_ context.Context, items []models.OrderItem) error {
		f.items = append(f.items, items...)
		return nil
	}
	f.orders.UpdateTotalFunc = func(_ context.Context, _ uuid.UUID, total int64) error {
		f.total = total
		return nil
	}
	f.orders.GetByIDFunc = func(_ context.Context, id uuid.UUID) (*models.Order, error) {
		if f.created == nil || f.created.ID != id {
			return nil, nil
		}
		o := *f.created
		o.TotalAmountCents = f.total
		o.Items = f.items
		c := f.customer
		o.Customer = &c
		return &o, nil
	}
	return f
}

func (f *orderFixture) service(events service.EventBus) service.OrderService {
	return service.NewOrderService(f.repo, f.tx, events, zap.NewNop())
}

func TestCreateOrder_TotalIsExactSum(t *testing.T) {
	laptop := models.Product{ID: uuid.New(), Name: "Laptop", PriceCents: 99999, Stock: 10}
	mouse := models.Product{ID: uuid.New(), Name: "Mouse", PriceCents: 2550, Stock: 100}
	f := newOrderFixture(laptop, mouse)

	bus := &MockEventBus{}
	bus.On("PublishOrderCreated", mock.Anything, mock.MatchedBy(func(e service.OrderCreatedEvent) bool {
		return e.TotalCents == 102549 && len(e.Items) == 2 && e.CustomerEmail == "alice@example.com"
	})).Return(nil).Once()

	ord, err := f.service(bus).CreateOrder(context.Background(), service.CreateOrderInput{
		CustomerID: f.customer.ID,
		ProductIDs: []uuid.UUID{laptop.ID, mouse.ID},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(102549), ord.TotalAmountCents)
	require.Len(t, ord.Items, 2)
	assert.Equal(t, f.customer.ID, ord.CustomerID)
	assert.Equal(t, int64(99999), ord.Items[0].UnitPriceCents)
	assert.Equal(t, int32(1), ord.Items[1].Quantity)
	assert.Equal(t, 1, f.tx.calls)
	bus.AssertExpectations(t)
}

func TestCreateOrder_DuplicateReferencesProduceOneRowEach(t *testing.T) {
	mouse := models.Product{ID: uuid.New(), Name: "Mouse", PriceCents: 2550}
	f := newOrderFixture(mouse)

	ord, err := f.service(nil).CreateOrder(context.Background(), service.CreateOrderInput{
		CustomerID: f.customer.ID,
		ProductIDs: []uuid.UUID{mouse.ID, mouse.ID},
		Items:      []service.CreateOrderItem{{ProductID: mouse.ID, Quantity: 2}},
	})
	require.NoError(t, err)
	assert.Len(t, ord.Items, 3)
	assert.Equal(t, int64(2550*4), ord.TotalAmountCents)
}

func TestCreateOrder_UnknownCustomer(t *testing.T) {
	p := models.Product{ID: uuid.New(), Name: "Keyboard", PriceCents: 7500}
	f := newOrderFixture(p)

	_, err := f.service(nil).CreateOrder(context.Background(), service.CreateOrderInput{
		CustomerID: uuid.New(),
		ProductIDs: []uuid.UUID{p.ID},
	})
	assert.ErrorIs(t, err, service.ErrCustomerNotFound)
	assert.Nil(t, f.created, "no order row must be written")
	assert.Empty(t, f.items)
	assert.True(t, f.tx.rolledBack)
}

func TestCreateOrder_EmptyProductList(t *testing.T) {
	f := newOrderFixture()

	_, err := f.service(nil).CreateOrder(context.Background(), service.CreateOrderInput{CustomerID: f.customer.ID})
	assert.ErrorIs(t, err, service.ErrEmptyOrder)
	assert.Equal(t, 0, f.tx.calls)
}

func TestCreateOrder_UnknownProduct(t *testing.T) {
	p := models.Product{ID: uuid.New(), Name: "Keyboard", PriceCents: 7500}
	f := newOrderFixture(p)
	ghost := uuid.New()

	_, err := f.service(nil).CreateOrder(context.Background(), service.CreateOrderInput{
		CustomerID: f.customer.ID,
		ProductIDs: []uuid.UUID{p.ID, ghost},
	})
	require.ErrorIs(t, err, service.ErrInvalidProductReference)
	assert.Contains(t, err.Error(), ghost.String())
	assert.Nil(t, f.created)
}

func TestCreateOrder_NegativeQuantityIsValidationError(t *testing.T) {
	p := models.Product{ID: uuid.New(), Name: "Keyboard", PriceCents: 7500}
	f := newOrderFixture(p)

	_, err := f.service(nil).CreateOrder(context.Background(), service.CreateOrderInput{
		CustomerID: f.customer.ID,
		Items:      []service.CreateOrderItem{{ProductID: p.ID, Quantity: -1}},
	})
	var ve *service.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields(), "items[0].quantity")
}

func TestCreateOrder_QuantityAboveLimit(t *testing.T) {
	p := models.Product{ID: uuid.New(), Name: "Server", PriceCents: 9999999999}
	f := newOrderFixture(p)

	_, err := f.service(nil).CreateOrder(context.Background(), service.CreateOrderInput{
		CustomerID: f.customer.ID,
		Items:      []service.CreateOrderItem{{ProductID: p.ID, Quantity: 2147483647}},
	})
	var ve *service.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields(), "items[0].quantity")
	assert.Nil(t, f.created)
	assert.Zero(t, f.total)
}

func TestCreateOrder_TotalAboveColumnLimit(t *testing.T) {
	server := models.Product{ID: uuid.New(), Name: "Server", PriceCents: 9999999999}
	rack := models.Product{ID: uuid.New(), Name: "Rack", PriceCents: 6000000000}
	f := newOrderFixture(server, rack)

	// одна строка: 2 × 99 999 999.99
	_, err := f.service(nil).CreateOrder(context.Background(), service.CreateOrderInput{
		CustomerID: f.customer.ID,
		Items:      []service.CreateOrderItem{{ProductID: server.ID, Quantity: 2}},
	})
	var ve *service.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields(), "items[0]")
	assert.Nil(t, f.created)

	// каждая строка в пределах, сумма нет
	_, err = f.service(nil).CreateOrder(context.Background(), service.CreateOrderInput{
		CustomerID: f.customer.ID,
		ProductIDs: []uuid.UUID{rack.ID, rack.ID},
	})
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields(), "total_amount")
	assert.Nil(t, f.created)
	assert.Empty(t, f.items)
}

func TestCreateOrder_StorageFailureRollsBack(t *testing.T) {
	p := models.Product{ID: uuid.New(), Name: "Keyboard", PriceCents: 7500}
	f := newOrderFixture(p)
	f.orderItems.BulkCreateFunc = func(context.Context, []models.OrderItem) error {
		return errors.New("connection reset")
	}

	_, err := f.service(nil).CreateOrder(context.Background(), service.CreateOrderInput{
		CustomerID: f.customer.ID,
		ProductIDs: []uuid.UUID{p.ID},
	})
	assert.ErrorIs(t, err, service.ErrStorage)
	assert.True(t, f.tx.rolledBack)
}

func TestCreateOrder_ProductDeletedConcurrently(t *testing.T) {
	p := models.Product{ID: uuid.New(), Name: "Keyboard", PriceCents: 7500}
	f := newOrderFixture(p)
	f.orderItems.BulkCreateFunc = func(context.Context, []models.OrderItem) error {
		return gorm.ErrForeignKeyViolated
	}

	_, err := f.service(nil).CreateOrder(context.Background(), service.CreateOrderInput{
		CustomerID: f.customer.ID,
		ProductIDs: []uuid.UUID{p.ID},
	})
	assert.ErrorIs(t, err, service.ErrInvalidProductReference)
}

func TestCreateOrder_PublishFailureDoesNotFail(t *testing.T) {
	p := models.Product{ID: uuid.New(), Name: "Keyboard", PriceCents: 7500}
	f := newOrderFixture(p)

	bus := &MockEventBus{}
	bus.On("PublishOrderCreated", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	ord, err := f.service(bus).CreateOrder(context.Background(), service.CreateOrderInput{
		CustomerID: f.customer.ID,
		ProductIDs: []uuid.UUID{p.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7500), ord.TotalAmountCents)
}

func TestGetOrder_NotFound(t *testing.T) {
	m := newMocks()
	svc := service.NewOrderService(m.repo, m.tx, nil, zap.NewNop())

	_, err := svc.GetOrder(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrOrderNotFound)
}

func TestListRecentOrders_Pages(t *testing.T) {
	m := newMocks()
	calls := 0
	m.orders.ListFunc = func(_ context.Context, f repository.OrderListFilter) ([]models.Order, int64, error) {
		calls++
		assert.True(t, f.WithCustomer)
		require.NotNil(t, f.DateFrom)
		if f.Offset == 0 {
			return make([]models.Order, f.Limit), int64(f.Limit + 1), nil
		}
		return make([]models.Order, 1), int64(f.Limit + 1), nil
	}
	svc := service.NewOrderService(m.repo, m.tx, nil, zap.NewNop())

	list, err := svc.ListRecentOrders(context.Background(), time.Now().Add(-7*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Len(t, list, 201)
}
