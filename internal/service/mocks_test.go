package service_test

import (
	"context"
	"time"

	"github.com/Deglobeal/alx-backend-graphql-crm/internal/models"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/repository"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Моки репозиториев: func-поля, nil означает "пустой" ответ.

type MockCustomerRepo struct {
	CreateFunc          func(ctx context.Context, c *models.Customer) error
	GetByIDFunc         func(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	ExistsByEmailFunc   func(ctx context.Context, email string) (bool, error)
	ListFunc            func(ctx context.Context, f repository.CustomerListFilter) ([]models.Customer, int64, error)
	DeleteFunc          func(ctx context.Context, id uuid.UUID) (bool, error)
	CountFunc           func(ctx context.Context) (int64, error)
	ListInactiveIDsFunc func(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error)
	DeleteByIDsFunc     func(ctx context.Context, ids []uuid.UUID) (int64, error)
}

func (m *MockCustomerRepo) Create(ctx context.Context, c *models.Customer) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, c)
	}
	return nil
}

func (m *MockCustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockCustomerRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.ExistsByEmailFunc != nil {
		return m.ExistsByEmailFunc(ctx, email)
	}
	return false, nil
}

func (m *MockCustomerRepo) List(ctx context.Context, f repository.CustomerListFilter) ([]models.Customer, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, f)
	}
	return nil, 0, nil
}

func (m *MockCustomerRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return false, nil
}

func (m *MockCustomerRepo) Count(ctx context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

func (m *MockCustomerRepo) ListInactiveIDs(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error) {
	if m.ListInactiveIDsFunc != nil {
		return m.ListInactiveIDsFunc(ctx, cutoff)
	}
	return nil, nil
}

func (m *MockCustomerRepo) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if m.DeleteByIDsFunc != nil {
		return m.DeleteByIDsFunc(ctx, ids)
	}
	return 0, nil
}

type MockProductRepo struct {
	CreateFunc         func(ctx context.Context, p *models.Product) error
	GetByIDFunc        func(ctx context.Context, id uuid.UUID) (*models.Product, error)
	BatchGetByIDsFunc  func(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	ListFunc           func(ctx context.Context, f repository.ProductListFilter) ([]models.Product, int64, error)
	DeleteFunc         func(ctx context.Context, id uuid.UUID) (bool, error)
	LockLowStockFunc   func(ctx context.Context, threshold int32) ([]uuid.UUID, error)
	RaiseStockToFunc   func(ctx context.Context, ids []uuid.UUID, threshold, floor int32) (int64, error)
	IncrementStockFunc func(ctx context.Context, ids []uuid.UUID, threshold, delta int32) (int64, error)
}

func (m *MockProductRepo) Create(ctx context.Context, p *models.Product) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, p)
	}
	return nil
}

func (m *MockProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockProductRepo) BatchGetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if m.BatchGetByIDsFunc != nil {
		return m.BatchGetByIDsFunc(ctx, ids)
	}
	return []models.Product{}, nil
}

func (m *MockProductRepo) List(ctx context.Context, f repository.ProductListFilter) ([]models.Product, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, f)
	}
	return nil, 0, nil
}

func (m *MockProductRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return false, nil
}

func (m *MockProductRepo) LockLowStock(ctx context.Context, threshold int32) ([]uuid.UUID, error) {
	if m.LockLowStockFunc != nil {
		return m.LockLowStockFunc(ctx, threshold)
	}
	return nil, nil
}

func (m *MockProductRepo) RaiseStockTo(ctx context.Context, ids []uuid.UUID, threshold, floor int32) (int64, error) {
	if m.RaiseStockToFunc != nil {
		return m.RaiseStockToFunc(ctx, ids, threshold, floor)
	}
	return 0, nil
}

func (m *MockProductRepo) IncrementStock(ctx context.Context, ids []uuid.UUID, threshold, delta int32) (int64, error) {
	if m.IncrementStockFunc != nil {
		return m.IncrementStockFunc(ctx, ids, threshold, delta)
	}
	return 0, nil
}

type MockOrderRepo struct {
	CreateFunc      func(ctx context.Context, o *models.Order) error
	GetByIDFunc     func(ctx context.Context, id uuid.UUID) (*models.Order, error)
	UpdateTotalFunc func(ctx context.Context, id uuid.UUID, totalCents int64) error
	ListFunc        func(ctx context.Context, f repository.OrderListFilter) ([]models.Order, int64, error)
	CountFunc       func(ctx context.Context) (int64, error)
	SumTotalFunc    func(ctx context.Context) (int64, error)
}

func (m *MockOrderRepo) Create(ctx context.Context, o *models.Order) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, o)
	}
	return nil
}

func (m *MockOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockOrderRepo) UpdateTotal(ctx context.Context, id uuid.UUID, totalCents int64) error {
	if m.UpdateTotalFunc != nil {
		return m.UpdateTotalFunc(ctx, id, totalCents)
	}
	return nil
}

func (m *MockOrderRepo) List(ctx context.Context, f repository.OrderListFilter) ([]models.Order, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, f)
	}
	return nil, 0, nil
}

func (m *MockOrderRepo) Count(ctx context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

func (m *MockOrderRepo) SumTotal(ctx context.Context) (int64, error) {
	if m.SumTotalFunc != nil {
		return m.SumTotalFunc(ctx)
	}
	return 0, nil
}

type MockOrderItemRepo struct {
	BulkCreateFunc func(ctx context.Context, items []models.OrderItem) error
}

func (m *MockOrderItemRepo) BulkCreate(ctx context.Context, items []models.OrderItem) error {
	if m.BulkCreateFunc != nil {
		return m.BulkCreateFunc(ctx, items)
	}
	return nil
}

// fakeTx выполняет fn на тех же моках; rolledBack фиксирует, что fn вернула ошибку.
type fakeTx struct {
	repo       *repository.Repository
	calls      int
	rolledBack bool
}

func (f *fakeTx) WithTx(_ context.Context, fn func(tx *repository.Repository) error) error {
	f.calls++
	err := fn(f.repo)
	if err != nil {
		f.rolledBack = true
	}
	return err
}

type MockEventBus struct{ mock.Mock }

func (m *MockEventBus) PublishCustomerCreated(ctx context.Context, e service.CustomerCreatedEvent) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockEventBus) PublishOrderCreated(ctx context.Context, e service.OrderCreatedEvent) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockEventBus) PublishStockReplenished(ctx context.Context, e service.StockReplenishedEvent) error {
	return m.Called(ctx, e).Error(0)
}

type mocks struct {
	customers  *MockCustomerRepo
	products   *MockProductRepo
	orders     *MockOrderRepo
	orderItems *MockOrderItemRepo
	repo       *repository.Repository
	tx         *fakeTx
}

func newMocks() *mocks {
	m := &mocks{
		customers:  &MockCustomerRepo{},
		products:   &MockProductRepo{},
		orders:     &MockOrderRepo{},
		orderItems: &MockOrderItemRepo{},
	}
	m.repo = &repository.Repository{
		Customers:  m.customers,
		Products:   m.products,
		Orders:     m.orders,
		OrderItems: m.orderItems,
	}
	m.tx = &fakeTx{repo: m.repo}
	return m
}
