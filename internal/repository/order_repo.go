package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Deglobeal/alx-backend-graphql-crm/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderListFilter struct {
	CustomerID   *uuid.UUID
	CustomerName string
	DateFrom     *time.Time
	DateTo       *time.Time
	TotalGTE     *int64
	TotalLTE     *int64
	WithCustomer bool
	Limit        int
	Offset       int
}

type OrderRepo interface {
	Create(ctx context.Context, o *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	UpdateTotal(ctx context.Context, id uuid.UUID, totalCents int64) error
	List(ctx context.Context, f OrderListFilter) ([]models.Order, int64, error)
	Count(ctx context.Context) (int64, error)
	SumTotal(ctx context.Context) (int64, error)
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepo(db *gorm.DB) OrderRepo { return &orderRepo{db: db} }

func (r *orderRepo) Create(ctx context.Context, o *models.Order) error {
	return r.db.WithContext(ctx).Omit("Customer", "Items").Create(o).Error
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var ord models.Order
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		Preload("Items.Product").
		First(&ord, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ord, err
}

func (r *orderRepo) UpdateTotal(ctx context.Context, id uuid.UUID, totalCents int64) error {
	return r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("total_amount_cents", totalCents).Error
}

func (r *orderRepo) List(ctx context.Context, f OrderListFilter) ([]models.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Order{})

	if f.CustomerID != nil {
		q = q.Where("orders.customer_id = ?", *f.CustomerID)
	}
	if s := strings.TrimSpace(f.CustomerName); s != "" {
		q = q.Joins("JOIN customers c ON c.id = orders.customer_id").Where("lower(c.name) LIKE lower(?)", "%"+s+"%")
	}
	if f.DateFrom != nil {
		q = q.Where("orders.order_date >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		q = q.Where("orders.order_date <= ?", *f.DateTo)
	}
	if f.TotalGTE != nil {
		q = q.Where("orders.total_amount_cents >= ?", *f.TotalGTE)
	}
	if f.TotalLTE != nil {
		q = q.Where("orders.total_amount_cents <= ?", *f.TotalLTE)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	q = q.Preload("Items")
	if f.WithCustomer {
		q = q.Preload("Customer")
	}

	var list []models.Order
	err := q.Order("orders.order_date DESC").Limit(f.Limit).Offset(f.Offset).Find(&list).Error
	return list, total, err
}

func (r *orderRepo) Count(ctx context.Context) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&cnt).Error
	return cnt, err
}

func (r *orderRepo) SumTotal(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Select("COALESCE(SUM(total_amount_cents),0)").Scan(&total).Error
	return total, err
}
