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

type CustomerListFilter struct {
	Name          string // подстрока, без учёта регистра
	Email         string
	PhonePrefix   string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	OrderBy       string // name | -name | created_at | -created_at
	Limit         int
	Offset        int
}

type CustomerRepo interface {
	Create(ctx context.Context, c *models.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, f CustomerListFilter) ([]models.Customer, int64, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	Count(ctx context.Context) (int64, error)

	// Клиенты, созданные до cutoff и без заказов начиная с cutoff
	ListInactiveIDs(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error)
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error)
}

type customerRepo struct{ db *gorm.DB }

func NewCustomerRepo(db *gorm.DB) CustomerRepo { return &customerRepo{db: db} }

func (r *customerRepo) Create(ctx context.Context, c *models.Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *customerRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var c models.Customer
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &c, err
}

func (r *customerRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&models.Customer{}).Where("lower(email) = lower(?)", email).Count(&cnt).Error
	return cnt > 0, err
}

var customerOrderBy = map[string]string{
	"name":        "name ASC",
	"-name":       "name DESC",
	"created_at":  "created_at ASC",
	"-created_at": "created_at DESC",
}

func (r *customerRepo) List(ctx context.Context, f CustomerListFilter) ([]models.Customer, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Customer{})

	if s := strings.TrimSpace(f.Name); s != "" {
		q = q.Where("lower(name) LIKE lower(?)", "%"+s+"%")
	}
	if s := strings.TrimSpace(f.Email); s != "" {
		q = q.Where("lower(email) LIKE lower(?)", "%"+s+"%")
	}
	if s := strings.TrimSpace(f.PhonePrefix); s != "" {
		q = q.Where("phone LIKE ?", s+"%")
	}
	if f.CreatedAfter != nil {
		q = q.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		q = q.Where("created_at <= ?", *f.CreatedBefore)
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
	order, ok := customerOrderBy[f.OrderBy]
	if !ok {
		order = "created_at DESC"
	}

	var list []models.Customer
	if err := q.Order(order).Limit(f.Limit).Offset(f.Offset).Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *customerRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tx := r.db.WithContext(ctx).Delete(&models.Customer{}, "id = ?", id)
	return tx.RowsAffected > 0, tx.Error
}

func (r *customerRepo) Count(ctx context.Context) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&models.Customer{}).Count(&cnt).Error
	return cnt, err
}

func (r *customerRepo) ListInactiveIDs(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("created_at < ?", cutoff).
		Where("NOT EXISTS (SELECT 1 FROM orders o WHERE o.customer_id = customers.id AND o.order_date >= ?)", cutoff).
		Order("created_at ASC").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *customerRepo) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tx := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.Customer{})
	return tx.RowsAffected, tx.Error
}
