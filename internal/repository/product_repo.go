package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/Deglobeal/alx-backend-graphql-crm/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductListFilter struct {
	Name     string // подстрока, без учёта регистра
	PriceGTE *int64
	PriceLTE *int64
	StockLT  *int32
	OrderBy  string // name | -name | price | -price | stock | -stock
	Limit    int
	Offset   int
}

type ProductRepo interface {
	Create(ctx context.Context, p *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	BatchGetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	List(ctx context.Context, f ProductListFilter) ([]models.Product, int64, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	// Выборка с блокировкой строк (SELECT ... FOR UPDATE), вызывать внутри транзакции
	LockLowStock(ctx context.Context, threshold int32) ([]uuid.UUID, error)
	// stock = floor только для строк, которые всё ещё ниже порога
	RaiseStockTo(ctx context.Context, ids []uuid.UUID, threshold, floor int32) (int64, error)
	// stock = stock + delta (delta > 0)
	IncrementStock(ctx context.Context, ids []uuid.UUID, threshold, delta int32) (int64, error)
}

type productRepo struct{ db *gorm.DB }

func NewProductRepo(db *gorm.DB) ProductRepo { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).Select("*").Omit("ID").Create(p).Error
}

func (r *productRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &p, err
}

func (r *productRepo) BatchGetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}

	var list []models.Product
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("name ASC").Find(&list).Error
	return list, err
}

var productOrderBy = map[string]string{
	"name":   "name ASC",
	"-name":  "name DESC",
	"price":  "price_cents ASC",
	"-price": "price_cents DESC",
	"stock":  "stock ASC",
	"-stock": "stock DESC",
}

func (r *productRepo) List(ctx context.Context, f ProductListFilter) ([]models.Product, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{})

	if s := strings.TrimSpace(f.Name); s != "" {
		q = q.Where("lower(name) LIKE lower(?)", "%"+s+"%")
	}
	if f.PriceGTE != nil {
		q = q.Where("price_cents >= ?", *f.PriceGTE)
	}
	if f.PriceLTE != nil {
		q = q.Where("price_cents <= ?", *f.PriceLTE)
	}
	if f.StockLT != nil {
		q = q.Where("stock < ?", *f.StockLT)
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
	order, ok := productOrderBy[f.OrderBy]
	if !ok {
		order = "created_at DESC"
	}

	var list []models.Product
	if err := q.Order(order).Limit(f.Limit).Offset(f.Offset).Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tx := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	return tx.RowsAffected > 0, tx.Error
}

func (r *productRepo) LockLowStock(ctx context.Context, threshold int32) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("stock < ?", threshold).
		Order("id").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *productRepo) RaiseStockTo(ctx context.Context, ids []uuid.UUID, threshold, floor int32) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tx := r.db.WithContext(ctx).Exec(`
UPDATE products
SET stock = @floor
WHERE id IN @ids
  AND stock < @threshold
  AND stock < @floor
`, map[string]any{
		"ids":       ids,
		"threshold": threshold,
		"floor":     floor,
	})
	return tx.RowsAffected, tx.Error
}

func (r *productRepo) IncrementStock(ctx context.Context, ids []uuid.UUID, threshold, delta int32) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tx := r.db.WithContext(ctx).Exec(`
UPDATE products
SET stock = stock + @delta
WHERE id IN @ids
  AND stock < @threshold
`, map[string]any{
		"ids":       ids,
		"threshold": threshold,
		"delta":     delta,
	})
	return tx.RowsAffected, tx.Error
}
