package service

import (
	"context"
	"time"

	"github.com/Deglobeal/alx-backend-graphql-crm/internal/models"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/repository"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const lowStockPageSize = 500

type productService struct {
	repo   *repository.Repository
	tx     Transactor
	events EventBus
	log    *zap.Logger
	now    func() time.Time
}

func NewProductService(repo *repository.Repository, tx Transactor, events EventBus, log *zap.Logger) ProductService {
	return &productService{
		repo:   repo,
		tx:     tx,
		events: events,
		log:    log,
		now:    time.Now,
	}
}

func (s *productService) CreateProduct(ctx context.Context, in CreateProductInput) (*models.Product, error) {
	np, v := validation.Product(validation.ProductFields{Name: in.Name, PriceCents: in.PriceCents, Stock: in.Stock})
	if err := newValidationError(v); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	p := &models.Product{
		Name:       np.Name,
		PriceCents: np.PriceCents,
		Stock:      np.Stock,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Products.Create(ctx, p); err != nil {
		return nil, classify(err)
	}
	return p, nil
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, err := s.repo.Products.GetByID(ctx, id)
	if err != nil {
		return nil, classify(err)
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	return p, nil
}

func (s *productService) ListProducts(ctx context.Context, f repository.ProductListFilter) ([]models.Product, int64, error) {
	list, total, err := s.repo.Products.List(ctx, f)
	if err != nil {
		return nil, 0, classify(err)
	}
	return list, total, nil
}

func (s *productService) ListLowStock(ctx context.Context, threshold int32) ([]models.Product, error) {
	if threshold <= 0 {
		threshold = validation.DefaultReplenishThreshold
	}
	var out []models.Product
	for offset := 0; ; offset += lowStockPageSize {
		page, total, err := s.repo.Products.List(ctx, repository.ProductListFilter{
			StockLT: &threshold,
			OrderBy: "stock",
			Limit:   lowStockPageSize,
			Offset:  offset,
		})
		if err != nil {
			return nil, classify(err)
		}
		out = append(out, page...)
		if len(page) < lowStockPageSize || int64(len(out)) >= total {
			break
		}
	}
	return out, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	ok, err := s.repo.Products.Delete(ctx, id)
	if err != nil {
		return classify(err)
	}
	if !ok {
		return ErrProductNotFound
	}
	return nil
}

// ReplenishLowStock поднимает остаток товаров ниже порога. В режиме floor повторный
// запуск ничего не меняет: после первого прохода stock >= floor >= threshold.
func (s *productService) ReplenishLowStock(ctx context.Context, in ReplenishInput) (*ReplenishResult, error) {
	params, v := validation.ReplenishParams(validation.ReplenishFields{
		Threshold: in.Threshold,
		Floor:     in.Floor,
		Increment: in.Increment,
	})
	if err := newValidationError(v); err != nil {
		return nil, err
	}

	res := &ReplenishResult{
		Threshold: params.Threshold,
		Floor:     params.Floor,
		Increment: params.Increment,
		Products:  []models.Product{},
	}

	err := s.tx.WithTx(ctx, func(tx *repository.Repository) error {
		ids, err := tx.Products.LockLowStock(ctx, params.Threshold)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		var n int64
		if params.Increment > 0 {
			n, err = tx.Products.IncrementStock(ctx, ids, params.Threshold, params.Increment)
		} else {
			n, err = tx.Products.RaiseStockTo(ctx, ids, params.Threshold, params.Floor)
		}
		if err != nil {
			return err
		}
		res.UpdatedCount = n

		products, err := tx.Products.BatchGetByIDs(ctx, ids)
		if err != nil {
			return err
		}
		res.Products = products
		return nil
	})
	if err != nil {
		s.log.Error("пополнение остатков не удалось", zap.Error(err))
		return nil, classify(err)
	}

	s.log.Info("пополнение остатков",
		zap.Int32("threshold", res.Threshold),
		zap.Int32("floor", res.Floor),
		zap.Int32("increment", res.Increment),
		zap.Int64("updated", res.UpdatedCount),
	)

	if s.events != nil && res.UpdatedCount > 0 {
		ids := make([]uuid.UUID, 0, len(res.Products))
		for _, p := range res.Products {
			ids = append(ids, p.ID)
		}
		if err := s.events.PublishStockReplenished(ctx, StockReplenishedEvent{
			ProductIDs:   ids,
			UpdatedCount: res.UpdatedCount,
			Threshold:    res.Threshold,
			Floor:        res.Floor,
			Increment:    res.Increment,
			At:           s.now().UTC(),
		}); err != nil {
			s.log.Warn("не удалось опубликовать stock_replenished", zap.Error(err))
		}
	}

	return res, nil
}
