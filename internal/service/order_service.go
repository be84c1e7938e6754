package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Deglobeal/alx-backend-graphql-crm/internal/models"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/repository"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const recentOrdersPage = 200

type orderService struct {
	repo   *repository.Repository
	tx     Transactor
	events EventBus
	log    *zap.Logger
	now    func() time.Time
}

func NewOrderService(repo *repository.Repository, tx Transactor, events EventBus, log *zap.Logger) OrderService {
	return &orderService{
		repo:   repo,
		tx:     tx,
		events: events,
		log:    log,
		now:    time.Now,
	}
}

func (s *orderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	raw := make([]validation.OrderLine, 0, len(in.ProductIDs)+len(in.Items))
	for _, id := range in.ProductIDs {
		raw = append(raw, validation.OrderLine{ProductID: id, Quantity: 1})
	}
	for _, it := range in.Items {
		raw = append(raw, validation.OrderLine{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	lines, v, ok := validation.OrderLines(in.CustomerID, raw)
	if err := newValidationError(v); err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrEmptyOrder
	}

	var (
		order *models.Order
		now   = s.now().UTC()
	)

	err := s.tx.WithTx(ctx, func(tx *repository.Repository) error {
		customer, err := tx.Customers.GetByID(ctx, in.CustomerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return ErrCustomerNotFound
		}

		ids := validation.DistinctProductIDs(lines)
		products, err := tx.Products.BatchGetByIDs(ctx, ids)
		if err != nil {
			return err
		}
		byID := make(map[uuid.UUID]models.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}
		if len(byID) != len(ids) {
			return fmt.Errorf("%w: %s", ErrInvalidProductReference, missingIDs(ids, byID))
		}

		// одна строка на каждую ссылку, цена фиксируется на момент заказа
		items := make([]models.OrderItem, 0, len(lines))
		priced := make([]validation.PricedLine, 0, len(lines))
		for _, l := range lines {
			price := byID[l.ProductID].PriceCents
			items = append(items, models.OrderItem{
				ProductID:      l.ProductID,
				Quantity:       l.Quantity,
				UnitPriceCents: price,
				CreatedAt:      now,
			})
			priced = append(priced, validation.PricedLine{Quantity: l.Quantity, UnitPriceCents: price})
		}
		total, v := validation.OrderTotal(priced)
		if err := newValidationError(v); err != nil {
			return err
		}

		order = &models.Order{
			CustomerID: customer.ID,
			OrderDate:  now,
		}
		if err := tx.Orders.Create(ctx, order); err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}

		if err := tx.OrderItems.BulkCreate(ctx, items); err != nil {
			return err
		}
		if err := tx.Orders.UpdateTotal(ctx, order.ID, total); err != nil {
			return err
		}

		full, err := tx.Orders.GetByID(ctx, order.ID)
		if err != nil {
			return err
		}
		if full == nil {
			return fmt.Errorf("order %s vanished inside transaction", order.ID)
		}
		order = full
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}

	s.publishCreated(ctx, order)
	return order, nil
}

func missingIDs(ids []uuid.UUID, found map[uuid.UUID]models.Product) string {
	var missing []string
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id.String())
		}
	}
	return strings.Join(missing, ", ")
}

func (s *orderService) publishCreated(ctx context.Context, o *models.Order) {
	if s.events == nil {
		return
	}
	ev := OrderCreatedEvent{
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		TotalCents: o.TotalAmountCents,
		OrderDate:  o.OrderDate,
		Items:      make([]OrderItemEvent, 0, len(o.Items)),
	}
	if o.Customer != nil {
		ev.CustomerEmail = o.Customer.Email
	}
	for _, it := range o.Items {
		ev.Items = append(ev.Items, OrderItemEvent{
			ProductID:      it.ProductID,
			Quantity:       it.Quantity,
			UnitPriceCents: it.UnitPriceCents,
			LineTotalCents: it.LineTotalCents(),
		})
	}
	if err := s.events.PublishOrderCreated(ctx, ev); err != nil {
		s.log.Warn("не удалось опубликовать order.created", zap.String("order_id", o.ID.String()), zap.Error(err))
	}
}

func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	ord, err := s.repo.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, classify(err)
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}
	return ord, nil
}

func (s *orderService) ListOrders(ctx context.Context, f repository.OrderListFilter) ([]models.Order, int64, error) {
	list, total, err := s.repo.Orders.List(ctx, f)
	if err != nil {
		return nil, 0, classify(err)
	}
	return list, total, nil
}

// ListRecentOrders — все заказы с order_date >= since, вместе с клиентом.
func (s *orderService) ListRecentOrders(ctx context.Context, since time.Time) ([]models.Order, error) {
	var out []models.Order
	for offset := 0; ; offset += recentOrdersPage {
		page, total, err := s.repo.Orders.List(ctx, repository.OrderListFilter{
			DateFrom:     &since,
			WithCustomer: true,
			Limit:        recentOrdersPage,
			Offset:       offset,
		})
		if err != nil {
			return nil, classify(err)
		}
		out = append(out, page...)
		if len(page) < recentOrdersPage || int64(len(out)) >= total {
			break
		}
	}
	return out, nil
}
