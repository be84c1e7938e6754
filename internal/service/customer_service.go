package service

import (
	"context"
	"errors"
	"time"

	"github.com/Deglobeal/alx-backend-graphql-crm/internal/models"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/repository"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type customerService struct {
	repo   *repository.Repository
	tx     Transactor
	events EventBus
	log    *zap.Logger
	now    func() time.Time
}

func NewCustomerService(repo *repository.Repository, tx Transactor, events EventBus, log *zap.Logger) CustomerService {
	return &customerService{
		repo:   repo,
		tx:     tx,
		events: events,
		log:    log,
		now:    time.Now,
	}
}

func (s *customerService) CreateCustomer(ctx context.Context, in CreateCustomerInput) (*models.Customer, error) {
	c, err := s.create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.publishCreated(ctx, c)
	return c, nil
}

func (s *customerService) create(ctx context.Context, in CreateCustomerInput) (*models.Customer, error) {
	fields, v := validation.Customer(validation.CustomerFields{Name: in.Name, Email: in.Email, Phone: in.Phone})
	if err := newValidationError(v); err != nil {
		return nil, err
	}

	exists, err := s.repo.Customers.ExistsByEmail(ctx, fields.Email)
	if err != nil {
		return nil, classify(err)
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	c := &models.Customer{
		Name:      fields.Name,
		Email:     fields.Email,
		Phone:     fields.Phone,
		CreatedAt: s.now().UTC(),
	}
	// гонку между проверкой и вставкой ловит уникальный индекс по lower(email)
	if err := s.repo.Customers.Create(ctx, c); err != nil {
		return nil, classify(err)
	}
	return c, nil
}

func (s *customerService) BulkCreateCustomers(ctx context.Context, in []CreateCustomerInput) (*BulkCreateResult, error) {
	res := &BulkCreateResult{
		Customers: make([]models.Customer, 0, len(in)),
		Errors:    []BulkCustomerError{},
	}

	// каждая строка — отдельная вставка: упавший INSERT в PG ломает всю транзакцию
	for i, row := range in {
		c, err := s.create(ctx, row)
		if err == nil {
			res.Customers = append(res.Customers, *c)
			continue
		}

		var ve *ValidationError
		switch {
		case errors.As(err, &ve):
			res.Errors = append(res.Errors, BulkCustomerError{Index: i, Email: row.Email, Messages: ve.Violations.Messages()})
		case errors.Is(err, ErrEmailAlreadyExists):
			res.Errors = append(res.Errors, BulkCustomerError{Index: i, Email: row.Email, Messages: []string{row.Email + " already exists."}})
		default:
			s.log.Error("bulk create: ошибка хранилища", zap.Int("index", i), zap.Error(err))
			return res, err
		}
	}

	for i := range res.Customers {
		s.publishCreated(ctx, &res.Customers[i])
	}
	s.log.Info("bulk create завершён",
		zap.Int("created", len(res.Customers)),
		zap.Int("failed", len(res.Errors)),
	)
	return res, nil
}

func (s *customerService) GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	c, err := s.repo.Customers.GetByID(ctx, id)
	if err != nil {
		return nil, classify(err)
	}
	if c == nil {
		return nil, ErrCustomerNotFound
	}
	return c, nil
}

func (s *customerService) ListCustomers(ctx context.Context, f repository.CustomerListFilter) ([]models.Customer, int64, error) {
	list, total, err := s.repo.Customers.List(ctx, f)
	if err != nil {
		return nil, 0, classify(err)
	}
	return list, total, nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	ok, err := s.repo.Customers.Delete(ctx, id)
	if err != nil {
		return classify(err)
	}
	if !ok {
		return ErrCustomerNotFound
	}
	return nil
}

func (s *customerService) CleanupInactiveCustomers(ctx context.Context, in CleanupInput) (*CleanupResult, error) {
	if in.InactiveFor < 0 {
		return nil, newValidationError(validation.Violations{{
			Field: "inactive_days", Tag: "gte", Message: "Inactive period must not be negative.",
		}})
	}
	if in.InactiveFor == 0 {
		in.InactiveFor = DefaultInactiveFor
	}

	res := &CleanupResult{Cutoff: s.now().UTC().Add(-in.InactiveFor), DryRun: in.DryRun}

	err := s.tx.WithTx(ctx, func(tx *repository.Repository) error {
		ids, err := tx.Customers.ListInactiveIDs(ctx, res.Cutoff)
		if err != nil {
			return err
		}
		res.CustomerIDs = ids
		if in.DryRun {
			res.DeletedCount = int64(len(ids))
			return nil
		}
		n, err := tx.Customers.DeleteByIDs(ctx, ids)
		if err != nil {
			return err
		}
		res.DeletedCount = n
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}

	s.log.Info("очистка неактивных клиентов",
		zap.Time("cutoff", res.Cutoff),
		zap.Int64("deleted", res.DeletedCount),
		zap.Bool("dry_run", res.DryRun),
	)
	return res, nil
}

func (s *customerService) publishCreated(ctx context.Context, c *models.Customer) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishCustomerCreated(ctx, CustomerCreatedEvent{
		CustomerID: c.ID,
		Name:       c.Name,
		Email:      c.Email,
		CreatedAt:  c.CreatedAt,
	}); err != nil {
		s.log.Warn("не удалось опубликовать customer.created", zap.String("customer_id", c.ID.String()), zap.Error(err))
	}
}
