package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Deglobeal/alx-backend-graphql-crm/internal/models"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// memCustomers — простое хранилище клиентов по email для моков.
func memCustomers(m *mocks) map[string]models.Customer {
	store := map[string]models.Customer{}
	m.customers.ExistsByEmailFunc = func(_ context.Context, email string) (bool, error) {
		_, ok := store[strings.ToLower(email)]
		return ok, nil
	}
	m.customers.CreateFunc = func(_ context.Context, c *models.Customer) error {
		if _, ok := store[c.Email]; ok {
			return gorm.ErrDuplicatedKey
		}
		c.ID = uuid.New()
		store[c.Email] = *c
		return nil
	}
	m.customers.GetByIDFunc = func(_ context.Context, id uuid.UUID) (*models.Customer, error) {
		for _, c := range store {
			if c.ID == id {
				return &c, nil
			}
		}
		return nil, nil
	}
	return store
}

func TestCreateCustomer_ThenLookup(t *testing.T) {
	m := newMocks()
	memCustomers(m)

	bus := &MockEventBus{}
	bus.On("PublishCustomerCreated", mock.Anything, mock.MatchedBy(func(e service.CustomerCreatedEvent) bool {
		return e.Email == "alice@example.com"
	})).Return(nil).Once()

	svc := service.NewCustomerService(m.repo, m.tx, bus, zap.NewNop())
	c, err := svc.CreateCustomer(context.Background(), service.CreateCustomerInput{
		Name: "Alice", Email: "alice@example.com", Phone: "+1234567890",
	})
	require.NoError(t, err)

	got, err := svc.GetCustomer(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.Equal(t, "+1234567890", got.Phone)
	assert.False(t, got.CreatedAt.IsZero())
	bus.AssertExpectations(t)
}

func TestCreateCustomer_DuplicateEmail(t *testing.T) {
	m := newMocks()
	store := memCustomers(m)
	svc := service.NewCustomerService(m.repo, m.tx, nil, zap.NewNop())

	_, err := svc.CreateCustomer(context.Background(), service.CreateCustomerInput{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)

	_, err = svc.CreateCustomer(context.Background(), service.CreateCustomerInput{Name: "Other", Email: "ALICE@example.com"})
	assert.ErrorIs(t, err, service.ErrEmailAlreadyExists)
	assert.Len(t, store, 1)
	assert.Equal(t, "Alice", store["alice@example.com"].Name)
}

func TestCreateCustomer_UniqueIndexRace(t *testing.T) {
	m := newMocks()
	m.customers.CreateFunc = func(context.Context, *models.Customer) error { return gorm.ErrDuplicatedKey }
	svc := service.NewCustomerService(m.repo, m.tx, nil, zap.NewNop())

	_, err := svc.CreateCustomer(context.Background(), service.CreateCustomerInput{Name: "Bob", Email: "bob@example.com"})
	assert.ErrorIs(t, err, service.ErrEmailAlreadyExists)
}

func TestCreateCustomer_Validation(t *testing.T) {
	m := newMocks()
	created := false
	m.customers.CreateFunc = func(context.Context, *models.Customer) error { created = true; return nil }
	svc := service.NewCustomerService(m.repo, m.tx, nil, zap.NewNop())

	_, err := svc.CreateCustomer(context.Background(), service.CreateCustomerInput{Name: "", Email: "nope", Phone: "12"})
	var ve *service.ValidationError
	require.ErrorAs(t, err, &ve)
	fields := ve.Fields()
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "phone")
	assert.False(t, created)
}

func TestBulkCreateCustomers_PartialSuccess(t *testing.T) {
	m := newMocks()
	store := memCustomers(m)
	svc := service.NewCustomerService(m.repo, m.tx, nil, zap.NewNop())

	res, err := svc.BulkCreateCustomers(context.Background(), []service.CreateCustomerInput{
		{Name: "Alice", Email: "alice@example.com"},
		{Name: "", Email: "broken"},
		{Name: "Bob", Email: "bob@example.com", Phone: "123-456-7890"},
		{Name: "Alice again", Email: "alice@example.com"},
	})
	require.NoError(t, err)

	require.Len(t, res.Customers, 2)
	assert.Equal(t, "Alice", res.Customers[0].Name)
	assert.Equal(t, "Bob", res.Customers[1].Name)

	require.Len(t, res.Errors, 2)
	assert.Equal(t, 1, res.Errors[0].Index)
	assert.Equal(t, 3, res.Errors[1].Index)
	assert.Equal(t, []string{"alice@example.com already exists."}, res.Errors[1].Messages)
	assert.Len(t, store, 2)
}

func TestBulkCreateCustomers_StorageFailureStops(t *testing.T) {
	m := newMocks()
	m.customers.ExistsByEmailFunc = func(context.Context, string) (bool, error) {
		return false, errors.New("db down")
	}
	svc := service.NewCustomerService(m.repo, m.tx, nil, zap.NewNop())

	res, err := svc.BulkCreateCustomers(context.Background(), []service.CreateCustomerInput{
		{Name: "Alice", Email: "alice@example.com"},
	})
	assert.ErrorIs(t, err, service.ErrStorage)
	require.NotNil(t, res)
	assert.Empty(t, res.Customers)
}

func TestDeleteCustomer_NotFound(t *testing.T) {
	m := newMocks()
	svc := service.NewCustomerService(m.repo, m.tx, nil, zap.NewNop())
	assert.ErrorIs(t, svc.DeleteCustomer(context.Background(), uuid.New()), service.ErrCustomerNotFound)
}

func TestCleanupInactiveCustomers(t *testing.T) {
	stale := []uuid.UUID{uuid.New(), uuid.New()}

	t.Run("deletes", func(t *testing.T) {
		m := newMocks()
		var cutoff time.Time
		m.customers.ListInactiveIDsFunc = func(_ context.Context, c time.Time) ([]uuid.UUID, error) {
			cutoff = c
			return stale, nil
		}
		m.customers.DeleteByIDsFunc = func(_ context.Context, ids []uuid.UUID) (int64, error) {
			assert.Equal(t, stale, ids)
			return int64(len(ids)), nil
		}
		svc := service.NewCustomerService(m.repo, m.tx, nil, zap.NewNop())

		res, err := svc.CleanupInactiveCustomers(context.Background(), service.CleanupInput{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), res.DeletedCount)
		assert.WithinDuration(t, time.Now().Add(-service.DefaultInactiveFor), cutoff, time.Minute)
		assert.Equal(t, 1, m.tx.calls)
	})

	t.Run("dry run", func(t *testing.T) {
		m := newMocks()
		m.customers.ListInactiveIDsFunc = func(context.Context, time.Time) ([]uuid.UUID, error) { return stale, nil }
		m.customers.DeleteByIDsFunc = func(context.Context, []uuid.UUID) (int64, error) {
			t.Fatal("dry run must not delete")
			return 0, nil
		}
		svc := service.NewCustomerService(m.repo, m.tx, nil, zap.NewNop())

		res, err := svc.CleanupInactiveCustomers(context.Background(), service.CleanupInput{InactiveFor: 30 * 24 * time.Hour, DryRun: true})
		require.NoError(t, err)
		assert.True(t, res.DryRun)
		assert.Equal(t, int64(2), res.DeletedCount)
		assert.Equal(t, stale, res.CustomerIDs)
	})

	t.Run("negative period", func(t *testing.T) {
		m := newMocks()
		svc := service.NewCustomerService(m.repo, m.tx, nil, zap.NewNop())
		_, err := svc.CleanupInactiveCustomers(context.Background(), service.CleanupInput{InactiveFor: -time.Hour})
		var ve *service.ValidationError
		assert.ErrorAs(t, err, &ve)
	})
}
