package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Deglobeal/alx-backend-graphql-crm/internal/migrate"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/models"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/repository"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/testutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := testutil.SetupTestPostgres(t)
	if err := migrate.MigrateCRMDB(context.Background(), db, zap.NewNop(), migrate.DefaultMigrateOptions()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func mustCustomer(t *testing.T, repo *repository.Repository, name, email string) *models.Customer {
	t.Helper()
	c := &models.Customer{Name: name, Email: email}
	if err := repo.Customers.Create(context.Background(), c); err != nil {
		t.Fatalf("create customer: %v", err)
	}
	return c
}

func mustProduct(t *testing.T, repo *repository.Repository, name string, price int64, stock int32) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, PriceCents: price, Stock: stock}
	if err := repo.Products.Create(context.Background(), p); err != nil {
		t.Fatalf("create product: %v", err)
	}
	return p
}

func TestCustomerRepo_UniqueEmailCaseInsensitive(t *testing.T) {
	repo := repository.New(setupDB(t))
	ctx := context.Background()

	mustCustomer(t, repo, "Alice", "alice@example.com")

	err := repo.Customers.Create(ctx, &models.Customer{Name: "Alice 2", Email: "ALICE@example.com"})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected ErrDuplicatedKey, got %v", err)
	}

	n, err := repo.Customers.Count(ctx)
	if err != nil || n != 1 {
		t.Fatalf("Count: n=%d err=%v", n, err)
	}

	exists, err := repo.Customers.ExistsByEmail(ctx, "Alice@Example.com")
	if err != nil || !exists {
		t.Fatalf("ExistsByEmail: %v %v", exists, err)
	}
}

func TestCustomerRepo_ListFilters(t *testing.T) {
	repo := repository.New(setupDB(t))
	ctx := context.Background()

	mustCustomer(t, repo, "Alice", "alice@example.com")
	mustCustomer(t, repo, "Bob", "bob@example.com")
	mustCustomer(t, repo, "Alina", "alina@corp.io")

	list, total, err := repo.Customers.List(ctx, repository.CustomerListFilter{Name: "ali", OrderBy: "name"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 || len(list) != 2 || list[0].Name != "Alice" || list[1].Name != "Alina" {
		t.Fatalf("unexpected list: total=%d %+v", total, list)
	}

	_, total, _ = repo.Customers.List(ctx, repository.CustomerListFilter{Email: "corp"})
	if total != 1 {
		t.Fatalf("email filter total=%d", total)
	}
}

func TestProductRepo_CheckConstraints(t *testing.T) {
	repo := repository.New(setupDB(t))
	ctx := context.Background()

	if err := repo.Products.Create(ctx, &models.Product{Name: "Free", PriceCents: 0}); err == nil {
		t.Fatal("price 0 must violate CHECK")
	}
	if err := repo.Products.Create(ctx, &models.Product{Name: "Neg", PriceCents: 100, Stock: -1}); err == nil {
		t.Fatal("negative stock must violate CHECK")
	}
}

func TestProductRepo_ReplenishInTx(t *testing.T) {
	repo := repository.New(setupDB(t))
	ctx := context.Background()

	low := mustProduct(t, repo, "Laptop", 99999, 3)
	zero := mustProduct(t, repo, "Cable", 500, 0)
	ok := mustProduct(t, repo, "Mouse", 2550, 100)

	var updated int64
	err := repo.WithTx(ctx, func(tx *repository.Repository) error {
		ids, err := tx.Products.LockLowStock(ctx, 10)
		if err != nil {
			return err
		}
		if len(ids) != 2 {
			t.Errorf("locked %d rows, want 2", len(ids))
		}
		updated, err = tx.Products.RaiseStockTo(ctx, ids, 10, 10)
		return err
	})
	if err != nil {
		t.Fatalf("WithTx: %v", err)
	}
	if updated != 2 {
		t.Fatalf("updated=%d", updated)
	}

	for _, id := range []uuid.UUID{low.ID, zero.ID} {
		p, _ := repo.Products.GetByID(ctx, id)
		if p.Stock != 10 {
			t.Fatalf("stock for %s = %d", p.Name, p.Stock)
		}
	}
	p, _ := repo.Products.GetByID(ctx, ok.ID)
	if p.Stock != 100 {
		t.Fatalf("untouched product changed: %d", p.Stock)
	}

	ids, _ := repo.Products.LockLowStock(ctx, 10)
	if len(ids) != 0 {
		t.Fatalf("second pass must select nothing, got %d", len(ids))
	}
}

func TestOrderRepo_CreateWithItemsAndCascade(t *testing.T) {
	db := setupDB(t)
	repo := repository.New(db)
	ctx := context.Background()

	c := mustCustomer(t, repo, "Alice", "alice@example.com")
	p1 := mustProduct(t, repo, "Laptop", 99999, 10)
	p2 := mustProduct(t, repo, "Mouse", 2550, 100)

	var orderID uuid.UUID
	err := repo.WithTx(ctx, func(tx *repository.Repository) error {
		o := &models.Order{CustomerID: c.ID, OrderDate: time.Now().UTC()}
		if err := tx.Orders.Create(ctx, o); err != nil {
			return err
		}
		orderID = o.ID
		items := []models.OrderItem{
			{OrderID: o.ID, ProductID: p1.ID, Quantity: 1, UnitPriceCents: p1.PriceCents},
			{OrderID: o.ID, ProductID: p2.ID, Quantity: 1, UnitPriceCents: p2.PriceCents},
		}
		if err := tx.OrderItems.BulkCreate(ctx, items); err != nil {
			return err
		}
		return tx.Orders.UpdateTotal(ctx, o.ID, items[0].LineTotalCents()+items[1].LineTotalCents())
	})
	if err != nil {
		t.Fatalf("WithTx: %v", err)
	}

	o, err := repo.Orders.GetByID(ctx, orderID)
	if err != nil || o == nil {
		t.Fatalf("GetByID: %v %v", o, err)
	}
	if o.TotalAmountCents != 102549 || len(o.Items) != 2 || o.Customer == nil {
		t.Fatalf("unexpected order: %+v", o)
	}

	rev, err := repo.Orders.SumTotal(ctx)
	if err != nil || rev != 102549 {
		t.Fatalf("SumTotal: %d %v", rev, err)
	}

	if ok, err := repo.Customers.Delete(ctx, c.ID); err != nil || !ok {
		t.Fatalf("Delete customer: %v %v", ok, err)
	}
	if n, _ := repo.Orders.Count(ctx); n != 0 {
		t.Fatalf("orders must cascade, left %d", n)
	}
	var left int64
	db.Model(&models.OrderItem{}).Where("order_id = ?", orderID).Count(&left)
	if left != 0 {
		t.Fatalf("items must cascade, left %d", left)
	}
}

func TestOrderRepo_UnknownProductViolatesFK(t *testing.T) {
	repo := repository.New(setupDB(t))
	ctx := context.Background()
	c := mustCustomer(t, repo, "Bob", "bob@example.com")

	err := repo.WithTx(ctx, func(tx *repository.Repository) error {
		o := &models.Order{CustomerID: c.ID}
		if err := tx.Orders.Create(ctx, o); err != nil {
			return err
		}
		return tx.OrderItems.BulkCreate(ctx, []models.OrderItem{{OrderID: o.ID, ProductID: uuid.New(), Quantity: 1, UnitPriceCents: 100}})
	})
	if !errors.Is(err, gorm.ErrForeignKeyViolated) {
		t.Fatalf("expected ErrForeignKeyViolated, got %v", err)
	}
	if n, _ := repo.Orders.Count(ctx); n != 0 {
		t.Fatalf("tx must roll back, orders=%d", n)
	}
}

func TestCustomerRepo_ListInactiveIDs(t *testing.T) {
	db := setupDB(t)
	repo := repository.New(db)
	ctx := context.Background()

	old := mustCustomer(t, repo, "Old", "old@example.com")
	oldActive := mustCustomer(t, repo, "Old active", "active@example.com")
	mustCustomer(t, repo, "New", "new@example.com")

	past := time.Now().Add(-400 * 24 * time.Hour)
	if err := db.Exec("UPDATE customers SET created_at = ? WHERE id IN ?", past, []uuid.UUID{old.ID, oldActive.ID}).Error; err != nil {
		t.Fatalf("backdate: %v", err)
	}
	if err := repo.Orders.Create(ctx, &models.Order{CustomerID: oldActive.ID, OrderDate: time.Now()}); err != nil {
		t.Fatalf("order: %v", err)
	}

	ids, err := repo.Customers.ListInactiveIDs(ctx, time.Now().Add(-365*24*time.Hour))
	if err != nil {
		t.Fatalf("ListInactiveIDs: %v", err)
	}
	if len(ids) != 1 || ids[0] != old.ID {
		t.Fatalf("unexpected inactive ids: %v", ids)
	}

	n, err := repo.Customers.DeleteByIDs(ctx, ids)
	if err != nil || n != 1 {
		t.Fatalf("DeleteByIDs: %d %v", n, err)
	}
}
