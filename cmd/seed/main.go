package main

import (
	"context"
	"os"

	"github.com/Deglobeal/alx-backend-graphql-crm/config"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/database"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/events"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/logger"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/repository"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/service"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/validation"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type seedProduct struct {
	name  string
	price string
	stock int32
}

var (
	seedCustomers = []service.CreateCustomerInput{
		{Name: "Alice", Email: "alice@example.com", Phone: "+1234567890"},
		{Name: "Bob", Email: "bob@example.com", Phone: "123-456-7890"},
	}
	seedProducts = []seedProduct{
		{"Laptop", "999.99", 10},
		{"Mouse", "25.50", 100},
		{"Keyboard", "75.00", 50},
	}
)

// Данные создаются через сервисы, чтобы сработали те же проверки, что и в API.
func main() {
	_ = godotenv.Load()
	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}

	defer logger.Sync()

	log := logger.L()

	cfg := config.Load(log)

	db := database.ConnectDB(&cfg.DB.Config, log)
	defer database.CloseDB(db, log)

	svcs := service.New(repository.New(db), events.NopBus{}, log)
	ctx := context.Background()

	orders, err := svcs.Reports.TotalOrders(ctx)
	if err != nil {
		log.Fatal("failed to count orders", zap.Error(err))
	}
	if orders > 0 {
		log.Info("База уже содержит заказы, seed пропущен", zap.Int64("orders", orders))
		return
	}

	res, err := svcs.Customers.BulkCreateCustomers(ctx, seedCustomers)
	if err != nil {
		log.Fatal("failed to seed customers", zap.Error(err))
	}
	for _, e := range res.Errors {
		log.Warn("customer skipped", zap.String("email", e.Email), zap.Strings("errors", e.Messages))
	}

	alice, err := findCustomer(ctx, svcs.Customers, "alice@example.com")
	if err != nil {
		log.Fatal("failed to find seeded customer", zap.Error(err))
	}

	ids := make(map[string]uuid.UUID, len(seedProducts))
	for _, sp := range seedProducts {
		cents, err := validation.ParseCents(sp.price)
		if err != nil {
			log.Fatal("bad seed price", zap.String("product", sp.name), zap.Error(err))
		}
		stock := sp.stock
		p, err := svcs.Products.CreateProduct(ctx, service.CreateProductInput{Name: sp.name, PriceCents: cents, Stock: &stock})
		if err != nil {
			log.Fatal("failed to seed product", zap.String("product", sp.name), zap.Error(err))
		}
		ids[sp.name] = p.ID
	}

	order, err := svcs.Orders.CreateOrder(ctx, service.CreateOrderInput{
		CustomerID: alice,
		ProductIDs: []uuid.UUID{ids["Laptop"], ids["Mouse"]},
	})
	if err != nil {
		log.Fatal("failed to seed order", zap.Error(err))
	}

	log.Info("Seed завершён",
		zap.Int("customers", len(res.Customers)),
		zap.Int("products", len(ids)),
		zap.String("order_id", order.ID.String()),
		zap.String("order_total", validation.FormatCents(order.TotalAmountCents)),
	)
}

func findCustomer(ctx context.Context, customers service.CustomerService, email string) (uuid.UUID, error) {
	list, _, err := customers.ListCustomers(ctx, repository.CustomerListFilter{Email: email, Limit: 1})
	if err != nil {
		return uuid.Nil, err
	}
	if len(list) == 0 {
		return uuid.Nil, service.ErrCustomerNotFound
	}
	return list[0].ID, nil
}
