package migrate

import (
	"context"

	"github.com/Deglobeal/alx-backend-graphql-crm/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MigrateOptions struct {
	CreateExtensions       bool // pgcrypto (gen_random_uuid), pg_trgm
	CreateChecks           bool // CHECK-constraint для целостности
	CreateIndexes          bool // индексы и UNIQUE
	CreateFKsViaSQL        bool // FK с ON DELETE CASCADE через SQL
	CreateUpdatedAtTrigger bool // триггер updated_at для products
	CreateSearchIndexes    bool // GIN trgm для поиска по name
}

func DefaultMigrateOptions() MigrateOptions {
	return MigrateOptions{
		CreateExtensions:       true,
		CreateChecks:           true,
		CreateIndexes:          true,
		CreateFKsViaSQL:        true,
		CreateUpdatedAtTrigger: true,
		CreateSearchIndexes:    true,
	}
}

type step struct {
	name string
	sql  string
}

func exec(ctx context.Context, db *gorm.DB, log *zap.Logger, steps []step) error {
	for _, s := range steps {
		if err := db.WithContext(ctx).Exec(s.sql).Error; err != nil {
			log.Error("Ошибка шага миграции", zap.String("step", s.name), zap.Error(err))
			return err
		}
	}
	return nil
}

func MigrateCRMDB(ctx context.Context, db *gorm.DB, log *zap.Logger, opt MigrateOptions) error {
	log.Info("Начало миграции базы данных CRM")

	if opt.CreateExtensions {
		log.Info("Создание расширений PostgreSQL")
		if err := exec(ctx, db, log, []step{
			{"pgcrypto", `CREATE EXTENSION IF NOT EXISTS pgcrypto`},
			{"pg_trgm", `CREATE EXTENSION IF NOT EXISTS pg_trgm`},
		}); err != nil {
			return err
		}
		log.Info("Расширения PostgreSQL успешно созданы")
	}

	log.Info("Создание таблиц customers, products, orders, order_items")
	if err := db.WithContext(ctx).AutoMigrate(&models.Customer{}, &models.Product{}, &models.Order{}, &models.OrderItem{}); err != nil {
		log.Error("Не удалось создать таблицы", zap.Error(err))
		return err
	}
	log.Info("Таблицы успешно созданы")

	if opt.CreateUpdatedAtTrigger {
		log.Info("Создание триггера updated_at для products")
		if err := exec(ctx, db, log, []step{{"trg_products_updated", `
CREATE OR REPLACE FUNCTION set_updated_at() RETURNS trigger AS $$
BEGIN NEW.updated_at = now(); RETURN NEW; END; $$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS trg_products_updated ON products;
CREATE TRIGGER trg_products_updated
BEFORE UPDATE ON products
FOR EACH ROW EXECUTE FUNCTION set_updated_at();
`}}); err != nil {
			return err
		}
		log.Info("Триггер updated_at успешно создан")
	}

	if opt.CreateChecks {
		log.Info("Создание CHECK-ограничений")
		if err := exec(ctx, db, log, []step{
			{"chk_customers_name_not_blank", `
ALTER TABLE customers
  DROP CONSTRAINT IF EXISTS chk_customers_name_not_blank,
  ADD CONSTRAINT chk_customers_name_not_blank
  CHECK (char_length(btrim(name)) > 0);
`},
			{"chk_customers_email_not_blank", `
ALTER TABLE customers
  DROP CONSTRAINT IF EXISTS chk_customers_email_not_blank,
  ADD CONSTRAINT chk_customers_email_not_blank
  CHECK (char_length(btrim(email)) > 0);
`},
			// Цена строго > 0, остаток не уходит в минус
			{"chk_products_price_positive", `
ALTER TABLE products
  DROP CONSTRAINT IF EXISTS chk_products_price_positive,
  ADD CONSTRAINT chk_products_price_positive
  CHECK (price_cents > 0);
`},
			{"chk_products_stock_non_negative", `
ALTER TABLE products
  DROP CONSTRAINT IF EXISTS chk_products_stock_non_negative,
  ADD CONSTRAINT chk_products_stock_non_negative
  CHECK (stock >= 0);
`},
			{"chk_orders_total_non_negative", `
ALTER TABLE orders
  DROP CONSTRAINT IF EXISTS chk_orders_total_non_negative,
  ADD CONSTRAINT chk_orders_total_non_negative
  CHECK (total_amount_cents >= 0);
`},
			{"chk_order_items_quantity_positive", `
ALTER TABLE order_items
  DROP CONSTRAINT IF EXISTS chk_order_items_quantity_positive,
  ADD CONSTRAINT chk_order_items_quantity_positive
  CHECK (quantity >= 1);
`},
			{"chk_order_items_price_positive", `
ALTER TABLE order_items
  DROP CONSTRAINT IF EXISTS chk_order_items_price_positive,
  ADD CONSTRAINT chk_order_items_price_positive
  CHECK (unit_price_cents > 0);
`},
		}); err != nil {
			return err
		}
		log.Info("CHECK-ограничения успешно созданы")
	}

	if opt.CreateIndexes {
		log.Info("Создание индексов")
		if err := exec(ctx, db, log, []step{
			// email уникален без учёта регистра
			{"ux_customers_email_lower", `
CREATE UNIQUE INDEX IF NOT EXISTS ux_customers_email_lower
ON customers (lower(email));
`},
			{"ix_products_stock", `
CREATE INDEX IF NOT EXISTS ix_products_stock
ON products (stock);
`},
			{"ix_orders_customer_date", `
CREATE INDEX IF NOT EXISTS ix_orders_customer_date
ON orders (customer_id, order_date DESC);
`},
		}); err != nil {
			return err
		}
		log.Info("Индексы успешно созданы")
	}

	if opt.CreateSearchIndexes {
		log.Info("Создание GIN(trgm) индексов для поиска")
		if err := exec(ctx, db, log, []step{
			{"gin_customers_name_trgm", `
CREATE INDEX IF NOT EXISTS gin_customers_name_trgm
ON customers USING gin (name gin_trgm_ops);
`},
			{"gin_products_name_trgm", `
CREATE INDEX IF NOT EXISTS gin_products_name_trgm
ON products USING gin (name gin_trgm_ops);
`},
		}); err != nil {
			return err
		}
		log.Info("GIN индексы созданы")
	}

	if opt.CreateFKsViaSQL {
		log.Info("Создание внешних ключей")
		if err := exec(ctx, db, log, []step{
			// orders.customer_id -> customers.id (CASCADE)
			{"fk_orders_customer", `
ALTER TABLE orders
  DROP CONSTRAINT IF EXISTS fk_orders_customer,
  ADD CONSTRAINT fk_orders_customer
    FOREIGN KEY (customer_id) REFERENCES customers(id) ON DELETE CASCADE;
`},
			// order_items.order_id -> orders.id (CASCADE)
			{"fk_order_items_order", `
ALTER TABLE order_items
  DROP CONSTRAINT IF EXISTS fk_order_items_order,
  ADD CONSTRAINT fk_order_items_order
    FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE;
`},
			// order_items.product_id -> products.id (CASCADE)
			{"fk_order_items_product", `
ALTER TABLE order_items
  DROP CONSTRAINT IF EXISTS fk_order_items_product,
  ADD CONSTRAINT fk_order_items_product
    FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE;
`},
		}); err != nil {
			return err
		}
		log.Info("Внешние ключи успешно созданы")
	}

	log.Info("Миграция базы данных CRM успешно завершена")
	return nil
}
