package models

import (
	"time"

	"github.com/google/uuid"
)

type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"type:varchar(100);not null"`
	Email     string    `gorm:"type:varchar(254);not null"` // UNIQUE по lower(email) — в миграции
	Phone     string    `gorm:"type:varchar(30);not null;default:''"`
	CreatedAt time.Time `gorm:"not null;default:now();index;<-:create"` // не меняется после создания

	Orders []Order `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
}

func (Customer) TableName() string { return "customers" }

type Product struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name       string    `gorm:"type:varchar(100);not null"`
	PriceCents int64     `gorm:"not null"` // CHECK > 0 в миграции
	Stock      int32     `gorm:"type:int;not null;default:0"`

	CreatedAt time.Time `gorm:"not null;default:now();index"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (Product) TableName() string { return "products" }

type Order struct {
	ID               uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID       uuid.UUID `gorm:"type:uuid;not null;index;<-:create"`
	OrderDate        time.Time `gorm:"not null;default:now();index;<-:create"`
	TotalAmountCents int64     `gorm:"not null;default:0"` // фиксируется при создании, не пересчитывается

	Customer *Customer   `gorm:"foreignKey:CustomerID"`
	Items    []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (Order) TableName() string { return "orders" }

// OrderItem — одна ссылка на товар в заказе. Повтор товара в запросе даёт отдельную строку.
type OrderItem struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity       int32     `gorm:"type:int;not null;default:1"`
	UnitPriceCents int64     `gorm:"not null"` // цена на момент заказа

	CreatedAt time.Time `gorm:"not null;default:now()"`

	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

func (OrderItem) TableName() string { return "order_items" }

func (i OrderItem) LineTotalCents() int64 { return int64(i.Quantity) * i.UnitPriceCents }
