package service

import (
	"context"

	"github.com/Deglobeal/alx-backend-graphql-crm/internal/repository"
)

// Transactor открывает транзакцию над всем набором репозиториев.
// *repository.Repository реализует его напрямую.
type Transactor interface {
	WithTx(ctx context.Context, fn func(tx *repository.Repository) error) error
}
