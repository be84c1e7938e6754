package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Deglobeal/alx-backend-graphql-crm/internal/validation"

	"gorm.io/gorm"
)

var (
	ErrCustomerNotFound        = errors.New("customer not found")
	ErrProductNotFound         = errors.New("product not found")
	ErrOrderNotFound           = errors.New("order not found")
	ErrInvalidProductReference = errors.New("invalid product reference")
	ErrEmptyOrder              = errors.New("at least one product is required")
	ErrEmailAlreadyExists      = errors.New("email already exists")
	ErrStorage                 = errors.New("storage failure")
)

// ValidationError — ошибки формы входных данных, по полям.
type ValidationError struct {
	Violations validation.Violations
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations.Messages(), "; ")
}

// Fields группирует сообщения по имени поля.
func (e *ValidationError) Fields() map[string][]string {
	out := make(map[string][]string, len(e.Violations))
	for _, v := range e.Violations {
		out[v.Field] = append(out[v.Field], v.Message)
	}
	return out
}

func newValidationError(v validation.Violations) error {
	if len(v) == 0 {
		return nil
	}
	return &ValidationError{Violations: v}
}

var domainErrors = []error{
	ErrCustomerNotFound,
	ErrProductNotFound,
	ErrOrderNotFound,
	ErrInvalidProductReference,
	ErrEmptyOrder,
	ErrEmailAlreadyExists,
	ErrStorage,
}

// classify приводит ошибку хранилища к доменной. gorm открыт с TranslateError,
// поэтому нарушения unique/FK приходят как gorm.ErrDuplicatedKey / gorm.ErrForeignKeyViolated.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return err
	}
	for _, d := range domainErrors {
		if errors.Is(err, d) {
			return err
		}
	}
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrEmailAlreadyExists
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrInvalidProductReference
	}
	return fmt.Errorf("%w: %v", ErrStorage, err)
}
