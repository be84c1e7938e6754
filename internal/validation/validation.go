// Package validation holds the pure input checks that run before any write.
// Functions here never touch the store and never return an error for bad input:
// they return the normalized values plus a list of violations.
package validation

import (
	"math/bits"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	MaxNameLength  = 100
	MaxEmailLength = 254
	MaxPhoneLength = 30

	MaxQuantity int32 = 100000
	// decimal(10,2): 99 999 999.99
	MaxAmountCents int64 = 9_999_999_999
)

var (
	phonePattern = regexp.MustCompile(`^\+?\d{1,4}[\s\-]?\(?\d{1,4}\)?[\s\-]?\d{3}[\s\-]?\d{4,}$`)
	validate     = validator.New()
)

// Violation — нарушение по конкретному полю.
type Violation struct {
	Field   string
	Message string
	Tag     string
}

type Violations []Violation

func (v *Violations) add(field, tag, msg string) {
	*v = append(*v, Violation{Field: field, Message: msg, Tag: tag})
}

func (v Violations) Messages() []string {
	out := make([]string, 0, len(v))
	for _, x := range v {
		out = append(out, x.Message)
	}
	return out
}

type CustomerFields struct {
	Name  string
	Email string
	Phone string
}

// Customer нормализует поля клиента: trim, email в нижнем регистре.
// Уникальность email проверяется на уровне сервиса.
func Customer(in CustomerFields) (CustomerFields, Violations) {
	var v Violations
	out := CustomerFields{
		Name:  strings.TrimSpace(in.Name),
		Email: strings.ToLower(strings.TrimSpace(in.Email)),
		Phone: strings.TrimSpace(in.Phone),
	}

	switch {
	case out.Name == "":
		v.add("name", "required", "Name is required.")
	case len([]rune(out.Name)) > MaxNameLength:
		v.add("name", "max", "Name must be at most 100 characters.")
	}

	switch {
	case out.Email == "":
		v.add("email", "required", "Email is required.")
	case len(out.Email) > MaxEmailLength:
		v.add("email", "max", "Email is too long.")
	case validate.Var(out.Email, "email") != nil:
		v.add("email", "email", "Enter a valid email address.")
	}

	if out.Phone != "" {
		if len(out.Phone) > MaxPhoneLength || !ValidPhone(out.Phone) {
			v.add("phone", "phone", "Phone must be in format '+1234567890' or '123-456-7890'.")
		}
	}

	return out, v
}

func ValidPhone(s string) bool { return phonePattern.MatchString(s) }

type ProductFields struct {
	Name       string
	PriceCents int64
	Stock      *int32
}

type NormalizedProduct struct {
	Name       string
	PriceCents int64
	Stock      int32
}

func Product(in ProductFields) (NormalizedProduct, Violations) {
	var v Violations
	out := NormalizedProduct{Name: strings.TrimSpace(in.Name), PriceCents: in.PriceCents}

	switch {
	case out.Name == "":
		v.add("name", "required", "Name is required.")
	case len([]rune(out.Name)) > MaxNameLength:
		v.add("name", "max", "Name must be at most 100 characters.")
	}

	switch {
	case in.PriceCents <= 0:
		v.add("price", "gt", "Price must be positive.")
	case in.PriceCents > MaxAmountCents:
		v.add("price", "max", "Price must be at most 99999999.99.")
	}

	if in.Stock != nil {
		if *in.Stock < 0 {
			v.add("stock", "gte", "Stock must be non-negative.")
		} else {
			out.Stock = *in.Stock
		}
	}

	return out, v
}

type OrderLine struct {
	ProductID uuid.UUID
	Quantity  int32
}

// OrderLines проверяет форму заказа. Пустой список — отдельная ошибка (EmptyOrder) у сервиса,
// здесь возвращаем false в ok. Количество 0 трактуем как значение по умолчанию (1).
func OrderLines(customerID uuid.UUID, lines []OrderLine) ([]OrderLine, Violations, bool) {
	var v Violations
	if customerID == uuid.Nil {
		v.add("customer_id", "required", "Customer ID is required.")
	}
	if len(lines) == 0 {
		return nil, v, false
	}

	out := make([]OrderLine, 0, len(lines))
	for i, l := range lines {
		if l.ProductID == uuid.Nil {
			v.add(indexed("product_ids", i), "required", "Product ID is required.")
			continue
		}
		q := l.Quantity
		if q == 0 {
			q = 1
		}
		if q < 0 {
			v.add(indexed("items", i)+".quantity", "gte", "Quantity must be at least 1.")
			continue
		}
		if q > MaxQuantity {
			v.add(indexed("items", i)+".quantity", "max", "Quantity must be at most "+strconv.Itoa(int(MaxQuantity))+".")
			continue
		}
		out = append(out, OrderLine{ProductID: l.ProductID, Quantity: q})
	}
	return out, v, true
}

type PricedLine struct {
	Quantity       int32
	UnitPriceCents int64
}

// OrderTotal — Σ quantity × unit price. Строка или итог больше MaxAmountCents дают нарушение
// вместо переполнения.
func OrderTotal(lines []PricedLine) (int64, Violations) {
	var (
		v     Violations
		total int64
	)
	for i, l := range lines {
		if l.Quantity < 0 || l.UnitPriceCents < 0 {
			v.add(indexed("items", i), "gte", "Quantity and price must be non-negative.")
			return 0, v
		}
		hi, lo := bits.Mul64(uint64(l.Quantity), uint64(l.UnitPriceCents))
		if hi != 0 || lo > uint64(MaxAmountCents) {
			v.add(indexed("items", i), "max", "Line total must be at most 99999999.99.")
			return 0, v
		}
		total += int64(lo)
		if total > MaxAmountCents {
			v.add("total_amount", "max", "Order total must be at most 99999999.99.")
			return 0, v
		}
	}
	return total, v
}

// DistinctProductIDs — уникальные id в порядке первого появления.
func DistinctProductIDs(lines []OrderLine) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(lines))
	ids := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.ProductID]; ok {
			continue
		}
		seen[l.ProductID] = struct{}{}
		ids = append(ids, l.ProductID)
	}
	return ids
}

type ReplenishFields struct {
	Threshold *int32
	Floor     *int32
	Increment *int32
}

type Replenish struct {
	Threshold int32
	Floor     int32
	Increment int32 // 0 — режим "поднять до floor"
}

const (
	DefaultReplenishThreshold int32 = 10
	DefaultReplenishFloor     int32 = 10
)

func ReplenishParams(in ReplenishFields) (Replenish, Violations) {
	var v Violations
	out := Replenish{Threshold: DefaultReplenishThreshold, Floor: DefaultReplenishFloor}
	if in.Threshold != nil {
		out.Threshold = *in.Threshold
	}
	if in.Floor != nil {
		out.Floor = *in.Floor
	}
	if out.Threshold < 1 {
		v.add("threshold", "gte", "Threshold must be at least 1.")
	}

	if in.Increment != nil {
		if *in.Increment <= 0 {
			v.add("increment", "gt", "Increment must be positive.")
		}
		out.Increment = *in.Increment
		return out, v
	}

	// floor ниже порога может уменьшить остаток и ломает идемпотентность
	if out.Floor < out.Threshold {
		v.add("floor", "gtefield", "Floor must be greater than or equal to threshold.")
	}
	return out, v
}

func indexed(field string, i int) string {
	return field + "[" + strconv.Itoa(i) + "]"
}
