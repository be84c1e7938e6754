package dto

import (
	"time"

	"github.com/Deglobeal/alx-backend-graphql-crm/internal/models"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/validation"
)

type OrderItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int32  `json:"quantity,omitempty" example:"1"`
}

type CreateOrderRequest struct {
	CustomerID string             `json:"customer_id"`
	ProductIDs []string           `json:"product_ids,omitempty"`
	Items      []OrderItemRequest `json:"items,omitempty"`
}

type OrderItemResponse struct {
	ID         string `json:"id"`
	ProductID  string `json:"product_id"`
	Product    string `json:"product,omitempty"`
	Quantity   int32  `json:"quantity"`
	UnitPrice  string `json:"unit_price"`
	LineTotal  string `json:"line_total"`
	UnitCents  int64  `json:"unit_price_cents"`
	TotalCents int64  `json:"line_total_cents"`
}

type OrderResponse struct {
	ID               string              `json:"id"`
	CustomerID       string              `json:"customer_id"`
	Customer         *CustomerResponse   `json:"customer,omitempty"`
	OrderDate        string              `json:"order_date"`
	TotalAmount      string              `json:"total_amount" example:"1025.49"`
	TotalAmountCents int64               `json:"total_amount_cents" example:"102549"`
	Items            []OrderItemResponse `json:"items"`
}

type OrderListResponse struct {
	Items  []OrderResponse `json:"items"`
	Total  int64           `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

func ToOrderResponse(o *models.Order) OrderResponse {
	out := OrderResponse{
		ID:               o.ID.String(),
		CustomerID:       o.CustomerID.String(),
		OrderDate:        o.OrderDate.UTC().Format(time.RFC3339),
		TotalAmount:      validation.FormatCents(o.TotalAmountCents),
		TotalAmountCents: o.TotalAmountCents,
		Items:            make([]OrderItemResponse, 0, len(o.Items)),
	}
	if o.Customer != nil {
		c := ToCustomerResponse(o.Customer)
		out.Customer = &c
	}
	for _, it := range o.Items {
		item := OrderItemResponse{
			ID:         it.ID.String(),
			ProductID:  it.ProductID.String(),
			Quantity:   it.Quantity,
			UnitPrice:  validation.FormatCents(it.UnitPriceCents),
			LineTotal:  validation.FormatCents(it.LineTotalCents()),
			UnitCents:  it.UnitPriceCents,
			TotalCents: it.LineTotalCents(),
		}
		if it.Product != nil {
			item.Product = it.Product.Name
		}
		out.Items = append(out.Items, item)
	}
	return out
}

func ToOrderList(list []models.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(list))
	for i := range list {
		out = append(out, ToOrderResponse(&list[i]))
	}
	return out
}
