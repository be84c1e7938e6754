package dto

import (
	"time"

	"github.com/Deglobeal/alx-backend-graphql-crm/internal/models"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/service"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/validation"
)

type CreateProductRequest struct {
	Name  string `json:"name" example:"Laptop"`
	Price Amount `json:"price" swaggertype:"string" example:"999.99"`
	Stock *int32 `json:"stock,omitempty" example:"10"`
}

type ProductResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Price      string `json:"price" example:"999.99"`
	PriceCents int64  `json:"price_cents" example:"99999"`
	Stock      int32  `json:"stock"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

type ProductListResponse struct {
	Items  []ProductResponse `json:"items"`
	Total  int64             `json:"total"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}

type ReplenishRequest struct {
	Threshold *int32 `json:"threshold,omitempty" example:"10"`
	Floor     *int32 `json:"floor,omitempty" example:"10"`
	Increment *int32 `json:"increment,omitempty"`
}

func (r ReplenishRequest) ToInput() service.ReplenishInput {
	return service.ReplenishInput{Threshold: r.Threshold, Floor: r.Floor, Increment: r.Increment}
}

type ReplenishResponse struct {
	UpdatedCount int64             `json:"updated_count"`
	Products     []ProductResponse `json:"products"`
	Threshold    int32             `json:"threshold"`
	Floor        int32             `json:"floor"`
	Increment    int32             `json:"increment,omitempty"`
}

func ToProductResponse(p *models.Product) ProductResponse {
	return ProductResponse{
		ID:         p.ID.String(),
		Name:       p.Name,
		Price:      validation.FormatCents(p.PriceCents),
		PriceCents: p.PriceCents,
		Stock:      p.Stock,
		CreatedAt:  p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:  p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func ToProductList(list []models.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(list))
	for i := range list {
		out = append(out, ToProductResponse(&list[i]))
	}
	return out
}

func ToReplenishResponse(res *service.ReplenishResult) ReplenishResponse {
	return ReplenishResponse{
		UpdatedCount: res.UpdatedCount,
		Products:     ToProductList(res.Products),
		Threshold:    res.Threshold,
		Floor:        res.Floor,
		Increment:    res.Increment,
	}
}
