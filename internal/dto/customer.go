package dto

import (
	"time"

	"github.com/Deglobeal/alx-backend-graphql-crm/internal/models"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/service"
)

type CreateCustomerRequest struct {
	Name  string `json:"name" example:"Alice"`
	Email string `json:"email" example:"alice@example.com"`
	Phone string `json:"phone,omitempty" example:"+1234567890"`
}

func (r CreateCustomerRequest) ToInput() service.CreateCustomerInput {
	return service.CreateCustomerInput{Name: r.Name, Email: r.Email, Phone: r.Phone}
}

type CustomerResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	CreatedAt string `json:"created_at"`
}

type CreateCustomerResponse struct {
	Customer CustomerResponse `json:"customer"`
	Message  string           `json:"message"`
}

type BulkCreateCustomersRequest struct {
	Customers []CreateCustomerRequest `json:"customers" binding:"required"`
}

type BulkCustomerError struct {
	Index    int      `json:"index"`
	Email    string   `json:"email"`
	Messages []string `json:"messages"`
}

type BulkCreateCustomersResponse struct {
	Customers []CustomerResponse  `json:"customers"`
	Errors    []string            `json:"errors"`
	Details   []BulkCustomerError `json:"error_details"`
}

type CustomerListResponse struct {
	Items  []CustomerResponse `json:"items"`
	Total  int64              `json:"total"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}

type CleanupCustomersRequest struct {
	InactiveDays *int `json:"inactive_days,omitempty" example:"365"`
	DryRun       bool `json:"dry_run"`
}

type CleanupCustomersResponse struct {
	DeletedCount int64    `json:"deleted_count"`
	CustomerIDs  []string `json:"customer_ids"`
	Cutoff       string   `json:"cutoff"`
	DryRun       bool     `json:"dry_run"`
}

func ToCustomerResponse(c *models.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID.String(),
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func ToCustomerList(list []models.Customer) []CustomerResponse {
	out := make([]CustomerResponse, 0, len(list))
	for i := range list {
		out = append(out, ToCustomerResponse(&list[i]))
	}
	return out
}

func ToBulkCreateResponse(res *service.BulkCreateResult) BulkCreateCustomersResponse {
	out := BulkCreateCustomersResponse{
		Customers: ToCustomerList(res.Customers),
		Errors:    []string{},
		Details:   make([]BulkCustomerError, 0, len(res.Errors)),
	}
	for _, e := range res.Errors {
		out.Errors = append(out.Errors, e.Messages...)
		out.Details = append(out.Details, BulkCustomerError{Index: e.Index, Email: e.Email, Messages: e.Messages})
	}
	return out
}

func ToCleanupResponse(res *service.CleanupResult) CleanupCustomersResponse {
	ids := make([]string, 0, len(res.CustomerIDs))
	for _, id := range res.CustomerIDs {
		ids = append(ids, id.String())
	}
	return CleanupCustomersResponse{
		DeletedCount: res.DeletedCount,
		CustomerIDs:  ids,
		Cutoff:       res.Cutoff.UTC().Format(time.RFC3339),
		DryRun:       res.DryRun,
	}
}
