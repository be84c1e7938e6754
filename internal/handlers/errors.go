package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Deglobeal/alx-backend-graphql-crm/internal/dto"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError переводит доменную ошибку в HTTP-ответ.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		fields := make([]dto.FieldError, 0, len(ve.Violations))
		for _, v := range ve.Violations {
			fields = append(fields, dto.FieldError{Field: v.Field, Message: v.Message, Tag: v.Tag})
		}
		c.JSON(http.StatusBadRequest, dto.NewValidationError("validation failed", fields))
	case errors.Is(err, service.ErrEmptyOrder):
		c.JSON(http.StatusBadRequest, dto.NewEmptyOrderError("At least one product is required."))
	case errors.Is(err, service.ErrCustomerNotFound):
		c.JSON(http.StatusNotFound, dto.NewNotFoundError("Invalid customer ID."))
	case errors.Is(err, service.ErrProductNotFound):
		c.JSON(http.StatusNotFound, dto.NewNotFoundError("product not found"))
	case errors.Is(err, service.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, dto.NewNotFoundError("order not found"))
	case errors.Is(err, service.ErrInvalidProductReference):
		c.JSON(http.StatusUnprocessableEntity, dto.NewInvalidReferenceError(
			"One or more product IDs are invalid.", refDetails(err)))
	case errors.Is(err, service.ErrEmailAlreadyExists):
		c.JSON(http.StatusConflict, dto.NewConflictError("Email already exists."))
	default:
		log.Error("internal error", zap.String("path", c.FullPath()), zap.Error(err))
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
	}
}

func refDetails(err error) string {
	_, details, _ := strings.Cut(err.Error(), service.ErrInvalidProductReference.Error()+": ")
	return details
}

func badRequest(c *gin.Context, field, msg string) {
	c.JSON(http.StatusBadRequest, dto.NewValidationError("validation failed", []dto.FieldError{
		{Field: field, Message: msg},
	}))
}

func invalidBody(c *gin.Context, log *zap.Logger, err error) {
	log.Warn("invalid request body", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", []dto.FieldError{}))
}
