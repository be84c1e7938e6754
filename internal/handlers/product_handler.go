package handlers

import (
	"net/http"

	"github.com/Deglobeal/alx-backend-graphql-crm/internal/dto"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/repository"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProductHandler struct {
	svc service.ProductService
	log *zap.Logger
}

func NewProductHandler(svc service.ProductService, log *zap.Logger) *ProductHandler {
	return &ProductHandler{svc: svc, log: log}
}

// Create godoc
// @Summary Создание товара
// @Description Цена — строка или число, не больше двух знаков после точки
// @Tags products
// @Accept json
// @Produce json
// @Param product body dto.CreateProductRequest true "Данные товара"
// @Success 201 {object} dto.ProductResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные данные"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, h.log, err)
		return
	}

	var cents int64
	if req.Price != "" {
		v, err := req.Price.Cents()
		if err != nil {
			badRequest(c, "price", "Enter a valid decimal price with at most two decimal places.")
			return
		}
		cents = v
	}

	p, err := h.svc.CreateProduct(c.Request.Context(), service.CreateProductInput{
		Name:       req.Name,
		PriceCents: cents,
		Stock:      req.Stock,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToProductResponse(p))
}

// List godoc
// @Summary Список товаров
// @Tags products
// @Produce json
// @Param name query string false "Подстрока названия"
// @Param price_gte query string false "Цена от"
// @Param price_lte query string false "Цена до"
// @Param stock_lt query int false "Остаток меньше"
// @Param order_by query string false "name | -name | price | -price | stock | -stock"
// @Param limit query int false "Размер страницы (по умолчанию 20)"
// @Param offset query int false "Смещение"
// @Success 200 {object} dto.ProductListResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные параметры"
// @Router /api/v1/products [get]
func (h *ProductHandler) List(c *gin.Context) {
	q := &queryParser{c: c}
	limit, offset := q.page()
	f := repository.ProductListFilter{
		Name:     c.Query("name"),
		PriceGTE: q.cents("price_gte"),
		PriceLTE: q.cents("price_lte"),
		StockLT:  q.int32Ptr("stock_lt"),
		OrderBy:  c.Query("order_by"),
		Limit:    limit,
		Offset:   offset,
	}
	if !q.ok() {
		q.reject()
		return
	}

	list, total, err := h.svc.ListProducts(c.Request.Context(), f)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ProductListResponse{
		Items:  dto.ToProductList(list),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

// Get godoc
// @Summary Товар по id
// @Tags products
// @Produce json
// @Param id path string true "ID товара"
// @Success 200 {object} dto.ProductResponse
// @Failure 404 {object} dto.NotFoundErrorResponse "Товар не найден"
// @Router /api/v1/products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	p, err := h.svc.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToProductResponse(p))
}

// Delete godoc
// @Summary Удаление товара
// @Description Позиции заказов с этим товаром удаляются каскадно
// @Tags products
// @Param id path string true "ID товара"
// @Success 204
// @Failure 404 {object} dto.NotFoundErrorResponse "Товар не найден"
// @Router /api/v1/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Replenish godoc
// @Summary Пополнение остатков
// @Description Товары с stock < threshold получают stock = floor; с increment — stock += increment
// @Tags products
// @Accept json
// @Produce json
// @Param replenish body dto.ReplenishRequest false "Параметры пополнения"
// @Success 200 {object} dto.ReplenishResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные данные"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/products/replenish [post]
func (h *ProductHandler) Replenish(c *gin.Context) {
	var req dto.ReplenishRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			invalidBody(c, h.log, err)
			return
		}
	}

	res, err := h.svc.ReplenishLowStock(c.Request.Context(), req.ToInput())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToReplenishResponse(res))
}
