package handlers

import (
	"net/http"
	"strconv"

	"github.com/Deglobeal/alx-backend-graphql-crm/internal/dto"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/repository"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OrderHandler struct {
	svc service.OrderService
	log *zap.Logger
}

func NewOrderHandler(svc service.OrderService, log *zap.Logger) *OrderHandler {
	return &OrderHandler{svc: svc, log: log}
}

// Create godoc
// @Summary Создание заказа
// @Description Заказ и позиции пишутся одной транзакцией; total = сумма цен × количество
// @Tags orders
// @Accept json
// @Produce json
// @Param order body dto.CreateOrderRequest true "Клиент и товары"
// @Success 201 {object} dto.OrderResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные данные или пустой заказ"
// @Failure 404 {object} dto.NotFoundErrorResponse "Клиент не найден"
// @Failure 422 {object} dto.InvalidReferenceErrorResponse "Неизвестный товар"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, h.log, err)
		return
	}

	in := service.CreateOrderInput{}
	if req.CustomerID != "" {
		id, err := uuid.Parse(req.CustomerID)
		if err != nil {
			badRequest(c, "customer_id", "must be a UUID")
			return
		}
		in.CustomerID = id
	}
	for i, s := range req.ProductIDs {
		id, err := uuid.Parse(s)
		if err != nil {
			badRequest(c, "product_ids["+strconv.Itoa(i)+"]", "must be a UUID")
			return
		}
		in.ProductIDs = append(in.ProductIDs, id)
	}
	for i, it := range req.Items {
		id, err := uuid.Parse(it.ProductID)
		if err != nil {
			badRequest(c, "items["+strconv.Itoa(i)+"].product_id", "must be a UUID")
			return
		}
		in.Items = append(in.Items, service.CreateOrderItem{ProductID: id, Quantity: it.Quantity})
	}

	ord, err := h.svc.CreateOrder(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToOrderResponse(ord))
}

// List godoc
// @Summary Список заказов
// @Tags orders
// @Produce json
// @Param customer_id query string false "ID клиента"
// @Param customer_name query string false "Подстрока имени клиента"
// @Param order_date_gte query string false "Дата от (RFC3339 или YYYY-MM-DD)"
// @Param order_date_lte query string false "Дата до (RFC3339 или YYYY-MM-DD)"
// @Param total_gte query string false "Сумма от"
// @Param total_lte query string false "Сумма до"
// @Param limit query int false "Размер страницы (по умолчанию 20)"
// @Param offset query int false "Смещение"
// @Success 200 {object} dto.OrderListResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные параметры"
// @Router /api/v1/orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	q := &queryParser{c: c}
	limit, offset := q.page()
	f := repository.OrderListFilter{
		CustomerID:   q.id("customer_id"),
		CustomerName: c.Query("customer_name"),
		DateFrom:     q.date("order_date_gte"),
		DateTo:       q.date("order_date_lte"),
		TotalGTE:     q.cents("total_gte"),
		TotalLTE:     q.cents("total_lte"),
		WithCustomer: true,
		Limit:        limit,
		Offset:       offset,
	}
	if !q.ok() {
		q.reject()
		return
	}

	list, total, err := h.svc.ListOrders(c.Request.Context(), f)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.OrderListResponse{
		Items:  dto.ToOrderList(list),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

// Get godoc
// @Summary Заказ по id
// @Tags orders
// @Produce json
// @Param id path string true "ID заказа"
// @Success 200 {object} dto.OrderResponse
// @Failure 404 {object} dto.NotFoundErrorResponse "Заказ не найден"
// @Router /api/v1/orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ord, err := h.svc.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToOrderResponse(ord))
}
