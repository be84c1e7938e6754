package handlers

import (
	"net/http"
	"time"

	"github.com/Deglobeal/alx-backend-graphql-crm/internal/dto"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/repository"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CustomerHandler struct {
	svc service.CustomerService
	log *zap.Logger
}

func NewCustomerHandler(svc service.CustomerService, log *zap.Logger) *CustomerHandler {
	return &CustomerHandler{svc: svc, log: log}
}

// Create godoc
// @Summary Создание клиента
// @Description Создаёт клиента; email уникален без учёта регистра
// @Tags customers
// @Accept json
// @Produce json
// @Param customer body dto.CreateCustomerRequest true "Данные клиента"
// @Success 201 {object} dto.CreateCustomerResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные данные"
// @Failure 409 {object} dto.ConflictErrorResponse "Email уже занят"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	var req dto.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, h.log, err)
		return
	}

	cust, err := h.svc.CreateCustomer(c.Request.Context(), req.ToInput())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.CreateCustomerResponse{
		Customer: dto.ToCustomerResponse(cust),
		Message:  "Customer created successfully.",
	})
}

// BulkCreate godoc
// @Summary Пакетное создание клиентов
// @Description Каждая строка проверяется отдельно; ошибочные строки попадают в errors и не отменяют остальные
// @Tags customers
// @Accept json
// @Produce json
// @Param customers body dto.BulkCreateCustomersRequest true "Список клиентов"
// @Success 200 {object} dto.BulkCreateCustomersResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные данные"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/customers/bulk [post]
func (h *CustomerHandler) BulkCreate(c *gin.Context) {
	var req dto.BulkCreateCustomersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, h.log, err)
		return
	}

	in := make([]service.CreateCustomerInput, 0, len(req.Customers))
	for _, r := range req.Customers {
		in = append(in, r.ToInput())
	}

	res, err := h.svc.BulkCreateCustomers(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToBulkCreateResponse(res))
}

// List godoc
// @Summary Список клиентов
// @Tags customers
// @Produce json
// @Param name query string false "Подстрока имени"
// @Param email query string false "Подстрока email"
// @Param phone_prefix query string false "Префикс телефона"
// @Param created_after query string false "RFC3339 или YYYY-MM-DD"
// @Param created_before query string false "RFC3339 или YYYY-MM-DD"
// @Param order_by query string false "name | -name | created_at | -created_at"
// @Param limit query int false "Размер страницы (по умолчанию 20)"
// @Param offset query int false "Смещение"
// @Success 200 {object} dto.CustomerListResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные параметры"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/customers [get]
func (h *CustomerHandler) List(c *gin.Context) {
	q := &queryParser{c: c}
	limit, offset := q.page()
	f := repository.CustomerListFilter{
		Name:          c.Query("name"),
		Email:         c.Query("email"),
		PhonePrefix:   c.Query("phone_prefix"),
		CreatedAfter:  q.date("created_after"),
		CreatedBefore: q.date("created_before"),
		OrderBy:       c.Query("order_by"),
		Limit:         limit,
		Offset:        offset,
	}
	if !q.ok() {
		q.reject()
		return
	}

	list, total, err := h.svc.ListCustomers(c.Request.Context(), f)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.CustomerListResponse{
		Items:  dto.ToCustomerList(list),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

// Get godoc
// @Summary Клиент по id
// @Tags customers
// @Produce json
// @Param id path string true "ID клиента"
// @Success 200 {object} dto.CustomerResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверный id"
// @Failure 404 {object} dto.NotFoundErrorResponse "Клиент не найден"
// @Router /api/v1/customers/{id} [get]
func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	cust, err := h.svc.GetCustomer(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToCustomerResponse(cust))
}

// Delete godoc
// @Summary Удаление клиента
// @Description Заказы клиента удаляются каскадно
// @Tags customers
// @Param id path string true "ID клиента"
// @Success 204
// @Failure 404 {object} dto.NotFoundErrorResponse "Клиент не найден"
// @Router /api/v1/customers/{id} [delete]
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteCustomer(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Cleanup godoc
// @Summary Удаление неактивных клиентов
// @Description Клиенты, созданные раньше cutoff и без заказов после него (по умолчанию 365 дней)
// @Tags customers
// @Accept json
// @Produce json
// @Param cleanup body dto.CleanupCustomersRequest false "Параметры"
// @Success 200 {object} dto.CleanupCustomersResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные данные"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/customers/cleanup [post]
func (h *CustomerHandler) Cleanup(c *gin.Context) {
	var req dto.CleanupCustomersRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			invalidBody(c, h.log, err)
			return
		}
	}

	in := service.CleanupInput{DryRun: req.DryRun}
	if req.InactiveDays != nil {
		if *req.InactiveDays <= 0 {
			badRequest(c, "inactive_days", "must be positive")
			return
		}
		in.InactiveFor = time.Duration(*req.InactiveDays) * 24 * time.Hour
	}

	res, err := h.svc.CleanupInactiveCustomers(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToCleanupResponse(res))
}
