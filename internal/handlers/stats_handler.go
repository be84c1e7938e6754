package handlers

import (
	"net/http"

	"github.com/Deglobeal/alx-backend-graphql-crm/internal/dto"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type StatsHandler struct {
	svc service.ReportService
	log *zap.Logger
}

func NewStatsHandler(svc service.ReportService, log *zap.Logger) *StatsHandler {
	return &StatsHandler{svc: svc, log: log}
}

// Summary godoc
// @Summary Сводка CRM
// @Description Количество клиентов, заказов и выручка; пустая база даёт нули
// @Tags stats
// @Produce json
// @Success 200 {object} dto.StatsResponse
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/stats [get]
func (h *StatsHandler) Summary(c *gin.Context) {
	sum, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToStatsResponse(sum))
}

// Customers godoc
// @Summary Количество клиентов
// @Tags stats
// @Produce json
// @Success 200 {object} dto.CountResponse
// @Router /api/v1/stats/customers [get]
func (h *StatsHandler) Customers(c *gin.Context) {
	n, err := h.svc.TotalCustomers(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.CountResponse{Count: n})
}

// Orders godoc
// @Summary Количество заказов
// @Tags stats
// @Produce json
// @Success 200 {object} dto.CountResponse
// @Router /api/v1/stats/orders [get]
func (h *StatsHandler) Orders(c *gin.Context) {
	n, err := h.svc.TotalOrders(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.CountResponse{Count: n})
}

// Revenue godoc
// @Summary Выручка
// @Tags stats
// @Produce json
// @Success 200 {object} dto.RevenueResponse
// @Router /api/v1/stats/revenue [get]
func (h *StatsHandler) Revenue(c *gin.Context) {
	cents, err := h.svc.TotalRevenue(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToRevenueResponse(cents))
}
