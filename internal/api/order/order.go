package order

import (
	"context"
	"marketplace-backend/internal/api"
	"marketplace-backend/internal/errors"
	"marketplace-backend/internal/middleware"
	"marketplace-backend/internal/model"
	"marketplace-backend/internal/policy"
	"marketplace-backend/internal/presenter"
	"net/http"

	"github.com/gin-gonic/gin"
)

type OrderService interface {
	ListOrders(ctx context.Context, p *policy.Principal) ([]*model.Order, error)
	GetOrder(ctx context.Context, p *policy.Principal, id int) (*model.Order, error)
	UpdateStatus(ctx context.Context, p *policy.Principal, id int, status string) error
}

type OrderHandler struct {
	orderService OrderService
}

func NewOrderHandler(orderService OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

type updateStatusRequest struct {
	ID     int    `json:"id"`
	Status string `json:"status"`
}

// ListOrders 订单列表
func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders, err := h.orderService.ListOrders(c.Request.Context(), middleware.CurrentPrincipal(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": presenter.Orders(orders)})
}

// GetOrder 订单详情，包含状态变更记录
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := api.ParamID(c, "id")
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	order, err := h.orderService.GetOrder(c.Request.Context(), middleware.CurrentPrincipal(c), id)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, presenter.OrderDetail(order))
}

// UpdateStatus PATCH {id, status}
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := api.BindJSON(c, &req); err != nil {
		errors.HandleError(c, err)
		return
	}
	if err := h.orderService.UpdateStatus(c.Request.Context(), middleware.CurrentPrincipal(c), req.ID, req.Status); err != nil {
		errors.HandleError(c, err)
		return
	}
	api.OK(c)
}
