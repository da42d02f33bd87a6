package public

import (
	handlershared "github.com/fulfillcore/internal/http/handlers/shared"
	"github.com/fulfillcore/internal/http/response"
	"github.com/fulfillcore/internal/repository"
	"github.com/fulfillcore/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// OrderItemRequest 订单项请求
type OrderItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

// CreateOrderRequest 创建订单请求
type CreateOrderRequest struct {
	Items        []OrderItemRequest `json:"items" binding:"required"`
	UserCouponID string             `json:"user_coupon_id"`
}

// CreateOrder 创建订单
func (h *Handler) CreateOrder(c *gin.Context) {
	memberID, ok := getMemberID(c)
	if !ok {
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	items := make([]service.CreateOrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.CreateOrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	_, span := tracer.Start(c.Request.Context(), "CreateOrder")
	defer span.End()
	span.SetAttributes(
		attribute.Int("order.lines", len(items)),
		attribute.Bool("order.with_coupon", req.UserCouponID != ""),
	)

	order, err := h.OrderService.CreateOrder(service.CreateOrderInput{
		MemberID:     memberID,
		Items:        items,
		UserCouponID: req.UserCouponID,
	})
	if err != nil {
		span.RecordError(err)
		respondOrderCreateError(c, err)
		return
	}
	span.SetAttributes(attribute.String("order.id", order.ID))
	response.Success(c, order)
}

// ListOrders 会员订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	memberID, ok := getMemberID(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.ParsePagination(c)
	orders, total, err := h.OrderService.ListOrdersByMember(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		MemberID: memberID,
		Status:   c.Query("status"),
	})
	if err != nil {
		respondOrderFetchError(c, err)
		return
	}
	response.SuccessWithPage(c, orders, response.BuildPagination(page, pageSize, total))
}

// GetOrder 会员订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	memberID, ok := getMemberID(c)
	if !ok {
		return
	}
	order, err := h.OrderService.GetOrderByMember(memberID, c.Param("id"))
	if err != nil {
		respondOrderFetchError(c, err)
		return
	}
	response.Success(c, order)
}

// CancelOrder 会员取消订单，重复取消返回当前订单
func (h *Handler) CancelOrder(c *gin.Context) {
	memberID, ok := getMemberID(c)
	if !ok {
		return
	}
	orderID := c.Param("id")
	_, span := tracer.Start(c.Request.Context(), "CancelOrder")
	defer span.End()
	span.SetAttributes(attribute.String("order.id", orderID))

	order, err := h.OrderService.CancelOrder(memberID, orderID)
	if err != nil {
		span.RecordError(err)
		respondOrderCancelError(c, err)
		return
	}
	response.Success(c, order)
}
