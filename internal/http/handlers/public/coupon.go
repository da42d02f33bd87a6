package public

import (
	"time"

	"github.com/fulfillcore/internal/cache"
	handlershared "github.com/fulfillcore/internal/http/handlers/shared"
	"github.com/fulfillcore/internal/http/response"
	"github.com/fulfillcore/internal/models"
	"github.com/fulfillcore/internal/repository"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// CalculateDiscountRequest 优惠金额试算请求
type CalculateDiscountRequest struct {
	Amount models.Money `json:"amount"`
}

// ListIssuingTemplates 可领取的优惠券模板
func (h *Handler) ListIssuingTemplates(c *gin.Context) {
	ctx := c.Request.Context()
	if snapshot, hit, err := cache.GetIssuingTemplates(ctx); err == nil && hit {
		response.Success(c, snapshot.Items)
		return
	}
	templates, _, err := h.CouponAdminService.List(repository.CouponTemplateListFilter{
		Page:        1,
		PageSize:    100,
		OnlyIssuing: true,
		Now:         time.Now(),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.template_fetch_failed", err)
		return
	}
	if err := cache.SetIssuingTemplates(ctx, templates); err != nil {
		handlershared.RequestLog(c).Warnw("coupon_templates_cache_set_failed", "error", err)
	}
	response.Success(c, templates)
}

// IssueCoupon 领取优惠券
func (h *Handler) IssueCoupon(c *gin.Context) {
	memberID, ok := getMemberID(c)
	if !ok {
		return
	}
	templateID := c.Param("id")
	_, span := tracer.Start(c.Request.Context(), "IssueCoupon")
	defer span.End()
	span.SetAttributes(attribute.String("coupon.template_id", templateID))

	coupon, err := h.CouponService.IssueCoupon(templateID, memberID)
	if err != nil {
		span.RecordError(err)
		respondCouponIssueError(c, err)
		return
	}
	handlershared.InvalidateIssuingTemplates(c)
	response.Success(c, coupon)
}

// ListMyCoupons 会员优惠券列表
func (h *Handler) ListMyCoupons(c *gin.Context) {
	memberID, ok := getMemberID(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.ParsePagination(c)
	coupons, total, err := h.CouponService.ListMemberCoupons(repository.UserCouponListFilter{
		Page:     page,
		PageSize: pageSize,
		MemberID: memberID,
		Status:   c.Query("status"),
	})
	if err != nil {
		respondCouponError(c, err)
		return
	}
	response.SuccessWithPage(c, coupons, response.BuildPagination(page, pageSize, total))
}

// CalculateDiscount 试算优惠券抵扣金额，不改变优惠券状态
func (h *Handler) CalculateDiscount(c *gin.Context) {
	memberID, ok := getMemberID(c)
	if !ok {
		return
	}
	var req CalculateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	discount, err := h.CouponService.CalculateDiscount(c.Param("id"), memberID, req.Amount)
	if err != nil {
		respondCouponError(c, err)
		return
	}
	response.Success(c, gin.H{
		"amount":   req.Amount,
		"discount": discount,
		"payable":  req.Amount.Minus(discount),
	})
}
