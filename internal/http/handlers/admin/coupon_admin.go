package admin

import (
	"strings"
	"time"

	handlershared "github.com/fulfillcore/internal/http/handlers/shared"
	"github.com/fulfillcore/internal/http/response"
	"github.com/fulfillcore/internal/models"
	"github.com/fulfillcore/internal/repository"
	"github.com/fulfillcore/internal/service"

	"github.com/gin-gonic/gin"
)

// CouponTemplateRequest 模板创建/更新请求
type CouponTemplateRequest struct {
	Name           string        `json:"name" binding:"required"`
	DiscountType   string        `json:"discount_type" binding:"required"`
	DiscountValue  models.Money  `json:"discount_value"`
	MinOrderAmount *models.Money `json:"min_order_amount"`
	ExpiredAt      time.Time     `json:"expired_at" binding:"required"`
	TotalQuantity  int           `json:"total_quantity"`
}

func (r CouponTemplateRequest) toInput() service.CouponTemplateInput {
	return service.CouponTemplateInput{
		Name:           r.Name,
		DiscountType:   r.DiscountType,
		DiscountValue:  r.DiscountValue,
		MinOrderAmount: r.MinOrderAmount,
		ExpiredAt:      r.ExpiredAt,
		TotalQuantity:  r.TotalQuantity,
	}
}

// GetCouponTemplates 模板列表
func (h *Handler) GetCouponTemplates(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	templates, total, err := h.CouponAdminService.List(repository.CouponTemplateListFilter{
		Page:        page,
		PageSize:    pageSize,
		Search:      strings.TrimSpace(c.Query("search")),
		OnlyIssuing: c.Query("only_issuing") == "true",
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.template_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, templates, response.BuildPagination(page, pageSize, total))
}

// GetCouponTemplate 模板详情
func (h *Handler) GetCouponTemplate(c *gin.Context) {
	template, err := h.CouponAdminService.GetByID(c.Param("id"))
	if err != nil {
		respondCouponError(c, err, "error.template_fetch_failed")
		return
	}
	response.Success(c, template)
}

// CreateCouponTemplate 创建模板
func (h *Handler) CreateCouponTemplate(c *gin.Context) {
	var req CouponTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	template, err := h.CouponAdminService.Create(req.toInput())
	if err != nil {
		respondCouponError(c, err, "error.template_save_failed")
		return
	}
	handlershared.InvalidateIssuingTemplates(c)
	response.Success(c, template)
}

// UpdateCouponTemplate 更新模板
func (h *Handler) UpdateCouponTemplate(c *gin.Context) {
	var req CouponTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	template, err := h.CouponAdminService.Update(c.Param("id"), req.toInput())
	if err != nil {
		respondCouponError(c, err, "error.template_save_failed")
		return
	}
	handlershared.InvalidateIssuingTemplates(c)
	response.Success(c, template)
}

// DeleteCouponTemplate 删除模板
func (h *Handler) DeleteCouponTemplate(c *gin.Context) {
	if err := h.CouponAdminService.Delete(c.Param("id")); err != nil {
		respondCouponError(c, err, "error.template_save_failed")
		return
	}
	handlershared.InvalidateIssuingTemplates(c)
	response.Success(c, nil)
}

// UseUserCoupon 手动核销会员优惠券
func (h *Handler) UseUserCoupon(c *gin.Context) {
	id, err := h.CouponService.UseCoupon(c.Param("id"))
	if err != nil {
		respondCouponError(c, err, "error.coupon_update_failed")
		return
	}
	response.Success(c, gin.H{"id": id})
}

// RestoreUserCoupon 手动恢复会员优惠券，已可用时 restored 为 false
func (h *Handler) RestoreUserCoupon(c *gin.Context) {
	restored, err := h.CouponService.RestoreCoupon(c.Param("id"))
	if err != nil {
		respondCouponError(c, err, "error.coupon_update_failed")
		return
	}
	response.Success(c, gin.H{"id": strings.TrimSpace(c.Param("id")), "restored": restored})
}
