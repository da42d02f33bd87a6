package shared

import (
	"errors"

	"github.com/fulfillcore/internal/http/response"
	"github.com/fulfillcore/internal/service"

	"github.com/gin-gonic/gin"
)

// MappedError 定义业务错误到接口错误响应的映射关系。
type MappedError struct {
	Target error
	Code   int
	Key    string
}

// categoryRules 具体规则未命中时按错误类别兜底
var categoryRules = []MappedError{
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.not_found"},
	{Target: service.ErrBadRequest, Code: response.CodeBadRequest, Key: "error.bad_request"},
	{Target: service.ErrConflict, Code: response.CodeConflict, Key: "error.conflict"},
	{Target: service.ErrForbidden, Code: response.CodeForbidden, Key: "error.forbidden"},
}

// RespondMappedError 依次匹配规则与错误类别，均未命中时返回兜底错误并记录日志。
func RespondMappedError(c *gin.Context, err error, rules []MappedError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.Target) {
			RespondError(c, rule.Code, rule.Key, nil)
			return
		}
	}
	for _, rule := range categoryRules {
		if errors.Is(err, rule.Target) {
			RespondError(c, rule.Code, rule.Key, nil)
			return
		}
	}
	RespondError(c, fallbackCode, fallbackKey, err)
}

// ConcatMappedErrors 合并多组映射规则。
func ConcatMappedErrors(groups ...[]MappedError) []MappedError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]MappedError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

// ProductErrorRules 商品与库存相关错误
var ProductErrorRules = []MappedError{
	{Target: service.ErrProductNotFound, Code: response.CodeNotFound, Key: "error.product_not_found"},
	{Target: service.ErrProductInvalid, Code: response.CodeBadRequest, Key: "error.product_invalid"},
	{Target: service.ErrInvalidStockQuantity, Code: response.CodeBadRequest, Key: "error.stock_quantity_invalid"},
	{Target: service.ErrStockInsufficient, Code: response.CodeConflict, Key: "error.stock_insufficient"},
}

// CouponErrorRules 优惠券相关错误
var CouponErrorRules = []MappedError{
	{Target: service.ErrCouponTemplateNotFound, Code: response.CodeNotFound, Key: "error.template_not_found"},
	{Target: service.ErrCouponTemplateInvalid, Code: response.CodeBadRequest, Key: "error.template_invalid"},
	{Target: service.ErrCouponTemplateExpired, Code: response.CodeBadRequest, Key: "error.template_expired"},
	{Target: service.ErrCouponQuotaExhausted, Code: response.CodeConflict, Key: "error.coupon_quota_exhausted"},
	{Target: service.ErrCouponAlreadyIssued, Code: response.CodeConflict, Key: "error.coupon_already_issued"},
	{Target: service.ErrUserCouponNotFound, Code: response.CodeNotFound, Key: "error.coupon_not_found"},
	{Target: service.ErrCouponAlreadyUsed, Code: response.CodeConflict, Key: "error.coupon_already_used"},
	{Target: service.ErrCouponNotOwned, Code: response.CodeForbidden, Key: "error.coupon_not_owned"},
	{Target: service.ErrCouponMinAmountNotMet, Code: response.CodeBadRequest, Key: "error.coupon_min_amount"},
	{Target: service.ErrInvalidAmount, Code: response.CodeBadRequest, Key: "error.amount_invalid"},
	{Target: service.ErrInvalidMember, Code: response.CodeBadRequest, Key: "error.member_id_invalid"},
}

// OrderErrorRules 订单相关错误
var OrderErrorRules = []MappedError{
	{Target: service.ErrInvalidMember, Code: response.CodeBadRequest, Key: "error.member_id_invalid"},
	{Target: service.ErrEmptyOrderItems, Code: response.CodeBadRequest, Key: "error.order_items_empty"},
	{Target: service.ErrInvalidOrderItem, Code: response.CodeBadRequest, Key: "error.order_item_invalid"},
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Key: "error.order_not_found"},
	{Target: service.ErrOrderForbidden, Code: response.CodeForbidden, Key: "error.order_forbidden"},
	{Target: service.ErrOrderStatusInvalid, Code: response.CodeBadRequest, Key: "error.order_status_invalid"},
	{Target: service.ErrOrderStatusConflicted, Code: response.CodeConflict, Key: "error.order_status_conflicted"},
}
