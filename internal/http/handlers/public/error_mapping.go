package public

import (
	handlershared "github.com/fulfillcore/internal/http/handlers/shared"
	"github.com/fulfillcore/internal/http/response"

	"github.com/gin-gonic/gin"
)

var orderCreateErrorRules = handlershared.ConcatMappedErrors(
	handlershared.OrderErrorRules,
	handlershared.ProductErrorRules,
	handlershared.CouponErrorRules,
)

func respondProductError(c *gin.Context, err error) {
	handlershared.RespondMappedError(c, err, handlershared.ProductErrorRules, response.CodeInternal, "error.product_fetch_failed")
}

func respondCouponIssueError(c *gin.Context, err error) {
	handlershared.RespondMappedError(c, err, handlershared.CouponErrorRules, response.CodeInternal, "error.coupon_issue_failed")
}

func respondCouponError(c *gin.Context, err error) {
	handlershared.RespondMappedError(c, err, handlershared.CouponErrorRules, response.CodeInternal, "error.internal")
}

func respondOrderCreateError(c *gin.Context, err error) {
	handlershared.RespondMappedError(c, err, orderCreateErrorRules, response.CodeInternal, "error.order_create_failed")
}

func respondOrderCancelError(c *gin.Context, err error) {
	handlershared.RespondMappedError(c, err, handlershared.OrderErrorRules, response.CodeInternal, "error.order_cancel_failed")
}

func respondOrderFetchError(c *gin.Context, err error) {
	handlershared.RespondMappedError(c, err, handlershared.OrderErrorRules, response.CodeInternal, "error.order_fetch_failed")
}
