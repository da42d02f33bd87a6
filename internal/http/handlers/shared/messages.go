package shared

var messages = map[string]string{
	"error.bad_request":              "bad request",
	"error.unauthorized":             "unauthorized",
	"error.forbidden":                "forbidden",
	"error.not_found":                "resource not found",
	"error.conflict":                 "resource state conflict",
	"error.internal":                 "internal server error",
	"error.jwt_secret_missing":       "jwt secret is not configured",
	"error.auth_header_missing":      "authorization header missing",
	"error.auth_header_invalid":      "authorization header invalid",
	"error.token_invalid":            "token invalid",
	"error.rate_limited":             "too many requests, retry in %d seconds",
	"error.rate_limit_unavailable":   "rate limiter unavailable",
	"error.member_id_invalid":        "member id invalid",
	"error.product_not_found":        "product not found",
	"error.product_invalid":          "product params invalid",
	"error.stock_quantity_invalid":   "stock quantity must be positive",
	"error.stock_insufficient":       "stock insufficient",
	"error.template_not_found":       "coupon template not found",
	"error.template_invalid":         "coupon template params invalid",
	"error.template_expired":         "coupon template expired",
	"error.coupon_quota_exhausted":   "coupon quota exhausted",
	"error.coupon_already_issued":    "coupon already issued",
	"error.coupon_not_found":         "coupon not found",
	"error.coupon_already_used":      "coupon already used",
	"error.coupon_not_owned":         "coupon does not belong to member",
	"error.coupon_min_amount":        "order amount below coupon minimum",
	"error.amount_invalid":           "amount invalid",
	"error.order_items_empty":        "order items required",
	"error.order_item_invalid":       "order item invalid",
	"error.order_not_found":          "order not found",
	"error.order_forbidden":          "order does not belong to member",
	"error.order_status_invalid":     "order status transition not allowed",
	"error.order_status_conflicted":  "order status changed concurrently",
	"error.order_create_failed":      "create order failed",
	"error.order_cancel_failed":      "cancel order failed",
	"error.order_fetch_failed":       "fetch order failed",
	"error.coupon_issue_failed":      "issue coupon failed",
	"error.coupon_update_failed":     "update coupon failed",
	"error.product_fetch_failed":     "fetch product failed",
	"error.product_save_failed":      "save product failed",
	"error.template_save_failed":     "save coupon template failed",
	"error.template_fetch_failed":    "fetch coupon template failed",
	"error.stock_update_failed":      "update stock failed",
}

// Message 根据 key 取提示文案，未知 key 原样返回。
func Message(key string) string {
	if msg, ok := messages[key]; ok {
		return msg
	}
	return key
}
