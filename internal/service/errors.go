package service

import "errors"

// 错误分类，调用方可用 errors.Is 按分类判断
var (
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")
)

// domainError 具体业务错误，Unwrap 返回其所属分类
type domainError struct {
	kind error
	msg  string
}

func (e *domainError) Error() string {
	return e.msg
}

func (e *domainError) Unwrap() error {
	return e.kind
}

func newDomainError(kind error, msg string) error {
	return &domainError{kind: kind, msg: msg}
}

// 商品与库存
var (
	ErrProductNotFound      = newDomainError(ErrNotFound, "product not found")
	ErrProductInvalid       = newDomainError(ErrBadRequest, "product params invalid")
	ErrInvalidStockQuantity = newDomainError(ErrBadRequest, "stock quantity must be positive")
	ErrStockInsufficient    = newDomainError(ErrConflict, "stock insufficient")
)

// 优惠券
var (
	ErrCouponTemplateNotFound = newDomainError(ErrNotFound, "coupon template not found")
	ErrCouponTemplateInvalid  = newDomainError(ErrBadRequest, "coupon template params invalid")
	ErrCouponTemplateExpired  = newDomainError(ErrBadRequest, "coupon template expired")
	ErrCouponQuotaExhausted   = newDomainError(ErrConflict, "coupon quota exhausted")
	ErrCouponAlreadyIssued    = newDomainError(ErrConflict, "coupon already issued to member")
	ErrUserCouponNotFound     = newDomainError(ErrNotFound, "user coupon not found")
	ErrCouponAlreadyUsed      = newDomainError(ErrConflict, "coupon already used")
	ErrCouponNotOwned         = newDomainError(ErrForbidden, "coupon not owned by member")
	ErrCouponMinAmountNotMet  = newDomainError(ErrBadRequest, "order amount below coupon minimum")
	ErrInvalidAmount          = newDomainError(ErrBadRequest, "amount must not be negative")
)

// 订单
var (
	ErrInvalidMember         = newDomainError(ErrBadRequest, "invalid member id")
	ErrEmptyOrderItems       = newDomainError(ErrBadRequest, "order items required")
	ErrInvalidOrderItem      = newDomainError(ErrBadRequest, "invalid order item")
	ErrOrderNotFound         = newDomainError(ErrNotFound, "order not found")
	ErrOrderForbidden        = newDomainError(ErrForbidden, "order not owned by member")
	ErrOrderStatusInvalid    = newDomainError(ErrBadRequest, "order status transition not allowed")
	ErrOrderStatusConflicted = newDomainError(ErrConflict, "order status changed concurrently")
)

// Category 返回错误所属分类，未知错误返回 nil
func Category(err error) error {
	for _, kind := range []error{ErrNotFound, ErrBadRequest, ErrConflict, ErrForbidden} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
