package constants

// 订单状态常量
const (
	OrderStatusPending  = "pending"
	OrderStatusCanceled = "canceled"
)

// 优惠券模板折扣类型常量
const (
	DiscountTypeFixed = "fixed" // 固定金额
	DiscountTypeRate  = "rate"  // 百分比折扣
)

// 会员优惠券状态常量
const (
	UserCouponStatusAvailable = "available"
	UserCouponStatusUsed      = "used"
)

// 异步任务队列常量
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 订单取消来源
const (
	CancelSourceMember = "member"
	CancelSourceAdmin  = "admin"
	CancelSourceSystem = "system"
)

// 异步任务类型常量
const (
	TaskOrderTimeoutCancel = "order:timeout_cancel"
)
