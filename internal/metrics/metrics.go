package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// 业务结果标签
const (
	ResultOK        = "ok"
	ResultRejected  = "rejected"
	ResultDuplicate = "duplicate"
	ResultNoop      = "noop"
	ResultError     = "error"
)

var (
	// HTTPRequestsTotal HTTP 请求计数
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fulfillcore_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// HTTPRequestDuration HTTP 请求耗时
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fulfillcore_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// StockDecreaseTotal 条件扣减库存结果
	StockDecreaseTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fulfillcore_stock_decrease_total",
			Help: "Conditional stock decrease attempts by result",
		},
		[]string{"result"},
	)

	// CouponIssueTotal 优惠券发放结果
	CouponIssueTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fulfillcore_coupon_issue_total",
			Help: "Coupon issuance attempts by result",
		},
		[]string{"result"},
	)

	// CouponTransitionTotal 优惠券状态迁移结果
	CouponTransitionTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fulfillcore_coupon_transition_total",
			Help: "Coupon use/restore transitions by result",
		},
		[]string{"transition", "result"},
	)

	// OrderOperationTotal 订单创建与取消结果
	OrderOperationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fulfillcore_order_operation_total",
			Help: "Order create/cancel operations by result",
		},
		[]string{"operation", "result"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(StockDecreaseTotal)
	prometheus.MustRegister(CouponIssueTotal)
	prometheus.MustRegister(CouponTransitionTotal)
	prometheus.MustRegister(OrderOperationTotal)
}

// RecordStockDecrease 记录库存扣减结果
func RecordStockDecrease(result string) {
	StockDecreaseTotal.WithLabelValues(result).Inc()
}

// RecordCouponIssue 记录优惠券发放结果
func RecordCouponIssue(result string) {
	CouponIssueTotal.WithLabelValues(result).Inc()
}

// RecordCouponTransition 记录优惠券状态迁移结果
func RecordCouponTransition(transition, result string) {
	CouponTransitionTotal.WithLabelValues(transition, result).Inc()
}

// RecordOrderOperation 记录订单操作结果
func RecordOrderOperation(operation, result string) {
	OrderOperationTotal.WithLabelValues(operation, result).Inc()
}
