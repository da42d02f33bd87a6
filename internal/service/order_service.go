package service

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/fulfillcore/internal/constants"
	"github.com/fulfillcore/internal/logger"
	"github.com/fulfillcore/internal/metrics"
	"github.com/fulfillcore/internal/models"
	"github.com/fulfillcore/internal/queue"
	"github.com/fulfillcore/internal/repository"

	"gorm.io/gorm"
)

const expiredOrderSweepLimit = 100

// OrderService 订单服务
type OrderService struct {
	orderRepo     repository.OrderRepository
	productRepo   repository.ProductRepository
	couponService *CouponService
	stockPolicy   CancelStockPolicy
	queueClient   *queue.Client
	expireMinutes int
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, couponService *CouponService, stockPolicy CancelStockPolicy, queueClient *queue.Client, expireMinutes int) *OrderService {
	if stockPolicy == nil {
		stockPolicy = RetainStockPolicy{}
	}
	return &OrderService{
		orderRepo:     orderRepo,
		productRepo:   productRepo,
		couponService: couponService,
		stockPolicy:   stockPolicy,
		queueClient:   queueClient,
		expireMinutes: expireMinutes,
	}
}

// CreateOrderInput 创建订单输入
type CreateOrderInput struct {
	MemberID     string
	Items        []CreateOrderItem
	UserCouponID string // 可选
}

// CreateOrderItem 创建订单项输入
type CreateOrderItem struct {
	ProductID string
	Quantity  int
}

// CreateOrder 创建订单，库存扣减、快照与优惠券占用在同一事务内完成
func (s *OrderService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	memberID, err := normalizeMemberID(input.MemberID)
	if err != nil {
		return nil, err
	}
	if len(input.Items) == 0 {
		return nil, ErrEmptyOrderItems
	}
	lines, err := mergeCreateOrderItems(input.Items)
	if err != nil {
		return nil, err
	}
	userCouponID := strings.TrimSpace(input.UserCouponID)

	now := time.Now()
	order := &models.Order{
		MemberID: memberID,
		Status:   constants.OrderStatusPending,
	}
	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		productRepo := s.productRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)

		items := make([]models.OrderItem, 0, len(lines))
		total := models.ZeroMoney()
		for _, line := range lines {
			product, err := findProduct(productRepo, line.ProductID)
			if err != nil {
				return err
			}
			if err := allocateStock(productRepo, line.ProductID, line.Quantity); err != nil {
				return err
			}
			item := models.NewOrderItemSnapshot(product, line.Quantity)
			items = append(items, item)
			total = total.Plus(item.Subtotal)
		}

		discount := models.ZeroMoney()
		if userCouponID != "" {
			applied, err := s.couponService.WithTx(tx).applyToOrder(userCouponID, memberID, total, now)
			if err != nil {
				return err
			}
			discount = applied
			order.UserCouponID = &userCouponID
		}
		order.TotalAmount = total
		order.DiscountAmount = discount
		order.PaymentAmount = total.Minus(discount)
		return orderRepo.Create(order, items)
	})
	if err != nil {
		metrics.RecordOrderOperation("create", orderResultLabel(err))
		logger.Debugw("order_create_rejected", "member_id", memberID, "error", err)
		return nil, err
	}
	metrics.RecordOrderOperation("create", metrics.ResultOK)
	logger.Infow("order_created",
		"order_id", order.ID,
		"member_id", memberID,
		"items", len(order.Items),
		"total_amount", order.TotalAmount.String(),
		"discount_amount", order.DiscountAmount.String(),
	)
	s.enqueueTimeoutCancel(order)
	return order, nil
}

// CancelOrder 会员取消订单，重复取消静默成功
func (s *OrderService) CancelOrder(memberID, orderID string) (*models.Order, error) {
	order, err := s.GetOrderByMember(memberID, orderID)
	if err != nil {
		return nil, err
	}
	return s.cancelOrder(order, constants.CancelSourceMember)
}

// CancelExpiredOrder 系统取消超时未处理的订单
func (s *OrderService) CancelExpiredOrder(orderID string) (*models.Order, error) {
	order, err := s.findOrder(orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != constants.OrderStatusPending {
		return order, nil
	}
	if s.expireMinutes > 0 {
		deadline := order.CreatedAt.Add(time.Duration(s.expireMinutes) * time.Minute)
		if deadline.After(time.Now()) {
			return order, nil
		}
	}
	return s.cancelOrder(order, constants.CancelSourceSystem)
}

// CancelExpiredOrders 扫描并取消超时的待处理订单，返回成功取消的数量
func (s *OrderService) CancelExpiredOrders(now time.Time, limit int) (int, error) {
	if s.expireMinutes <= 0 {
		return 0, nil
	}
	if limit <= 0 {
		limit = expiredOrderSweepLimit
	}
	deadline := now.Add(-time.Duration(s.expireMinutes) * time.Minute)
	orders, _, err := s.orderRepo.ListAdmin(repository.OrderListFilter{
		Page:      1,
		PageSize:  limit,
		Status:    constants.OrderStatusPending,
		CreatedTo: &deadline,
	})
	if err != nil {
		return 0, err
	}
	canceled := 0
	for i := range orders {
		if _, err := s.cancelOrder(&orders[i], constants.CancelSourceSystem); err != nil {
			logger.Warnw("order_expire_sweep_cancel_failed", "order_id", orders[i].ID, "error", err)
			continue
		}
		canceled++
	}
	return canceled, nil
}

// UpdateOrderStatus 管理端更新订单状态
func (s *OrderService) UpdateOrderStatus(orderID, targetStatus string) (*models.Order, error) {
	order, err := s.findOrder(orderID)
	if err != nil {
		return nil, err
	}
	target := normalizeOrderStatus(targetStatus)
	if !isTransitionAllowed(order.Status, target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrOrderStatusInvalid, order.Status, target)
	}
	if order.Status == target {
		return order, nil
	}
	return s.cancelOrder(order, constants.CancelSourceAdmin)
}

// GetOrderByMember 获取会员自己的订单
func (s *OrderService) GetOrderByMember(memberID, orderID string) (*models.Order, error) {
	order, err := s.findOrder(orderID)
	if err != nil {
		return nil, err
	}
	if order.MemberID != strings.TrimSpace(memberID) {
		return nil, fmt.Errorf("%w: order_id=%s", ErrOrderForbidden, order.ID)
	}
	return order, nil
}

// GetOrderForAdmin 管理端获取订单
func (s *OrderService) GetOrderForAdmin(orderID string) (*models.Order, error) {
	return s.findOrder(orderID)
}

// ListOrdersByMember 会员订单列表
func (s *OrderService) ListOrdersByMember(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	if strings.TrimSpace(filter.MemberID) == "" {
		return nil, 0, ErrInvalidMember
	}
	return s.orderRepo.ListByMember(filter)
}

// ListOrdersForAdmin 管理端订单列表
func (s *OrderService) ListOrdersForAdmin(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListAdmin(filter)
}

func (s *OrderService) findOrder(orderID string) (*models.Order, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: order_id=%s", ErrOrderNotFound, orderID)
	}
	return order, nil
}

// cancelOrder 待处理 -> 已取消，并恢复优惠券、按策略处理库存；只有赢得状态更新的调用执行补偿
func (s *OrderService) cancelOrder(order *models.Order, source string) (*models.Order, error) {
	if order.Status == constants.OrderStatusCanceled {
		return order, nil
	}
	if !isTransitionAllowed(order.Status, constants.OrderStatusCanceled) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrOrderStatusInvalid, order.Status, constants.OrderStatusCanceled)
	}

	now := time.Now()
	compensated := false
	err := s.orderRepo.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		ok, err := orderRepo.UpdateStatusIf(order.ID, constants.OrderStatusPending, constants.OrderStatusCanceled, map[string]interface{}{
			"canceled_at": now,
		})
		if err != nil {
			return err
		}
		if !ok {
			current, err := orderRepo.GetByID(order.ID)
			if err != nil {
				return err
			}
			if current != nil && current.Status == constants.OrderStatusCanceled {
				*order = *current
				return nil
			}
			return fmt.Errorf("%w: order_id=%s", ErrOrderStatusConflicted, order.ID)
		}

		if order.UserCouponID != nil && *order.UserCouponID != "" {
			if _, err := s.couponService.WithTx(tx).restoreIfUsed(*order.UserCouponID); err != nil {
				return err
			}
		}
		if err := s.stockPolicy.OnCancel(s.productRepo.WithTx(tx), order); err != nil {
			return err
		}
		compensated = true
		return nil
	})
	if err != nil {
		metrics.RecordOrderOperation("cancel", orderResultLabel(err))
		logger.Warnw("order_cancel_failed", "order_id", order.ID, "source", source, "error", err)
		return nil, err
	}
	if !compensated {
		metrics.RecordOrderOperation("cancel", metrics.ResultNoop)
		return order, nil
	}

	order.Status = constants.OrderStatusCanceled
	order.CanceledAt = &now
	metrics.RecordOrderOperation("cancel", metrics.ResultOK)
	logger.Infow("order_canceled",
		"order_id", order.ID,
		"source", source,
		"stock_policy", s.stockPolicy.Name(),
		"coupon_restored", order.UserCouponID != nil,
	)
	return order, nil
}

func (s *OrderService) enqueueTimeoutCancel(order *models.Order) {
	if s.queueClient == nil || !s.queueClient.Enabled() || s.expireMinutes <= 0 {
		return
	}
	delay := time.Duration(s.expireMinutes) * time.Minute
	if err := s.queueClient.EnqueueOrderTimeoutCancel(queue.OrderTimeoutCancelPayload{OrderID: order.ID}, delay); err != nil {
		logger.Errorw("order_enqueue_timeout_cancel_failed",
			"order_id", order.ID,
			"delay_minutes", s.expireMinutes,
			"error", err,
		)
	}
}

// mergeCreateOrderItems 合并重复商品的下单项，并按商品 ID 字典序排列以固定加锁顺序
func mergeCreateOrderItems(items []CreateOrderItem) ([]CreateOrderItem, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrderItems
	}
	merged := make([]CreateOrderItem, 0, len(items))
	indexMap := make(map[string]int, len(items))
	for _, item := range items {
		productID := strings.TrimSpace(item.ProductID)
		if productID == "" || item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: product_id=%q quantity=%d", ErrInvalidOrderItem, item.ProductID, item.Quantity)
		}
		if idx, ok := indexMap[productID]; ok {
			if merged[idx].Quantity > math.MaxInt-item.Quantity {
				return nil, fmt.Errorf("%w: product_id=%q quantity overflows", ErrInvalidOrderItem, productID)
			}
			merged[idx].Quantity += item.Quantity
			continue
		}
		indexMap[productID] = len(merged)
		merged = append(merged, CreateOrderItem{
			ProductID: productID,
			Quantity:  item.Quantity,
		})
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].ProductID < merged[j].ProductID
	})
	return merged, nil
}

func orderResultLabel(err error) string {
	if Category(err) != nil {
		return metrics.ResultRejected
	}
	return metrics.ResultError
}
