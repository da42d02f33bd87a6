package service

import (
	"strings"

	"github.com/fulfillcore/internal/config"
	"github.com/fulfillcore/internal/models"
	"github.com/fulfillcore/internal/repository"
)

// CancelStockPolicy 订单取消时的库存处理策略
type CancelStockPolicy interface {
	Name() string
	// OnCancel 在取消事务内执行，productRepo 已绑定事务
	OnCancel(productRepo repository.ProductRepository, order *models.Order) error
}

// RetainStockPolicy 取消后不回补库存
type RetainStockPolicy struct{}

// Name 策略名称
func (RetainStockPolicy) Name() string {
	return config.CancelStockPolicyRetain
}

// OnCancel 不做任何处理
func (RetainStockPolicy) OnCancel(repository.ProductRepository, *models.Order) error {
	return nil
}

// RestoreStockPolicy 取消后按订单项回补库存
type RestoreStockPolicy struct{}

// Name 策略名称
func (RestoreStockPolicy) Name() string {
	return config.CancelStockPolicyRestore
}

// OnCancel 按订单项逐一回补
func (RestoreStockPolicy) OnCancel(productRepo repository.ProductRepository, order *models.Order) error {
	if order == nil {
		return nil
	}
	return restoreStockByItems(productRepo, order.Items)
}

// NewCancelStockPolicy 按名称创建策略，未知名称按 retain 处理
func NewCancelStockPolicy(name string) CancelStockPolicy {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case config.CancelStockPolicyRestore:
		return RestoreStockPolicy{}
	default:
		return RetainStockPolicy{}
	}
}
