package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fulfillcore/internal/logger"
	"github.com/fulfillcore/internal/metrics"
	"github.com/fulfillcore/internal/models"
	"github.com/fulfillcore/internal/repository"
)

// StockService 库存分配服务，只通过单条条件更新改变库存
type StockService struct {
	productRepo repository.ProductRepository
}

// NewStockService 创建库存服务
func NewStockService(productRepo repository.ProductRepository) *StockService {
	return &StockService{productRepo: productRepo}
}

// DecreaseStockIfAvailable 库存充足时扣减，返回是否扣减成功
func (s *StockService) DecreaseStockIfAvailable(productID string, quantity int) (bool, error) {
	if err := validateStockParams(productID, quantity); err != nil {
		return false, err
	}
	if _, err := findProduct(s.productRepo, productID); err != nil {
		return false, err
	}
	return decreaseStock(s.productRepo, productID, quantity)
}

// IncreaseStock 回补库存
func (s *StockService) IncreaseStock(productID string, quantity int) error {
	if err := validateStockParams(productID, quantity); err != nil {
		return err
	}
	ok, err := s.productRepo.IncreaseStock(productID, quantity)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: product_id=%s", ErrProductNotFound, productID)
	}
	logger.Infow("stock_increased", "product_id", productID, "quantity", quantity)
	return nil
}

func validateStockParams(productID string, quantity int) error {
	if strings.TrimSpace(productID) == "" {
		return ErrProductInvalid
	}
	if quantity <= 0 {
		return ErrInvalidStockQuantity
	}
	return nil
}

// findProduct 获取未删除的商品，不存在时返回 ErrProductNotFound
func findProduct(productRepo repository.ProductRepository, productID string) (*models.Product, error) {
	product, err := productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: product_id=%s", ErrProductNotFound, productID)
	}
	return product, nil
}

func decreaseStock(productRepo repository.ProductRepository, productID string, quantity int) (bool, error) {
	ok, err := productRepo.DecreaseStockIfAvailable(productID, quantity)
	if errors.Is(err, repository.ErrInvalidStockParams) {
		metrics.RecordStockDecrease(metrics.ResultRejected)
		return false, fmt.Errorf("%w: product_id=%s quantity=%d", ErrInvalidStockQuantity, productID, quantity)
	}
	if err != nil {
		metrics.RecordStockDecrease(metrics.ResultError)
		return false, err
	}
	if !ok {
		metrics.RecordStockDecrease(metrics.ResultRejected)
		logger.Debugw("stock_decrease_rejected", "product_id", productID, "quantity", quantity)
		return false, nil
	}
	metrics.RecordStockDecrease(metrics.ResultOK)
	return true, nil
}

// allocateStock 供事务内调用，库存不足时返回 ErrStockInsufficient 以回滚整个事务
func allocateStock(productRepo repository.ProductRepository, productID string, quantity int) error {
	ok, err := decreaseStock(productRepo, productID, quantity)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: product_id=%s quantity=%d", ErrStockInsufficient, productID, quantity)
	}
	return nil
}

// restoreStockByItems 按订单项回补库存，已删除的商品跳过
func restoreStockByItems(productRepo repository.ProductRepository, items []models.OrderItem) error {
	for _, item := range items {
		if item.ProductID == "" || item.Quantity <= 0 {
			continue
		}
		ok, err := productRepo.IncreaseStock(item.ProductID, item.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			logger.Warnw("stock_restore_skipped_product_missing",
				"order_id", item.OrderID,
				"product_id", item.ProductID,
				"quantity", item.Quantity,
			)
		}
	}
	return nil
}
