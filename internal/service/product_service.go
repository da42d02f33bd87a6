package service

import (
	"fmt"
	"strings"

	"github.com/fulfillcore/internal/logger"
	"github.com/fulfillcore/internal/models"
	"github.com/fulfillcore/internal/repository"
)

// ProductService 商品业务服务
type ProductService struct {
	repo repository.ProductRepository
}

// NewProductService 创建商品服务
func NewProductService(repo repository.ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

// CreateProductInput 创建/更新商品输入
type CreateProductInput struct {
	ID      string // 可选，为空时自动生成
	BrandID string
	Name    string
	Price   models.Money
	Stock   int // 仅创建时生效
}

// List 商品列表
func (s *ProductService) List(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.repo.List(filter)
}

// GetByID 获取商品详情
func (s *ProductService) GetByID(id string) (*models.Product, error) {
	return findProduct(s.repo, strings.TrimSpace(id))
}

// Create 创建商品
func (s *ProductService) Create(input CreateProductInput) (*models.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}
	if input.Stock < 0 {
		return nil, fmt.Errorf("%w: stock must not be negative", ErrProductInvalid)
	}
	product := &models.Product{
		ID:      strings.TrimSpace(input.ID),
		BrandID: strings.TrimSpace(input.BrandID),
		Name:    strings.TrimSpace(input.Name),
		Price:   models.NewMoneyFromDecimal(input.Price.Decimal),
		Stock:   input.Stock,
	}
	if product.ID != "" {
		existing, err := s.repo.GetByID(product.ID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, fmt.Errorf("%w: product_id=%s already exists", ErrProductInvalid, product.ID)
		}
	}
	if err := s.repo.Create(product); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: product_id=%s already exists", ErrProductInvalid, product.ID)
		}
		return nil, err
	}
	logger.Infow("product_created", "product_id", product.ID, "stock", product.Stock)
	return product, nil
}

// Update 更新商品名称、品牌与价格，不修改库存
func (s *ProductService) Update(id string, input CreateProductInput) (*models.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}
	product, err := findProduct(s.repo, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	product.BrandID = strings.TrimSpace(input.BrandID)
	product.Name = strings.TrimSpace(input.Name)
	product.Price = models.NewMoneyFromDecimal(input.Price.Decimal)
	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	return findProduct(s.repo, product.ID)
}

// Delete 软删除商品，已有订单快照不受影响
func (s *ProductService) Delete(id string) error {
	product, err := findProduct(s.repo, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	if err := s.repo.Delete(product.ID); err != nil {
		return err
	}
	logger.Infow("product_deleted", "product_id", product.ID)
	return nil
}

func validateProductInput(input CreateProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("%w: name required", ErrProductInvalid)
	}
	if input.Price.Decimal.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrProductInvalid)
	}
	return nil
}
