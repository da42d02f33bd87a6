package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/fulfillcore/internal/constants"
	"github.com/fulfillcore/internal/logger"
	"github.com/fulfillcore/internal/models"
	"github.com/fulfillcore/internal/repository"

	"gorm.io/gorm"
)

// CouponAdminService 优惠券模板管理服务
type CouponAdminService struct {
	repo repository.CouponTemplateRepository
}

// NewCouponAdminService 创建优惠券模板管理服务
func NewCouponAdminService(repo repository.CouponTemplateRepository) *CouponAdminService {
	return &CouponAdminService{repo: repo}
}

// CouponTemplateInput 创建/更新模板输入
type CouponTemplateInput struct {
	Name           string
	DiscountType   string
	DiscountValue  models.Money
	MinOrderAmount *models.Money
	ExpiredAt      time.Time
	TotalQuantity  int
}

// List 模板列表
func (s *CouponAdminService) List(filter repository.CouponTemplateListFilter) ([]models.CouponTemplate, int64, error) {
	if filter.OnlyIssuing && filter.Now.IsZero() {
		filter.Now = time.Now()
	}
	return s.repo.List(filter)
}

// GetByID 获取模板
func (s *CouponAdminService) GetByID(id string) (*models.CouponTemplate, error) {
	template, err := s.repo.GetByID(strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, fmt.Errorf("%w: template_id=%s", ErrCouponTemplateNotFound, id)
	}
	return template, nil
}

// Create 创建模板
func (s *CouponAdminService) Create(input CouponTemplateInput) (*models.CouponTemplate, error) {
	normalized, err := normalizeCouponTemplateInput(input)
	if err != nil {
		return nil, err
	}
	template := &models.CouponTemplate{
		Name:           normalized.Name,
		DiscountType:   normalized.DiscountType,
		DiscountValue:  normalized.DiscountValue,
		MinOrderAmount: normalized.MinOrderAmount,
		ExpiredAt:      normalized.ExpiredAt,
		TotalQuantity:  normalized.TotalQuantity,
	}
	if err := s.repo.Create(template); err != nil {
		return nil, err
	}
	logger.Infow("coupon_template_created", "template_id", template.ID, "total", template.TotalQuantity)
	return template, nil
}

// Update 在模板行锁内更新配置，发放总量不得低于已发放数量
func (s *CouponAdminService) Update(id string, input CouponTemplateInput) (*models.CouponTemplate, error) {
	normalized, err := normalizeCouponTemplateInput(input)
	if err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)

	var updated *models.CouponTemplate
	err = s.repo.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		template, err := repo.GetByIDForUpdate(id)
		if err != nil {
			return err
		}
		if template == nil {
			return fmt.Errorf("%w: template_id=%s", ErrCouponTemplateNotFound, id)
		}
		if normalized.TotalQuantity < template.IssuedQuantity {
			return fmt.Errorf("%w: total_quantity %d below issued %d", ErrCouponTemplateInvalid, normalized.TotalQuantity, template.IssuedQuantity)
		}
		template.Name = normalized.Name
		template.DiscountType = normalized.DiscountType
		template.DiscountValue = normalized.DiscountValue
		template.MinOrderAmount = normalized.MinOrderAmount
		template.ExpiredAt = normalized.ExpiredAt
		template.TotalQuantity = normalized.TotalQuantity
		if err := repo.Update(template); err != nil {
			return err
		}
		updated = template
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete 软删除模板，已发放的优惠券随之不可再用于抵扣
func (s *CouponAdminService) Delete(id string) error {
	template, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(template.ID); err != nil {
		return err
	}
	logger.Infow("coupon_template_deleted", "template_id", template.ID)
	return nil
}

func normalizeCouponTemplateInput(input CouponTemplateInput) (CouponTemplateInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.DiscountType = strings.ToLower(strings.TrimSpace(input.DiscountType))
	if input.Name == "" {
		return input, fmt.Errorf("%w: name required", ErrCouponTemplateInvalid)
	}
	if input.DiscountType != constants.DiscountTypeFixed && input.DiscountType != constants.DiscountTypeRate {
		return input, fmt.Errorf("%w: discount_type must be fixed or rate", ErrCouponTemplateInvalid)
	}
	if !input.DiscountValue.Decimal.IsPositive() {
		return input, fmt.Errorf("%w: discount_value must be positive", ErrCouponTemplateInvalid)
	}
	if input.DiscountType == constants.DiscountTypeRate && input.DiscountValue.Decimal.GreaterThan(hundred) {
		return input, fmt.Errorf("%w: rate must be within 0-100", ErrCouponTemplateInvalid)
	}
	if input.MinOrderAmount != nil && input.MinOrderAmount.Decimal.IsNegative() {
		return input, fmt.Errorf("%w: min_order_amount must not be negative", ErrCouponTemplateInvalid)
	}
	if input.ExpiredAt.IsZero() {
		return input, fmt.Errorf("%w: expired_at required", ErrCouponTemplateInvalid)
	}
	if input.TotalQuantity < 0 {
		return input, fmt.Errorf("%w: total_quantity must not be negative", ErrCouponTemplateInvalid)
	}
	input.DiscountValue = models.NewMoneyFromDecimal(input.DiscountValue.Decimal)
	return input, nil
}
