package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fulfillcore/internal/constants"
	"github.com/fulfillcore/internal/logger"
	"github.com/fulfillcore/internal/metrics"
	"github.com/fulfillcore/internal/models"
	"github.com/fulfillcore/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var hundred = decimal.NewFromInt(100)

// CouponService 优惠券发放与使用服务
type CouponService struct {
	templateRepo repository.CouponTemplateRepository
	couponRepo   repository.UserCouponRepository
}

// NewCouponService 创建优惠券服务
func NewCouponService(templateRepo repository.CouponTemplateRepository, couponRepo repository.UserCouponRepository) *CouponService {
	return &CouponService{
		templateRepo: templateRepo,
		couponRepo:   couponRepo,
	}
}

// WithTx 返回绑定事务的优惠券服务
func (s *CouponService) WithTx(tx *gorm.DB) *CouponService {
	if tx == nil {
		return s
	}
	return &CouponService{
		templateRepo: s.templateRepo.WithTx(tx),
		couponRepo:   s.couponRepo.WithTx(tx),
	}
}

// IssueCoupon 向会员发放一张优惠券，模板行在事务内加锁
func (s *CouponService) IssueCoupon(templateID, memberID string) (*models.UserCoupon, error) {
	templateID = strings.TrimSpace(templateID)
	memberID, err := normalizeMemberID(memberID)
	if err != nil {
		return nil, err
	}
	if templateID == "" {
		return nil, ErrCouponTemplateInvalid
	}

	var issued *models.UserCoupon
	err = s.templateRepo.Transaction(func(tx *gorm.DB) error {
		templateRepo := s.templateRepo.WithTx(tx)
		couponRepo := s.couponRepo.WithTx(tx)

		template, err := templateRepo.GetByIDForUpdate(templateID)
		if err != nil {
			return err
		}
		if template == nil {
			return fmt.Errorf("%w: template_id=%s", ErrCouponTemplateNotFound, templateID)
		}
		if template.IsExpired(time.Now()) {
			return fmt.Errorf("%w: template_id=%s", ErrCouponTemplateExpired, templateID)
		}
		if template.IssuedQuantity >= template.TotalQuantity {
			return fmt.Errorf("%w: template_id=%s", ErrCouponQuotaExhausted, templateID)
		}

		exists, err := couponRepo.ExistsByMemberAndTemplate(memberID, templateID)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: template_id=%s member_id=%s", ErrCouponAlreadyIssued, templateID, memberID)
		}

		ok, err := templateRepo.IncrementIssuedQuantity(templateID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: template_id=%s", ErrCouponQuotaExhausted, templateID)
		}

		coupon := &models.UserCoupon{
			MemberID:   memberID,
			TemplateID: templateID,
			Status:     constants.UserCouponStatusAvailable,
		}
		if err := couponRepo.Create(coupon); err != nil {
			if repository.IsUniqueViolation(err) {
				return fmt.Errorf("%w: template_id=%s member_id=%s", ErrCouponAlreadyIssued, templateID, memberID)
			}
			return err
		}
		coupon.Template = template
		issued = coupon
		return nil
	})
	if err != nil {
		metrics.RecordCouponIssue(issueResultLabel(err))
		logger.Debugw("coupon_issue_rejected", "template_id", templateID, "member_id", memberID, "error", err)
		return nil, err
	}
	issued.Template.IssuedQuantity++
	metrics.RecordCouponIssue(metrics.ResultOK)
	logger.Infow("coupon_issued", "template_id", templateID, "member_id", memberID, "user_coupon_id", issued.ID)
	return issued, nil
}

// CalculateDiscount 计算会员优惠券对指定金额的抵扣
func (s *CouponService) CalculateDiscount(userCouponID, memberID string, amount models.Money) (models.Money, error) {
	_, template, err := s.resolveUsableCoupon(userCouponID, memberID, time.Now())
	if err != nil {
		return models.Money{}, err
	}
	return calculateDiscount(template, amount)
}

// UseCoupon 将可用优惠券标记为已使用，返回优惠券记录 ID
func (s *CouponService) UseCoupon(userCouponID string) (string, error) {
	userCouponID = strings.TrimSpace(userCouponID)
	coupon, err := s.findUserCoupon(userCouponID)
	if err != nil {
		return "", err
	}
	ok, err := s.couponRepo.UseIfAvailable(coupon.ID, time.Now())
	if err != nil {
		metrics.RecordCouponTransition("use", metrics.ResultError)
		return "", err
	}
	if !ok {
		metrics.RecordCouponTransition("use", metrics.ResultRejected)
		return "", fmt.Errorf("%w: user_coupon_id=%s", ErrCouponAlreadyUsed, coupon.ID)
	}
	metrics.RecordCouponTransition("use", metrics.ResultOK)
	return coupon.ID, nil
}

// RestoreCoupon 将已使用优惠券恢复为可用，已可用时静默返回 false
func (s *CouponService) RestoreCoupon(userCouponID string) (bool, error) {
	userCouponID = strings.TrimSpace(userCouponID)
	coupon, err := s.findUserCoupon(userCouponID)
	if err != nil {
		return false, err
	}
	return s.restoreIfUsed(coupon.ID)
}

// ListMemberCoupons 会员优惠券列表
func (s *CouponService) ListMemberCoupons(filter repository.UserCouponListFilter) ([]models.UserCoupon, int64, error) {
	if strings.TrimSpace(filter.MemberID) == "" {
		return nil, 0, ErrInvalidMember
	}
	return s.couponRepo.ListByMember(filter)
}

// applyToOrder 事务内计算抵扣并占用优惠券，抢占失败时返回 ErrCouponAlreadyUsed
func (s *CouponService) applyToOrder(userCouponID, memberID string, amount models.Money, now time.Time) (models.Money, error) {
	coupon, template, err := s.resolveUsableCoupon(userCouponID, memberID, now)
	if err != nil {
		return models.Money{}, err
	}
	discount, err := calculateDiscount(template, amount)
	if err != nil {
		return models.Money{}, err
	}
	ok, err := s.couponRepo.UseIfAvailable(coupon.ID, now)
	if err != nil {
		return models.Money{}, err
	}
	if !ok {
		metrics.RecordCouponTransition("use", metrics.ResultRejected)
		return models.Money{}, fmt.Errorf("%w: user_coupon_id=%s", ErrCouponAlreadyUsed, coupon.ID)
	}
	metrics.RecordCouponTransition("use", metrics.ResultOK)
	return discount, nil
}

func (s *CouponService) restoreIfUsed(userCouponID string) (bool, error) {
	ok, err := s.couponRepo.RestoreIfUsed(userCouponID)
	if err != nil {
		metrics.RecordCouponTransition("restore", metrics.ResultError)
		return false, err
	}
	if !ok {
		metrics.RecordCouponTransition("restore", metrics.ResultNoop)
		logger.Debugw("coupon_restore_noop", "user_coupon_id", userCouponID)
		return false, nil
	}
	metrics.RecordCouponTransition("restore", metrics.ResultOK)
	return true, nil
}

func (s *CouponService) findUserCoupon(userCouponID string) (*models.UserCoupon, error) {
	if userCouponID == "" {
		return nil, ErrUserCouponNotFound
	}
	coupon, err := s.couponRepo.GetByID(userCouponID)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, fmt.Errorf("%w: user_coupon_id=%s", ErrUserCouponNotFound, userCouponID)
	}
	return coupon, nil
}

// resolveUsableCoupon 校验优惠券归属、状态与模板有效期
func (s *CouponService) resolveUsableCoupon(userCouponID, memberID string, now time.Time) (*models.UserCoupon, *models.CouponTemplate, error) {
	coupon, err := s.findUserCoupon(strings.TrimSpace(userCouponID))
	if err != nil {
		return nil, nil, err
	}
	if coupon.MemberID != strings.TrimSpace(memberID) {
		return nil, nil, fmt.Errorf("%w: user_coupon_id=%s", ErrCouponNotOwned, coupon.ID)
	}
	if coupon.Status != constants.UserCouponStatusAvailable {
		return nil, nil, fmt.Errorf("%w: user_coupon_id=%s", ErrCouponAlreadyUsed, coupon.ID)
	}
	template, err := s.templateRepo.GetByID(coupon.TemplateID)
	if err != nil {
		return nil, nil, err
	}
	if template == nil {
		return nil, nil, fmt.Errorf("%w: template_id=%s", ErrCouponTemplateNotFound, coupon.TemplateID)
	}
	if template.IsExpired(now) {
		return nil, nil, fmt.Errorf("%w: template_id=%s", ErrCouponTemplateExpired, template.ID)
	}
	return coupon, template, nil
}

// calculateDiscount 先校验最低订单金额，固定金额不超过订单金额，百分比向下截断到分
func calculateDiscount(template *models.CouponTemplate, amount models.Money) (models.Money, error) {
	if amount.Decimal.IsNegative() {
		return models.Money{}, ErrInvalidAmount
	}
	if template.MinOrderAmount != nil && amount.Decimal.LessThan(template.MinOrderAmount.Decimal) {
		return models.Money{}, fmt.Errorf("%w: min=%s amount=%s", ErrCouponMinAmountNotMet, template.MinOrderAmount.String(), amount.String())
	}
	switch strings.ToLower(strings.TrimSpace(template.DiscountType)) {
	case constants.DiscountTypeFixed:
		if template.DiscountValue.Decimal.GreaterThan(amount.Decimal) {
			return models.NewMoneyFromDecimal(amount.Decimal), nil
		}
		return models.NewMoneyFromDecimal(template.DiscountValue.Decimal), nil
	case constants.DiscountTypeRate:
		discount := amount.Decimal.Mul(template.DiscountValue.Decimal).Div(hundred).Truncate(2)
		return models.NewMoneyFromDecimal(discount), nil
	default:
		return models.Money{}, fmt.Errorf("%w: discount_type=%s", ErrCouponTemplateInvalid, template.DiscountType)
	}
}

func issueResultLabel(err error) string {
	switch {
	case errors.Is(err, ErrCouponAlreadyIssued):
		return metrics.ResultDuplicate
	case Category(err) != nil:
		return metrics.ResultRejected
	default:
		return metrics.ResultError
	}
}
