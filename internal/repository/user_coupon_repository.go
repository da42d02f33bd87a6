package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/fulfillcore/internal/constants"
	"github.com/fulfillcore/internal/models"

	"gorm.io/gorm"
)

// UserCouponRepository 会员优惠券数据访问接口
type UserCouponRepository interface {
	Create(coupon *models.UserCoupon) error
	GetByID(id string) (*models.UserCoupon, error)
	GetByMemberAndTemplate(memberID, templateID string) (*models.UserCoupon, error)
	ExistsByMemberAndTemplate(memberID, templateID string) (bool, error)
	ListByMember(filter UserCouponListFilter) ([]models.UserCoupon, int64, error)
	UseIfAvailable(id string, usedAt time.Time) (bool, error)
	RestoreIfUsed(id string) (bool, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) UserCouponRepository
}

// GormUserCouponRepository GORM 实现
type GormUserCouponRepository struct {
	db *gorm.DB
}

// NewUserCouponRepository 创建会员优惠券仓库
func NewUserCouponRepository(db *gorm.DB) *GormUserCouponRepository {
	return &GormUserCouponRepository{db: db}
}

// WithTx 绑定事务
func (r *GormUserCouponRepository) WithTx(tx *gorm.DB) UserCouponRepository {
	if tx == nil {
		return r
	}
	return &GormUserCouponRepository{db: tx}
}

// Transaction 执行事务
func (r *GormUserCouponRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// Create 创建会员优惠券
func (r *GormUserCouponRepository) Create(coupon *models.UserCoupon) error {
	return r.db.Create(coupon).Error
}

// GetByID 获取会员优惠券
func (r *GormUserCouponRepository) GetByID(id string) (*models.UserCoupon, error) {
	var coupon models.UserCoupon
	if err := r.db.Where("id = ?", id).First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &coupon, nil
}

// GetByMemberAndTemplate 按会员与模板获取
func (r *GormUserCouponRepository) GetByMemberAndTemplate(memberID, templateID string) (*models.UserCoupon, error) {
	var coupon models.UserCoupon
	if err := r.db.Where("member_id = ? AND template_id = ?", memberID, templateID).First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &coupon, nil
}

// ExistsByMemberAndTemplate 会员是否已领取该模板
func (r *GormUserCouponRepository) ExistsByMemberAndTemplate(memberID, templateID string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.UserCoupon{}).
		Where("member_id = ? AND template_id = ?", memberID, templateID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListByMember 会员优惠券列表
func (r *GormUserCouponRepository) ListByMember(filter UserCouponListFilter) ([]models.UserCoupon, int64, error) {
	query := r.db.Model(&models.UserCoupon{}).Where("member_id = ?", filter.MemberID)
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	var coupons []models.UserCoupon
	if err := query.Preload("Template", func(db *gorm.DB) *gorm.DB {
		return db.Unscoped()
	}).Order("created_at DESC, id ASC").Find(&coupons).Error; err != nil {
		return nil, 0, err
	}
	return coupons, total, nil
}

// UseIfAvailable 可用状态下标记为已使用，返回是否发生状态变更
func (r *GormUserCouponRepository) UseIfAvailable(id string, usedAt time.Time) (bool, error) {
	result := r.db.Model(&models.UserCoupon{}).
		Where("id = ? AND status = ?", id, constants.UserCouponStatusAvailable).
		Updates(map[string]interface{}{
			"status":  constants.UserCouponStatusUsed,
			"version": gorm.Expr("version + ?", 1),
			"used_at": usedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// RestoreIfUsed 已使用状态下恢复为可用，返回是否发生状态变更
func (r *GormUserCouponRepository) RestoreIfUsed(id string) (bool, error) {
	result := r.db.Model(&models.UserCoupon{}).
		Where("id = ? AND status = ?", id, constants.UserCouponStatusUsed).
		Updates(map[string]interface{}{
			"status":  constants.UserCouponStatusAvailable,
			"version": gorm.Expr("version + ?", 1),
			"used_at": nil,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
