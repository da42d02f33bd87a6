package repository

import (
	"errors"
	"strings"

	"github.com/fulfillcore/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CouponTemplateRepository 优惠券模板数据访问接口
type CouponTemplateRepository interface {
	GetByID(id string) (*models.CouponTemplate, error)
	GetByIDForUpdate(id string) (*models.CouponTemplate, error)
	List(filter CouponTemplateListFilter) ([]models.CouponTemplate, int64, error)
	Create(template *models.CouponTemplate) error
	Update(template *models.CouponTemplate) error
	Delete(id string) error
	IncrementIssuedQuantity(id string) (bool, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) CouponTemplateRepository
}

// GormCouponTemplateRepository GORM 实现
type GormCouponTemplateRepository struct {
	db *gorm.DB
}

// NewCouponTemplateRepository 创建优惠券模板仓库
func NewCouponTemplateRepository(db *gorm.DB) *GormCouponTemplateRepository {
	return &GormCouponTemplateRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCouponTemplateRepository) WithTx(tx *gorm.DB) CouponTemplateRepository {
	if tx == nil {
		return r
	}
	return &GormCouponTemplateRepository{db: tx}
}

// Transaction 执行事务
func (r *GormCouponTemplateRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// GetByID 获取模板
func (r *GormCouponTemplateRepository) GetByID(id string) (*models.CouponTemplate, error) {
	var template models.CouponTemplate
	if err := r.db.Where("id = ?", id).First(&template).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &template, nil
}

// GetByIDForUpdate 加行锁获取模板，锁持有到事务结束
func (r *GormCouponTemplateRepository) GetByIDForUpdate(id string) (*models.CouponTemplate, error) {
	var template models.CouponTemplate
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&template).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &template, nil
}

// List 模板列表
func (r *GormCouponTemplateRepository) List(filter CouponTemplateListFilter) ([]models.CouponTemplate, int64, error) {
	query := r.db.Model(&models.CouponTemplate{})
	if search := strings.TrimSpace(filter.Search); search != "" {
		condition, argCount := buildLikeCondition(r.db, []string{"name"})
		query = query.Where(condition, repeatLikeArgs("%"+search+"%", argCount)...)
	}
	if filter.OnlyIssuing {
		query = query.Where("expired_at >= ? AND issued_quantity < total_quantity", filter.Now)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	var templates []models.CouponTemplate
	if err := query.Order("created_at DESC, id ASC").Find(&templates).Error; err != nil {
		return nil, 0, err
	}
	return templates, total, nil
}

// Create 创建模板
func (r *GormCouponTemplateRepository) Create(template *models.CouponTemplate) error {
	return r.db.Create(template).Error
}

// Update 更新模板配置，已发放数量只能通过 IncrementIssuedQuantity 修改
func (r *GormCouponTemplateRepository) Update(template *models.CouponTemplate) error {
	return r.db.Model(template).
		Select("name", "discount_type", "discount_value", "min_order_amount", "expired_at", "total_quantity").
		Updates(template).Error
}

// Delete 软删除模板
func (r *GormCouponTemplateRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&models.CouponTemplate{}).Error
}

// IncrementIssuedQuantity 未发完时已发放数量加一，返回是否成功
func (r *GormCouponTemplateRepository) IncrementIssuedQuantity(id string) (bool, error) {
	result := r.db.Model(&models.CouponTemplate{}).
		Where("id = ? AND issued_quantity < total_quantity", id).
		Update("issued_quantity", gorm.Expr("issued_quantity + ?", 1))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
