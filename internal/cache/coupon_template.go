package cache

import (
	"context"
	"time"

	"github.com/fulfillcore/internal/models"
)

// 可领取模板列表只用于展示，发放数量以数据库行锁为准
const issuingTemplatesCacheTTL = 30 * time.Second

const issuingTemplatesKey = "coupon:templates:issuing"

// IssuingTemplatesSnapshot 可领取模板列表快照
type IssuingTemplatesSnapshot struct {
	Items    []models.CouponTemplate `json:"items"`
	CachedAt int64                   `json:"cached_at"`
}

// GetIssuingTemplates 读取可领取模板缓存
func GetIssuingTemplates(ctx context.Context) (*IssuingTemplatesSnapshot, bool, error) {
	var snapshot IssuingTemplatesSnapshot
	hit, err := getJSON(ctx, issuingTemplatesKey, &snapshot)
	if err != nil || !hit {
		return nil, false, err
	}
	return &snapshot, true, nil
}

// SetIssuingTemplates 写入可领取模板缓存
func SetIssuingTemplates(ctx context.Context, items []models.CouponTemplate) error {
	return setJSON(ctx, issuingTemplatesKey, IssuingTemplatesSnapshot{
		Items:    items,
		CachedAt: time.Now().Unix(),
	}, issuingTemplatesCacheTTL)
}

// DelIssuingTemplates 模板变更或发放后失效缓存
func DelIssuingTemplates(ctx context.Context) error {
	return del(ctx, issuingTemplatesKey)
}
