package shared

import (
	"github.com/fulfillcore/internal/cache"

	"github.com/gin-gonic/gin"
)

// InvalidateIssuingTemplates 模板或发放数变更后失效可领取列表快照，失败只记录日志，快照最多滞后一个 TTL
func InvalidateIssuingTemplates(c *gin.Context) error {
	if err := cache.DelIssuingTemplates(c.Request.Context()); err != nil {
		RequestLog(c).Warnw("coupon_templates_cache_invalidate_failed", "error", err)
		return err
	}
	return nil
}
