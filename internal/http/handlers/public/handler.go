package public

import "github.com/fulfillcore/internal/provider"

// Handler 前台/会员接口处理器入口
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
