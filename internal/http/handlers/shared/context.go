package shared

import (
	"strings"

	"github.com/fulfillcore/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetContextStringWithKey 从上下文读取非空字符串值并统一处理错误响应。
func GetContextStringWithKey(c *gin.Context, key, invalidKey string) (string, bool) {
	value, exists := c.Get(key)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return "", false
	}
	text, ok := value.(string)
	if !ok || strings.TrimSpace(text) == "" {
		RespondError(c, response.CodeBadRequest, invalidKey, nil)
		return "", false
	}
	return strings.TrimSpace(text), true
}
