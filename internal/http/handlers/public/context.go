package public

import (
	handlershared "github.com/fulfillcore/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("fulfillcore/http/public")

func getMemberID(c *gin.Context) (string, bool) {
	return handlershared.GetContextStringWithKey(c, "member_id", "error.member_id_invalid")
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}
