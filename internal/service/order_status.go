package service

import (
	"strings"

	"github.com/fulfillcore/internal/constants"
)

var allowedTransitions = map[string]map[string]bool{
	constants.OrderStatusPending: {
		constants.OrderStatusCanceled: true,
	},
}

// isTransitionAllowed 同状态视为允许（幂等），其余按状态表判断
func isTransitionAllowed(current, target string) bool {
	if current == target {
		return true
	}
	nexts, ok := allowedTransitions[current]
	if !ok {
		return false
	}
	return nexts[target]
}

func normalizeOrderStatus(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
