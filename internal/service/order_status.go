package service

import (
	"strings"

	"github.com/saya-shop/internal/constants"
)

// orderStatusTransitions 允许的状态流转
var orderStatusTransitions = map[string][]string{
	constants.OrderStatusPending:   {constants.OrderStatusConfirmed, constants.OrderStatusCancelled},
	constants.OrderStatusConfirmed: {constants.OrderStatusShipped},
	constants.OrderStatusShipped:   {constants.OrderStatusDelivered},
}

// IsKnownOrderStatus 是否为已知订单状态
func IsKnownOrderStatus(status string) bool {
	switch status {
	case constants.OrderStatusPending,
		constants.OrderStatusConfirmed,
		constants.OrderStatusShipped,
		constants.OrderStatusDelivered,
		constants.OrderStatusCancelled:
		return true
	}
	return false
}

// normalizeOrderStatus 规范化状态值
func normalizeOrderStatus(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}

// canTransitionOrderStatus 校验状态流转
func canTransitionOrderStatus(from, to string) bool {
	for _, next := range orderStatusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextOrderStatuses 当前状态可流转的目标
func NextOrderStatuses(status string) []string {
	next := orderStatusTransitions[normalizeOrderStatus(status)]
	result := make([]string, len(next))
	copy(result, next)
	return result
}
