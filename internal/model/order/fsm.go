package order

import (
	"tradecore/internal/errors"
	"tradecore/internal/model/enum"
	"tradecore/internal/model/event"
	"tradecore/pkg/exception"
)

// Targets outside the status range: keep the status, or return to the
// status held before the current one.
const (
	stay    enum.OrderStatus = 254
	restore enum.OrderStatus = 255
)

var transitions = map[enum.OrderStatus]map[event.Kind]enum.OrderStatus{
	enum.OrderStatusInitialized: {
		event.KindDenied:    enum.OrderStatusDenied,
		event.KindInvalid:   enum.OrderStatusInvalid,
		event.KindEmulated:  enum.OrderStatusEmulated,
		event.KindReleased:  enum.OrderStatusReleased,
		event.KindSubmitted: enum.OrderStatusSubmitted,
		event.KindRejected:  enum.OrderStatusRejected,
		event.KindAccepted:  enum.OrderStatusAccepted,
		event.KindCanceled:  enum.OrderStatusCanceled,
		event.KindExpired:   enum.OrderStatusExpired,
		event.KindTriggered: enum.OrderStatusTriggered,
	},
	enum.OrderStatusEmulated: {
		event.KindCanceled: enum.OrderStatusCanceled,
		event.KindExpired:  enum.OrderStatusExpired,
		event.KindReleased: enum.OrderStatusReleased,
		event.KindUpdated:  stay,
	},
	enum.OrderStatusReleased: {
		event.KindSubmitted: enum.OrderStatusSubmitted,
		event.KindDenied:    enum.OrderStatusDenied,
		event.KindCanceled:  enum.OrderStatusCanceled,
	},
	enum.OrderStatusSubmitted: {
		event.KindPendingUpdate: enum.OrderStatusPendingUpdate,
		event.KindPendingCancel: enum.OrderStatusPendingCancel,
		event.KindRejected:      enum.OrderStatusRejected,
		event.KindCanceled:      enum.OrderStatusCanceled,
		event.KindAccepted:      enum.OrderStatusAccepted,
		event.KindFilled:        enum.OrderStatusFilled,
		event.KindUpdated:       stay,
	},
	enum.OrderStatusAccepted: {
		event.KindRejected:      enum.OrderStatusRejected,
		event.KindPendingUpdate: enum.OrderStatusPendingUpdate,
		event.KindPendingCancel: enum.OrderStatusPendingCancel,
		event.KindCanceled:      enum.OrderStatusCanceled,
		event.KindTriggered:     enum.OrderStatusTriggered,
		event.KindExpired:       enum.OrderStatusExpired,
		event.KindFilled:        enum.OrderStatusFilled,
		event.KindUpdated:       stay,
	},
	enum.OrderStatusCanceled: {
		event.KindFilled: enum.OrderStatusFilled,
	},
	enum.OrderStatusTriggered: {
		event.KindRejected:      enum.OrderStatusRejected,
		event.KindPendingUpdate: enum.OrderStatusPendingUpdate,
		event.KindPendingCancel: enum.OrderStatusPendingCancel,
		event.KindCanceled:      enum.OrderStatusCanceled,
		event.KindExpired:       enum.OrderStatusExpired,
		event.KindFilled:        enum.OrderStatusFilled,
		event.KindUpdated:       stay,
	},
	enum.OrderStatusPendingUpdate: {
		event.KindRejected:       enum.OrderStatusRejected,
		event.KindAccepted:       enum.OrderStatusAccepted,
		event.KindCanceled:       enum.OrderStatusCanceled,
		event.KindExpired:        enum.OrderStatusExpired,
		event.KindTriggered:      enum.OrderStatusTriggered,
		event.KindPendingUpdate:  enum.OrderStatusPendingUpdate,
		event.KindPendingCancel:  enum.OrderStatusPendingCancel,
		event.KindFilled:         enum.OrderStatusFilled,
		event.KindUpdated:        restore,
		event.KindModifyRejected: restore,
	},
	enum.OrderStatusPendingCancel: {
		event.KindRejected:       enum.OrderStatusRejected,
		event.KindPendingCancel:  enum.OrderStatusPendingCancel,
		event.KindCanceled:       enum.OrderStatusCanceled,
		event.KindExpired:        enum.OrderStatusExpired,
		event.KindAccepted:       enum.OrderStatusAccepted,
		event.KindFilled:         enum.OrderStatusFilled,
		event.KindCancelRejected: restore,
	},
	enum.OrderStatusPartiallyFilled: {
		event.KindPendingUpdate: enum.OrderStatusPendingUpdate,
		event.KindPendingCancel: enum.OrderStatusPendingCancel,
		event.KindCanceled:      enum.OrderStatusCanceled,
		event.KindExpired:       enum.OrderStatusExpired,
		event.KindFilled:        enum.OrderStatusFilled,
		event.KindAccepted:      enum.OrderStatusAccepted,
		event.KindUpdated:       stay,
	},
}

// nextStatus resolves the status an order of type typ moves to on kind.
// Fills resolve to FILLED here; the fill handler settles partial fills.
func nextStatus(current, previous enum.OrderStatus, typ enum.OrderType, kind event.Kind) (enum.OrderStatus, error) {
	next, ok := transitions[current][kind]
	if !ok {
		return 0, errors.Wrapf(exception.ErrOrderInvalidStateTransition, "%s on %s", kind, current)
	}
	if kind == event.KindTriggered && !typ.HasTriggerPrice() {
		return 0, errors.Wrapf(exception.ErrOrderInvalidStateTransition, "%s on %s order", kind, typ)
	}
	switch next {
	case stay:
		return current, nil
	case restore:
		if !previous.IsAvailable() {
			return 0, errors.Wrapf(exception.ErrOrderNoPreviousStatus, "%s on %s", kind, current)
		}
		return previous, nil
	default:
		return next, nil
	}
}

// CanApply reports whether an event of kind is legal in status for typ.
func CanApply(status enum.OrderStatus, typ enum.OrderType, kind event.Kind) bool {
	if _, ok := transitions[status][kind]; !ok {
		return false
	}
	return kind != event.KindTriggered || typ.HasTriggerPrice()
}
