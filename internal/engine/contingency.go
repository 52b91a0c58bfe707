package engine

import (
	"context"

	"github.com/yanun0323/logs"

	"tradecore/internal/model/enum"
	"tradecore/internal/model/event"
	"tradecore/internal/model/order"
)

// parentClosedReason is the denial given to children of an OTO parent that
// closed without a fill.
const parentClosedReason = "OTO_PARENT_CLOSED"

// isHeld reports whether o waits for its OTO parent. Held children stay
// INITIALIZED and are checked only once the parent is done.
func (e *Engine) isHeld(o *order.Order) bool {
	parentID, ok := o.ParentOrderID()
	if !ok {
		return false
	}
	parent, ok := e.cache.Order(parentID)
	if !ok {
		return false
	}
	return parent.ContingencyType() == enum.ContingencyTypeOTO && !parent.IsClosed()
}

// releaseChildren acts on the held children of a closed OTO parent. A parent
// with fills submits them through the pre-trade checks; one without fills
// denies them. Replay skips this since the journal already holds the
// resulting events.
func (e *Engine) releaseChildren(ctx context.Context, parent *order.Order) error {
	if e.replaying || parent.ContingencyType() != enum.ContingencyTypeOTO || !parent.IsClosed() {
		return nil
	}
	filled := parent.FilledQty().IsPositive()
	for _, id := range parent.LinkedOrderIDs() {
		child, ok := e.cache.Order(id)
		if !ok || child.Status() != enum.OrderStatusInitialized {
			continue
		}
		if parentID, ok := child.ParentOrderID(); !ok || parentID != parent.ClientOrderID() {
			continue
		}
		if !filled {
			now := e.now()
			denied := event.Denied{Header: child.InitEvent().Header.Next(now, now), Reason: parentClosedReason}
			if err := e.apply(ctx, child, denied); err != nil {
				return err
			}
			continue
		}
		inst, err := e.instrumentFor(child.InstrumentID())
		if err != nil {
			return err
		}
		accountID, err := e.accountFor(inst)
		if err != nil {
			return err
		}
		decision, err := e.evaluate(ctx, child, inst, accountID)
		if err != nil {
			return err
		}
		logs.Infof("engine released %s after %s, decision: %s", child.ClientOrderID(), parent.ClientOrderID(), decision)
	}
	return nil
}
