package engine

import (
	"context"
	"time"

	"github.com/yanun0323/logs"

	"tradecore/internal/accounting"
	"tradecore/internal/errors"
	"tradecore/internal/model/enum"
	"tradecore/internal/model/event"
	"tradecore/internal/model/instrument"
	"tradecore/internal/model/order"
	"tradecore/internal/model/position"
	"tradecore/internal/model/types"
	"tradecore/internal/obs"
	"tradecore/pkg/exception"
)

// Process applies one event. Initialized creates the order; every other
// event goes to the cached order it names.
func (e *Engine) Process(ctx context.Context, ev event.OrderEvent) error {
	if ev == nil {
		return errors.Wrap(exception.ErrNilInstance, "event")
	}
	if init, ok := ev.(event.Initialized); ok {
		return e.initialize(ctx, init)
	}
	id := ev.Head().ClientOrderID
	o, ok := e.cache.Order(id)
	if !ok {
		e.metrics.IncError(obs.ErrorClassApply)
		return errors.Wrapf(exception.ErrEngineUnknownOrder, "%s %s", ev.Kind(), id)
	}
	return e.apply(ctx, o, ev)
}

func (e *Engine) initialize(ctx context.Context, init event.Initialized) error {
	if _, ok := e.cache.Order(init.ClientOrderID); ok {
		return errors.Wrapf(exception.ErrEngineDuplicateOrder, "%s", init.ClientOrderID)
	}
	o, err := order.New(init)
	if err != nil {
		e.metrics.IncError(obs.ErrorClassApply)
		return err
	}
	if err := e.cache.AddOrder(o); err != nil {
		return err
	}
	return e.record(ctx, o, init)
}

func (e *Engine) apply(ctx context.Context, o *order.Order, ev event.OrderEvent) error {
	start := time.Now()
	defer func() { e.metrics.ObserveApply(time.Since(start)) }()

	fill, isFill := ev.(event.Filled)
	if !isFill {
		if err := o.Apply(ev); err != nil {
			e.metrics.IncError(obs.ErrorClassApply)
			return err
		}
		e.cache.UpdateOrder(o)
		if err := e.record(ctx, o, ev); err != nil {
			return err
		}
		return e.releaseChildren(ctx, o)
	}
	return e.applyFill(ctx, o, fill)
}

// applyFill moves a fill through the order, its position and the account.
// The position is checked before the order moves. The order and position are
// committed before the account, so an account error leaves them applied and
// is returned to the caller.
func (e *Engine) applyFill(ctx context.Context, o *order.Order, fill event.Filled) error {
	inst, err := e.instrumentFor(fill.InstrumentID)
	if err != nil {
		return err
	}
	posID := e.positionIDFor(o, fill)
	fill.PositionID = &posID

	acc := e.calculatedAccount(inst)
	if acc != nil && fill.Commission == nil && fill.LiquiditySide != enum.LiquiditySideNoLiquiditySide {
		commission, err := acc.CalculateCommission(inst, fill.LastQty, fill.LastPx, fill.LiquiditySide, false)
		if err != nil {
			e.metrics.IncError(obs.ErrorClassAccount)
			return errors.Wrapf(err, "commission for %s", fill.TradeID)
		}
		fill.Commission = &commission
	}

	prev, hasPosition := e.cache.Position(posID)
	if hasPosition && prev.InstrumentID() != inst.ID {
		e.metrics.IncError(obs.ErrorClassPosition)
		return errors.Wrapf(exception.ErrPositionInstrumentMismatch, "%s holds %s, fill %s", posID, prev.InstrumentID(), inst.ID)
	}

	// pnls are computed against the position before this fill
	var pnls []types.Money
	if acc != nil {
		pnls, err = acc.CalculatePnls(inst, fill, prev)
		if err != nil {
			e.metrics.IncError(obs.ErrorClassAccount)
			return errors.Wrapf(err, "pnls for %s", fill.TradeID)
		}
	}

	// the position must accept the fill before the order moves
	p, err := e.preparePosition(inst, prev, hasPosition, fill)
	if err != nil {
		e.metrics.IncError(obs.ErrorClassPosition)
		return errors.Wrapf(err, "position %s", posID)
	}
	if err := o.Apply(fill); err != nil {
		e.metrics.IncError(obs.ErrorClassApply)
		return err
	}
	e.cache.UpdateOrder(o)
	if err := e.commitPosition(p, hasPosition, fill); err != nil {
		e.metrics.IncError(obs.ErrorClassPosition)
		return errors.Wrapf(err, "position %s", posID)
	}
	e.exposure.ApplyFill(fill)
	e.prices[inst.ID] = fill.LastPx

	if err := e.record(ctx, o, fill); err != nil {
		return err
	}
	if e.store != nil && !e.replaying {
		if err := e.store.SavePosition(ctx, p); err != nil {
			e.metrics.IncError(obs.ErrorClassStore)
			return errors.Wrapf(err, "save position %s", posID)
		}
	}

	err = e.settle(acc, inst, pnls, fill)
	if releaseErr := e.releaseChildren(ctx, o); releaseErr != nil && err == nil {
		err = releaseErr
	}
	return err
}

// settle moves the fill's pnls and commission into the account and updates
// its margin. A nil account has nothing to settle.
func (e *Engine) settle(acc accounting.Account, inst instrument.Instrument, pnls []types.Money, fill event.Filled) error {
	if acc == nil {
		return nil
	}
	if err := acc.UpdateBalances(pnls, fill.Commission); err != nil {
		e.metrics.IncError(obs.ErrorClassAccount)
		return errors.Wrapf(err, "account %s after %s", acc.ID(), fill.TradeID)
	}
	if margin, ok := acc.(*accounting.MarginAccount); ok {
		if err := e.updateMargin(margin, inst, fill.LastPx); err != nil {
			e.metrics.IncError(obs.ErrorClassAccount)
			return errors.Wrapf(err, "margin %s for %s", acc.ID(), inst.ID)
		}
	}
	return nil
}

// preparePosition returns the position the fill goes to. An existing one is
// only checked; a new one is built but not cached yet.
func (e *Engine) preparePosition(inst instrument.Instrument, prev *position.Position, exists bool, fill event.Filled) (*position.Position, error) {
	if exists {
		if err := prev.Check(fill); err != nil {
			return nil, err
		}
		return prev, nil
	}
	return position.New(inst, fill)
}

func (e *Engine) commitPosition(p *position.Position, exists bool, fill event.Filled) error {
	if !exists {
		return e.cache.AddPosition(p)
	}
	if err := p.Apply(fill); err != nil {
		return err
	}
	e.cache.IndexOrderPosition(fill.ClientOrderID, p.ID())
	return nil
}

// updateMargin holds maintenance margin on the instrument net at the last
// fill price and releases it once the instrument is flat.
func (e *Engine) updateMargin(acc *accounting.MarginAccount, inst instrument.Instrument, px types.Price) error {
	net := e.exposure.Net(inst.ID)
	if net.IsZero() {
		return acc.ClearMargin(inst.ID)
	}
	qty, err := inst.MakeQtyDecimal(net.Abs())
	if err != nil {
		return err
	}
	maintenance, err := acc.CalculateMaintenanceMargin(inst, qty, px, false)
	if err != nil {
		return err
	}
	return acc.UpdateMargin(accounting.Margin{
		InstrumentID: inst.ID,
		Initial:      types.MoneyZero(maintenance.Currency()),
		Maintenance:  maintenance,
	})
}

// calculatedAccount is the account whose state follows fills locally, or nil
// when the venue reports its own account state.
func (e *Engine) calculatedAccount(inst instrument.Instrument) accounting.Account {
	if !e.accounts.IsCalculated(inst.ID.Venue) {
		return nil
	}
	acc, err := e.accounts.ForVenue(inst.ID.Venue)
	if err != nil {
		return nil
	}
	return acc
}

// record numbers an applied event and hands it to the journal and the store.
// Neither is written during replay.
func (e *Engine) record(ctx context.Context, o *order.Order, ev event.OrderEvent) error {
	seq := e.seq.Next()
	e.metrics.ObserveEvent(ev)
	if ts := ev.Head().TsEvent; ts > e.lastEventTs {
		e.lastEventTs = ts
	}
	if e.replaying {
		return nil
	}
	if e.journal != nil {
		if err := e.journal.Append(ev, seq); err != nil {
			e.metrics.IncError(obs.ErrorClassJournal)
			return errors.Wrapf(err, "journal seq %d", seq)
		}
	}
	if e.store == nil {
		return nil
	}
	if err := e.store.AppendEvent(ctx, ev, seq); err != nil {
		e.metrics.IncError(obs.ErrorClassStore)
		logs.Errorf("store event seq %d of %s, err: %+v", seq, o.ClientOrderID(), err)
		return errors.Wrapf(err, "store event seq %d", seq)
	}
	if err := e.store.SaveOrder(ctx, o); err != nil {
		e.metrics.IncError(obs.ErrorClassStore)
		return errors.Wrapf(err, "save order %s", o.ClientOrderID())
	}
	return nil
}
