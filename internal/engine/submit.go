package engine

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"tradecore/internal/errors"
	"tradecore/internal/model/enum"
	"tradecore/internal/model/event"
	"tradecore/internal/model/identifier"
	"tradecore/internal/model/instrument"
	"tradecore/internal/model/order"
	"tradecore/internal/risk"
	"tradecore/pkg/exception"
)

// Submit stores a new order and runs the pre-trade checks. The order ends
// DENIED or SUBMITTED; the returned decision tells which.
func (e *Engine) Submit(ctx context.Context, o *order.Order) (risk.Decision, error) {
	if o == nil {
		return risk.Decision{}, errors.Wrap(exception.ErrNilInstance, "order")
	}
	inst, err := e.instrumentFor(o.InstrumentID())
	if err != nil {
		return risk.Decision{}, err
	}
	accountID, err := e.accountFor(inst)
	if err != nil {
		return risk.Decision{}, err
	}
	if err := e.cache.AddOrder(o); err != nil {
		return risk.Decision{}, errors.Wrapf(exception.ErrEngineDuplicateOrder, "%s", o.ClientOrderID())
	}
	if err := e.record(ctx, o, o.InitEvent()); err != nil {
		return risk.Decision{}, err
	}
	return e.evaluate(ctx, o, inst, accountID)
}

// SubmitList stores every order of l and submits the ones that can go now.
// Children of an OTO parent stay INITIALIZED until the parent closes; the
// returned decisions cover only the orders checked here, in list order.
func (e *Engine) SubmitList(ctx context.Context, l *order.List) ([]risk.Decision, error) {
	if l == nil || len(l.Orders) == 0 {
		return nil, errors.Wrap(exception.ErrNilInstance, "order list")
	}
	inst, err := e.instrumentFor(l.Orders[0].InstrumentID())
	if err != nil {
		return nil, err
	}
	accountID, err := e.accountFor(inst)
	if err != nil {
		return nil, err
	}
	if err := e.cache.AddOrderList(l); err != nil {
		return nil, errors.Wrapf(exception.ErrEngineDuplicateOrder, "list %s: %v", l.ID, err)
	}

	for _, o := range l.Orders {
		if err := e.record(ctx, o, o.InitEvent()); err != nil {
			return nil, err
		}
	}
	decisions := make([]risk.Decision, 0, len(l.Orders))
	for _, o := range l.Orders {
		// a denied parent already closed its children
		if o.Status() != enum.OrderStatusInitialized || e.isHeld(o) {
			continue
		}
		d, err := e.evaluate(ctx, o, inst, accountID)
		if err != nil {
			return decisions, err
		}
		decisions = append(decisions, d)
	}
	return decisions, nil
}

func (e *Engine) evaluate(ctx context.Context, o *order.Order, inst instrument.Instrument, accountID identifier.AccountID) (risk.Decision, error) {
	now := e.now()
	start := time.Now()
	decision := e.risk.Evaluate(o, inst, e.stateView(o, now))
	e.metrics.ObserveRiskEval(time.Since(start))

	header := o.InitEvent().Header.Next(now, now)
	var ev event.OrderEvent
	if decision.Allowed {
		ev = event.Submitted{Header: header, AccountID: accountID}
	} else {
		e.metrics.IncRiskReason(decision.Reason)
		ev = event.Denied{Header: header, Reason: decision.String()}
	}
	if err := e.apply(ctx, o, ev); err != nil {
		return decision, err
	}
	return decision, nil
}

// stateView is the position the order would trade into. NETTING reads the
// strategy position; HEDGING has no single position so the instrument net
// is used.
func (e *Engine) stateView(o *order.Order, now uint64) risk.StateView {
	view := risk.StateView{
		Position:     decimal.Zero,
		PositionSide: enum.PositionSideFlat,
		Now:          now,
	}
	if px, ok := e.prices[o.InstrumentID()]; ok {
		view.ReferencePrice = px
	}
	if e.cfg.OmsType == enum.OmsTypeNetting {
		if p, ok := e.cache.Position(nettingPositionID(o.InstrumentID(), o.StrategyID())); ok {
			view.Position = p.SignedDecimalQty()
			view.PositionSide = p.Side()
		}
		return view
	}
	net := e.exposure.Net(o.InstrumentID())
	view.Position = net
	switch net.Sign() {
	case 1:
		view.PositionSide = enum.PositionSideLong
	case -1:
		view.PositionSide = enum.PositionSideShort
	}
	return view
}

func (e *Engine) instrumentFor(id identifier.InstrumentID) (instrument.Instrument, error) {
	inst, err := e.instruments.Lookup(id)
	if err != nil {
		return instrument.Instrument{}, errors.Wrapf(exception.ErrEngineUnknownInstrument, "%s", id)
	}
	return inst, nil
}

func (e *Engine) accountFor(inst instrument.Instrument) (identifier.AccountID, error) {
	acc, err := e.accounts.ForVenue(inst.ID.Venue)
	if err != nil {
		return "", err
	}
	return acc.ID(), nil
}

func nettingPositionID(inst identifier.InstrumentID, strategy identifier.StrategyID) identifier.PositionID {
	return identifier.PositionID(inst.String() + "-" + string(strategy))
}
