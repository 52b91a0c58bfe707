package accounting

import (
	"tradecore/internal/errors"
	"tradecore/internal/model/enum"
	"tradecore/internal/model/event"
	"tradecore/internal/model/identifier"
	"tradecore/internal/model/instrument"
	"tradecore/internal/model/position"
	"tradecore/internal/model/types"
	"tradecore/pkg/exception"
)

// CashAccount settles every fill in full: a buy pays the notional in quote
// currency and, on multi-currency accounts, receives the base asset.
type CashAccount struct {
	base
}

// NewCashAccount opens a cash account. A zero baseCurrency makes it
// multi-currency.
func NewCashAccount(id identifier.AccountID, baseCurrency types.Currency, starting ...types.Money) (*CashAccount, error) {
	b, err := newBase(id, enum.AccountTypeCash, baseCurrency, starting)
	if err != nil {
		return nil, err
	}
	return &CashAccount{base: b}, nil
}

// CalculateBalanceLocked is what a working order reserves: the notional plus
// twice the taker fee, in quote currency for buys and in base currency (the
// quantity) for sells.
func (a *CashAccount) CalculateBalanceLocked(inst instrument.Instrument, side enum.OrderSide, qty types.Quantity, px types.Price, useQuoteForInverse bool) (types.Money, error) {
	switch side {
	case enum.OrderSideBuy:
		notional, err := inst.NotionalDecimal(qty, px, useQuoteForInverse)
		if err != nil {
			return types.Money{}, err
		}
		locked := notional.Add(notional.Mul(inst.TakerFee).Mul(two))
		return types.NewMoneyFromDecimal(locked, notionalCurrency(inst, useQuoteForInverse))
	case enum.OrderSideSell:
		amount := qty.Decimal()
		locked := amount.Add(amount.Mul(inst.TakerFee).Mul(two))
		if inst.BaseCurrency.IsZero() {
			return types.NewMoneyFromDecimal(amount, inst.QuoteCurrency)
		}
		return types.NewMoneyFromDecimal(locked, inst.BaseCurrency)
	default:
		return types.Money{}, errors.Wrapf(exception.ErrInvalidArgument, "%s locked balance for side %s", inst.ID, side)
	}
}

// CalculatePnls books the cash legs of fill. Only the open quantity of a
// non-flat position counts.
func (a *CashAccount) CalculatePnls(inst instrument.Instrument, fill event.Filled, pos *position.Position) ([]types.Money, error) {
	qty := fill.LastQty
	if pos != nil && !pos.Quantity().IsZero() && pos.Quantity().Cmp(qty) < 0 {
		qty = pos.Quantity()
	}
	notional, err := inst.NotionalValue(qty, fill.LastPx, false)
	if err != nil {
		return nil, err
	}

	var pnls pnlSet
	_, single := a.BaseCurrency()
	if !single && !inst.BaseCurrency.IsZero() {
		amount, err := types.NewMoneyFromDecimal(qty.Decimal(), inst.BaseCurrency)
		if err != nil {
			return nil, err
		}
		if fill.IsSell() {
			amount = amount.Neg()
		}
		if err := pnls.add(amount); err != nil {
			return nil, err
		}
	}
	if fill.IsBuy() {
		notional = notional.Neg()
	}
	if err := pnls.add(notional); err != nil {
		return nil, err
	}
	return pnls, nil
}

// UpdateBalances applies fill pnls and commission. A cash balance never goes
// negative; on error nothing changes.
func (a *CashAccount) UpdateBalances(pnls []types.Money, commission *types.Money) error {
	next, err := a.adjustTotals(pnls, commission)
	if err != nil {
		return err
	}
	for _, bal := range next {
		if bal.Total.Sign() < 0 {
			return errors.Wrapf(exception.ErrAccountBalanceNegative, "%s total %s", a.id, bal.Total)
		}
	}
	a.balances = next
	a.events++
	return nil
}

// pnlSet keeps one entry per currency in first-seen order.
type pnlSet []types.Money

func (s *pnlSet) add(m types.Money) error {
	for i, existing := range *s {
		if existing.Currency().Code == m.Currency().Code {
			sum, err := existing.Add(m)
			if err != nil {
				return err
			}
			(*s)[i] = sum
			return nil
		}
	}
	*s = append(*s, m)
	return nil
}
