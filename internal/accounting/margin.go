package accounting

import (
	"maps"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"tradecore/internal/errors"
	"tradecore/internal/model/enum"
	"tradecore/internal/model/event"
	"tradecore/internal/model/identifier"
	"tradecore/internal/model/instrument"
	"tradecore/internal/model/position"
	"tradecore/internal/model/types"
	"tradecore/pkg/exception"
)

var two = decimal.NewFromInt(2)

// Margin is what one instrument holds against the account.
type Margin struct {
	InstrumentID identifier.InstrumentID
	Initial      types.Money
	Maintenance  types.Money
}

// MarginAccount books realized pnl only and locks initial plus maintenance
// margin per instrument.
type MarginAccount struct {
	base
	defaultLeverage decimal.Decimal
	leverages       map[identifier.InstrumentID]decimal.Decimal
	margins         map[identifier.InstrumentID]Margin
}

func NewMarginAccount(id identifier.AccountID, baseCurrency types.Currency, starting ...types.Money) (*MarginAccount, error) {
	b, err := newBase(id, enum.AccountTypeMargin, baseCurrency, starting)
	if err != nil {
		return nil, err
	}
	return &MarginAccount{
		base:            b,
		defaultLeverage: decimal.NewFromInt(1),
		leverages:       make(map[identifier.InstrumentID]decimal.Decimal),
		margins:         make(map[identifier.InstrumentID]Margin),
	}, nil
}

func (a *MarginAccount) DefaultLeverage() decimal.Decimal { return a.defaultLeverage }

func (a *MarginAccount) SetDefaultLeverage(leverage decimal.Decimal) error {
	if leverage.Sign() <= 0 {
		return errors.Wrapf(exception.ErrAccountInvalidLeverage, "%s default leverage %s", a.id, leverage)
	}
	a.defaultLeverage = leverage
	return nil
}

func (a *MarginAccount) SetLeverage(id identifier.InstrumentID, leverage decimal.Decimal) error {
	if leverage.Sign() <= 0 {
		return errors.Wrapf(exception.ErrAccountInvalidLeverage, "%s leverage %s for %s", a.id, leverage, id)
	}
	a.leverages[id] = leverage
	return nil
}

// Leverage falls back to the default leverage.
func (a *MarginAccount) Leverage(id identifier.InstrumentID) decimal.Decimal {
	if l, ok := a.leverages[id]; ok {
		return l
	}
	return a.defaultLeverage
}

func (a *MarginAccount) IsUnleveraged(id identifier.InstrumentID) bool {
	return a.Leverage(id).Equal(decimal.NewFromInt(1))
}

// CalculateInitialMargin is notional / leverage * (margin_init + 2 * taker_fee).
func (a *MarginAccount) CalculateInitialMargin(inst instrument.Instrument, qty types.Quantity, px types.Price, useQuoteForInverse bool) (types.Money, error) {
	return a.margin(inst, qty, px, useQuoteForInverse, inst.MarginInit.Add(inst.TakerFee.Mul(two)))
}

// CalculateMaintenanceMargin is notional / leverage * (margin_maint + taker_fee).
func (a *MarginAccount) CalculateMaintenanceMargin(inst instrument.Instrument, qty types.Quantity, px types.Price, useQuoteForInverse bool) (types.Money, error) {
	return a.margin(inst, qty, px, useQuoteForInverse, inst.MarginMaint.Add(inst.TakerFee))
}

func (a *MarginAccount) margin(inst instrument.Instrument, qty types.Quantity, px types.Price, useQuoteForInverse bool, rate decimal.Decimal) (types.Money, error) {
	notional, err := inst.NotionalDecimal(qty, px, useQuoteForInverse)
	if err != nil {
		return types.Money{}, err
	}
	adjusted := notional.Div(a.Leverage(inst.ID))
	return types.NewMoneyFromDecimal(adjusted.Mul(rate), notionalCurrency(inst, useQuoteForInverse))
}

// UpdateMargin replaces the margins held for an instrument and recomputes the
// locked amount of their currency. Both amounts must share a currency.
func (a *MarginAccount) UpdateMargin(m Margin) error {
	if m.Initial.Currency().Code != m.Maintenance.Currency().Code {
		return errors.Wrapf(exception.ErrCurrencyMismatch, "%s margin %s and %s", m.InstrumentID, m.Initial, m.Maintenance)
	}
	next := maps.Clone(a.margins)
	next[m.InstrumentID] = m
	balances, err := a.relock(next, m.Initial.Currency())
	if err != nil {
		return err
	}
	a.margins = next
	a.balances = balances
	return nil
}

// ClearMargin drops the margins held for id.
func (a *MarginAccount) ClearMargin(id identifier.InstrumentID) error {
	m, ok := a.margins[id]
	if !ok {
		return nil
	}
	next := maps.Clone(a.margins)
	delete(next, id)
	balances, err := a.relock(next, m.Initial.Currency())
	if err != nil {
		return err
	}
	a.margins = next
	a.balances = balances
	return nil
}

func (a *MarginAccount) Margin(id identifier.InstrumentID) (Margin, bool) {
	m, ok := a.margins[id]
	return m, ok
}

// Margins are sorted by instrument id.
func (a *MarginAccount) Margins() []Margin {
	ids := slices.SortedFunc(maps.Keys(a.margins), func(x, y identifier.InstrumentID) int {
		return strings.Compare(x.String(), y.String())
	})
	out := make([]Margin, 0, len(ids))
	for _, id := range ids {
		out = append(out, a.margins[id])
	}
	return out
}

func (a *MarginAccount) relock(margins map[identifier.InstrumentID]Margin, currency types.Currency) (map[string]Balance, error) {
	bal, ok := a.balances[currency.Code]
	if !ok {
		return nil, errors.Wrapf(exception.ErrAccountNoBalance, "%s %s", a.id, currency.Code)
	}
	locked := types.MoneyZero(currency)
	for _, m := range margins {
		if m.Initial.Currency().Code != currency.Code {
			continue
		}
		var err error
		if locked, err = locked.Add(m.Initial); err != nil {
			return nil, err
		}
		if locked, err = locked.Add(m.Maintenance); err != nil {
			return nil, err
		}
	}
	updated, err := newBalance(bal.Total, locked)
	if err != nil {
		return nil, err
	}
	if updated.Free.Sign() < 0 {
		return nil, errors.Wrapf(exception.ErrAccountMarginExceeded, "%s locked %s of %s", a.id, locked, bal.Total)
	}
	next := maps.Clone(a.balances)
	next[currency.Code] = updated
	return next, nil
}

// CalculatePnls is the realized pnl of a fill that reduces pos; opening fills
// realize nothing.
func (a *MarginAccount) CalculatePnls(_ instrument.Instrument, fill event.Filled, pos *position.Position) ([]types.Money, error) {
	if pos == nil || pos.Entry() == fill.OrderSide {
		return nil, nil
	}
	pnl, err := pos.CalculatePnl(pos.AvgPxOpen(), fill.LastPx.Float64(), fill.LastQty)
	if err != nil {
		return nil, err
	}
	return []types.Money{pnl}, nil
}

// UpdateBalances applies realized pnls and commission. Totals may go negative
// on a margin account.
func (a *MarginAccount) UpdateBalances(pnls []types.Money, commission *types.Money) error {
	next, err := a.adjustTotals(pnls, commission)
	if err != nil {
		return err
	}
	a.balances = next
	a.events++
	return nil
}
