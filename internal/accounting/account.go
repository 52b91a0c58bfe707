package accounting

import (
	"maps"
	"slices"

	"tradecore/internal/errors"
	"tradecore/internal/model/enum"
	"tradecore/internal/model/event"
	"tradecore/internal/model/identifier"
	"tradecore/internal/model/instrument"
	"tradecore/internal/model/position"
	"tradecore/internal/model/types"
	"tradecore/pkg/exception"
)

// Account is implemented by CashAccount and MarginAccount.
type Account interface {
	ID() identifier.AccountID
	Type() enum.AccountType
	// BaseCurrency is false for multi-currency accounts.
	BaseCurrency() (types.Currency, bool)
	Balance(currency types.Currency) (Balance, bool)
	Balances() []Balance
	CalculateCommission(inst instrument.Instrument, qty types.Quantity, px types.Price, liquidity enum.LiquiditySide, useQuoteForInverse bool) (types.Money, error)
	// CalculatePnls is called with the position as it was before fill.
	CalculatePnls(inst instrument.Instrument, fill event.Filled, pos *position.Position) ([]types.Money, error)
	UpdateBalances(pnls []types.Money, commission *types.Money) error
}

// Balance is one currency of an account. Free is Total less Locked.
type Balance struct {
	Total  types.Money
	Locked types.Money
	Free   types.Money
}

func (b Balance) Currency() types.Currency { return b.Total.Currency() }

func newBalance(total, locked types.Money) (Balance, error) {
	free, err := total.Sub(locked)
	if err != nil {
		return Balance{}, err
	}
	return Balance{Total: total, Locked: locked, Free: free}, nil
}

type base struct {
	id       identifier.AccountID
	typ      enum.AccountType
	currency types.Currency
	balances map[string]Balance
	starting map[string]types.Money
	events   int
}

func newBase(id identifier.AccountID, typ enum.AccountType, baseCurrency types.Currency, starting []types.Money) (base, error) {
	b := base{
		id:       id,
		typ:      typ,
		currency: baseCurrency,
		balances: make(map[string]Balance, len(starting)),
		starting: make(map[string]types.Money, len(starting)),
	}
	for _, m := range starting {
		code := m.Currency().Code
		if _, ok := b.starting[code]; ok {
			return base{}, errors.Wrapf(exception.ErrInvalidArgument, "%s starting balance %s given twice", id, code)
		}
		bal, err := newBalance(m, types.MoneyZero(m.Currency()))
		if err != nil {
			return base{}, err
		}
		b.starting[code] = m
		b.balances[code] = bal
	}
	return b, nil
}

func (b *base) ID() identifier.AccountID { return b.id }
func (b *base) Type() enum.AccountType   { return b.typ }
func (b *base) EventCount() int          { return b.events }

func (b *base) BaseCurrency() (types.Currency, bool) {
	return b.currency, !b.currency.IsZero()
}

func (b *base) Balance(currency types.Currency) (Balance, bool) {
	bal, ok := b.balances[currency.Code]
	return bal, ok
}

// Balances are sorted by currency code.
func (b *base) Balances() []Balance {
	out := make([]Balance, 0, len(b.balances))
	for _, code := range slices.Sorted(maps.Keys(b.balances)) {
		out = append(out, b.balances[code])
	}
	return out
}

func (b *base) StartingBalances() []types.Money {
	out := make([]types.Money, 0, len(b.starting))
	for _, code := range slices.Sorted(maps.Keys(b.starting)) {
		out = append(out, b.starting[code])
	}
	return out
}

func (b *base) CalculateCommission(inst instrument.Instrument, qty types.Quantity, px types.Price, liquidity enum.LiquiditySide, useQuoteForInverse bool) (types.Money, error) {
	return CalculateCommission(inst, qty, px, liquidity, useQuoteForInverse)
}

// adjustTotals adds pnls and subtracts commission from the totals, keeping
// locked amounts. Currencies without a balance are opened at zero.
func (b *base) adjustTotals(pnls []types.Money, commission *types.Money) (map[string]Balance, error) {
	next := maps.Clone(b.balances)
	add := func(m types.Money) error {
		code := m.Currency().Code
		bal, ok := next[code]
		if !ok {
			zero := types.MoneyZero(m.Currency())
			bal = Balance{Total: zero, Locked: zero, Free: zero}
		}
		total, err := bal.Total.Add(m)
		if err != nil {
			return err
		}
		updated, err := newBalance(total, bal.Locked)
		if err != nil {
			return err
		}
		next[code] = updated
		return nil
	}
	for _, pnl := range pnls {
		if err := add(pnl); err != nil {
			return nil, errors.Wrapf(err, "%s pnl %s", b.id, pnl)
		}
	}
	if commission != nil && !commission.IsZero() {
		if err := add(commission.Neg()); err != nil {
			return nil, errors.Wrapf(err, "%s commission %s", b.id, commission)
		}
	}
	return next, nil
}
