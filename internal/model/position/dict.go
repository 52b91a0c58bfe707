package position

import (
	"strconv"
	"strings"
)

// ToDict flattens the position to strings. Absent values are omitted.
func (p *Position) ToDict() map[string]string {
	d := map[string]string{
		"position_id":         string(p.id),
		"trader_id":           string(p.traderID),
		"strategy_id":         string(p.strategyID),
		"instrument_id":       p.inst.ID.String(),
		"account_id":          string(p.accountID),
		"opening_order_id":    string(p.openingOrderID),
		"entry":               p.entry.String(),
		"side":                p.side.String(),
		"signed_qty":          p.signedQty.String(),
		"quantity":            p.quantity.String(),
		"peak_qty":            p.peakQty.String(),
		"ts_init":             strconv.FormatUint(p.tsInit, 10),
		"ts_opened":           strconv.FormatUint(p.tsOpened, 10),
		"ts_last":             strconv.FormatUint(p.tsLast, 10),
		"ts_closed":           strconv.FormatUint(p.tsClosed, 10),
		"duration_ns":         strconv.FormatUint(p.durationNs, 10),
		"avg_px_open":         formatFloat(p.avgPxOpen),
		"quote_currency":      p.inst.QuoteCurrency.Code,
		"settlement_currency": p.SettlementCurrency().Code,
		"realized_return":     formatFloat(p.realizedReturn),
		"realized_pnl":        p.RealizedPnl().String(),
	}
	if p.closingOrderID != nil {
		d["closing_order_id"] = string(*p.closingOrderID)
	}
	if p.avgPxClose != nil {
		d["avg_px_close"] = formatFloat(*p.avgPxClose)
	}
	if !p.inst.BaseCurrency.IsZero() {
		d["base_currency"] = p.inst.BaseCurrency.Code
	}
	if commissions := p.Commissions(); len(commissions) > 0 {
		parts := make([]string, 0, len(commissions))
		for _, m := range commissions {
			parts = append(parts, m.String())
		}
		d["commissions"] = strings.Join(parts, ",")
	}
	return d
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
