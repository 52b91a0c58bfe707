package order

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tradecore/internal/errors"
	"tradecore/internal/model/enum"
	"tradecore/internal/model/event"
	"tradecore/internal/model/identifier"
	"tradecore/internal/model/types"
	"tradecore/pkg/exception"
)

// ToDict flattens the order into canonical strings. Absent optional fields
// are left out; lists are comma joined.
func (o *Order) ToDict() map[string]string {
	d := map[string]string{
		"trader_id":         string(o.traderID),
		"strategy_id":       string(o.strategyID),
		"instrument_id":     o.instrumentID.String(),
		"client_order_id":   string(o.clientOrderID),
		"type":              o.typ.String(),
		"side":              o.side.String(),
		"quantity":          o.quantity.String(),
		"time_in_force":     o.timeInForce.String(),
		"filled_qty":        o.filledQty.String(),
		"liquidity_side":    o.liquiditySide.String(),
		"status":            o.status.String(),
		"is_post_only":      strconv.FormatBool(o.params.PostOnly),
		"is_reduce_only":    strconv.FormatBool(o.reduceOnly),
		"is_quote_quantity": strconv.FormatBool(o.quoteQuantity),
		"emulation_trigger": o.emulationTrigger.String(),
		"contingency_type":  o.contingencyType.String(),
		"init_id":           o.initID.String(),
		"ts_init":           strconv.FormatUint(o.tsInit, 10),
		"ts_last":           strconv.FormatUint(o.tsLast, 10),
	}

	putString(d, "venue_order_id", o.venueOrderID)
	putString(d, "position_id", o.positionID)
	putString(d, "account_id", o.accountID)
	putString(d, "last_trade_id", o.lastTradeID)
	putString(d, "order_list_id", o.orderListID)
	putString(d, "parent_order_id", o.parentOrderID)
	putString(d, "exec_algorithm_id", o.execAlgorithmID)
	putString(d, "exec_spawn_id", o.execSpawnID)
	putText(d, "price", o.params.Price)
	putText(d, "trigger_price", o.params.TriggerPrice)
	putText(d, "display_qty", o.params.DisplayQty)
	putText(d, "trigger_instrument_id", o.params.TriggerInstrumentID)
	if o.typ.HasTriggerPrice() {
		d["trigger_type"] = o.params.TriggerType.String()
	}
	if o.params.LimitOffset != nil {
		d["limit_offset"] = o.params.LimitOffset.String()
	}
	if o.params.TrailingOffset != nil {
		d["trailing_offset"] = o.params.TrailingOffset.String()
	}
	if o.typ.IsTrailing() {
		d["trailing_offset_type"] = o.params.TrailingOffsetType.String()
	}
	if o.params.ExpireTime != nil {
		d["expire_time_ns"] = strconv.FormatUint(*o.params.ExpireTime, 10)
	}
	if o.avgPx != nil {
		d["avg_px"] = strconv.FormatFloat(*o.avgPx, 'f', -1, 64)
	}
	if o.slippage != nil {
		d["slippage"] = strconv.FormatFloat(*o.slippage, 'f', -1, 64)
	}
	if len(o.commissions) > 0 {
		d["commissions"] = joinMoney(o.Commissions())
	}
	if len(o.linkedOrderIDs) > 0 {
		d["linked_order_ids"] = joinIDs(o.linkedOrderIDs)
	}
	if len(o.execAlgorithmParams) > 0 {
		pairs := make([]string, 0, len(o.execAlgorithmParams))
		for _, k := range slices.Sorted(maps.Keys(o.execAlgorithmParams)) {
			pairs = append(pairs, k+"="+o.execAlgorithmParams[k])
		}
		d["exec_algorithm_params"] = strings.Join(pairs, ",")
	}
	if len(o.tags) > 0 {
		d["tags"] = strings.Join(o.tags, ",")
	}
	if len(o.venueOrderIDs) > 0 {
		d["venue_order_ids"] = joinIDs(o.venueOrderIDs)
	}
	if len(o.tradeIDs) > 0 {
		d["trade_ids"] = joinIDs(o.tradeIDs)
	}
	if o.previousStatus.IsAvailable() {
		d["previous_status"] = o.previousStatus.String()
	}
	if o.isTriggered {
		d["is_triggered"] = "true"
	}
	putTs(d, "ts_submitted", o.tsSubmitted)
	putTs(d, "ts_accepted", o.tsAccepted)
	putTs(d, "ts_triggered", o.tsTriggered)
	putTs(d, "ts_closed", o.tsClosed)
	return d
}

// FromDict rebuilds an order from ToDict output. The result holds a single
// init event carrying the current order parameters.
func FromDict(d map[string]string) (*Order, error) {
	r := dictReader{d: d}

	init := event.Initialized{
		Header: event.Header{
			TraderID:      identifier.TraderID(r.required("trader_id")),
			StrategyID:    identifier.StrategyID(r.required("strategy_id")),
			ClientOrderID: identifier.ClientOrderID(r.required("client_order_id")),
		},
		PostOnly:      r.bool("is_post_only"),
		ReduceOnly:    r.bool("is_reduce_only"),
		QuoteQuantity: r.bool("is_quote_quantity"),
	}
	init.InstrumentID = parseRequired(&r, "instrument_id", identifier.ParseInstrumentID)
	init.Type = parseRequired(&r, "type", enum.ParseOrderType)
	init.Side = parseRequired(&r, "side", enum.ParseOrderSide)
	init.Quantity = parseRequired(&r, "quantity", types.ParseQuantity)
	init.TimeInForce = parseRequired(&r, "time_in_force", enum.ParseTimeInForce)
	init.EventID = parseRequired(&r, "init_id", uuid.Parse)
	init.TsEvent = parseRequired(&r, "ts_init", parseUint)
	init.TsInit = init.TsEvent
	init.Price = parseOptional(&r, "price", types.ParsePrice)
	init.TriggerPrice = parseOptional(&r, "trigger_price", types.ParsePrice)
	init.DisplayQty = parseOptional(&r, "display_qty", types.ParseQuantity)
	init.TriggerInstrumentID = parseOptional(&r, "trigger_instrument_id", identifier.ParseInstrumentID)
	init.LimitOffset = parseOptional(&r, "limit_offset", decimal.NewFromString)
	init.TrailingOffset = parseOptional(&r, "trailing_offset", decimal.NewFromString)
	init.ExpireTime = parseOptional(&r, "expire_time_ns", parseUint)
	if v := parseOptional(&r, "trigger_type", enum.ParseTriggerType); v != nil {
		init.TriggerType = *v
	}
	if v := parseOptional(&r, "trailing_offset_type", enum.ParseTrailingOffsetType); v != nil {
		init.TrailingOffsetType = *v
	}
	init.EmulationTrigger = parseRequired(&r, "emulation_trigger", enum.ParseTriggerType)
	init.ContingencyType = parseRequired(&r, "contingency_type", enum.ParseContingencyType)
	init.OrderListID = optionalID[identifier.OrderListID](&r, "order_list_id")
	init.ParentOrderID = optionalID[identifier.ClientOrderID](&r, "parent_order_id")
	init.ExecAlgorithmID = optionalID[identifier.ExecAlgorithmID](&r, "exec_algorithm_id")
	init.ExecSpawnID = optionalID[identifier.ClientOrderID](&r, "exec_spawn_id")
	init.LinkedOrderIDs = splitIDs[identifier.ClientOrderID](d["linked_order_ids"])
	init.Tags = splitIDs[string](d["tags"])
	if v, ok := d["exec_algorithm_params"]; ok && v != "" {
		init.ExecAlgorithmParams = make(map[string]string)
		for _, pair := range strings.Split(v, ",") {
			k, val, found := strings.Cut(pair, "=")
			if !found {
				r.fail("exec_algorithm_params", pair)
				break
			}
			init.ExecAlgorithmParams[k] = val
		}
	}
	if r.err != nil {
		return nil, r.err
	}

	// A market-to-limit order only gets its price from the first fill.
	var fillPrice *types.Price
	if init.Type == enum.OrderTypeMarketToLimit {
		fillPrice, init.Price = init.Price, nil
	}
	o, err := New(init)
	if err != nil {
		return nil, errors.Wrap(err, "order from dict")
	}
	if fillPrice != nil {
		o.params.Price = fillPrice
	}

	o.status = parseRequired(&r, "status", enum.ParseOrderStatus)
	if v := parseOptional(&r, "previous_status", enum.ParseOrderStatus); v != nil {
		o.previousStatus = *v
	}
	o.filledQty = parseRequired(&r, "filled_qty", types.ParseQuantity)
	o.liquiditySide = parseRequired(&r, "liquidity_side", enum.ParseLiquiditySide)
	o.avgPx = parseOptional(&r, "avg_px", parseFloat)
	o.slippage = parseOptional(&r, "slippage", parseFloat)
	o.venueOrderID = optionalID[identifier.VenueOrderID](&r, "venue_order_id")
	o.positionID = optionalID[identifier.PositionID](&r, "position_id")
	o.accountID = optionalID[identifier.AccountID](&r, "account_id")
	o.lastTradeID = optionalID[identifier.TradeID](&r, "last_trade_id")
	o.venueOrderIDs = splitIDs[identifier.VenueOrderID](d["venue_order_ids"])
	o.tradeIDs = splitIDs[identifier.TradeID](d["trade_ids"])
	o.isTriggered = r.bool("is_triggered")
	o.tsLast = parseRequired(&r, "ts_last", parseUint)
	o.tsSubmitted = optionalTs(&r, "ts_submitted")
	o.tsAccepted = optionalTs(&r, "ts_accepted")
	o.tsTriggered = optionalTs(&r, "ts_triggered")
	o.tsClosed = optionalTs(&r, "ts_closed")
	for _, s := range splitIDs[string](d["commissions"]) {
		m, err := types.ParseMoney(s)
		if err != nil {
			r.fail("commissions", s)
			break
		}
		o.commissions[m.Currency().Code] = m
	}
	if r.err != nil {
		return nil, r.err
	}

	leaves, err := o.quantity.Sub(o.filledQty)
	if err != nil {
		return nil, errors.Wrapf(exception.ErrOrderInvalidDict, "filled_qty %s exceeds quantity %s", o.filledQty, o.quantity)
	}
	o.leavesQty = leaves
	return o, nil
}

// dictReader keeps the first failure so field reads can be chained.
type dictReader struct {
	d   map[string]string
	err error
}

func (r *dictReader) fail(key, value string) {
	if r.err == nil {
		r.err = errors.Wrapf(exception.ErrOrderInvalidDict, "%s=%q", key, value)
	}
}

func (r *dictReader) required(key string) string {
	v, ok := r.d[key]
	if !ok {
		if r.err == nil {
			r.err = errors.Wrapf(exception.ErrOrderInvalidDict, "missing %s", key)
		}
		return ""
	}
	return v
}

func (r *dictReader) bool(key string) bool {
	v, ok := r.d[key]
	if !ok {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.fail(key, v)
	}
	return b
}

func parseRequired[T any](r *dictReader, key string, parse func(string) (T, error)) T {
	var zero T
	raw := r.required(key)
	if r.err != nil {
		return zero
	}
	v, err := parse(raw)
	if err != nil {
		r.fail(key, raw)
		return zero
	}
	return v
}

func parseOptional[T any](r *dictReader, key string, parse func(string) (T, error)) *T {
	raw, ok := r.d[key]
	if !ok {
		return nil
	}
	v, err := parse(raw)
	if err != nil {
		r.fail(key, raw)
		return nil
	}
	return &v
}

func optionalID[T ~string](r *dictReader, key string) *T {
	raw, ok := r.d[key]
	if !ok {
		return nil
	}
	if raw == "" {
		r.fail(key, raw)
		return nil
	}
	v := T(raw)
	return &v
}

func optionalTs(r *dictReader, key string) uint64 {
	if v := parseOptional(r, key, parseUint); v != nil {
		return *v
	}
	return 0
}

func splitIDs[T ~string](s string) []T {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]T, 0, len(parts))
	for _, p := range parts {
		out = append(out, T(p))
	}
	return out
}

func parseUint(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

func putString[T ~string](d map[string]string, key string, v *T) {
	if v != nil {
		d[key] = string(*v)
	}
}

func putText[T interface{ String() string }](d map[string]string, key string, v *T) {
	if v != nil {
		d[key] = (*v).String()
	}
}

func putTs(d map[string]string, key string, ts uint64) {
	if ts != 0 {
		d[key] = strconv.FormatUint(ts, 10)
	}
}

func joinIDs[T ~string](items []T) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, string(it))
	}
	return strings.Join(parts, ",")
}

func joinMoney(items []types.Money) string {
	parts := make([]string, 0, len(items))
	for _, m := range items {
		parts = append(parts, m.String())
	}
	return strings.Join(parts, ",")
}
