package risk

// Reason names the check that denied an order.
//
//go:generate enumgen
type Reason uint8

const (
	_reason_beg Reason = iota
	ReasonNone
	ReasonKillSwitch
	ReasonRateLimit
	ReasonMaxQty
	ReasonPriceBand
	ReasonMaxNotional
	ReasonPositionLimit
	ReasonReduceOnly
	_reason_end
)

func (r Reason) IsAvailable() bool {
	return r > _reason_beg && r < _reason_end
}
