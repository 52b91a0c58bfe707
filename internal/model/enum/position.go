package enum

// PositionSide flat, long, short
//
//go:generate enumgen
type PositionSide uint8

const (
	_position_side_beg PositionSide = iota
	PositionSideFlat
	PositionSideLong
	PositionSideShort
	_position_side_end
)

func (s PositionSide) IsAvailable() bool {
	return s > _position_side_beg && s < _position_side_end
}

// ClosingOrderSide is the order side that reduces a position of this side.
func (s PositionSide) ClosingOrderSide() OrderSide {
	switch s {
	case PositionSideLong:
		return OrderSideSell
	case PositionSideShort:
		return OrderSideBuy
	default:
		return _order_side_beg
	}
}

// OmsType netting keeps one position per instrument and strategy, hedging one per position id
//
//go:generate enumgen
type OmsType uint8

const (
	_oms_type_beg OmsType = iota
	OmsTypeNetting
	OmsTypeHedging
	_oms_type_end
)

func (t OmsType) IsAvailable() bool {
	return t > _oms_type_beg && t < _oms_type_end
}
