package event

// Kind discriminates order events on the wire and in the journal.
//
//go:generate enumgen
type Kind uint8

const (
	_kind_beg Kind = iota
	KindInitialized
	KindDenied
	KindInvalid
	KindEmulated
	KindReleased
	KindSubmitted
	KindAccepted
	KindRejected
	KindCanceled
	KindExpired
	KindTriggered
	KindPendingUpdate
	KindPendingCancel
	KindModifyRejected
	KindCancelRejected
	KindUpdated
	KindFilled
	_kind_end
)

func (k Kind) IsAvailable() bool {
	return k > _kind_beg && k < _kind_end
}
