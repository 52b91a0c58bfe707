package obs

import (
	"sync/atomic"
)

// Sequence hands out monotonically increasing sequence numbers, used to
// order journal records.
type Sequence struct {
	next uint64
}

// NewSequence starts after last, so the first Next returns last+1.
func NewSequence(last uint64) *Sequence {
	return &Sequence{next: last}
}

func (s *Sequence) Next() uint64 {
	if s == nil {
		return 0
	}
	return atomic.AddUint64(&s.next, 1)
}

// Last is the most recently issued number.
func (s *Sequence) Last() uint64 {
	if s == nil {
		return 0
	}
	return atomic.LoadUint64(&s.next)
}
