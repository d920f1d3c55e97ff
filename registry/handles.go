package registry

import "sync/atomic"

// HandleSource issues fresh handles. It must never return 0 and never return
// the same handle twice. Next may block only briefly.
type HandleSource interface {
	Next() (uint64, error)
}

// Sequential issues 1, 2, 3, ... from an in-process counter.
type Sequential struct {
	n atomic.Uint64
}

var _ HandleSource = (*Sequential)(nil)

func NewSequential() *Sequential { return &Sequential{} }

func (s *Sequential) Next() (uint64, error) {
	h := s.n.Add(1)
	if h == 0 {
		return 0, ErrExhausted
	}
	return h, nil
}
