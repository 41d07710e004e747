package sim

import (
	"sync"

	"github.com/san-kum/spheresim/internal/body"
)

// FramePool recycles frame buffers for callers that only need a frame for
// the duration of a callback.
type FramePool struct {
	pool sync.Pool
}

func NewFramePool() *FramePool {
	return &FramePool{
		pool: sync.Pool{
			New: func() interface{} {
				f := make(Frame, 0, 64)
				return &f
			},
		},
	}
}

func (p *FramePool) Get() *Frame {
	return p.pool.Get().(*Frame)
}

func (p *FramePool) Put(f *Frame) {
	*f = (*f)[:0]
	p.pool.Put(f)
}

// GetAndCopy returns a pooled frame holding a copy of src.
func (p *FramePool) GetAndCopy(src []body.Body) *Frame {
	f := p.Get()
	*f = append((*f)[:0], src...)
	return f
}
