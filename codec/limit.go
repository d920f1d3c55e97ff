package codec

import (
	"fmt"

	"github.com/jason-costello/krpc"
)

// Limit wraps another codec to enforce a maximum payload size at Decode
// time. Encode is forwarded to Inner unchanged.
// If MaxDecode <= 0, size limiting is disabled.
//
// Typical use: bound what an untrusted peer can make Decode allocate.
type Limit[V any] struct {
	// Inner is the underlying codec being wrapped. It must be set.
	Inner Codec[V]
	// MaxDecode is the maximum permitted payload length in bytes. Larger
	// payloads fail with an error wrapping krpc.ErrTooLarge without
	// invoking Inner.
	MaxDecode int
}

var _ Codec[any] = Limit[any]{}

func (c Limit[V]) Encode(v V) ([]byte, error) { return c.Inner.Encode(v) }
func (c Limit[V]) Decode(b []byte) (V, error) {
	if c.MaxDecode > 0 && len(b) > c.MaxDecode {
		var zero V
		return zero, fmt.Errorf("codec: %w: %d > %d", krpc.ErrTooLarge, len(b), c.MaxDecode)
	}
	return c.Inner.Decode(b)
}
