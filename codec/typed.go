package codec

import (
	"errors"

	"github.com/jason-costello/krpc"
)

// Typed is the krpc wire format for values of type V.
// The zero value is NOT ready to use. Construct with NewTyped.
type Typed[V any] struct {
	c *krpc.Codec
}

var _ Codec[int32] = Typed[int32]{}

func NewTyped[V any](c *krpc.Codec) (Typed[V], error) {
	if c == nil {
		return Typed[V]{}, errors.New("codec: nil krpc codec")
	}
	return Typed[V]{c: c}, nil
}

func (t Typed[V]) Encode(v V) ([]byte, error) { return t.c.Encode(v) }
func (t Typed[V]) Decode(b []byte) (V, error) { return krpc.DecodeAs[V](t.c, b) }
