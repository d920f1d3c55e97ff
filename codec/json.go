package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

// JSON encodes with encoding/json. Indent, when set, pretty-prints with that
// indent string. Decode keeps numbers as json.Number so 64-bit integers
// survive a round trip through any, and rejects anything after the value.
type JSON[V any] struct {
	Indent string
}

var _ Codec[any] = JSON[any]{}

func (c JSON[V]) Encode(v V) ([]byte, error) {
	if c.Indent == "" {
		return json.Marshal(v)
	}
	return json.MarshalIndent(v, "", c.Indent)
}

func (JSON[V]) Decode(b []byte) (V, error) {
	var v V
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return v, err
	}
	if _, err := dec.Token(); err != io.EOF {
		var zero V
		return zero, errors.New("codec: trailing data after JSON value")
	}
	return v, nil
}
