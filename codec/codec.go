// Package codec holds byte codecs used around the krpc wire format: Typed
// binds a *krpc.Codec to a Go type, and JSON, CBOR and Msgpack re-emit decoded
// values for inspection (see package transcode).
package codec

// Codec encodes/decodes values V to []byte.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
