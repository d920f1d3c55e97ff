// Package krpc implements the value codec of the kRPC protocol: every argument
// and return value that crosses the client/server boundary is encoded here.
//
// Encoding is driven by the runtime type of a value; decoding needs the target
// type out of band because the wire carries no type tags for scalars or
// containers.
//
// Components:
//   - types.Classifier: maps a Go type to one category (scalar, enum,
//     reference, message, list, dictionary, set, tuple).
//   - Registry: issues opaque uint64 handles for live objects that cannot be
//     serialized, and resolves them back (see package registry).
//   - schema: the fixed protobuf wrappers for containers and the request
//     envelope.
//
// Wire shapes:
//
//	absent      varint 0
//	scalar      protobuf primitive encoding (fixed64/fixed32/varint/length-delimited)
//	enum        int32 varint
//	reference   uint64 varint handle
//	message     the message's own encoding
//	list, set   schema.List / schema.Set, one encoded element per item
//	dictionary  schema.Dictionary, one encoded key/value per entry
//	tuple       schema.Tuple, one encoded element per position
//
// Usage:
//
//	reg := registry.NewLocal(registry.Options{})
//	c, _ := krpc.New(krpc.Options{Registry: reg})
//	b, _ := c.Encode([]int32{1, 2, 3})
//	xs, _ := krpc.DecodeAs[[]int32](c, b)
package krpc
