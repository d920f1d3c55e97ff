package types

// Enum is implemented by named integer types whose values are a closed set of
// constants. Defined reports whether the receiver is one of those constants;
// decoders use it to reject unknown ordinals.
//
// Protobuf generated enums (protoreflect.Enum) are recognized without
// implementing Enum.
type Enum interface {
	Defined() bool
}

// Remote is implemented by live server-side objects that cannot be serialized
// and instead cross the wire as an opaque handle.
type Remote interface {
	RemoteObject()
}

// Message is implemented by values that carry their own wire schema and write
// it inline. Protobuf messages (proto.Message) are recognized without
// implementing Message.
type Message interface {
	MarshalProto() ([]byte, error)
}
