package schema

import (
	"bytes"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// Request is the inbound call envelope. It is the only message type the
// codec decodes; argument values inside it are krpc-encoded payloads.
type Request struct {
	Service   string
	Procedure string
	Arguments []Argument
}

// Argument is one positional argument of a Request. Position is zero-based.
type Argument struct {
	Position uint32
	Value    []byte
}

// Response is the outbound result envelope.
type Response struct {
	Time           float64
	HasError       bool
	Error          string
	HasReturnValue bool
	ReturnValue    []byte
}

func (m *Request) MarshalProto() ([]byte, error) {
	var b, arg []byte
	if m.Service != "" {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendString(b, m.Service)
	}
	if m.Procedure != "" {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendString(b, m.Procedure)
	}
	for i := range m.Arguments {
		arg = m.Arguments[i].appendTo(arg[:0])
		b = appendBytesField(b, 3, arg)
	}
	return b, nil
}

func (m *Request) UnmarshalProto(b []byte) error {
	var r Request
	err := walk(b, "Request", func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeBytes("Request.service", typ, b)
			r.Service = string(v)
			return n, err
		case 2:
			v, n, err := consumeBytes("Request.procedure", typ, b)
			r.Procedure = string(v)
			return n, err
		case 3:
			v, n, err := consumeBytes("Request.arguments", typ, b)
			if err != nil {
				return 0, err
			}
			var a Argument
			if err := a.UnmarshalProto(v); err != nil {
				return 0, err
			}
			r.Arguments = append(r.Arguments, a)
			return n, nil
		}
		return skip, nil
	})
	if err != nil {
		return err
	}
	*m = r
	return nil
}

func (m *Argument) appendTo(b []byte) []byte {
	if m.Position != 0 {
		b = protowire.AppendTag(b, 1, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(m.Position))
	}
	if len(m.Value) > 0 {
		b = appendBytesField(b, 2, m.Value)
	}
	return b
}

func (m *Argument) MarshalProto() ([]byte, error) { return m.appendTo(nil), nil }

func (m *Argument) UnmarshalProto(b []byte) error {
	var a Argument
	err := walk(b, "Argument", func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeVarint("Argument.position", typ, b)
			a.Position = uint32(v)
			return n, err
		case 2:
			v, n, err := consumeBytes("Argument.value", typ, b)
			a.Value = bytes.Clone(v)
			return n, err
		}
		return skip, nil
	})
	if err != nil {
		return err
	}
	*m = a
	return nil
}

func (m *Response) MarshalProto() ([]byte, error) {
	var b []byte
	if m.Time != 0 {
		b = protowire.AppendTag(b, 1, protowire.Fixed64Type)
		b = protowire.AppendFixed64(b, math.Float64bits(m.Time))
	}
	if m.HasError {
		b = protowire.AppendTag(b, 2, protowire.VarintType)
		b = protowire.AppendVarint(b, 1)
	}
	if m.Error != "" {
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		b = protowire.AppendString(b, m.Error)
	}
	if m.HasReturnValue {
		b = protowire.AppendTag(b, 4, protowire.VarintType)
		b = protowire.AppendVarint(b, 1)
	}
	if len(m.ReturnValue) > 0 {
		b = appendBytesField(b, 5, m.ReturnValue)
	}
	return b, nil
}

func (m *Response) UnmarshalProto(b []byte) error {
	var r Response
	err := walk(b, "Response", func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeFixed64("Response.time", typ, b)
			r.Time = math.Float64frombits(v)
			return n, err
		case 2:
			v, n, err := consumeVarint("Response.has_error", typ, b)
			r.HasError = protowire.DecodeBool(v)
			return n, err
		case 3:
			v, n, err := consumeBytes("Response.error", typ, b)
			r.Error = string(v)
			return n, err
		case 4:
			v, n, err := consumeVarint("Response.has_return_value", typ, b)
			r.HasReturnValue = protowire.DecodeBool(v)
			return n, err
		case 5:
			v, n, err := consumeBytes("Response.return_value", typ, b)
			r.ReturnValue = bytes.Clone(v)
			return n, err
		}
		return skip, nil
	})
	if err != nil {
		return err
	}
	*m = r
	return nil
}
