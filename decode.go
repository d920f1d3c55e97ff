package krpc

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"reflect"

	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/jason-costello/krpc/schema"
	"github.com/jason-costello/krpc/types"
)

var requestType = reflect.TypeOf((*schema.Request)(nil))

// Decode reads b as a value of type t. The result's dynamic type is t, except
// for an absent reference decoded into an interface type, which yields nil.
//
// Containers are built completely before they are returned; on error no
// partial value is produced.
func (c *Codec) Decode(b []byte, t reflect.Type) (any, error) {
	v, err := c.decodeTop(b, t)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

func (c *Codec) decodeTop(b []byte, t reflect.Type) (reflect.Value, error) {
	if t == nil {
		return reflect.Value{}, &UnsupportedTypeError{Type: "<nil>"}
	}
	if c.maxDecode > 0 && len(b) > c.maxDecode {
		return reflect.Value{}, &MalformedWireDataError{
			Type: t.String(),
			Err:  fmt.Errorf("%w: %w: %d > %d", schema.ErrMalformed, ErrTooLarge, len(b), c.maxDecode),
		}
	}
	return c.decode(b, t, 0)
}

func (c *Codec) decode(b []byte, t reflect.Type, depth int) (reflect.Value, error) {
	if t == nil {
		return reflect.Value{}, &UnsupportedTypeError{Type: "<nil>"}
	}
	if depth > c.maxDepth {
		return reflect.Value{}, &MalformedWireDataError{
			Type: t.String(),
			Err:  fmt.Errorf("%w: %w", schema.ErrMalformed, ErrMaxDepth),
		}
	}

	cat := c.classifier.Classify(t)
	switch cat.Kind {
	case types.KindScalar:
		if !scalarFits(cat.Scalar, t) {
			return reflect.Value{}, mismatch(t, cat)
		}
		return decodeScalar(b, cat.Scalar, t)
	case types.KindEnum:
		return c.decodeEnum(b, t)
	case types.KindReference:
		return c.decodeReference(b, t)
	case types.KindMessage:
		return decodeMessage(b, t)
	case types.KindList:
		return c.decodeList(b, t, cat, depth)
	case types.KindDictionary:
		return c.decodeDictionary(b, t, cat, depth)
	case types.KindSet:
		return c.decodeSet(b, t, cat, depth)
	case types.KindTuple:
		return c.decodeTuple(b, t, cat, depth)
	case types.KindInvalid:
	}
	return reflect.Value{}, &UnsupportedTypeError{Type: t.String()}
}

func decodeScalar(b []byte, k types.ScalarKind, t reflect.Type) (reflect.Value, error) {
	out := reflect.New(t).Elem()
	var n int
	switch k {
	case types.Double:
		var v uint64
		v, n = protowire.ConsumeFixed64(b)
		out.SetFloat(math.Float64frombits(v))
	case types.Float:
		var v uint32
		v, n = protowire.ConsumeFixed32(b)
		out.SetFloat(float64(math.Float32frombits(v)))
	case types.Int32:
		var v uint64
		v, n = protowire.ConsumeVarint(b)
		out.SetInt(int64(int32(v)))
	case types.Int64:
		var v uint64
		v, n = protowire.ConsumeVarint(b)
		out.SetInt(int64(v))
	case types.UInt32:
		var v uint64
		v, n = protowire.ConsumeVarint(b)
		out.SetUint(uint64(uint32(v)))
	case types.UInt64:
		var v uint64
		v, n = protowire.ConsumeVarint(b)
		out.SetUint(v)
	case types.Bool:
		var v uint64
		v, n = protowire.ConsumeVarint(b)
		out.SetBool(protowire.DecodeBool(v))
	case types.String:
		var v []byte
		v, n = protowire.ConsumeBytes(b)
		out.SetString(string(v))
	case types.Bytes:
		var v []byte
		v, n = protowire.ConsumeBytes(b)
		if n >= 0 {
			out.SetBytes(bytes.Clone(v))
		}
	default:
		return reflect.Value{}, &UnsupportedTypeError{Type: t.String()}
	}
	if err := consumedAll(t, k.String(), n, len(b)); err != nil {
		return reflect.Value{}, err
	}
	return out, nil
}

// consumedAll checks the result of a protowire Consume call that must read
// the whole of a single-value payload.
func consumedAll(t reflect.Type, what string, n, total int) error {
	if n < 0 {
		return malformed(t.String(), "%s: %v", what, protowire.ParseError(n))
	}
	if n != total {
		return malformed(t.String(), "%s: %d trailing bytes", what, total-n)
	}
	return nil
}

func (c *Codec) decodeEnum(b []byte, t reflect.Type) (reflect.Value, error) {
	v, n := protowire.ConsumeVarint(b)
	if err := consumedAll(t, "enum", n, len(b)); err != nil {
		return reflect.Value{}, err
	}
	ord := int32(v)
	out := reflect.New(t).Elem()
	switch {
	case isSigned(t.Kind()):
		if out.OverflowInt(int64(ord)) {
			return reflect.Value{}, &InvalidEnumValueError{Type: t.String(), Value: ord}
		}
		out.SetInt(int64(ord))
	case isUnsigned(t.Kind()):
		if ord < 0 || out.OverflowUint(uint64(ord)) {
			return reflect.Value{}, &InvalidEnumValueError{Type: t.String(), Value: ord}
		}
		out.SetUint(uint64(ord))
	default:
		return reflect.Value{}, mismatch(t, types.EnumCategory())
	}
	if c.enums == EnumStrict && !enumDefined(out) {
		return reflect.Value{}, &InvalidEnumValueError{Type: t.String(), Value: ord}
	}
	return out, nil
}

// enumDefined consults the enum's own notion of its constants. Types the
// classifier calls enums without implementing either interface accept every
// ordinal.
func enumDefined(v reflect.Value) bool {
	switch e := v.Interface().(type) {
	case types.Enum:
		return e.Defined()
	case protoreflect.Enum:
		return e.Descriptor().Values().ByNumber(e.Number()) != nil
	}
	return true
}

func (c *Codec) decodeReference(b []byte, t reflect.Type) (reflect.Value, error) {
	h, n := protowire.ConsumeVarint(b)
	if err := consumedAll(t, "handle", n, len(b)); err != nil {
		return reflect.Value{}, err
	}
	if h == 0 {
		return reflect.Zero(t), nil
	}
	if c.registry == nil {
		return reflect.Value{}, fmt.Errorf("krpc: decode %s: %w", t, ErrNoRegistry)
	}
	inst, err := c.registry.Resolve(h)
	if err != nil {
		var uh *UnknownHandleError
		if errors.As(err, &uh) {
			return reflect.Value{}, err
		}
		return reflect.Value{}, &UnknownHandleError{Handle: h, Err: err}
	}
	if inst == nil {
		return reflect.Value{}, &UnknownHandleError{Handle: h}
	}
	iv := reflect.ValueOf(inst)
	if !iv.Type().AssignableTo(t) {
		return reflect.Value{}, &UnsupportedTypeError{
			Type: t.String(),
			Err:  fmt.Errorf("%w: handle %d holds %s", ErrTypeMismatch, h, iv.Type()),
		}
	}
	out := reflect.New(t).Elem()
	out.Set(iv)
	return out, nil
}

// decodeMessage only accepts the request envelope. Structured values flowing
// server to client are never decoded by this codec.
func decodeMessage(b []byte, t reflect.Type) (reflect.Value, error) {
	if t != requestType {
		return reflect.Value{}, &UnsupportedTypeError{
			Type: t.String(),
			Err:  fmt.Errorf("only %s messages can be decoded", requestType),
		}
	}
	req := new(schema.Request)
	if err := req.UnmarshalProto(b); err != nil {
		return reflect.Value{}, &MalformedWireDataError{Type: t.String(), Err: err}
	}
	return reflect.ValueOf(req), nil
}

func (c *Codec) decodeList(b []byte, t reflect.Type, cat types.Category, depth int) (reflect.Value, error) {
	if t.Kind() != reflect.Slice && t.Kind() != reflect.Array {
		return reflect.Value{}, mismatch(t, cat)
	}
	var w schema.List
	if err := w.UnmarshalProto(b); err != nil {
		return reflect.Value{}, &MalformedWireDataError{Type: t.String(), Err: err}
	}
	var out reflect.Value
	if t.Kind() == reflect.Array {
		if len(w.Items) != t.Len() {
			return reflect.Value{}, malformed(t.String(), "array of length %d, got %d items", t.Len(), len(w.Items))
		}
		out = reflect.New(t).Elem()
	} else {
		out = reflect.MakeSlice(t, len(w.Items), len(w.Items))
	}
	for i, item := range w.Items {
		ev, err := c.decode(item, cat.Elem, depth+1)
		if err != nil {
			return reflect.Value{}, err
		}
		out.Index(i).Set(ev)
	}
	return out, nil
}

// decodeDictionary keeps the last value when two entries decode to the same
// key.
func (c *Codec) decodeDictionary(b []byte, t reflect.Type, cat types.Category, depth int) (reflect.Value, error) {
	if t.Kind() != reflect.Map {
		return reflect.Value{}, mismatch(t, cat)
	}
	var w schema.Dictionary
	if err := w.UnmarshalProto(b); err != nil {
		return reflect.Value{}, &MalformedWireDataError{Type: t.String(), Err: err}
	}
	out := reflect.MakeMapWithSize(t, len(w.Entries))
	for _, e := range w.Entries {
		k, err := c.decode(e.Key, cat.Key, depth+1)
		if err != nil {
			return reflect.Value{}, err
		}
		v, err := c.decode(e.Value, cat.Value, depth+1)
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetMapIndex(k, v)
	}
	return out, nil
}

func (c *Codec) decodeSet(b []byte, t reflect.Type, cat types.Category, depth int) (reflect.Value, error) {
	if t.Kind() != reflect.Map {
		return reflect.Value{}, mismatch(t, cat)
	}
	var w schema.Set
	if err := w.UnmarshalProto(b); err != nil {
		return reflect.Value{}, &MalformedWireDataError{Type: t.String(), Err: err}
	}
	out := reflect.MakeMapWithSize(t, len(w.Items))
	present := reflect.Zero(t.Elem())
	for _, item := range w.Items {
		k, err := c.decode(item, cat.Elem, depth+1)
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetMapIndex(k, present)
	}
	return out, nil
}

func (c *Codec) decodeTuple(b []byte, t reflect.Type, cat types.Category, depth int) (reflect.Value, error) {
	if !tupleFits(cat, t) {
		return reflect.Value{}, mismatch(t, cat)
	}
	var w schema.Tuple
	if err := w.UnmarshalProto(b); err != nil {
		return reflect.Value{}, &MalformedWireDataError{Type: t.String(), Err: err}
	}
	if len(w.Items) != len(cat.Positions) {
		return reflect.Value{}, malformed(t.String(), "tuple of arity %d, got %d items", len(cat.Positions), len(w.Items))
	}
	out := reflect.New(t).Elem()
	for i, pt := range cat.Positions {
		ev, err := c.decode(w.Items[i], pt, depth+1)
		if err != nil {
			return reflect.Value{}, err
		}
		out.Field(i).Set(ev)
	}
	return out, nil
}

// scalarFits reports whether values of t can be read and written as k.
func scalarFits(k types.ScalarKind, t reflect.Type) bool {
	switch k {
	case types.Double, types.Float:
		return t.Kind() == reflect.Float32 || t.Kind() == reflect.Float64
	case types.Int32, types.Int64:
		return isSigned(t.Kind())
	case types.UInt32, types.UInt64:
		return isUnsigned(t.Kind())
	case types.Bool:
		return t.Kind() == reflect.Bool
	case types.String:
		return t.Kind() == reflect.String
	case types.Bytes:
		return t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8
	}
	return false
}

// tupleFits reports whether t is a struct whose exported fields line up with
// the category's positions.
func tupleFits(cat types.Category, t reflect.Type) bool {
	n := len(cat.Positions)
	if t.Kind() != reflect.Struct || n == 0 || n > types.MaxTupleArity || t.NumField() != n {
		return false
	}
	for i, pt := range cat.Positions {
		f := t.Field(i)
		if !f.IsExported() || f.Type != pt {
			return false
		}
	}
	return true
}

func mismatch(t reflect.Type, cat types.Category) error {
	return &UnsupportedTypeError{
		Type: t.String(),
		Err:  fmt.Errorf("%w: classified as %s", ErrTypeMismatch, cat),
	}
}

func isSigned(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUnsigned(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}
