package krpc

import (
	"fmt"
	"math"
	"reflect"

	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"

	"github.com/jason-costello/krpc/schema"
	"github.com/jason-costello/krpc/types"
)

// Encode returns the wire encoding of value.
//
// A nil interface or nil pointer is absent and encodes as a single zero byte.
// Nil slices and maps are not absent; they encode as empty containers.
// Values whose type has no category fail with *UnsupportedTypeError.
func (c *Codec) Encode(value any) ([]byte, error) {
	return c.encode(reflect.ValueOf(value), 0)
}

func (c *Codec) encode(v reflect.Value, depth int) ([]byte, error) {
	for v.IsValid() && v.Kind() == reflect.Interface && !v.IsNil() {
		v = v.Elem()
	}
	if absent(v) {
		return protowire.AppendVarint(nil, 0), nil
	}
	t := v.Type()
	if depth > c.maxDepth {
		return nil, &UnsupportedTypeError{Type: t.String(), Err: ErrMaxDepth}
	}

	cat := c.classifier.Classify(t)
	switch cat.Kind {
	case types.KindScalar:
		if !scalarFits(cat.Scalar, t) {
			return nil, mismatch(t, cat)
		}
		return appendScalar(nil, cat.Scalar, v), nil
	case types.KindEnum:
		if !isSigned(t.Kind()) && !isUnsigned(t.Kind()) {
			return nil, mismatch(t, cat)
		}
		ord, ok := enumOrdinal(v)
		if !ok {
			return nil, &UnsupportedTypeError{
				Type: t.String(),
				Err:  fmt.Errorf("%w: enum value %v outside int32 range", ErrTypeMismatch, v),
			}
		}
		return protowire.AppendVarint(nil, uint64(int64(ord))), nil
	case types.KindReference:
		return c.encodeReference(v)
	case types.KindMessage:
		return encodeMessage(v)
	case types.KindList:
		if t.Kind() != reflect.Slice && t.Kind() != reflect.Array {
			return nil, mismatch(t, cat)
		}
		items, err := c.encodeSeq(v, depth)
		if err != nil {
			return nil, err
		}
		return (&schema.List{Items: items}).MarshalProto()
	case types.KindSet:
		if t.Kind() != reflect.Map {
			return nil, mismatch(t, cat)
		}
		items := make([][]byte, 0, v.Len())
		it := v.MapRange()
		for it.Next() {
			b, err := c.encode(it.Key(), depth+1)
			if err != nil {
				return nil, err
			}
			items = append(items, b)
		}
		return (&schema.Set{Items: items}).MarshalProto()
	case types.KindDictionary:
		if t.Kind() != reflect.Map {
			return nil, mismatch(t, cat)
		}
		entries := make([]schema.DictionaryEntry, 0, v.Len())
		it := v.MapRange()
		for it.Next() {
			k, err := c.encode(it.Key(), depth+1)
			if err != nil {
				return nil, err
			}
			val, err := c.encode(it.Value(), depth+1)
			if err != nil {
				return nil, err
			}
			entries = append(entries, schema.DictionaryEntry{Key: k, Value: val})
		}
		return (&schema.Dictionary{Entries: entries}).MarshalProto()
	case types.KindTuple:
		if !tupleFits(cat, t) {
			return nil, mismatch(t, cat)
		}
		items := make([][]byte, len(cat.Positions))
		for i := range cat.Positions {
			b, err := c.encode(v.Field(i), depth+1)
			if err != nil {
				return nil, err
			}
			items[i] = b
		}
		return (&schema.Tuple{Items: items}).MarshalProto()
	case types.KindInvalid:
	}
	return nil, &UnsupportedTypeError{Type: t.String()}
}

func (c *Codec) encodeSeq(v reflect.Value, depth int) ([][]byte, error) {
	items := make([][]byte, v.Len())
	for i := range items {
		b, err := c.encode(v.Index(i), depth+1)
		if err != nil {
			return nil, err
		}
		items[i] = b
	}
	return items, nil
}

func (c *Codec) encodeReference(v reflect.Value) ([]byte, error) {
	if !v.CanInterface() {
		return nil, &UnsupportedTypeError{Type: v.Type().String(), Err: ErrTypeMismatch}
	}
	if c.registry == nil {
		return nil, fmt.Errorf("krpc: encode %s: %w", v.Type(), ErrNoRegistry)
	}
	h, err := c.registry.Register(v.Interface())
	if err != nil {
		return nil, fmt.Errorf("krpc: register %s: %w", v.Type(), err)
	}
	if h == 0 {
		return nil, fmt.Errorf("krpc: register %s: registry issued reserved handle 0", v.Type())
	}
	return protowire.AppendVarint(nil, h), nil
}

func encodeMessage(v reflect.Value) ([]byte, error) {
	if !v.CanInterface() {
		return nil, &UnsupportedTypeError{Type: v.Type().String(), Err: ErrTypeMismatch}
	}
	var (
		b   []byte
		err error
	)
	switch m := v.Interface().(type) {
	case types.Message:
		b, err = m.MarshalProto()
	case proto.Message:
		b, err = proto.Marshal(m)
	default:
		return nil, &UnsupportedTypeError{Type: v.Type().String(), Err: ErrTypeMismatch}
	}
	if err != nil {
		return nil, fmt.Errorf("krpc: encode %s: %w", v.Type(), err)
	}
	return b, nil
}

func appendScalar(b []byte, k types.ScalarKind, v reflect.Value) []byte {
	switch k {
	case types.Double:
		return protowire.AppendFixed64(b, math.Float64bits(v.Float()))
	case types.Float:
		return protowire.AppendFixed32(b, math.Float32bits(float32(v.Float())))
	case types.Int32:
		return protowire.AppendVarint(b, uint64(int64(int32(v.Int()))))
	case types.Int64:
		return protowire.AppendVarint(b, uint64(v.Int()))
	case types.UInt32:
		return protowire.AppendVarint(b, uint64(uint32(v.Uint())))
	case types.UInt64:
		return protowire.AppendVarint(b, v.Uint())
	case types.Bool:
		return protowire.AppendVarint(b, protowire.EncodeBool(v.Bool()))
	case types.String:
		return protowire.AppendString(b, v.String())
	case types.Bytes:
		return protowire.AppendBytes(b, v.Bytes())
	}
	return b
}

// enumOrdinal returns the int32 ordinal of an integer-kinded enum value. It
// fails for values the wire's int32 cannot carry.
func enumOrdinal(v reflect.Value) (int32, bool) {
	switch {
	case isSigned(v.Kind()):
		n := v.Int()
		if n < math.MinInt32 || n > math.MaxInt32 {
			return 0, false
		}
		return int32(n), true
	case isUnsigned(v.Kind()):
		n := v.Uint()
		if n > math.MaxInt32 {
			return 0, false
		}
		return int32(n), true
	}
	return 0, false
}

func absent(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		return v.IsNil()
	}
	return false
}
