// Package transcode renders krpc wire bytes in a self-describing format for
// logs, debugging tools and golden files. The wire format carries no type
// information, so the caller names the type the bytes were produced from.
//
// Decoded values are normalized before they are handed to the output codec:
//
//	set                  sorted []any
//	tuple, list          []any
//	dictionary           map[string]any (keys rendered with %v)
//	reference            %v text of the resolved object, nil when absent
//	enum                 String() when the type has one, else the ordinal
//	request envelope     map with service, procedure and arguments
//	[]byte and scalars   unchanged
package transcode

import (
	"errors"
	"fmt"
	"reflect"
	"sort"

	"github.com/jason-costello/krpc"
	"github.com/jason-costello/krpc/codec"
	"github.com/jason-costello/krpc/schema"
	"github.com/jason-costello/krpc/types"
)

// Transcoder is safe for concurrent use when its codecs are.
type Transcoder struct {
	c   *krpc.Codec
	cls types.Classifier
	out codec.Codec[any]
}

func New(c *krpc.Codec, out codec.Codec[any]) (*Transcoder, error) {
	if c == nil || out == nil {
		return nil, errors.New("transcode: nil codec")
	}
	return &Transcoder{c: c, cls: c.Classifier(), out: out}, nil
}

// JSON returns a Transcoder emitting indented JSON.
func JSON(c *krpc.Codec) (*Transcoder, error) {
	return New(c, codec.JSON[any]{Indent: "  "})
}

// CBOR returns a Transcoder emitting deterministic CBOR.
func CBOR(c *krpc.Codec) (*Transcoder, error) {
	cb, err := codec.NewCBOR[any](true)
	if err != nil {
		return nil, err
	}
	return New(c, cb)
}

// Msgpack returns a Transcoder emitting msgpack with sorted map keys.
func Msgpack(c *krpc.Codec) (*Transcoder, error) {
	return New(c, codec.Msgpack[any]{})
}

// Transcode decodes b as a value of type t and re-encodes it.
func (tc *Transcoder) Transcode(b []byte, t reflect.Type) ([]byte, error) {
	v, err := tc.Value(b, t)
	if err != nil {
		return nil, err
	}
	out, err := tc.out.Encode(v)
	if err != nil {
		return nil, fmt.Errorf("transcode: encode %s: %w", t, err)
	}
	return out, nil
}

// Value decodes b as a value of type t and returns its normalized form.
func (tc *Transcoder) Value(b []byte, t reflect.Type) (any, error) {
	v, err := tc.c.Decode(b, t)
	if err != nil {
		return nil, err
	}
	return tc.normalize(reflect.ValueOf(v)), nil
}

func (tc *Transcoder) normalize(v reflect.Value) any {
	for v.IsValid() && v.Kind() == reflect.Interface {
		v = v.Elem()
	}
	if !v.IsValid() {
		return nil
	}
	if v.Kind() == reflect.Pointer && v.IsNil() {
		return nil
	}

	cat := tc.cls.Classify(v.Type())
	switch cat.Kind {
	case types.KindScalar:
		return v.Interface()
	case types.KindEnum:
		if s, ok := v.Interface().(fmt.Stringer); ok {
			return s.String()
		}
		if v.CanInt() {
			return v.Int()
		}
		return v.Uint()
	case types.KindReference:
		return fmt.Sprintf("%v", v.Interface())
	case types.KindMessage:
		if req, ok := v.Interface().(*schema.Request); ok {
			return request(req)
		}
		return fmt.Sprintf("%v", v.Interface())
	case types.KindList:
		out := make([]any, v.Len())
		for i := range out {
			out[i] = tc.normalize(v.Index(i))
		}
		return out
	case types.KindTuple:
		out := make([]any, v.NumField())
		for i := range out {
			out[i] = tc.normalize(v.Field(i))
		}
		return out
	case types.KindSet:
		out := make([]any, 0, v.Len())
		it := v.MapRange()
		for it.Next() {
			out = append(out, tc.normalize(it.Key()))
		}
		sortValues(out)
		return out
	case types.KindDictionary:
		out := make(map[string]any, v.Len())
		it := v.MapRange()
		for it.Next() {
			out[key(tc.normalize(it.Key()))] = tc.normalize(it.Value())
		}
		return out
	}
	return fmt.Sprintf("%v", v.Interface())
}

func request(req *schema.Request) map[string]any {
	args := make([]any, len(req.Arguments))
	for i, a := range req.Arguments {
		args[i] = map[string]any{"position": a.Position, "value": a.Value}
	}
	return map[string]any{
		"service":   req.Service,
		"procedure": req.Procedure,
		"arguments": args,
	}
}

func key(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// sortValues orders set members. Members of one set share a Go type, so
// numbers compare numerically and everything else by its %v text.
func sortValues(vs []any) {
	sort.Slice(vs, func(i, j int) bool {
		a, b := reflect.ValueOf(vs[i]), reflect.ValueOf(vs[j])
		if a.IsValid() && b.IsValid() && a.Kind() == b.Kind() {
			switch {
			case a.CanInt():
				return a.Int() < b.Int()
			case a.CanUint():
				return a.Uint() < b.Uint()
			case a.CanFloat():
				return a.Float() < b.Float()
			}
		}
		return fmt.Sprintf("%v", vs[i]) < fmt.Sprintf("%v", vs[j])
	})
}
