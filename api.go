package krpc

import (
	"fmt"
	"reflect"

	"github.com/jason-costello/krpc/types"
)

// Registry issues handles for live objects and resolves them back.
// Implementations must be safe for concurrent use, must never issue handle 0,
// and must never map one handle to two distinct live instances.
// Resolve fails with *UnknownHandleError when it holds no mapping.
type Registry interface {
	Register(instance any) (uint64, error)
	Resolve(handle uint64) (any, error)
}

// EnumPolicy decides what Decode does with an enum ordinal that names no
// constant.
type EnumPolicy uint8

const (
	// EnumStrict fails with *InvalidEnumValueError (default).
	EnumStrict EnumPolicy = iota
	// EnumPermissive returns the ordinal as a value of the enum type.
	EnumPermissive
)

const defaultMaxDepth = 64

// Options configure a Codec. The zero value is usable for values that contain
// no references.
type Options struct {
	Classifier    types.Classifier // nil => &types.Reflect{}
	Registry      Registry         // required to encode or decode references
	EnumPolicy    EnumPolicy       // default EnumStrict
	MaxDepth      int              // container nesting limit; 0 => 64
	MaxDecodeSize int              // reject larger Decode input; 0 => unlimited
}

// Codec encodes and decodes krpc values. It holds no mutable state of its own;
// a single Codec may be used from any number of goroutines, provided the
// Classifier and Registry are concurrency-safe.
type Codec struct {
	classifier types.Classifier
	registry   Registry
	enums      EnumPolicy
	maxDepth   int
	maxDecode  int
}

func New(opts Options) (*Codec, error) {
	if opts.MaxDepth < 0 {
		return nil, fmt.Errorf("krpc: MaxDepth must not be negative")
	}
	if opts.MaxDecodeSize < 0 {
		return nil, fmt.Errorf("krpc: MaxDecodeSize must not be negative")
	}
	if opts.EnumPolicy > EnumPermissive {
		return nil, fmt.Errorf("krpc: unknown enum policy %d", opts.EnumPolicy)
	}
	c := &Codec{
		registry:  opts.Registry,
		enums:     opts.EnumPolicy,
		maxDepth:  coalesce(opts.MaxDepth, defaultMaxDepth),
		maxDecode: opts.MaxDecodeSize,
	}
	c.classifier = opts.Classifier
	if c.classifier == nil {
		c.classifier = &types.Reflect{}
	}
	return c, nil
}

// Classifier returns the classifier the codec was built with.
func (c *Codec) Classifier() types.Classifier { return c.classifier }

// DecodeAs decodes b as a value of type T.
func DecodeAs[T any](c *Codec, b []byte) (T, error) {
	var zero T
	v, err := c.decodeTop(b, reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return zero, err
	}
	out, _ := v.Interface().(T) // nil interface results yield the zero T
	return out, nil
}
