package types

import (
	"reflect"
	"sync"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// Classifier decides the category of a type. A Category of KindInvalid
// means the type has no wire representation.
// Implementations must be safe for concurrent use.
type Classifier interface {
	Classify(t reflect.Type) Category
}

// ClassifierFunc adapts a function to Classifier.
type ClassifierFunc func(reflect.Type) Category

func (f ClassifierFunc) Classify(t reflect.Type) Category { return f(t) }

// Chain returns a Classifier that asks each of cs in order and returns the
// first valid category.
func Chain(cs ...Classifier) Classifier {
	return ClassifierFunc(func(t reflect.Type) Category {
		for _, c := range cs {
			if cat := c.Classify(t); cat.Valid() {
				return cat
			}
		}
		return Category{}
	})
}

var (
	enumIface      = reflect.TypeOf((*Enum)(nil)).Elem()
	protoEnumIface = reflect.TypeOf((*protoreflect.Enum)(nil)).Elem()
	remoteIface    = reflect.TypeOf((*Remote)(nil)).Elem()
	messageIface   = reflect.TypeOf((*Message)(nil)).Elem()
	protoMsgIface  = reflect.TypeOf((*proto.Message)(nil)).Elem()
	setIface       = reflect.TypeOf((*setMarker)(nil)).Elem()
	tupleIface     = reflect.TypeOf((*tupleMarker)(nil)).Elem()
)

// Reflect is the default Classifier. It derives categories from the Go kind
// of a type and the marker interfaces in this package, and caches results.
// The zero value is ready to use.
//
//	[]byte (any byte slice)            Scalar Bytes
//	integer kind implementing Enum or
//	  protoreflect.Enum                Enum
//	pointer/interface implementing
//	  Remote                           Reference
//	Message or proto.Message           Message
//	Set[T]                             Set
//	Tuple1..Tuple8                     Tuple
//	bool, string, float32, float64     Scalar
//	int32, int64, int                  Scalar Int32 / Int64 / Int64
//	uint32, uint64, uint               Scalar UInt32 / UInt64 / UInt64
//	other slices and arrays            List
//	other maps                         Dictionary
type Reflect struct {
	cache sync.Map // reflect.Type -> Category
}

var _ Classifier = (*Reflect)(nil)

func (r *Reflect) Classify(t reflect.Type) Category {
	if t == nil {
		return Category{}
	}
	if c, ok := r.cache.Load(t); ok {
		return c.(Category)
	}
	c := classify(t)
	r.cache.Store(t, c)
	return c
}

func classify(t reflect.Type) Category {
	k := t.Kind()
	switch {
	case k == reflect.Slice && t.Elem().Kind() == reflect.Uint8:
		return ScalarOf(Bytes)
	case isInteger(k) && (t.Implements(enumIface) || t.Implements(protoEnumIface)):
		return EnumCategory()
	case (k == reflect.Pointer || k == reflect.Interface) && t.Implements(remoteIface):
		return ReferenceCategory()
	case t.Implements(messageIface) || t.Implements(protoMsgIface):
		return MessageCategory()
	case k == reflect.Map && t.Implements(setIface):
		return SetOf(t.Key())
	case k == reflect.Struct && t.Implements(tupleIface):
		return tupleCategory(t)
	}

	switch k {
	case reflect.Bool:
		return ScalarOf(Bool)
	case reflect.String:
		return ScalarOf(String)
	case reflect.Float32:
		return ScalarOf(Float)
	case reflect.Float64:
		return ScalarOf(Double)
	case reflect.Int32:
		return ScalarOf(Int32)
	case reflect.Int64, reflect.Int:
		return ScalarOf(Int64)
	case reflect.Uint32:
		return ScalarOf(UInt32)
	case reflect.Uint64, reflect.Uint:
		return ScalarOf(UInt64)
	case reflect.Slice, reflect.Array:
		return ListOf(t.Elem())
	case reflect.Map:
		return DictionaryOf(t.Key(), t.Elem())
	}
	return Category{}
}

func tupleCategory(t reflect.Type) Category {
	n := t.NumField()
	if n == 0 || n > MaxTupleArity {
		return Category{}
	}
	positions := make([]reflect.Type, n)
	for i := 0; i < n; i++ {
		positions[i] = t.Field(i).Type
	}
	return TupleOf(positions...)
}

func isInteger(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}
