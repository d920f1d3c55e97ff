// Package types describes the value categories understood by the krpc codec
// and classifies Go types into them.
//
// A Category is a closed tagged union: Kind is the tag, and only the payload
// fields belonging to that Kind are meaningful.
//
//	KindScalar     Scalar
//	KindEnum       -
//	KindReference  -
//	KindMessage    -
//	KindList       Elem
//	KindDictionary Key, Value
//	KindSet        Elem
//	KindTuple      Positions
package types

import (
	"fmt"
	"reflect"
	"strings"
)

// Kind is the category tag of a type.
type Kind uint8

const (
	KindInvalid    Kind = iota // no category; the type cannot cross the wire
	KindScalar                 // protobuf primitive
	KindEnum                   // named integer constant
	KindReference              // live object passed by handle
	KindMessage                // value with its own wire schema
	KindList                   // ordered sequence
	KindDictionary             // key -> value mapping
	KindSet                    // unordered unique elements
	KindTuple                  // fixed-arity heterogeneous group
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindScalar:
		return "scalar"
	case KindEnum:
		return "enum"
	case KindReference:
		return "reference"
	case KindMessage:
		return "message"
	case KindList:
		return "list"
	case KindDictionary:
		return "dictionary"
	case KindSet:
		return "set"
	case KindTuple:
		return "tuple"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ScalarKind identifies the wire encoding of a Scalar category.
type ScalarKind uint8

const (
	Double ScalarKind = iota + 1 // fixed64 IEEE754
	Float                        // fixed32 IEEE754
	Int32                        // varint, sign-extended
	Int64                        // varint
	UInt32                       // varint
	UInt64                       // varint
	Bool                         // varint 0/1
	String                       // length-delimited UTF-8
	Bytes                        // length-delimited
)

func (k ScalarKind) String() string {
	switch k {
	case Double:
		return "double"
	case Float:
		return "float"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case UInt32:
		return "uint32"
	case UInt64:
		return "uint64"
	case Bool:
		return "bool"
	case String:
		return "string"
	case Bytes:
		return "bytes"
	}
	return fmt.Sprintf("ScalarKind(%d)", uint8(k))
}

// Category is the classification of one Go type.
type Category struct {
	Kind   Kind
	Scalar ScalarKind

	Elem  reflect.Type // List, Set
	Key   reflect.Type // Dictionary
	Value reflect.Type // Dictionary

	Positions []reflect.Type // Tuple, in positional order
}

func ScalarOf(k ScalarKind) Category { return Category{Kind: KindScalar, Scalar: k} }
func EnumCategory() Category        { return Category{Kind: KindEnum} }
func ReferenceCategory() Category   { return Category{Kind: KindReference} }
func MessageCategory() Category     { return Category{Kind: KindMessage} }

func ListOf(elem reflect.Type) Category { return Category{Kind: KindList, Elem: elem} }
func SetOf(elem reflect.Type) Category  { return Category{Kind: KindSet, Elem: elem} }

func DictionaryOf(key, value reflect.Type) Category {
	return Category{Kind: KindDictionary, Key: key, Value: value}
}

func TupleOf(positions ...reflect.Type) Category {
	return Category{Kind: KindTuple, Positions: positions}
}

// Valid reports whether c names a category.
func (c Category) Valid() bool { return c.Kind != KindInvalid }

func (c Category) String() string {
	switch c.Kind {
	case KindScalar:
		return c.Scalar.String()
	case KindList, KindSet:
		return fmt.Sprintf("%s<%s>", c.Kind, c.Elem)
	case KindDictionary:
		return fmt.Sprintf("dictionary<%s,%s>", c.Key, c.Value)
	case KindTuple:
		parts := make([]string, len(c.Positions))
		for i, p := range c.Positions {
			parts[i] = p.String()
		}
		return "tuple<" + strings.Join(parts, ",") + ">"
	}
	return c.Kind.String()
}
