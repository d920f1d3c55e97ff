// Package schema holds the fixed wire schemas used by the krpc codec: the four
// container wrappers and the request/response envelope messages.
//
// All types encode with standard protocol buffer field rules. Field numbers
// match the deployed protocol and must not change:
//
//	List            { repeated bytes items = 1; }
//	Dictionary      { repeated DictionaryEntry entries = 1; }
//	DictionaryEntry { bytes key = 1; bytes value = 2; }
//	Set             { repeated bytes items = 1; }
//	Tuple           { repeated bytes items = 1; }
//	Request         { string service = 1; string procedure = 2; repeated Argument arguments = 3; }
//	Argument        { uint32 position = 1; bytes value = 2; }
//	Response        { double time = 1; bool has_error = 2; string error = 3;
//	                  bool has_return_value = 4; bytes return_value = 5; }
//
// Unmarshal skips unknown fields, rejects a known field carrying the wrong wire
// type, and rejects truncated input. Every decode error wraps ErrMalformed.
package schema

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

var ErrMalformed = errors.New("krpc: malformed wire data")

const (
	itemsField   protowire.Number = 1
	entriesField protowire.Number = 1
	keyField     protowire.Number = 1
	valueField   protowire.Number = 2
)

func parseErr(field string, n int) error {
	return fmt.Errorf("%w: %s: %v", ErrMalformed, field, protowire.ParseError(n))
}

func wrongType(field string, typ protowire.Type) error {
	return fmt.Errorf("%w: %s: unexpected wire type %d", ErrMalformed, field, typ)
}

// fieldFunc consumes the value of one field from b and returns the number of
// bytes used. Returning skip hands the field back to walk as unknown.
type fieldFunc func(num protowire.Number, typ protowire.Type, b []byte) (int, error)

const skip = -1

func walk(b []byte, msg string, fn fieldFunc) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return parseErr(msg+" tag", n)
		}
		b = b[n:]
		m, err := fn(num, typ, b)
		if err != nil {
			return err
		}
		if m == skip {
			if m = protowire.ConsumeFieldValue(num, typ, b); m < 0 {
				return parseErr(fmt.Sprintf("%s field %d", msg, num), m)
			}
		}
		b = b[m:]
	}
	return nil
}

func consumeBytes(field string, typ protowire.Type, b []byte) ([]byte, int, error) {
	if typ != protowire.BytesType {
		return nil, 0, wrongType(field, typ)
	}
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return nil, 0, parseErr(field, n)
	}
	return v, n, nil
}

func consumeVarint(field string, typ protowire.Type, b []byte) (uint64, int, error) {
	if typ != protowire.VarintType {
		return 0, 0, wrongType(field, typ)
	}
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, 0, parseErr(field, n)
	}
	return v, n, nil
}

func consumeFixed64(field string, typ protowire.Type, b []byte) (uint64, int, error) {
	if typ != protowire.Fixed64Type {
		return 0, 0, wrongType(field, typ)
	}
	v, n := protowire.ConsumeFixed64(b)
	if n < 0 {
		return 0, 0, parseErr(field, n)
	}
	return v, n, nil
}

func appendBytesField(b []byte, num protowire.Number, v []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendItems(b []byte, items [][]byte) []byte {
	for _, it := range items {
		b = appendBytesField(b, itemsField, it)
	}
	return b
}

func consumeItems(b []byte, msg string) ([][]byte, error) {
	var items [][]byte
	err := walk(b, msg, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != itemsField {
			return skip, nil
		}
		v, n, err := consumeBytes(msg+".items", typ, b)
		if err != nil {
			return 0, err
		}
		items = append(items, v)
		return n, nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}
