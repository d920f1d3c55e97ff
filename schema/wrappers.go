package schema

import "google.golang.org/protobuf/encoding/protowire"

// List wraps the encoded elements of a List value, in order.
// Items alias the buffer passed to UnmarshalProto.
type List struct {
	Items [][]byte
}

func (m *List) MarshalProto() ([]byte, error) { return appendItems(nil, m.Items), nil }

func (m *List) UnmarshalProto(b []byte) error {
	items, err := consumeItems(b, "List")
	if err != nil {
		return err
	}
	m.Items = items
	return nil
}

// Set wraps the encoded elements of a Set value. Order carries no meaning.
type Set struct {
	Items [][]byte
}

func (m *Set) MarshalProto() ([]byte, error) { return appendItems(nil, m.Items), nil }

func (m *Set) UnmarshalProto(b []byte) error {
	items, err := consumeItems(b, "Set")
	if err != nil {
		return err
	}
	m.Items = items
	return nil
}

// Tuple wraps the encoded positions of a tuple; Items[i] is position i+1.
type Tuple struct {
	Items [][]byte
}

func (m *Tuple) MarshalProto() ([]byte, error) { return appendItems(nil, m.Items), nil }

func (m *Tuple) UnmarshalProto(b []byte) error {
	items, err := consumeItems(b, "Tuple")
	if err != nil {
		return err
	}
	m.Items = items
	return nil
}

// DictionaryEntry is one encoded key/value pair.
type DictionaryEntry struct {
	Key   []byte
	Value []byte
}

// Dictionary wraps the encoded entries of a Dictionary value.
type Dictionary struct {
	Entries []DictionaryEntry
}

func (m *Dictionary) MarshalProto() ([]byte, error) {
	var b, entry []byte
	for _, e := range m.Entries {
		// key and value are always written, even when empty
		entry = appendBytesField(entry[:0], keyField, e.Key)
		entry = appendBytesField(entry, valueField, e.Value)
		b = appendBytesField(b, entriesField, entry)
	}
	return b, nil
}

func (m *Dictionary) UnmarshalProto(b []byte) error {
	var entries []DictionaryEntry
	err := walk(b, "Dictionary", func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != entriesField {
			return skip, nil
		}
		raw, n, err := consumeBytes("Dictionary.entries", typ, b)
		if err != nil {
			return 0, err
		}
		var e DictionaryEntry
		if err := e.UnmarshalProto(raw); err != nil {
			return 0, err
		}
		entries = append(entries, e)
		return n, nil
	})
	if err != nil {
		return err
	}
	m.Entries = entries
	return nil
}

func (m *DictionaryEntry) MarshalProto() ([]byte, error) {
	b := appendBytesField(nil, keyField, m.Key)
	return appendBytesField(b, valueField, m.Value), nil
}

// UnmarshalProto reads a single entry. A missing key or value decodes as
// empty bytes, which is the protobuf default.
func (m *DictionaryEntry) UnmarshalProto(b []byte) error {
	var e DictionaryEntry
	err := walk(b, "DictionaryEntry", func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case keyField:
			v, n, err := consumeBytes("DictionaryEntry.key", typ, b)
			e.Key = v
			return n, err
		case valueField:
			v, n, err := consumeBytes("DictionaryEntry.value", typ, b)
			e.Value = v
			return n, err
		}
		return skip, nil
	})
	if err != nil {
		return err
	}
	*m = e
	return nil
}
