package schema

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/protobuf/encoding/protowire"
)

type wireMessage interface {
	MarshalProto() ([]byte, error)
	UnmarshalProto([]byte) error
}

func mustMarshal(t *testing.T, m wireMessage) []byte {
	t.Helper()
	b, err := m.MarshalProto()
	if err != nil {
		t.Fatalf("MarshalProto: %v", err)
	}
	return b
}

func TestListWireBytes(t *testing.T) {
	got := mustMarshal(t, &List{Items: [][]byte{{0x01}, {0x02}}})
	want := []byte{0x0a, 0x01, 0x01, 0x0a, 0x01, 0x02}
	if !bytes.Equal(got, want) {
		t.Fatalf("List bytes: got %x want %x", got, want)
	}
}

func TestDictionaryWireBytes(t *testing.T) {
	d := &Dictionary{Entries: []DictionaryEntry{{Key: []byte{0x01, 'a'}, Value: []byte{0x01}}}}
	got := mustMarshal(t, d)
	want := []byte{0x0a, 0x07, 0x0a, 0x02, 0x01, 'a', 0x12, 0x01, 0x01}
	if !bytes.Equal(got, want) {
		t.Fatalf("Dictionary bytes: got %x want %x", got, want)
	}
}

func TestItemsRoundTrip(t *testing.T) {
	cases := [][][]byte{
		nil,
		{{}},
		{{0x01}},
		{{0x01, 0x02}, {}, {0xff, 0xff, 0xff}},
	}
	for _, items := range cases {
		for _, m := range []struct {
			in, out wireMessage
			items   func(wireMessage) [][]byte
		}{
			{&List{Items: items}, &List{}, func(m wireMessage) [][]byte { return m.(*List).Items }},
			{&Set{Items: items}, &Set{}, func(m wireMessage) [][]byte { return m.(*Set).Items }},
			{&Tuple{Items: items}, &Tuple{}, func(m wireMessage) [][]byte { return m.(*Tuple).Items }},
		} {
			enc := mustMarshal(t, m.in)
			if err := m.out.UnmarshalProto(enc); err != nil {
				t.Fatalf("%T UnmarshalProto: %v", m.out, err)
			}
			got := m.items(m.out)
			if len(got) != len(items) {
				t.Fatalf("%T: got %d items want %d", m.out, len(got), len(items))
			}
			for i := range items {
				if !bytes.Equal(got[i], items[i]) {
					t.Fatalf("%T item %d: got %x want %x", m.out, i, got[i], items[i])
				}
			}
		}
	}
}

func TestDictionaryRoundTripKeepsDuplicates(t *testing.T) {
	in := &Dictionary{Entries: []DictionaryEntry{
		{Key: []byte("k"), Value: []byte("old")},
		{Key: []byte("k"), Value: []byte("new")},
		{Key: []byte{}, Value: []byte{}},
	}}
	var out Dictionary
	if err := out.UnmarshalProto(mustMarshal(t, in)); err != nil {
		t.Fatalf("UnmarshalProto: %v", err)
	}
	if diff := cmp.Diff(in.Entries, out.Entries, cmp.Comparer(bytes.Equal)); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestDictionaryEntryDefaultsMissingFields(t *testing.T) {
	// entry carrying only a value
	raw := protowire.AppendTag(nil, valueField, protowire.BytesType)
	raw = protowire.AppendBytes(raw, []byte("v"))
	var e DictionaryEntry
	if err := e.UnmarshalProto(raw); err != nil {
		t.Fatalf("UnmarshalProto: %v", err)
	}
	if len(e.Key) != 0 || string(e.Value) != "v" {
		t.Fatalf("got key=%q value=%q", e.Key, e.Value)
	}
}

func TestUnknownFieldsSkipped(t *testing.T) {
	enc := mustMarshal(t, &List{Items: [][]byte{{0x07}}})
	enc = protowire.AppendTag(enc, 99, protowire.VarintType)
	enc = protowire.AppendVarint(enc, 12345)
	enc = protowire.AppendTag(enc, 100, protowire.BytesType)
	enc = protowire.AppendBytes(enc, []byte("ignored"))

	var l List
	if err := l.UnmarshalProto(enc); err != nil {
		t.Fatalf("UnmarshalProto: %v", err)
	}
	if len(l.Items) != 1 || !bytes.Equal(l.Items[0], []byte{0x07}) {
		t.Fatalf("unexpected items %x", l.Items)
	}
}

func TestWrongWireTypeRejected(t *testing.T) {
	enc := protowire.AppendTag(nil, itemsField, protowire.VarintType)
	enc = protowire.AppendVarint(enc, 1)
	var l List
	err := l.UnmarshalProto(enc)
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestTruncationRejected(t *testing.T) {
	msgs := []struct {
		in  wireMessage
		out wireMessage
	}{
		{&List{Items: [][]byte{{0x01}, {0x02, 0x03}}}, &List{}},
		{&Set{Items: [][]byte{{}}}, &Set{}},
		{&Tuple{Items: [][]byte{{0x01}, {0x00}}}, &Tuple{}},
		{&Dictionary{Entries: []DictionaryEntry{{Key: []byte("k"), Value: []byte("v")}}}, &Dictionary{}},
		{&Request{Service: "S", Procedure: "P", Arguments: []Argument{{Position: 1, Value: []byte{0x01}}}}, &Request{}},
		{&Response{Time: 1.5, ReturnValue: []byte{0x2a}}, &Response{}},
	}
	for _, m := range msgs {
		enc := mustMarshal(t, m.in)
		for cut := 1; cut <= len(enc); cut++ {
			trunc := enc[:len(enc)-cut]
			if len(trunc) == 0 {
				continue // empty input is a valid empty message
			}
			err := m.out.UnmarshalProto(trunc)
			if cut == 1 && !errors.Is(err, ErrMalformed) {
				t.Fatalf("%T: dropping last byte: expected ErrMalformed, got %v", m.in, err)
			}
		}
	}
}

func TestRequestWireBytes(t *testing.T) {
	req := &Request{
		Service:   "S",
		Procedure: "P",
		Arguments: []Argument{
			{Position: 0, Value: []byte{0x01}},
			{Position: 1, Value: []byte{0x02}},
		},
	}
	got := mustMarshal(t, req)
	want := []byte{
		0x0a, 0x01, 'S',
		0x12, 0x01, 'P',
		0x1a, 0x03, 0x12, 0x01, 0x01,
		0x1a, 0x05, 0x08, 0x01, 0x12, 0x01, 0x02,
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("Request bytes: got %x want %x", got, want)
	}

	var out Request
	if err := out.UnmarshalProto(got); err != nil {
		t.Fatalf("UnmarshalProto: %v", err)
	}
	if diff := cmp.Diff(req, &out); diff != "" {
		t.Fatalf("request mismatch (-want +got):\n%s", diff)
	}
}

func TestResponseRoundTrip(t *testing.T) {
	cases := []Response{
		{},
		{Time: 12.25, HasReturnValue: true, ReturnValue: []byte{0x08}},
		{HasError: true, Error: "boom"},
	}
	for _, in := range cases {
		var out Response
		if err := out.UnmarshalProto(mustMarshal(t, &in)); err != nil {
			t.Fatalf("UnmarshalProto: %v", err)
		}
		if diff := cmp.Diff(in, out, cmp.Comparer(bytes.Equal)); diff != "" {
			t.Fatalf("response mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestArgumentValueDoesNotAliasInput(t *testing.T) {
	enc := mustMarshal(t, &Argument{Position: 2, Value: []byte("Z")})
	var a Argument
	if err := a.UnmarshalProto(enc); err != nil {
		t.Fatalf("UnmarshalProto: %v", err)
	}
	a.Value[0] = 'Q'
	var again Argument
	if err := again.UnmarshalProto(enc); err != nil {
		t.Fatalf("UnmarshalProto: %v", err)
	}
	if again.Value[0] != 'Z' {
		t.Fatalf("argument value aliases the input buffer")
	}
}
