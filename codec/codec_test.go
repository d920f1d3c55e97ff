package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jason-costello/krpc"
	"github.com/jason-costello/krpc/types"
)

func newKRPC(t *testing.T) *krpc.Codec {
	t.Helper()
	c, err := krpc.New(krpc.Options{})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestTypedRoundTrip(t *testing.T) {
	tc, err := NewTyped[map[string][]types.Tuple2[int32, string]](newKRPC(t))
	if err != nil {
		t.Fatal(err)
	}
	in := map[string][]types.Tuple2[int32, string]{
		"a": {types.T2[int32](1, "x"), types.T2[int32](-2, "y")},
		"b": {},
	}
	b, err := tc.Encode(in)
	if err != nil {
		t.Fatal(err)
	}
	out, err := tc.Decode(b)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Fatalf("round trip mismatch (-in +out):\n%s", diff)
	}
}

func TestTypedRequiresCodec(t *testing.T) {
	if _, err := NewTyped[int32](nil); err == nil {
		t.Fatal("expected error for nil codec")
	}
}

func TestLimitRejectsOversize(t *testing.T) {
	tc, _ := NewTyped[string](newKRPC(t))
	lc := Limit[string]{Inner: tc, MaxDecode: 4}

	b, err := lc.Encode("hello")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := lc.Decode(b); !errors.Is(err, krpc.ErrTooLarge) {
		t.Fatalf("err=%v want ErrTooLarge", err)
	}

	small, _ := lc.Encode("hi")
	got, err := lc.Decode(small)
	if err != nil || got != "hi" {
		t.Fatalf("got %q, %v", got, err)
	}
}

func TestJSONKeepsLargeIntegers(t *testing.T) {
	c := JSON[any]{}
	out, err := c.Decode([]byte(`{"h":18446744073709551615}`))
	if err != nil {
		t.Fatal(err)
	}
	n := out.(map[string]any)["h"].(json.Number)
	if n.String() != "18446744073709551615" {
		t.Fatalf("got %s", n)
	}

	b, err := JSON[any]{Indent: "  "}.Encode(map[string]any{"a": 1})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "{\n  \"a\": 1\n}" {
		t.Fatalf("got %q", b)
	}
}

func TestJSONRejectsTrailingData(t *testing.T) {
	c := JSON[any]{}
	for _, in := range []string{`{"a":1} {"b":2}`, `{"a":1} garbage`, `1 2`} {
		if v, err := c.Decode([]byte(in)); err == nil {
			t.Fatalf("%q: decoded %v, want error", in, v)
		}
	}
	if _, err := c.Decode([]byte("{\"a\":1}\n  ")); err != nil {
		t.Fatalf("trailing whitespace: %v", err)
	}
}

func TestCBORDecodesStringKeyedMaps(t *testing.T) {
	c := MustCBOR[any](true)
	b, err := c.Encode(map[string]any{"b": uint64(2), "a": "x"})
	if err != nil {
		t.Fatal(err)
	}
	out, err := c.Decode(b)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{"a": "x", "b": uint64(2)}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestMsgpackIsDeterministic(t *testing.T) {
	c := Msgpack[any]{}
	v := map[string]any{"z": 1, "y": 2, "x": 3, "w": 4, "v": 5}
	first, err := c.Encode(v)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 20; i++ {
		b, err := c.Encode(v)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(b, first) {
			t.Fatalf("encoding %d differs", i)
		}
	}
	out, err := c.Decode(first)
	if err != nil {
		t.Fatal(err)
	}
	if len(out.(map[string]any)) != 5 {
		t.Fatalf("got %v", out)
	}
}
