package transcode

import (
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/jason-costello/krpc"
	"github.com/jason-costello/krpc/codec"
	"github.com/jason-costello/krpc/registry"
	"github.com/jason-costello/krpc/schema"
	"github.com/jason-costello/krpc/types"
)

type vessel struct{ Name string }

func (*vessel) RemoteObject() {}

func (v *vessel) String() string { return "vessel:" + v.Name }

func setup(t *testing.T) (*krpc.Codec, *Transcoder) {
	t.Helper()
	c, err := krpc.New(krpc.Options{Registry: registry.NewLocal(registry.Options{})})
	if err != nil {
		t.Fatal(err)
	}
	tc, err := JSON(c)
	if err != nil {
		t.Fatal(err)
	}
	return c, tc
}

func TestTranscodeJSONDictionaryOfLists(t *testing.T) {
	c, tc := setup(t)
	b, err := c.Encode(map[string][]int32{"a": {1, 2}, "b": nil})
	if err != nil {
		t.Fatal(err)
	}
	out, err := tc.Transcode(b, reflect.TypeOf(map[string][]int32(nil)))
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"a\": [\n    1,\n    2\n  ],\n  \"b\": []\n}"
	if string(out) != want {
		t.Fatalf("got\n%s\nwant\n%s", out, want)
	}
}

func TestValueNormalizesCategories(t *testing.T) {
	c, tc := setup(t)

	in := types.T3(types.NewSet[uint32](30, 1, 200), map[int64]bool{-1: true}, &vessel{"Kerbal X"})
	b, err := c.Encode(in)
	if err != nil {
		t.Fatal(err)
	}
	got, err := tc.Value(b, reflect.TypeOf(in))
	if err != nil {
		t.Fatal(err)
	}
	want := []any{
		[]any{uint32(1), uint32(30), uint32(200)},
		map[string]any{"-1": true},
		"vessel:Kerbal X",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestValueAbsentReferenceIsNil(t *testing.T) {
	c, tc := setup(t)
	b, _ := c.Encode((*vessel)(nil))
	got, err := tc.Value(b, reflect.TypeOf((*vessel)(nil)))
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatalf("got %v, want nil", got)
	}
}

func TestValueEnumUsesName(t *testing.T) {
	c, tc := setup(t)
	b, _ := c.Encode(structpb.NullValue_NULL_VALUE)
	got, err := tc.Value(b, reflect.TypeOf(structpb.NullValue(0)))
	if err != nil {
		t.Fatal(err)
	}
	if got != "NULL_VALUE" {
		t.Fatalf("got %v", got)
	}
}

func TestValueRequestEnvelope(t *testing.T) {
	_, tc := setup(t)
	req := &schema.Request{
		Service:   "SpaceCenter",
		Procedure: "get_ActiveVessel",
		Arguments: []schema.Argument{{Position: 0, Value: []byte{0x01}}},
	}
	b, err := req.MarshalProto()
	if err != nil {
		t.Fatal(err)
	}
	got, err := tc.Value(b, reflect.TypeOf(req))
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{
		"service":   "SpaceCenter",
		"procedure": "get_ActiveVessel",
		"arguments": []any{map[string]any{"position": uint32(0), "value": []byte{0x01}}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestTranscodeCBORAndMsgpackRoundTrip(t *testing.T) {
	c, _ := setup(t)
	b, err := c.Encode(types.NewSet("b", "a", "c"))
	if err != nil {
		t.Fatal(err)
	}
	typ := reflect.TypeOf(types.Set[string]{})

	cb, err := CBOR(c)
	if err != nil {
		t.Fatal(err)
	}
	out, err := cb.Transcode(b, typ)
	if err != nil {
		t.Fatal(err)
	}
	back, err := codec.MustCBOR[any](true).Decode(out)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]any{"a", "b", "c"}, back); diff != "" {
		t.Fatalf("cbor (-want +got):\n%s", diff)
	}

	mp, err := Msgpack(c)
	if err != nil {
		t.Fatal(err)
	}
	out, err = mp.Transcode(b, typ)
	if err != nil {
		t.Fatal(err)
	}
	back, err = codec.Msgpack[any]{}.Decode(out)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]any{"a", "b", "c"}, back); diff != "" {
		t.Fatalf("msgpack (-want +got):\n%s", diff)
	}
}

func TestTranscodeSurfacesDecodeErrors(t *testing.T) {
	_, tc := setup(t)
	if _, err := tc.Transcode([]byte{0x0a, 0x05}, reflect.TypeOf([]int32(nil))); err == nil {
		t.Fatal("expected malformed input error")
	}
}
