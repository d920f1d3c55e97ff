package types

import (
	"reflect"
	"testing"

	"google.golang.org/protobuf/types/known/structpb"
)

type testEnum int32

func (e testEnum) Defined() bool { return e == 0 }

type testRemote struct{}

func (*testRemote) RemoteObject() {}

type testMessage struct{}

func (testMessage) MarshalProto() ([]byte, error) { return nil, nil }

func TestReflectClassify(t *testing.T) {
	var r Reflect
	cases := []struct {
		in   any
		want Kind
	}{
		{int32(0), KindScalar},
		{int(0), KindScalar},
		{uint(0), KindScalar},
		{"", KindScalar},
		{[]byte(nil), KindScalar},
		{float32(0), KindScalar},
		{testEnum(0), KindEnum},
		{structpb.NullValue(0), KindEnum},
		{(*testRemote)(nil), KindReference},
		{testMessage{}, KindMessage},
		{(*structpb.Value)(nil), KindMessage},
		{[]int32(nil), KindList},
		{[2]string{}, KindList},
		{map[string]int32(nil), KindDictionary},
		{Set[string](nil), KindSet},
		{T2(1, "a"), KindTuple},
		{int8(0), KindInvalid},
		{struct{}{}, KindInvalid},
		{make(chan int), KindInvalid},
		{testRemote{}, KindInvalid},
	}
	for _, tc := range cases {
		if got := r.Classify(reflect.TypeOf(tc.in)); got.Kind != tc.want {
			t.Errorf("%T: got %s want %s", tc.in, got.Kind, tc.want)
		}
	}
}

func TestReflectScalarKinds(t *testing.T) {
	var r Reflect
	cases := map[reflect.Type]ScalarKind{
		reflect.TypeOf(float64(0)): Double,
		reflect.TypeOf(float32(0)): Float,
		reflect.TypeOf(int32(0)):   Int32,
		reflect.TypeOf(int64(0)):   Int64,
		reflect.TypeOf(int(0)):     Int64,
		reflect.TypeOf(uint32(0)):  UInt32,
		reflect.TypeOf(uint64(0)):  UInt64,
		reflect.TypeOf(uint(0)):    UInt64,
		reflect.TypeOf(false):      Bool,
		reflect.TypeOf(""):         String,
		reflect.TypeOf([]byte{}):   Bytes,
	}
	for typ, want := range cases {
		got := r.Classify(typ)
		if got.Kind != KindScalar || got.Scalar != want {
			t.Errorf("%v: got %s want scalar %s", typ, got, want)
		}
	}
}

func TestReflectElementTypes(t *testing.T) {
	var r Reflect
	strT, i32T := reflect.TypeOf(""), reflect.TypeOf(int32(0))

	if got := r.Classify(reflect.TypeOf([]string{})); got.Elem != strT {
		t.Fatalf("list elem %v", got.Elem)
	}
	got := r.Classify(reflect.TypeOf(map[string]int32{}))
	if got.Key != strT || got.Value != i32T {
		t.Fatalf("dictionary key=%v value=%v", got.Key, got.Value)
	}
	if got := r.Classify(reflect.TypeOf(NewSet[int32]())); got.Elem != i32T {
		t.Fatalf("set elem %v", got.Elem)
	}
	tup := r.Classify(reflect.TypeOf(T3[string, int32, bool]("", 0, false)))
	if len(tup.Positions) != 3 || tup.Positions[0] != strT || tup.Positions[1] != i32T {
		t.Fatalf("tuple positions %v", tup.Positions)
	}
}

func TestChainPrefersFirstValid(t *testing.T) {
	override := ClassifierFunc(func(t reflect.Type) Category {
		if t.Kind() == reflect.Int8 {
			return ScalarOf(Int32)
		}
		return Category{}
	})
	c := Chain(override, &Reflect{})
	if got := c.Classify(reflect.TypeOf(int8(0))); got.Kind != KindScalar || got.Scalar != Int32 {
		t.Fatalf("int8: got %s", got)
	}
	if got := c.Classify(reflect.TypeOf("")); got.Scalar != String {
		t.Fatalf("string: got %s", got)
	}
}

func TestSetHelpers(t *testing.T) {
	s := NewSet("a", "b")
	s.Add("c")
	s.Delete("a")
	if s.Len() != 2 || !s.Has("b") || s.Has("a") {
		t.Fatalf("set=%v", s)
	}
	if len(s.Slice()) != 2 {
		t.Fatalf("slice=%v", s.Slice())
	}
}

func TestTupleArity(t *testing.T) {
	if T1(1).Arity() != 1 || T8(1, 2, 3, 4, 5, 6, 7, 8).Arity() != 8 {
		t.Fatal("bad arity")
	}
}
