package types

// MaxTupleArity is the largest tuple arity the codec supports.
const MaxTupleArity = 8

// Tuple types are fixed-arity heterogeneous groups. Field Vi holds position i;
// on the wire position i is wrapper item i-1.
type tupleMarker interface {
	isTuple()
	Arity() int
}

// Tuple1 is a 1-tuple.
type Tuple1[A any] struct {
	V1 A
}

func (Tuple1[A]) isTuple()   {}
func (Tuple1[A]) Arity() int { return 1 }

// T1 builds a Tuple1.
func T1[A any](v1 A) Tuple1[A] {
	return Tuple1[A]{v1}
}

// Tuple2 is a 2-tuple.
type Tuple2[A, B any] struct {
	V1 A
	V2 B
}

func (Tuple2[A, B]) isTuple()   {}
func (Tuple2[A, B]) Arity() int { return 2 }

// T2 builds a Tuple2.
func T2[A, B any](v1 A, v2 B) Tuple2[A, B] {
	return Tuple2[A, B]{v1, v2}
}

// Tuple3 is a 3-tuple.
type Tuple3[A, B, C any] struct {
	V1 A
	V2 B
	V3 C
}

func (Tuple3[A, B, C]) isTuple()   {}
func (Tuple3[A, B, C]) Arity() int { return 3 }

// T3 builds a Tuple3.
func T3[A, B, C any](v1 A, v2 B, v3 C) Tuple3[A, B, C] {
	return Tuple3[A, B, C]{v1, v2, v3}
}

// Tuple4 is a 4-tuple.
type Tuple4[A, B, C, D any] struct {
	V1 A
	V2 B
	V3 C
	V4 D
}

func (Tuple4[A, B, C, D]) isTuple()   {}
func (Tuple4[A, B, C, D]) Arity() int { return 4 }

// T4 builds a Tuple4.
func T4[A, B, C, D any](v1 A, v2 B, v3 C, v4 D) Tuple4[A, B, C, D] {
	return Tuple4[A, B, C, D]{v1, v2, v3, v4}
}

// Tuple5 is a 5-tuple.
type Tuple5[A, B, C, D, E any] struct {
	V1 A
	V2 B
	V3 C
	V4 D
	V5 E
}

func (Tuple5[A, B, C, D, E]) isTuple()   {}
func (Tuple5[A, B, C, D, E]) Arity() int { return 5 }

// T5 builds a Tuple5.
func T5[A, B, C, D, E any](v1 A, v2 B, v3 C, v4 D, v5 E) Tuple5[A, B, C, D, E] {
	return Tuple5[A, B, C, D, E]{v1, v2, v3, v4, v5}
}

// Tuple6 is a 6-tuple.
type Tuple6[A, B, C, D, E, F any] struct {
	V1 A
	V2 B
	V3 C
	V4 D
	V5 E
	V6 F
}

func (Tuple6[A, B, C, D, E, F]) isTuple()   {}
func (Tuple6[A, B, C, D, E, F]) Arity() int { return 6 }

// T6 builds a Tuple6.
func T6[A, B, C, D, E, F any](v1 A, v2 B, v3 C, v4 D, v5 E, v6 F) Tuple6[A, B, C, D, E, F] {
	return Tuple6[A, B, C, D, E, F]{v1, v2, v3, v4, v5, v6}
}

// Tuple7 is a 7-tuple.
type Tuple7[A, B, C, D, E, F, G any] struct {
	V1 A
	V2 B
	V3 C
	V4 D
	V5 E
	V6 F
	V7 G
}

func (Tuple7[A, B, C, D, E, F, G]) isTuple()   {}
func (Tuple7[A, B, C, D, E, F, G]) Arity() int { return 7 }

// T7 builds a Tuple7.
func T7[A, B, C, D, E, F, G any](v1 A, v2 B, v3 C, v4 D, v5 E, v6 F, v7 G) Tuple7[A, B, C, D, E, F, G] {
	return Tuple7[A, B, C, D, E, F, G]{v1, v2, v3, v4, v5, v6, v7}
}

// Tuple8 is a 8-tuple.
type Tuple8[A, B, C, D, E, F, G, H any] struct {
	V1 A
	V2 B
	V3 C
	V4 D
	V5 E
	V6 F
	V7 G
	V8 H
}

func (Tuple8[A, B, C, D, E, F, G, H]) isTuple()   {}
func (Tuple8[A, B, C, D, E, F, G, H]) Arity() int { return 8 }

// T8 builds a Tuple8.
func T8[A, B, C, D, E, F, G, H any](v1 A, v2 B, v3 C, v4 D, v5 E, v6 F, v7 G, v8 H) Tuple8[A, B, C, D, E, F, G, H] {
	return Tuple8[A, B, C, D, E, F, G, H]{v1, v2, v3, v4, v5, v6, v7, v8}
}
