// Package registry provides reference registries for the krpc codec: stores
// that hand out opaque uint64 handles for live objects and resolve them back.
//
// Implementations:
//   - Local: unbounded in-process table. Handles live until Release or Close,
//     or until they sit idle longer than Options.Retention when it is set.
//   - Ristretto: bounded table on dgraph-io/ristretto. Rarely used handles are
//     evicted once MaxHandles is reached.
//
// Handles come from a HandleSource: Sequential (in-process counter) by
// default, or RedisHandles when several server replicas must never issue the
// same handle. Handle 0 is reserved for the absent value and never issued.
//
// Registration is idempotent per instance identity: registering the same
// pointer twice returns the same handle for as long as the mapping lives.
// Instances must therefore have a comparable dynamic type (pointers in
// practice).
package registry

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/jason-costello/krpc"
)

var (
	ErrNilInstance   = errors.New("registry: nil instance")
	ErrNotComparable = errors.New("registry: instance type is not comparable")
	ErrRejected      = errors.New("registry: handle rejected under pressure")
	ErrClosed        = errors.New("registry: closed")
	ErrExhausted     = errors.New("registry: handle space exhausted")
	ErrHandleReused  = errors.New("registry: handle source reissued a live handle")
)

// Options tune a Local registry. The zero value is ready to use.
type Options struct {
	Source        HandleSource  // nil => NewSequential()
	Logger        krpc.Logger   // nil => NopLogger
	Hooks         Hooks         // nil => NopHooks
	Retention     time.Duration // drop handles idle this long; 0 => never
	SweepInterval time.Duration // 0 => Retention/2, at least 1s
}

func identity(instance any) error {
	if instance == nil {
		return ErrNilInstance
	}
	if !reflect.TypeOf(instance).Comparable() {
		return fmt.Errorf("%w: %T", ErrNotComparable, instance)
	}
	return nil
}

func typeName(instance any) string { return fmt.Sprintf("%T", instance) }

func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
