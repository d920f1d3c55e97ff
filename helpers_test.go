package krpc_test

import (
	"testing"

	"github.com/jason-costello/krpc"
	"github.com/jason-costello/krpc/registry"
)

// gear is a closed enum.
type gear int32

const (
	gearUp gear = iota
	gearDown
)

func (g gear) Defined() bool { return g == gearUp || g == gearDown }

// wideEnum has ordinals beyond int32.
type wideEnum uint64

func (wideEnum) Defined() bool { return true }

type vessel struct{ name string }

func (*vessel) RemoteObject() {}

type part struct{ id int }

func (*part) RemoteObject() {}

func newCodec(t *testing.T, opts krpc.Options) *krpc.Codec {
	t.Helper()
	c, err := krpc.New(opts)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func newCodecWithRegistry(t *testing.T) (*krpc.Codec, *registry.Local) {
	t.Helper()
	reg := registry.NewLocal(registry.Options{})
	return newCodec(t, krpc.Options{Registry: reg}), reg
}
