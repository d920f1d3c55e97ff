package krpc

import (
	"fmt"
	"reflect"

	"github.com/jason-costello/krpc/schema"
)

// DecodeArguments decodes the positional arguments of req against the
// declared parameter types of the target procedure.
//
// The result has one slot per parameter. Positions the client did not send are
// left nil so the dispatch layer can apply defaults. If a position repeats, the
// last argument wins.
func (c *Codec) DecodeArguments(req *schema.Request, params []reflect.Type) ([]any, error) {
	out := make([]any, len(params))
	for _, a := range req.Arguments {
		if int(a.Position) >= len(params) {
			return nil, malformed(procName(req), "argument position %d out of range (%d parameters)", a.Position, len(params))
		}
		v, err := c.Decode(a.Value, params[a.Position])
		if err != nil {
			return nil, fmt.Errorf("krpc: %s argument %d: %w", procName(req), a.Position, err)
		}
		out[a.Position] = v
	}
	return out, nil
}

// EncodeReturn builds the response envelope for a procedure result. Void
// procedures pass hasValue=false and get an empty response.
func (c *Codec) EncodeReturn(value any, hasValue bool) (*schema.Response, error) {
	resp := &schema.Response{}
	if !hasValue {
		return resp, nil
	}
	b, err := c.Encode(value)
	if err != nil {
		return nil, err
	}
	resp.HasReturnValue = true
	resp.ReturnValue = b
	return resp, nil
}

func procName(req *schema.Request) string {
	return req.Service + "." + req.Procedure
}
