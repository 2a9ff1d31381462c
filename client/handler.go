package client

import (
	"context"

	"github.com/wampkit/anonauth/wamp"
)

// InvokeResult is the result of an InvocationHandler.  A non-empty Err makes
// the call fail with an RPCError carrying Args and Kwargs.
type InvokeResult struct {
	Args   wamp.List
	Kwargs wamp.Dict
	Err    wamp.URI
}

// InvocationHandler handles a call to a registered procedure.
type InvocationHandler func(context.Context, wamp.List, wamp.Dict) *InvokeResult

// resultOrError converts a handler result to what Call returns.
func resultOrError(procedure wamp.URI, res *InvokeResult) (wamp.List, error) {
	if res == nil {
		return nil, nil
	}
	if res.Err != "" {
		return nil, &RPCError{
			Err:       res.Err,
			Args:      res.Args,
			Kwargs:    res.Kwargs,
			Procedure: procedure,
		}
	}
	return res.Args, nil
}
