package client

import (
	"context"
	"sync"

	"github.com/wampkit/anonauth/stdlog"
	"github.com/wampkit/anonauth/wamp"
)

// LocalCaller calls procedures registered in the same process.
type LocalCaller struct {
	mu       sync.RWMutex
	handlers map[wamp.URI]InvocationHandler
	log      stdlog.StdLog
}

// NewLocalCaller creates a LocalCaller with no procedures registered.
func NewLocalCaller(logger stdlog.StdLog) *LocalCaller {
	return &LocalCaller{
		handlers: map[wamp.URI]InvocationHandler{},
		log:      logger,
	}
}

// Register installs fn as the handler for procedure.
func (c *LocalCaller) Register(procedure wamp.URI, fn InvocationHandler) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.handlers[procedure]; ok {
		return ErrAlreadyRegistered
	}
	c.handlers[procedure] = fn
	c.log.Println("registered local procedure", procedure)
	return nil
}

// Unregister removes the handler for procedure.
func (c *LocalCaller) Unregister(procedure wamp.URI) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.handlers[procedure]; !ok {
		return ErrNotRegistered
	}
	delete(c.handlers, procedure)
	return nil
}

// Call invokes the handler registered for procedure.  If no handler is
// registered, the call fails with wamp.error.no_such_procedure as a dealer
// would answer.
func (c *LocalCaller) Call(ctx context.Context, procedure wamp.URI, args wamp.List) (wamp.List, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	fn, ok := c.handlers[procedure]
	c.mu.RUnlock()
	if !ok {
		return nil, &RPCError{
			Err:       wamp.ErrNoSuchProcedure,
			Procedure: procedure,
		}
	}
	res := fn(ctx, args, nil)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return resultOrError(procedure, res)
}
