package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/wampkit/anonauth/stdlog"
	"github.com/wampkit/anonauth/wamp"
)

const defaultNATSCallTimeout = 10 * time.Second

// ConnectNATS dials the NATS server at url with reconnects enabled.
// Connection state changes are logged.
func ConnectNATS(url, name string, logger stdlog.StdLog) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Printf("disconnected from NATS: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Printf("reconnected to NATS at %s", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Print("NATS connection closed")
		}),
	}
	return nats.Connect(url, opts...)
}

// NATSCaller calls procedures served over NATS request/reply.  The subject
// of a request is the procedure URI.
type NATSCaller struct {
	nc      *nats.Conn
	timeout time.Duration
	log     stdlog.StdLog
}

// NewNATSCaller creates a caller using an established connection.  The
// timeout applies to calls whose context carries no deadline; zero selects
// a default of 10 seconds.
func NewNATSCaller(nc *nats.Conn, timeout time.Duration, logger stdlog.StdLog) *NATSCaller {
	if timeout <= 0 {
		timeout = defaultNATSCallTimeout
	}
	return &NATSCaller{
		nc:      nc,
		timeout: timeout,
		log:     logger,
	}
}

// Call sends args to procedure and waits for the reply.
func (c *NATSCaller) Call(ctx context.Context, procedure wamp.URI, args wamp.List) (wamp.List, error) {
	if c.nc == nil || c.nc.IsClosed() {
		return nil, ErrNotConn
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	data, err := encodeCall(args, nil)
	if err != nil {
		return nil, fmt.Errorf("cannot encode call to %s: %w", procedure, err)
	}
	msg, err := c.nc.RequestWithContext(ctx, string(procedure), data)
	if err != nil {
		switch {
		case errors.Is(err, nats.ErrNoResponders):
			return nil, &RPCError{
				Err:       wamp.ErrNoSuchProcedure,
				Procedure: procedure,
			}
		case errors.Is(err, context.DeadlineExceeded), errors.Is(err, nats.ErrTimeout):
			return nil, fmt.Errorf("%w: %s", ErrReplyTimeout, procedure)
		}
		return nil, err
	}
	return decodeReply(procedure, msg.Data)
}

// ServeNATS subscribes to the subject for procedure and answers each request
// with the result of handler.  Requests in the queue group are load balanced
// when queue is not empty.
func ServeNATS(nc *nats.Conn, procedure wamp.URI, queue string, handler InvocationHandler, logger stdlog.StdLog) (*nats.Subscription, error) {
	if nc == nil {
		return nil, ErrNotConn
	}
	cb := func(msg *nats.Msg) {
		var res *InvokeResult
		env, err := decodeEnvelope(msg.Data)
		if err != nil {
			logger.Printf("bad call payload for %s: %v", procedure, err)
			res = &InvokeResult{
				Err:  wamp.ErrInvalidArgument,
				Args: wamp.List{err.Error()},
			}
		} else {
			res = handler(context.Background(), env.Args, env.Kwargs)
		}
		data, err := encodeResult(res)
		if err != nil {
			logger.Printf("cannot encode result for %s: %v", procedure, err)
			return
		}
		if err = msg.Respond(data); err != nil {
			logger.Printf("cannot respond to %s: %v", procedure, err)
		}
	}
	if queue != "" {
		return nc.QueueSubscribe(string(procedure), queue, cb)
	}
	return nc.Subscribe(string(procedure), cb)
}
