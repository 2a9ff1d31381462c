package client

import (
	"errors"
	"reflect"

	"github.com/ugorji/go/codec"
	"github.com/wampkit/anonauth/wamp"
)

// envelope is the msgpack body of a call request or reply carried over NATS.
type envelope struct {
	Args   wamp.List `codec:"args"`
	Kwargs wamp.Dict `codec:"kwargs,omitempty"`
	Err    string    `codec:"error,omitempty"`
}

var errEmptyPayload = errors.New("empty payload")

func msgpackHandle() *codec.MsgpackHandle {
	mph := &codec.MsgpackHandle{}
	mph.RawToString = true
	mph.MapType = reflect.TypeOf(map[string]interface{}(nil))
	return mph
}

func encodeEnvelope(env *envelope) ([]byte, error) {
	var b []byte
	return b, codec.NewEncoderBytes(&b, msgpackHandle()).Encode(env)
}

func decodeEnvelope(data []byte) (*envelope, error) {
	if len(data) == 0 {
		return nil, errEmptyPayload
	}
	var env envelope
	if err := codec.NewDecoderBytes(data, msgpackHandle()).Decode(&env); err != nil {
		return nil, err
	}
	// Nested maps come back as map[string]interface{}.
	for i := range env.Args {
		if d := wamp.NormalizeDict(env.Args[i]); d != nil {
			env.Args[i] = d
		}
	}
	return &env, nil
}

func encodeCall(args wamp.List, kwargs wamp.Dict) ([]byte, error) {
	return encodeEnvelope(&envelope{Args: args, Kwargs: kwargs})
}

func encodeResult(res *InvokeResult) ([]byte, error) {
	if res == nil {
		return encodeEnvelope(&envelope{})
	}
	return encodeEnvelope(&envelope{
		Args:   res.Args,
		Kwargs: res.Kwargs,
		Err:    string(res.Err),
	})
}

// decodeReply turns a reply payload into the result or RPCError of a call.
func decodeReply(procedure wamp.URI, data []byte) (wamp.List, error) {
	env, err := decodeEnvelope(data)
	if err != nil {
		return nil, err
	}
	return resultOrError(procedure, &InvokeResult{
		Args:   env.Args,
		Kwargs: env.Kwargs,
		Err:    wamp.URI(env.Err),
	})
}
