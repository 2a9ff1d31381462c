package client

import (
	"errors"
	"fmt"

	"github.com/wampkit/anonauth/wamp"
)

var (
	ErrAlreadyRegistered = errors.New("procedure already registered")
	ErrNotConn           = errors.New("not connected")
	ErrNotRegistered     = errors.New("not registered for procedure")
	ErrReplyTimeout      = errors.New("timeout waiting for reply")
)

// RPCError is returned when the called procedure answers with an error URI.
// This allows the caller to type assert the error and inspect the error
// contents, as may be necessary to process an error response from the
// callee.
type RPCError struct {
	Err       wamp.URI
	Args      wamp.List
	Kwargs    wamp.Dict
	Procedure wamp.URI
}

// Error implements the error interface, returning an error string for the
// RPCError.
func (werr *RPCError) Error() string {
	e := fmt.Sprintf("error calling remote procedure '%s': %v", werr.Procedure,
		werr.Err)
	if len(werr.Args) != 0 {
		e += fmt.Sprintf(": %v", werr.Args)
	}
	if len(werr.Kwargs) != 0 {
		e += fmt.Sprintf(": %v", werr.Kwargs)
	}
	return e
}
