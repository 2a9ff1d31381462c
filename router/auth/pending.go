package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/wampkit/anonauth/client"
	"github.com/wampkit/anonauth/stdlog"
	"github.com/wampkit/anonauth/wamp"
)

// Realms is what principal assignment needs to know about the router.
type Realms interface {
	HasRealm(realm wamp.URI) bool
	HasRole(realm wamp.URI, role string) bool
}

// Caller calls a procedure on the router's RPC plane.
type Caller interface {
	Call(ctx context.Context, procedure wamp.URI, args wamp.List) (wamp.List, error)
}

// CallerFactory returns a Caller joined to the given realm.
type CallerFactory func(realm wamp.URI) (Caller, error)

// Options supplies a pending authentication with the session it belongs to
// and the router services it uses.
type Options struct {
	Session   wamp.ID
	Transport wamp.Dict
	// Realms checks assigned realms and roles.  If nil, any realm and role
	// is accepted.
	Realms Realms
	// Callers is required for dynamic mode.
	Callers CallerFactory
	Logger  stdlog.StdLog
}

// SessionDetails accumulates the details of the session being established.
// Until the client is accepted, AuthID and AuthRole hold only an identity
// asserted by a trusted proxy, never the one claimed in HELLO.  After
// acceptance they hold the resolved identity.
type SessionDetails struct {
	Session      wamp.ID
	Realm        wamp.URI
	AuthID       string
	AuthRole     string
	AuthMethod   string
	AuthProvider string
	AuthExtra    wamp.Dict
	Transport    wamp.Dict
}

// Dict renders the details as passed to an authenticator procedure.  Unset
// values are nil.
func (d SessionDetails) Dict() wamp.Dict {
	str := func(s string) interface{} {
		if s == "" {
			return nil
		}
		return s
	}
	dict := wamp.Dict{
		wamp.OptSession:      d.Session,
		wamp.OptRealm:        str(string(d.Realm)),
		wamp.OptAuthID:       str(d.AuthID),
		wamp.OptAuthRole:     str(d.AuthRole),
		wamp.OptAuthMethod:   str(d.AuthMethod),
		wamp.OptAuthProvider: str(d.AuthProvider),
		wamp.OptAuthExtra:    nil,
		wamp.OptTransport:    nil,
	}
	if d.AuthExtra != nil {
		dict[wamp.OptAuthExtra] = d.AuthExtra
	}
	if d.Transport != nil {
		dict[wamp.OptTransport] = d.Transport
	}
	return dict
}

// boundCaller is a Caller fixed to the authenticator procedure.
type boundCaller struct {
	caller    Caller
	procedure wamp.URI
}

func (b *boundCaller) call(ctx context.Context, args wamp.List) (wamp.List, error) {
	return b.caller.Call(ctx, b.procedure, args)
}

// pendingAuth holds the state shared by the pending authentications of one
// handshake: the requested realm, the accumulated session details, and the
// principal once assigned.
type pendingAuth struct {
	method string
	cfg    Config
	opts   Options
	log    stdlog.StdLog

	started bool
	details SessionDetails

	realm     wamp.URI
	authid    string
	authrole  string
	authextra wamp.Dict

	caller *boundCaller
}

func newPendingAuth(method string, cfg Config, opts Options) pendingAuth {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stdout, "", log.LstdFlags)
	}
	return pendingAuth{
		method: method,
		cfg:    cfg,
		opts:   opts,
		log:    logger,
		details: SessionDetails{
			Session:   opts.Session,
			Transport: opts.Transport,
		},
	}
}

// begin records the requested realm and any proxy asserted identity.  It
// fails if the pending authentication was already used.
func (pa *pendingAuth) begin(realm wamp.URI, hello HelloDetails) error {
	if pa.started {
		return ErrHelloAlreadyCalled
	}
	pa.started = true
	pa.realm = realm
	pa.details.Realm = realm
	pa.details.AuthID = hello.asserted.authID
	pa.details.AuthRole = hello.asserted.authRole
	pa.details.AuthProvider = string(pa.cfg.Type)
	return nil
}

// stampMethod is the only way an authentication method writes the session
// details.  Both anonymous methods record "anonymous"; the offered method
// name is reported in the WELCOME.
func (pa *pendingAuth) stampMethod(authextra wamp.Dict) {
	pa.details.AuthMethod = AnonymousMethod
	pa.details.AuthExtra = authextra
}

// assignPrincipal takes the identity from p and checks that its realm and
// role exist.  The returned Denied carries the reason for refusal.
func (pa *pendingAuth) assignPrincipal(p Principal) *Denied {
	if p.Realm != "" {
		pa.realm = p.Realm
	}
	// The authenticator may override the requested authid.
	if p.AuthID != "" {
		pa.authid = p.AuthID
	}
	pa.authrole = p.Role
	pa.authextra = p.Extra

	if pa.realm == "" {
		return &Denied{Reason: wamp.ErrNoSuchRealm, Message: "no realm assigned"}
	}
	if pa.authid == "" {
		return &Denied{Reason: wamp.ErrAuthenticationFailed, Message: "no authid assigned"}
	}
	if pa.authrole == "" {
		return &Denied{Reason: wamp.ErrNoSuchRole, Message: errNoRoleAssigned.Error()}
	}
	if pa.opts.Realms != nil {
		if !pa.opts.Realms.HasRealm(pa.realm) {
			return &Denied{
				Reason:  wamp.ErrNoSuchRealm,
				Message: fmt.Sprintf("no realm %q exists on this router", pa.realm),
			}
		}
		if !pa.opts.Realms.HasRole(pa.realm, pa.authrole) {
			return &Denied{
				Reason:  wamp.ErrNoSuchRole,
				Message: fmt.Sprintf("realm %q has no role %q", pa.realm, pa.authrole),
			}
		}
	}
	return nil
}

// assignThenAccept is the single acceptance path of both the immediate and
// the delegated decisions.
func (pa *pendingAuth) assignThenAccept(p Principal) Decision {
	if denied := pa.assignPrincipal(p); denied != nil {
		return pa.deny(denied)
	}
	return pa.accept()
}

func (pa *pendingAuth) accept() *Accepted {
	pa.details.Realm = pa.realm
	pa.details.AuthID = pa.authid
	pa.details.AuthRole = pa.authrole
	countDecision(pa.method, outcomeAccepted)
	return &Accepted{
		Realm:        pa.realm,
		AuthID:       pa.authid,
		AuthRole:     pa.authrole,
		AuthMethod:   pa.method,
		AuthProvider: pa.details.AuthProvider,
		AuthExtra:    pa.authextra,
		Details:      pa.details,
	}
}

func (pa *pendingAuth) deny(d *Denied) *Denied {
	countDecision(pa.method, outcomeDenied)
	return d
}

// denyConfig refuses the client because the configuration cannot work.
func (pa *pendingAuth) denyConfig(err error) *Denied {
	err = configError{Err: err}
	pa.log.Printf("%s authentication on realm %q: %v", pa.method, pa.realm, err)
	return pa.deny(&Denied{Reason: wamp.ErrAuthenticationFailed, Message: err.Error()})
}

// initDynamicAuthenticator binds the caller to the authenticator procedure
// the first time it is needed.
func (pa *pendingAuth) initDynamicAuthenticator() (*boundCaller, *Denied) {
	if pa.caller != nil {
		return pa.caller, nil
	}
	if pa.cfg.Authenticator == "" {
		return nil, pa.denyConfig(errNoAuthenticator)
	}
	if pa.opts.Callers == nil {
		return nil, pa.denyConfig(errNoCaller)
	}
	realm := pa.cfg.AuthenticatorRealm
	if realm == "" {
		realm = pa.realm
	}
	caller, err := pa.opts.Callers(realm)
	if err != nil {
		return nil, pa.denyConfig(fmt.Errorf(
			"cannot reach authenticator %s on realm %q: %w",
			pa.cfg.Authenticator, realm, err))
	}
	pa.caller = &boundCaller{
		caller:    caller,
		procedure: pa.cfg.Authenticator,
	}
	return pa.caller, nil
}

// callAuthenticator calls the dynamic authenticator with (realm, authid,
// session details) and returns a Pending that resolves from its answer.
func (pa *pendingAuth) callAuthenticator(ctx context.Context, caller *boundCaller, authid string) *Pending {
	pending := newPending()
	args := wamp.List{string(pa.realm), authid, pa.details.Dict()}
	pa.authid = authid

	go func() {
		defer func() {
			if r := recover(); r != nil {
				pa.log.Printf("dynamic authenticator %s panicked: %v",
					caller.procedure, r)
				pending.resolve(pa.deny(&Denied{
					Reason:  wamp.ErrAuthenticationFailed,
					Message: "dynamic authenticator failed",
				}))
			}
		}()
		pending.resolve(pa.authenticatorDecision(caller.call(ctx, args)))
	}()

	return pending
}

// authenticatorDecision turns the result of an authenticator call into the
// final decision.
func (pa *pendingAuth) authenticatorDecision(result wamp.List, err error) Decision {
	if err != nil {
		return pa.marshalAuthenticatorError(err)
	}
	if len(result) == 0 {
		return pa.deny(&Denied{
			Reason:  wamp.ErrAuthenticationFailed,
			Message: errInvalidPrincipalType.Error(),
		})
	}
	principal, err := ParsePrincipal(result[0])
	if err != nil {
		return pa.deny(&Denied{Reason: wamp.ErrAuthenticationFailed, Message: err.Error()})
	}
	return pa.assignThenAccept(principal)
}

// marshalAuthenticatorError converts a failed authenticator call to a
// denial.  Application errors are forwarded with their URI and first
// argument; other failures are logged and reported by category only.
func (pa *pendingAuth) marshalAuthenticatorError(err error) *Denied {
	var rpcErr *client.RPCError
	if errors.As(err, &rpcErr) {
		pa.log.Printf("dynamic authenticator %s denied client: %v",
			pa.cfg.Authenticator, err)
		denied := &Denied{Reason: rpcErr.Err}
		if denied.Reason == "" {
			denied.Reason = wamp.ErrAuthenticationFailed
		}
		if len(rpcErr.Args) != 0 {
			denied.Message = fmt.Sprint(rpcErr.Args[0])
		}
		return pa.deny(denied)
	}

	pa.log.Printf("dynamic authenticator %s failed: %v", pa.cfg.Authenticator, err)
	msg := "dynamic authenticator failed"
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, client.ErrReplyTimeout):
		msg = "dynamic authenticator timed out"
	case errors.Is(err, context.Canceled):
		msg = "dynamic authenticator call canceled"
	case errors.Is(err, client.ErrNotConn):
		msg = "dynamic authenticator unreachable"
	}
	return pa.deny(&Denied{Reason: wamp.ErrAuthenticationFailed, Message: msg})
}
