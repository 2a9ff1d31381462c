/*
Package router handles the session opening handshake: it receives a client
HELLO, authenticates the client with one of the authmethods the client asked
for, and answers with WELCOME or ABORT.

*/
package router

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wampkit/anonauth/router/auth"
	"github.com/wampkit/anonauth/stdlog"
	"github.com/wampkit/anonauth/wamp"
)

// Advertise roles supported by this router.
var routerRoles = wamp.Dict{
	"broker": wamp.Dict{},
	"dealer": wamp.Dict{},
}

// Attachment describes the transport a HELLO arrived on.
type Attachment struct {
	// Transport details passed to authenticators.
	Transport wamp.Dict
	// TrustedProxy marks a transport that only a trusted front-end proxy
	// can reach.  The anonymous-proxy authmethod is refused otherwise.
	TrustedProxy bool
}

// A Router authenticates clients joining its realms.
type Router struct {
	realms       map[wamp.URI]*realm
	callers      auth.CallerFactory
	helloTimeout time.Duration

	log   stdlog.StdLog
	debug bool
}

// NewRouter creates a router with the realms in config.  callers gives the
// dynamic authenticators access to the RPC plane and may be nil if no realm
// uses dynamic authentication.
func NewRouter(config *Config, callers auth.CallerFactory, logger stdlog.StdLog) (*Router, error) {
	if logger == nil {
		return nil, errors.New("nil logger")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	r := &Router{
		realms:       make(map[wamp.URI]*realm, len(config.RealmConfigs)),
		callers:      callers,
		helloTimeout: time.Duration(config.HelloTimeout),
		log:          logger,
		debug:        config.Debug,
	}
	if r.helloTimeout <= 0 {
		r.helloTimeout = defaultHelloTimeout
	}
	for _, rc := range config.RealmConfigs {
		if _, ok := r.realms[rc.URI]; ok {
			return nil, errors.New("realm already exists: " + string(rc.URI))
		}
		rlm, err := newRealm(rc)
		if err != nil {
			return nil, fmt.Errorf("realm %s: %w", rc.URI, err)
		}
		r.realms[rc.URI] = rlm
		logger.Println("added realm:", rc.URI)
	}
	return r, nil
}

// HasRealm returns true if the realm exists on this router.
func (r *Router) HasRealm(uri wamp.URI) bool {
	_, ok := r.realms[uri]
	return ok
}

// HasRole returns true if the role exists on the realm.
func (r *Router) HasRole(uri wamp.URI, role string) bool {
	rlm, ok := r.realms[uri]
	return ok && rlm.hasRole(role)
}

// Hello authenticates the client that sent hello and returns the *wamp.Welcome
// or *wamp.Abort to send back.  A dynamic authenticator is waited for at most
// the configured hello timeout.
func (r *Router) Hello(ctx context.Context, hello *wamp.Hello, att Attachment) wamp.Message {
	if r.debug {
		r.log.Printf("%s: %+v", hello.MessageType(), hello)
	}

	// Client is required to provide a non-empty realm.
	if hello.Realm == "" {
		return r.abort(wamp.ErrNoSuchRealm, "no realm requested")
	}
	rlm, ok := r.realms[hello.Realm]
	if !ok {
		return r.abort(wamp.ErrNoSuchRealm,
			fmt.Sprintf("no realm %q exists on this router", hello.Realm))
	}

	details := auth.HelloDetailsFromDict(hello.Details)
	// The default authentication method is "WAMP-Anonymous" if client does
	// not specify otherwise.
	if len(details.AuthMethods) == 0 {
		details.AuthMethods = []string{auth.AnonymousMethod}
	}
	method := rlm.getMethod(details.AuthMethods, att.TrustedProxy)
	if method == nil {
		return r.abort(wamp.ErrNoAuthMethod, "could not authenticate with any method")
	}

	sid := wamp.GlobalID()
	pending, err := method.NewPending(auth.Options{
		Session:   sid,
		Transport: att.Transport,
		Realms:    r,
		Callers:   r.callers,
		Logger:    r.log,
	})
	if err != nil {
		r.log.Println("cannot create", method.AuthMethod(), "authentication:", err)
		return r.abort(wamp.ErrAuthenticationFailed, err.Error())
	}

	ctx, cancel := context.WithTimeout(ctx, r.helloTimeout)
	defer cancel()
	decision, err := auth.Resolve(ctx, pending.Hello(ctx, hello.Realm, details))
	if err != nil {
		r.log.Println("authentication did not complete:", err)
		return r.abort(wamp.ErrAuthenticationFailed, "authentication timed out")
	}

	switch decision := decision.(type) {
	case *auth.Accepted:
		r.log.Println("created session:", sid, "authid:", decision.AuthID,
			"authrole:", decision.AuthRole)
		return welcome(sid, decision)
	case *auth.Denied:
		r.log.Println("authentication denied:", decision)
		reason := decision.Reason
		if reason == "" {
			reason = wamp.ErrAuthenticationFailed
		}
		return r.abort(reason, decision.Message)
	}
	return r.abort(wamp.ErrAuthenticationFailed, "no authentication decision")
}

func (r *Router) abort(reason wamp.URI, message string) *wamp.Abort {
	abortMsg := &wamp.Abort{Reason: reason, Details: wamp.Dict{}}
	if message != "" {
		abortMsg.Details[wamp.OptMessage] = message
	}
	if r.debug {
		r.log.Printf("%s: %+v", abortMsg.MessageType(), abortMsg)
	}
	return abortMsg
}

func welcome(sid wamp.ID, accepted *auth.Accepted) *wamp.Welcome {
	details := wamp.Dict{
		wamp.OptRealm:        string(accepted.Realm),
		wamp.OptAuthID:       accepted.AuthID,
		wamp.OptAuthRole:     accepted.AuthRole,
		wamp.OptAuthMethod:   accepted.AuthMethod,
		wamp.OptAuthProvider: accepted.AuthProvider,
		"roles":              routerRoles,
	}
	if accepted.AuthExtra != nil {
		details[wamp.OptAuthExtra] = accepted.AuthExtra
	}
	return &wamp.Welcome{ID: sid, Details: details}
}
