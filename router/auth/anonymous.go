package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/wampkit/anonauth/wamp"
)

const (
	// AnonymousMethod is the authmethod of WAMP-Anonymous.
	AnonymousMethod = "anonymous"

	defaultAnonymousRole = "anonymous"
)

// AnonymousAuth is the pending authentication of one WAMP-Anonymous
// handshake.
//
// With a static configuration the client is accepted with the configured
// authid, or a generated one, and the configured role:
//
//     realms:
//       - uri: realm1
//         roles: [guest]
//         anonymous:
//           type: static
//           role: guest
//
// With a dynamic configuration the authenticator procedure is called with
// (realm, authid, details) and returns the principal {authid, role, extra}.
type AnonymousAuth struct {
	pendingAuth
}

// NewAnonymousAuth creates the pending authentication for one handshake.
// An invalid configuration is refused here, before any client is seen.
func NewAnonymousAuth(cfg Config, opts Options) (*AnonymousAuth, error) {
	return newAnonymousAuth(AnonymousMethod, cfg, opts)
}

func newAnonymousAuth(method string, cfg Config, opts Options) (*AnonymousAuth, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &AnonymousAuth{
		pendingAuth: newPendingAuth(method, cfg, opts),
	}, nil
}

// AuthMethod returns description of authentication method.
func (a *AnonymousAuth) AuthMethod() string { return a.method }

// Details returns the session details accumulated so far.  Once a Pending
// decision is returned, call this only after it resolves.
func (a *AnonymousAuth) Details() SessionDetails { return a.details }

// Hello decides on the client.  Static mode and configuration errors are
// decided immediately; dynamic mode returns a *Pending without blocking.
func (a *AnonymousAuth) Hello(ctx context.Context, realm wamp.URI, details HelloDetails) Decision {
	if err := a.begin(realm, details); err != nil {
		return a.deny(&Denied{
			Reason:  wamp.ErrAuthenticationFailed,
			Message: err.Error(),
		})
	}

	authid := a.cfg.AuthID
	if authid == "" {
		authid = uuid.NewString()
	}

	a.stampMethod(details.AuthExtra)

	switch a.cfg.Type {
	case ModeStatic:
		role := a.cfg.Role
		if role == "" {
			role = defaultAnonymousRole
		}
		return a.assignThenAccept(Principal{
			AuthID: authid,
			Role:   role,
			Extra:  details.AuthExtra,
		})

	case ModeDynamic:
		caller, denied := a.initDynamicAuthenticator()
		if denied != nil {
			return denied
		}
		return a.callAuthenticator(ctx, caller, authid)
	}

	// Configuration is validated on creation, so this is not expected.
	return a.denyConfig(fmt.Errorf("authentication type %q is unknown", a.cfg.Type))
}
