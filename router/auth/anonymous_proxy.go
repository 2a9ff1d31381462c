package auth

import (
	"context"

	"github.com/wampkit/anonauth/wamp"
)

const (
	// AnonymousProxyMethod is the authmethod offered to trusted proxies.
	AnonymousProxyMethod = "anonymous-proxy"

	// Authextra keys a trusted proxy sets to assert an identity it has
	// already verified.
	ProxyAuthIDKey    = "proxy-authid"
	ProxyAuthRoleKey  = "proxy-authrole"
	ProxyAuthRealmKey = "proxy-authrealm"
)

// ProxyAnonymousAuth lets a front-end proxy override the claimed authid,
// authrole and realm before the wrapped authentication decides.
//
// Nothing here verifies where the overrides come from.  Offer this method
// only on transports that are reachable solely by the trusted proxy,
// otherwise any client can claim any identity.
type ProxyAnonymousAuth struct {
	next Helloer
}

// NewProxyAnonymousAuth creates the anonymous-proxy pending authentication
// for one handshake.
func NewProxyAnonymousAuth(cfg Config, opts Options) (*ProxyAnonymousAuth, error) {
	anon, err := newAnonymousAuth(AnonymousProxyMethod, cfg, opts)
	if err != nil {
		return nil, err
	}
	return WrapProxy(anon), nil
}

// WrapProxy applies the proxy overrides in front of next.
func WrapProxy(next Helloer) *ProxyAnonymousAuth {
	return &ProxyAnonymousAuth{next: next}
}

// AuthMethod returns description of authentication method.
func (p *ProxyAnonymousAuth) AuthMethod() string { return AnonymousProxyMethod }

// Hello applies the overrides found in details.AuthExtra and delegates.
func (p *ProxyAnonymousAuth) Hello(ctx context.Context, realm wamp.URI, details HelloDetails) Decision {
	extra := details.AuthExtra
	if authid := wamp.OptionString(extra, ProxyAuthIDKey); authid != "" {
		details.AuthID = authid
		details.asserted.authID = authid
	}
	if authrole := wamp.OptionString(extra, ProxyAuthRoleKey); authrole != "" {
		details.AuthRole = authrole
		details.asserted.authRole = authrole
	}
	if authrealm := wamp.OptionURI(extra, ProxyAuthRealmKey); authrealm != "" {
		realm = authrealm
	}
	return p.next.Hello(ctx, realm, details)
}
