/*
Package auth implements the pending authentication of the WAMP-Anonymous
method that the router runs while handling a client HELLO.

A pending authentication is created for one handshake and asked once, through
Hello, to decide on the client.  The decision is either immediate (Accepted or
Denied), or a Pending that resolves exactly once to Accepted or Denied when a
dynamic authenticator procedure answers.

Two methods are provided: "anonymous", which issues a configured or generated
authid (static) or asks an authenticator procedure (dynamic), and
"anonymous-proxy", which first lets a trusted front-end proxy override the
claimed authid, authrole and realm.

*/
package auth

import (
	"context"

	"github.com/wampkit/anonauth/wamp"
)

// Helloer is implemented by a pending authentication that decides using only
// the HELLO message.
type Helloer interface {
	// Hello takes the requested realm and the HELLO details and returns the
	// decision.  It must be called at most once per instance.
	Hello(ctx context.Context, realm wamp.URI, details HelloDetails) Decision
}

// HelloDetails are the authentication related HELLO details sent by the
// client.  It is passed by value so that an override applies only to the
// call it is given to.
type HelloDetails struct {
	AuthID      string
	AuthRole    string
	AuthMethods []string
	// AuthExtra is untrusted client data, except as filtered by the
	// anonymous-proxy method.
	AuthExtra wamp.Dict

	// asserted holds the identity a trusted proxy vouched for.  Only
	// ProxyAnonymousAuth sets it, and only it reaches the session details.
	asserted assertedIdentity
}

type assertedIdentity struct {
	authID   string
	authRole string
}

// HelloDetailsFromDict reads HelloDetails from the details dict of a HELLO
// message.
func HelloDetailsFromDict(details wamp.Dict) HelloDetails {
	hd := HelloDetails{
		AuthID:   wamp.OptionString(details, wamp.OptAuthID),
		AuthRole: wamp.OptionString(details, wamp.OptAuthRole),
	}
	switch methods := details[wamp.OptAuthMethods].(type) {
	case []string:
		hd.AuthMethods = methods
	default:
		if list, ok := wamp.AsList(methods); ok {
			hd.AuthMethods, _ = wamp.ListToStrings(list)
		}
	}
	if extra, ok := wamp.AsDict(details[wamp.OptAuthExtra]); ok {
		hd.AuthExtra = extra
	}
	return hd
}

// Principal is the identity granted to an accepted client.
type Principal struct {
	AuthID string
	Role   string
	// Realm, when set by a dynamic authenticator, moves the session to that
	// realm instead of the requested one.
	Realm wamp.URI
	Extra wamp.Dict
}

// ParsePrincipal reads a principal returned by an authenticator procedure.
// The value is either a dict {authid, role, realm, extra} where only role is
// required, or a string naming the role alone.
func ParsePrincipal(v interface{}) (Principal, error) {
	if role, ok := v.(string); ok {
		return Principal{Role: role}, nil
	}
	dict, ok := wamp.AsDict(v)
	if !ok {
		return Principal{}, errInvalidPrincipalType
	}
	var p Principal
	if val, ok := dict["authid"]; ok && val != nil {
		if p.AuthID, ok = wamp.AsString(val); !ok {
			return Principal{}, errInvalidPrincipalAuthID
		}
	}
	if val, ok := dict["realm"]; ok && val != nil {
		if p.Realm, ok = wamp.AsURI(val); !ok {
			return Principal{}, errInvalidPrincipalRealm
		}
	}
	val, ok := dict["role"]
	if !ok || val == nil {
		return Principal{}, errNoRoleAssigned
	}
	if p.Role, ok = wamp.AsString(val); !ok {
		return Principal{}, errInvalidPrincipalRole
	}
	if val, ok := dict["extra"]; ok && val != nil {
		if p.Extra, ok = wamp.AsDict(val); !ok {
			return Principal{}, errInvalidPrincipalExtra
		}
	}
	return p, nil
}
