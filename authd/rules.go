package main

import (
	"context"
	"fmt"

	"github.com/wampkit/anonauth/client"
	"github.com/wampkit/anonauth/router/auth"
	"github.com/wampkit/anonauth/stdlog"
	"github.com/wampkit/anonauth/wamp"
)

// Rule grants a role to clients joining a realm.  Empty Realm and AuthID
// match anything.
type Rule struct {
	Realm wamp.URI `yaml:"realm"`
	// AuthID matches the authid a trusted proxy asserted.  Rules with an
	// AuthID never match a client that connected directly.
	AuthID string    `yaml:"authid"`
	Role   string    `yaml:"role" validate:"required"`
	Extra  wamp.Dict `yaml:"extra"`
}

func (r *Rule) match(realm wamp.URI, claimed string) bool {
	if r.Realm != "" && r.Realm != realm {
		return false
	}
	if r.AuthID != "" && r.AuthID != claimed {
		return false
	}
	return true
}

// assertedAuthID returns the authid in details if the anonymous-proxy method
// put it there from the proxy's own assertion, or "" otherwise.
func assertedAuthID(details wamp.Dict) string {
	authid := wamp.OptionString(details, wamp.OptAuthID)
	if authid == "" {
		return ""
	}
	extra, _ := wamp.AsDict(details[wamp.OptAuthExtra])
	if wamp.OptionString(extra, auth.ProxyAuthIDKey) != authid {
		return ""
	}
	return authid
}

// authenticator answers dynamic anonymous authentication calls with the
// first matching rule.
type authenticator struct {
	rules []Rule
	log   stdlog.StdLog
	debug bool
}

// Authenticate is the client.InvocationHandler for the authenticator
// procedure.  It is called with (realm, authid, details).
func (a *authenticator) Authenticate(ctx context.Context, args wamp.List, kwargs wamp.Dict) *client.InvokeResult {
	if len(args) < 3 {
		return &client.InvokeResult{
			Err:  wamp.ErrInvalidArgument,
			Args: wamp.List{"expected realm, authid and details"},
		}
	}
	realm, _ := wamp.AsURI(args[0])
	authid, _ := wamp.AsString(args[1])
	details, _ := wamp.AsDict(args[2])
	claimed := assertedAuthID(details)

	for i := range a.rules {
		rule := &a.rules[i]
		if !rule.match(realm, claimed) {
			continue
		}
		if claimed != "" {
			authid = claimed
		}
		if a.debug {
			a.log.Printf("realm %q authid %q matched rule %d, role %q",
				realm, authid, i, rule.Role)
		}
		extra := rule.Extra
		if extra == nil {
			extra = wamp.Dict{}
		}
		return &client.InvokeResult{Args: wamp.List{wamp.Dict{
			"authid": authid,
			"role":   rule.Role,
			"extra":  extra,
		}}}
	}

	a.log.Printf("no rule for realm %q authid %q", realm, claimed)
	return &client.InvokeResult{
		Err:  wamp.ErrNotAuthorized,
		Args: wamp.List{fmt.Sprintf("no rule admits clients to realm %q", realm)},
	}
}
