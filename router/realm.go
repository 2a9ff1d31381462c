package router

import (
	"github.com/wampkit/anonauth/router/auth"
	"github.com/wampkit/anonauth/wamp"
)

// realm is the authentication view of a realm: the roles that exist on it
// and the authmethods clients can use to join it.
type realm struct {
	uri     wamp.URI
	roles   map[string]struct{}
	methods map[string]auth.Method
}

func newRealm(config *RealmConfig) (*realm, error) {
	r := &realm{
		uri:     config.URI,
		roles:   make(map[string]struct{}, len(config.Roles)),
		methods: map[string]auth.Method{},
	}
	for _, role := range config.Roles {
		r.roles[role] = struct{}{}
	}
	if config.Anonymous != nil {
		m, err := auth.NewAnonymousMethod(*config.Anonymous)
		if err != nil {
			return nil, err
		}
		r.methods[m.AuthMethod()] = m
	}
	if config.AnonymousProxy != nil {
		m, err := auth.NewAnonymousProxyMethod(*config.AnonymousProxy)
		if err != nil {
			return nil, err
		}
		r.methods[m.AuthMethod()] = m
	}
	return r, nil
}

func (r *realm) hasRole(role string) bool {
	_, ok := r.roles[role]
	return ok
}

// getMethod returns the first of the requested authmethods available to
// the attachment.
func (r *realm) getMethod(authmethods []string, trustedProxy bool) auth.Method {
	for _, name := range authmethods {
		if name == auth.AnonymousProxyMethod && !trustedProxy {
			continue
		}
		if m, ok := r.methods[name]; ok {
			return m
		}
	}
	return nil
}
