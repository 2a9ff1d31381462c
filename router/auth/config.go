package auth

import (
	"github.com/go-playground/validator/v10"
	"github.com/wampkit/anonauth/wamp"
)

// Mode selects how the anonymous method issues identities.
type Mode string

const (
	// ModeStatic issues the configured (or a generated) authid with the
	// configured role.
	ModeStatic Mode = "static"
	// ModeDynamic asks an authenticator procedure for the principal.
	ModeDynamic Mode = "dynamic"
)

// Config configures the anonymous and anonymous-proxy methods for a realm.
type Config struct {
	Type Mode `json:"type" yaml:"type" validate:"required,oneof=static dynamic"`
	// AuthID is the authid given to every client.  When empty, each client
	// gets a freshly generated one.
	AuthID string `json:"authid,omitempty" yaml:"authid,omitempty"`
	// Role granted in static mode.  Defaults to "anonymous".
	Role string `json:"role,omitempty" yaml:"role,omitempty"`
	// Authenticator is the procedure called in dynamic mode.
	Authenticator wamp.URI `json:"authenticator,omitempty" yaml:"authenticator,omitempty" validate:"required_if=Type dynamic"`
	// AuthenticatorRealm is the realm the authenticator is called on.
	// Defaults to the realm requested by the client.
	AuthenticatorRealm wamp.URI `json:"authenticator-realm,omitempty" yaml:"authenticator-realm,omitempty"`
}

var validate = validator.New()

// Validate checks that the configuration names a known type and has what
// that type needs.
func (c *Config) Validate() error {
	if c == nil {
		return configError{Err: errNilConfig}
	}
	if err := validate.Struct(c); err != nil {
		return configError{Err: err}
	}
	return nil
}
