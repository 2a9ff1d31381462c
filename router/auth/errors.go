package auth

import (
	"errors"
	"fmt"
)

var (
	// ErrHelloAlreadyCalled is the denial message when Hello is called more
	// than once on the same pending authentication.
	ErrHelloAlreadyCalled = errors.New("hello already processed for this authentication")

	errNoAuthenticator = errors.New("no authenticator procedure configured for dynamic authentication")
	errNoCaller        = errors.New("no RPC caller available for dynamic authentication")
	errNilConfig       = errors.New("missing configuration")

	errInvalidPrincipalType   = errors.New("invalid principal type returned by authenticator")
	errInvalidPrincipalAuthID = errors.New("invalid authid type in principal")
	errInvalidPrincipalRealm  = errors.New("invalid realm type in principal")
	errInvalidPrincipalRole   = errors.New("invalid role type in principal")
	errInvalidPrincipalExtra  = errors.New("invalid extra type in principal")
	errNoRoleAssigned         = errors.New("no role assigned")
)

type configError struct {
	Err error
}

func (e configError) Error() string {
	return fmt.Sprintf("invalid authentication configuration: %v", e.Err)
}

func (e configError) Unwrap() error {
	return e.Err
}

// IsConfigError reports whether err is caused by an invalid authentication
// configuration.
func IsConfigError(err error) bool {
	var ce configError
	return errors.As(err, &ce)
}
