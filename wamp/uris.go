package wamp

// Predefined URIs used while opening a session.
const (
	// A join failed, since the Peer is not authorized to join the realm.
	ErrNotAuthorized = URI("wamp.error.not_authorized")

	// Something failed with the authentication itself, that is,
	// authentication could not run to end.
	ErrAuthenticationFailed = URI("wamp.error.authentication_failed")

	// Peer wanted to join a non-existing realm.
	ErrNoSuchRealm = URI("wamp.error.no_such_realm")

	// A Peer was to be authenticated under a Role that does not (or no
	// longer) exists on the Router.
	ErrNoSuchRole = URI("wamp.error.no_such_role")

	// No authentication method the peer offered is available or active.
	ErrNoAuthMethod = URI("wamp.error.no_auth_method")

	// The authenticator procedure could not be reached.
	ErrNoSuchProcedure = URI("wamp.error.no_such_procedure")

	// Arguments or return values did not have the expected shape.
	ErrInvalidArgument = URI("wamp.error.invalid_argument")

	// The Peer is shutting down completely.
	ErrSystemShutdown = URI("wamp.close.system_shutdown")

	ErrProtocolViolation = URI("wamp.error.protocol_violation")
)
