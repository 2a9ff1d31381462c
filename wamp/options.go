package wamp

// HELLO and WELCOME detail keys.
const (
	OptAuthID       = "authid"
	OptAuthRole     = "authrole"
	OptAuthMethod   = "authmethod"
	OptAuthMethods  = "authmethods"
	OptAuthProvider = "authprovider"
	OptAuthExtra    = "authextra"
	OptMessage      = "message"
	OptRealm        = "realm"
	OptSession      = "session"
	OptTransport    = "transport"
)
