package auth

// Method creates the pending authentication of one authentication method for
// each handshake.
type Method interface {
	// AuthMethod returns the authmethod name clients ask for.
	AuthMethod() string

	// NewPending returns a pending authentication for a single HELLO.
	NewPending(opts Options) (Helloer, error)
}

type anonymousMethod struct {
	cfg   Config
	proxy bool
}

// NewAnonymousMethod returns the "anonymous" method for cfg.
func NewAnonymousMethod(cfg Config) (Method, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &anonymousMethod{cfg: cfg}, nil
}

// NewAnonymousProxyMethod returns the "anonymous-proxy" method for cfg.
func NewAnonymousProxyMethod(cfg Config) (Method, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &anonymousMethod{cfg: cfg, proxy: true}, nil
}

func (m *anonymousMethod) AuthMethod() string {
	if m.proxy {
		return AnonymousProxyMethod
	}
	return AnonymousMethod
}

func (m *anonymousMethod) NewPending(opts Options) (Helloer, error) {
	if m.proxy {
		return NewProxyAnonymousAuth(m.cfg, opts)
	}
	return NewAnonymousAuth(m.cfg, opts)
}
