package auth

import (
	"context"
	"sync"

	"github.com/wampkit/anonauth/wamp"
)

// Decision is the outcome of Hello.  It is one of *Accepted, *Denied or
// *Pending.
type Decision interface {
	isDecision()
}

// Accepted admits the client with the resolved identity.
type Accepted struct {
	Realm        wamp.URI
	AuthID       string
	AuthRole     string
	AuthMethod   string
	AuthProvider string
	AuthExtra    wamp.Dict
	Details      SessionDetails
}

// Denied refuses the client.  Reason is the error URI sent in ABORT and may
// be empty.
type Denied struct {
	Reason  wamp.URI
	Message string
}

func (d *Denied) Error() string {
	if d.Reason == "" {
		return d.Message
	}
	return string(d.Reason) + ": " + d.Message
}

// Pending is a decision that is not yet made.  It resolves exactly once to
// *Accepted or *Denied.
type Pending struct {
	done     chan struct{}
	once     sync.Once
	decision Decision
}

func (*Accepted) isDecision() {}
func (*Denied) isDecision()   {}
func (*Pending) isDecision()  {}

func newPending() *Pending {
	return &Pending{done: make(chan struct{})}
}

// resolve sets the final decision.  Only the first call has any effect.
func (p *Pending) resolve(d Decision) bool {
	resolved := false
	p.once.Do(func() {
		p.decision = d
		close(p.done)
		resolved = true
	})
	return resolved
}

// Done returns a channel that is closed when the decision is made.
func (p *Pending) Done() <-chan struct{} { return p.done }

// Decision returns the final decision, or nil if it is not yet made.
func (p *Pending) Decision() Decision {
	select {
	case <-p.done:
		return p.decision
	default:
	}
	return nil
}

// Wait blocks until the decision is made or ctx is done.  The returned
// decision is always *Accepted or *Denied when err is nil.
func (p *Pending) Wait(ctx context.Context) (Decision, error) {
	select {
	case <-p.done:
		return p.decision, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Resolve waits for d if it is pending, and returns the final decision.
func Resolve(ctx context.Context, d Decision) (Decision, error) {
	if p, ok := d.(*Pending); ok {
		return p.Wait(ctx)
	}
	return d, nil
}
