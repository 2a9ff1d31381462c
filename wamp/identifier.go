package wamp

import "regexp"

// IDs are integers between (inclusive) 0 and 2^53 (9007199254740992)
type ID uint64

// URIs are dot-separated identifiers, where each component *should* only
// contain letters, numbers or underscores.
type URI string

var (
	looseURI  = regexp.MustCompile(`^([^\s\.#]+\.)*([^\s\.#]+)$`)
	strictURI = regexp.MustCompile(`^([0-9a-z_]+\.)*([0-9a-z_]+)$`)
)

// ValidURI returns true if the URI has no empty components.  When strict is
// set, components are limited to lower case letters, digits and underscore.
func (u URI) ValidURI(strict bool) bool {
	if strict {
		return strictURI.MatchString(string(u))
	}
	return looseURI.MatchString(string(u))
}
