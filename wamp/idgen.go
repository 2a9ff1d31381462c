package wamp

import "math/rand"

const maxID int64 = 1 << 53

// GlobalID generates a random WAMP ID in the global scope, as used for
// session IDs.
func GlobalID() ID {
	return ID(rand.Int63n(maxID))
}
