/*
Package wamp holds the WAMP value types used during session establishment:
dictionaries, lists, IDs, URIs, and the HELLO, WELCOME and ABORT messages.

*/
package wamp

// MessageType identifies a handshake message.
type MessageType int

// Message is a generic container for a WAMP handshake message.
type Message interface {
	MessageType() MessageType
}

// Dict is a dictionary as used by WAMP details and authextra.
type Dict map[string]interface{}

// List is a positional argument list.
type List []interface{}

// Message codes for the session opening phase.
const (
	HELLO   MessageType = 1
	WELCOME MessageType = 2
	ABORT   MessageType = 3
)

var mtStrings = map[MessageType]string{
	HELLO:   "HELLO",
	WELCOME: "WELCOME",
	ABORT:   "ABORT",
}

// String returns the message type string.
func (mt MessageType) String() string { return mtStrings[mt] }

// Sent by a Client to initiate opening of a WAMP session in a realm.
//
// [HELLO, Realm|uri, Details|dict]
type Hello struct {
	Realm   URI
	Details Dict
}

func (msg *Hello) MessageType() MessageType { return HELLO }

// Sent by a Router to accept a Client. The WAMP session is now open.
//
// [WELCOME, Session|id, Details|dict]
type Welcome struct {
	ID      ID
	Details Dict
}

func (msg *Welcome) MessageType() MessageType { return WELCOME }

// Sent by a Peer to abort the opening of a WAMP session. No response is
// expected.
//
// [ABORT, Details|dict, Reason|uri]
type Abort struct {
	Details Dict
	Reason  URI
}

func (msg *Abort) MessageType() MessageType { return ABORT }
