/*
Package client provides callers that reach procedures on the router's RPC
plane.  The router uses them to reach dynamic authenticators.

LocalCaller dispatches to handlers registered in the same process, the way an
embedded callee session would.  NATSCaller sends the call as a NATS request
to a subject named after the procedure URI, and ServeNATS answers such
requests with an InvocationHandler.

*/
package client
