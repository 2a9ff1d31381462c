/*
Package stdlog provides a minimal logging interface so the router and its
authenticators can use nearly any logging implementation.

*/
package stdlog

// StdLog is a minimal interface implemented by nearly every logging package.
// The router and authenticators use this interface for all logging.
type StdLog interface {
	// Print logs a message.  Arguments are handled in the manner of fmt.Print.
	Print(v ...interface{})

	// Println logs a message.  Arguments are handled in the manner of
	// fmt.Println.
	Println(v ...interface{})

	// Printf logs a message.  Arguments are handled in the manner of
	// fmt.Printf.
	Printf(format string, v ...interface{})
}
