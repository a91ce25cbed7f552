// Package client implements the caller role of a session: outbound tool
// calls correlated by request id over one shared channel.
//
// A call validates the tool against the advertisement cached at connect,
// registers a pending entry in the correlation table, sends the request
// frame, and awaits resolution. The single receive loop resolves entries as
// matching responses arrive; late and duplicate responses are dropped. Every
// call eventually returns a result, a structured error, a timeout, or a
// connection-closed failure; it never hangs.
package client
