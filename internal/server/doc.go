// Package server wires the registry, dispatcher, and session machinery
// behind one HTTP handler: a WebSocket endpoint for persistent multiplexed
// sessions and a synchronous one-shot tool surface for callers that do not
// want a session.
package server
