// Package protocol implements the correlation and multiplexing core of the
// integration.
//
// Table is the per-session correlation table: request identifiers map to
// single-assignment pending-response slots, with atomic resolve-and-remove
// so a timeout and a late response can never both complete one request.
//
// Session is the server role over one established channel: it sends the
// tools_list advertisement, then reads frames in arrival order and runs each
// tool request in its own semaphore-bounded goroutine, writing exactly one
// correlated response per request in completion order.
//
// Example usage:
//
//	sess := protocol.NewSession(log, conn, dispatcher, reg.Advertisement(), 16)
//	err := sess.Serve(ctx)
package protocol
