// Package errs defines the error taxonomy shared across the integration.
//
// All errors implement the IntegrationError marker interface. Structured
// failures (unknown tool, handler failure, timeout, connection loss, decode
// failure) are typed structs so callers can match them with errors.As;
// simple conditions are sentinel values matched with errors.Is.
package errs
